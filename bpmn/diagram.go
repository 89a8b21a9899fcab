package bpmn

// NoIndex marks an optional local-index field as absent (no default flow,
// no bound callback, no attached activity).
const NoIndex = -1

// EventData holds the fields specific to an Event node.
type EventData struct {
	Kind       EventKind
	Symbol     Symbol
	HasSymbol  bool
	AttachedTo int // local index of the activity this boundary event watches; NoIndex otherwise
}

// ActivityData holds the fields specific to an Activity node.
type ActivityData struct {
	Kind          ActivityKind
	Task          TaskKind
	CallbackIndex int // index into Program callbacks; NoIndex until Install binds it
	Body          int // index into Diagram.Bodies for a SubProcess; NoIndex for a Task
}

// GatewayData holds the fields specific to a Gateway node.
type GatewayData struct {
	Kind          GatewayKind
	Default       int // local index of the default outgoing SequenceFlow; NoIndex if none
	CallbackIndex int // NoIndex for converging gateways and for gateways with a single outgoing flow
	Incoming      int // static count of sequence flows targeting this gateway, used by Parallel joins
}

// FlowData holds the fields specific to a SequenceFlow node.
type FlowData struct {
	Target int // local index of the node this flow leads to
}

// Node is one element of a process body's arena. Exactly one of Event,
// Activity, Gateway or Flow is populated, selected by Kind; this keeps the
// arena a flat, contiguous slice addressable by small-integer index instead
// of a graph of owned pointers.
type Node struct {
	Kind NodeKind
	ID   string
	Name string

	// Outputs holds the local indices of outgoing SequenceFlow nodes, for
	// Event, Activity and Gateway nodes. A SequenceFlow node has none; its
	// single successor lives in Flow.Target.
	Outputs []int

	Event    *EventData
	Activity *ActivityData
	Gateway  *GatewayData
	Flow     *FlowData
}

// NameOrID returns the node's display name, falling back to its BPMN id.
func (n *Node) NameOrID() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// ProcessBody is one process or subprocess's ordered arena of nodes. Start
// is always 0: the reader and builder normalize every body so the single
// unsymboled start event occupies the first slot.
type ProcessBody struct {
	ID    string
	Name  string
	Nodes []Node
	Start int

	// Boundaries maps an activity's local index to the local indices of
	// boundary events attached to it. Both the activity and its boundary
	// events are siblings in this same body, so the table never needs to
	// cross body boundaries.
	Boundaries map[int][]int

	// CatchLinks maps a link-event name to the local index of the
	// IntermediateCatchEvent in this body carrying that name. Link events
	// only ever connect within a single process body.
	CatchLinks map[string]int
}

func newProcessBody(id, name string) *ProcessBody {
	return &ProcessBody{
		ID:         id,
		Name:       name,
		Boundaries: make(map[int][]int),
		CatchLinks: make(map[string]int),
	}
}

// Definitions is the top-level BPMN definitions element: an id plus the set
// of process bodies that are top-level processes rather than subprocesses
// nested under an activity.
type Definitions struct {
	ID                string
	TopLevelProcesses []int
}

// Diagram is the fully resolved, validated model produced by a Builder (or
// by bpmnxml.Read). All cross-references are local-integer indices; nothing
// in a Diagram is addressed by string id at execution time. Diagram is
// treated as immutable once Install has bound callbacks to it.
type Diagram struct {
	Definitions Definitions
	Bodies      []ProcessBody
}

// Body returns the process body at index i.
func (d *Diagram) Body(i int) *ProcessBody {
	return &d.Bodies[i]
}

// FindBodyByID returns the index of the body with the given BPMN process
// id, or NoIndex if none matches. The engine does not call it: a SubProcess
// activity reaches its child body through ActivityData.Body.
func (d *Diagram) FindBodyByID(id string) int {
	for i := range d.Bodies {
		if d.Bodies[i].ID == id {
			return i
		}
	}
	return NoIndex
}
