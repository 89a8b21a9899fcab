package bpmnscaffold

import (
	"fmt"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"

	"github.com/smallnest/bpmnflow/bpmn"
)

// GenerateMarkdown renders a report listing every task and diverging
// gateway a diagram needs bound, for a reviewer who hasn't read the raw
// BPMN XML.
func GenerateMarkdown(d *bpmn.Diagram) string {
	tasks, gateways := Collect(d)

	var sb strings.Builder
	sb.WriteString("# Process implementation checklist\n\n")

	sb.WriteString("## Tasks\n\n")
	if len(tasks) == 0 {
		sb.WriteString("_none_\n\n")
	}
	for _, t := range tasks {
		fmt.Fprintf(&sb, "- **%s**", t.nameOrID)
		if len(t.symbols) > 0 {
			fmt.Fprintf(&sb, " — boundary symbols: %s", strings.Join(t.symbols, ", "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n## Gateways\n\n")
	if len(gateways) == 0 {
		sb.WriteString("_none_\n\n")
	}
	for _, g := range gateways {
		fmt.Fprintf(&sb, "- **%s** (%s) — flows: %s\n", g.nameOrID, g.kind, strings.Join(g.flows, ", "))
	}

	return sb.String()
}

// GenerateHTML renders the same checklist as sanitized HTML, suitable
// for embedding in a status page without re-validating untrusted input
// that may have flowed in through BPMN element names.
func GenerateHTML(d *bpmn.Diagram) string {
	md := GenerateMarkdown(d)

	extensions := parser.CommonExtensions
	p := parser.NewWithExtensions(extensions)

	opts := html.RendererOptions{Flags: html.CommonFlags}
	renderer := html.NewRenderer(opts)

	rendered := markdown.ToHTML([]byte(md), p, renderer)
	return string(bluemonday.UGCPolicy().SanitizeBytes(rendered))
}
