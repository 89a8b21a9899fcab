// Package redis provides Redis-backed persistence for completed bpmn
// process runs, for a low-latency sink where Options.TTL lets recorded
// runs expire instead of accumulating forever.
package redis
