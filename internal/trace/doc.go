// Package trace records driver activity as spans and point events.
//
// A tracer travels through the pipeline on the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeStep, "link:app", parentID)
//	defer span.End("")
//
// Levels gate scopes: LevelPhase shows driver commands, LevelDetail adds
// toolchain construction (GCC detection, file probing) and LevelDebug adds
// every planned link step.
//
// Tracers:
//
//   - Nop: disabled tracing, no allocation
//   - StreamTracer: writes each event as it happens (text or NDJSON)
//   - RingTracer: keeps the last N events for a post-mortem dump
//   - MultiTracer: fans out to several tracers
package trace
