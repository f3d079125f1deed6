// Package report computes project performance summaries.
//
// The engine is a pure function of a loaded snapshot and a single clock
// reading. Projects are summarised concurrently on a bounded pool and the
// results are returned sorted by project name, so the output does not
// depend on scheduling.
package report
