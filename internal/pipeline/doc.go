// Package pipeline runs scan sessions through a sequence of steps.
//
// A session for one target passes through three stages: collecting a
// storage snapshot from the browser, analyzing it, and saving the analysis
// to the history store. Each stage is a Step that receives the session and
// fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. Commands add or drop steps (scan --no-save skips persistence)
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// The BatchProcessor scans several targets concurrently with a limit,
// using errgroup.
package pipeline
