// Package pipeline runs a release as an ordered list of named stages.
//
// Stages run strictly one after another and the first failure aborts the run. Nothing already
// written is rolled back: a failed run leaves the partial package tree for inspection. Every
// stage error is wrapped in a StageError naming the stage, and matrix stages carry the cell
// in their name, e.g. build_dependency[asar@c-v1.91-2/Win32].
package pipeline
