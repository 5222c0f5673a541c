package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/underrout/callisto-release/internal/foundation/errors"
)

// Stage is a discrete unit of work in a release run.
type Stage func(ctx context.Context, rs *RunState) error

// StageName is a strongly-typed identifier for a build stage.
type StageName string

// Canonical stage names. Matrix stages qualify them with Qualify.
const (
	StageVersionGate     StageName = "version_gate"
	StagePreparePackage  StageName = "prepare_package"
	StageSyncDependency  StageName = "sync_dependency"
	StageBuildDependency StageName = "build_dependency"
	StageBuildProduct    StageName = "build_product"
	StageSyncDocs        StageName = "sync_docs"
	StageGenerateDocs    StageName = "generate_docs"
	StageArchive         StageName = "archive"
)

// Qualify names one instance of a repeated stage, e.g. sync_dependency[asar@c-v1.81-2].
func Qualify(base StageName, detail string) StageName {
	return StageName(fmt.Sprintf("%s[%s]", base, detail))
}

// StageErrorKind classifies the outcome of a stage.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError is a structured error carrying the failed stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// NewFatalStageError creates a new fatal stage error.
func NewFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func NewCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// classifyStageError wraps err for stage. Cancellation is recognized from the context or from
// a canceled classification anywhere in the chain.
func classifyStageError(ctx context.Context, stage StageName, err error) *StageError {
	var se *StageError
	if stderrors.As(err, &se) {
		return se
	}
	if ctx.Err() != nil || errors.HasCategory(err, errors.CategoryCanceled) ||
		stderrors.Is(err, context.Canceled) {
		return NewCanceledStageError(stage, err)
	}
	return NewFatalStageError(stage, err)
}

// StageResult captures the high-level outcome of a stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
	StageResultSkipped  StageResult = "skipped"
)

// StageDef pairs a stage name with its executing function. Detail is a one-line description
// shown by the plan command.
type StageDef struct {
	Name   StageName
	Kind   StageName
	Detail string
	Fn     Stage
}

// Stages is a fluent builder for ordered stage definitions.
type Stages struct{ Defs []StageDef }

// NewStages creates an empty stage list.
func NewStages() *Stages { return &Stages{Defs: make([]StageDef, 0, 16)} }

// Add appends a stage unconditionally.
func (s *Stages) Add(def StageDef) *Stages {
	if def.Kind == "" {
		def.Kind = def.Name
	}
	s.Defs = append(s.Defs, def)
	return s
}

// Build returns a copy of the stage definitions slice.
func (s *Stages) Build() []StageDef {
	out := make([]StageDef, len(s.Defs))
	copy(out, s.Defs)
	return out
}
