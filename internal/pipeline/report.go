package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/underrout/callisto-release/internal/release"
)

// RunOutcome is the final state of a release run.
type RunOutcome string

const (
	OutcomeSuccess  RunOutcome = "success"
	OutcomeFailed   RunOutcome = "failed"
	OutcomeCanceled RunOutcome = "canceled"
)

// StageRecord is the outcome of one executed (or skipped) stage.
type StageRecord struct {
	Name     StageName
	Kind     StageName
	Result   StageResult
	Duration time.Duration
	Error    string
}

// Report captures what a release run did.
type Report struct {
	RunID       string
	Version     string
	PackageRoot string
	ArchivePath string
	Start       time.Time
	End         time.Time
	Outcome     RunOutcome
	Stages      []StageRecord
	// FailedStage is empty unless the run aborted.
	FailedStage StageName
	Err         error
}

// NewReport starts a report with a fresh run id.
func NewReport(v release.Version) *Report {
	return &Report{RunID: uuid.NewString(), Version: v.String(), Start: time.Now()}
}

func (r *Report) record(def StageDef, result StageResult, d time.Duration, err error) {
	rec := StageRecord{Name: def.Name, Kind: def.Kind, Result: result, Duration: d}
	if err != nil {
		rec.Error = err.Error()
	}
	r.Stages = append(r.Stages, rec)
}

// Finish stamps the end time and derives the outcome from err.
func (r *Report) Finish(err error) {
	r.End = time.Now()
	r.Err = err
	switch se := asStageError(err); {
	case err == nil:
		r.Outcome = OutcomeSuccess
	case se != nil && se.Kind == StageErrorCanceled:
		r.Outcome = OutcomeCanceled
		r.FailedStage = se.Stage
	case se != nil:
		r.Outcome = OutcomeFailed
		r.FailedStage = se.Stage
	default:
		r.Outcome = OutcomeFailed
	}
}

// Duration is the wall time of the run (so far, if unfinished).
func (r *Report) Duration() time.Duration {
	if r.End.IsZero() {
		return time.Since(r.Start)
	}
	return r.End.Sub(r.Start)
}

// StageResults returns the result per executed stage name.
func (r *Report) StageResults() map[StageName]StageResult {
	out := make(map[StageName]StageResult, len(r.Stages))
	for _, s := range r.Stages {
		out[s.Name] = s.Result
	}
	return out
}

// Ran reports whether a stage of the given kind was executed (with any result).
func (r *Report) Ran(kind StageName) bool {
	for _, s := range r.Stages {
		if s.Kind == kind && s.Result != StageResultSkipped {
			return true
		}
	}
	return false
}

// WriteSummary prints a human-readable summary of the run.
func (r *Report) WriteSummary(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Release %s: %s in %s (run %s)\n", r.Version, r.Outcome, r.Duration().Round(time.Millisecond), r.RunID)
	width := 0
	for _, s := range r.Stages {
		width = max(width, len(s.Name))
	}
	for _, s := range r.Stages {
		fmt.Fprintf(&b, "  %-*s  %-8s  %s\n", width, s.Name, s.Result, s.Duration.Round(time.Millisecond))
	}
	if r.Outcome == OutcomeSuccess && r.ArchivePath != "" {
		fmt.Fprintf(&b, "Archive: %s\n", r.ArchivePath)
	}
	if r.Outcome != OutcomeSuccess && r.PackageRoot != "" {
		fmt.Fprintf(&b, "Partial package left at %s\n", r.PackageRoot)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
