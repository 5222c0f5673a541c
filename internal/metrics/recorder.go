package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for a release run.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveRunDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncRunOutcome(outcome string) // outcome: success|failed|canceled
	ObserveRepoSyncDuration(repo string, d time.Duration, success bool)
	ObserveCompileDuration(target string, d time.Duration, success bool)
	SetReleaseInfo(version string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration)          {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                    {}
func (NoopRecorder) IncStageResult(string, ResultLabel)                  {}
func (NoopRecorder) IncRunOutcome(string)                                {}
func (NoopRecorder) ObserveRepoSyncDuration(string, time.Duration, bool) {}
func (NoopRecorder) ObserveCompileDuration(string, time.Duration, bool)  {}
func (NoopRecorder) SetReleaseInfo(string)                               {}
