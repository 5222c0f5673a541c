package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/underrout/callisto-release/internal/logfields"
	"github.com/underrout/callisto-release/internal/metrics"
)

// BuildObserver receives callbacks around stage execution and the run lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnRunComplete(report *Report)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(_ StageName)                                    {}
func (NoopObserver) OnStageComplete(_ StageName, _ time.Duration, _ StageResult) {}
func (NoopObserver) OnRunComplete(_ *Report)                                     {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(_ StageName) {}
func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
		r.Recorder.IncStageResult(string(stage), metrics.ResultLabel(result))
	}
}

func (r RecorderObserver) OnRunComplete(report *Report) {
	if r.Recorder != nil {
		r.Recorder.ObserveRunDuration(report.Duration())
		r.Recorder.IncRunOutcome(string(report.Outcome))
		r.Recorder.SetReleaseInfo(report.Version)
	}
}

// LogObserver logs stage boundaries with slog.
type LogObserver struct{ RunID string }

func (l LogObserver) OnStageStart(stage StageName) {
	slog.Info("Stage started", logfields.RunID(l.RunID), logfields.Stage(string(stage)))
}

func (l LogObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	level := slog.LevelInfo
	if result != StageResultSuccess {
		level = slog.LevelError
	}
	slog.Log(context.Background(), level, "Stage finished",
		logfields.RunID(l.RunID), logfields.Stage(string(stage)),
		slog.String("result", string(result)), logfields.DurationMS(float64(d.Milliseconds())))
}

func (l LogObserver) OnRunComplete(report *Report) {
	slog.Info("Release run finished", logfields.RunID(report.RunID), logfields.Version(report.Version),
		slog.String("outcome", string(report.Outcome)), logfields.DurationMS(float64(report.Duration().Milliseconds())))
}

// observers fans callbacks out to several observers in order.
type observers []BuildObserver

func (o observers) OnStageStart(stage StageName) {
	for _, ob := range o {
		ob.OnStageStart(stage)
	}
}

func (o observers) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	for _, ob := range o {
		ob.OnStageComplete(stage, d, result)
	}
}

func (o observers) OnRunComplete(report *Report) {
	for _, ob := range o {
		ob.OnRunComplete(report)
	}
}
