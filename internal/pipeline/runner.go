package pipeline

import (
	"context"
	stderrors "errors"
	"time"
)

// RunStages executes stages in order, recording timing and stopping on the first failure.
// Stages after a failure are recorded as skipped.
func RunStages(ctx context.Context, rs *RunState, stages []StageDef, observer BuildObserver, report *Report) error {
	if observer == nil {
		observer = NoopObserver{}
	}
	for i, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			report.record(st, StageResultCanceled, 0, se)
			observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			skipRemaining(report, stages[i+1:])
			return se
		default:
		}

		observer.OnStageStart(st.Name)
		t0 := time.Now()
		err := st.Fn(ctx, rs)
		dur := time.Since(t0)

		if err == nil {
			report.record(st, StageResultSuccess, dur, nil)
			observer.OnStageComplete(st.Name, dur, StageResultSuccess)
			continue
		}

		se := classifyStageError(ctx, st.Name, err)
		result := StageResultFatal
		if se.Kind == StageErrorCanceled {
			result = StageResultCanceled
		}
		report.record(st, result, dur, se.Err)
		observer.OnStageComplete(st.Name, dur, result)
		skipRemaining(report, stages[i+1:])
		return se
	}
	return nil
}

func skipRemaining(report *Report, rest []StageDef) {
	for _, st := range rest {
		report.record(st, StageResultSkipped, 0, nil)
	}
}

func asStageError(err error) *StageError {
	var se *StageError
	if stderrors.As(err, &se) {
		return se
	}
	return nil
}
