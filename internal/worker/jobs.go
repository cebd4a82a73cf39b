package worker

import (
	"context"

	"github.com/vytor/nclexnav/internal/logger"
	"github.com/vytor/nclexnav/internal/practice"
)

// ResultRecorder persists the outcome of a practice test.
// It lives here so the worker package does not import services.
type ResultRecorder interface {
	RecordResult(ctx context.Context, profileID int64, res practice.Results) error
}

// RecordResultJob writes one finished or abandoned attempt to test history.
type RecordResultJob struct {
	Recorder  ResultRecorder
	ProfileID int64
	Results   practice.Results
}

func (j *RecordResultJob) Name() string { return "record_result" }

func (j *RecordResultJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"profile_id": j.ProfileID,
		"attempt_id": j.Results.AttemptID,
	})
	log.Debug("recording %s attempt", j.Results.Status)
	return j.Recorder.RecordResult(logger.NewContext(ctx, log), j.ProfileID, j.Results)
}
