package jobs

import (
	"github.com/vytor/nclexnav/internal/practice"
	"github.com/vytor/nclexnav/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	resultPool *worker.Pool
	recorder   worker.ResultRecorder
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(resultPool *worker.Pool, recorder worker.ResultRecorder) *WorkerQueue {
	return &WorkerQueue{
		resultPool: resultPool,
		recorder:   recorder,
	}
}

// SetRecorder late-binds the recorder, which is usually a service built
// after the queue it depends on.
func (q *WorkerQueue) SetRecorder(r worker.ResultRecorder) {
	q.recorder = r
}

func (q *WorkerQueue) EnqueueResult(profileID int64, res practice.Results) error {
	return q.resultPool.Submit(&worker.RecordResultJob{
		Recorder:  q.recorder,
		ProfileID: profileID,
		Results:   res,
	})
}
