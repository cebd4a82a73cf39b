package jobs

import "github.com/vytor/nclexnav/internal/practice"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueResult(profileID int64, res practice.Results) error
}
