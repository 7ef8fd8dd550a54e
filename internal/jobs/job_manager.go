package jobs

import (
	"fmt"
)

// Job is a background task with an explicit lifecycle.
type Job interface {
	Start() error
	Stop()
}

type namedJob struct {
	name string
	job  Job
}

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	jobs    []namedJob
	started []namedJob
}

// NewJobManager creates a job manager running the outbox publisher.
func NewJobManager(outboxPublisherJob *OutboxPublisherJob) *JobManager {
	jm := &JobManager{}
	jm.Register("outbox publisher", outboxPublisherJob)
	return jm
}

// Register adds a job; it is started by the next StartAll.
func (jm *JobManager) Register(name string, job Job) {
	jm.jobs = append(jm.jobs, namedJob{name: name, job: job})
}

// StartAll starts all scheduled jobs in registration order.
// If one fails, the jobs already started are stopped again.
func (jm *JobManager) StartAll() error {
	for _, j := range jm.jobs {
		if err := j.job.Start(); err != nil {
			jm.StopAll()
			return fmt.Errorf("failed to start %s job: %w", j.name, err)
		}
		jm.started = append(jm.started, j)
	}

	return nil
}

// StopAll stops started jobs in reverse order and waits for each of them.
func (jm *JobManager) StopAll() {
	for i := len(jm.started) - 1; i >= 0; i-- {
		jm.started[i].job.Stop()
	}
	jm.started = nil
}
