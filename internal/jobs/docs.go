// Package jobs provides scheduled background tasks for the order fulfillment service.
//
// Jobs are built on github.com/robfig/cron/v3.
//
// # Available Jobs
//
// OutboxPublisherJob drains the order outbox every OUTBOX_INTERVAL (five minutes by
// default). Events that were not handed to the transport right after their commit, or
// whose handoff failed, are published and removed here.
//
// # Usage
//
//	job, err := jobs.NewOutboxPublisherJob(publishHandler, 5*time.Minute, 10, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
//   - A failed drain is logged at ERROR and retried on the next tick; it never stops the process
//   - A drain still running when the next tick fires makes that tick a no-op
//   - Stop cancels the drain in flight and waits for it
//   - Failed job starts stop the jobs already running
package jobs
