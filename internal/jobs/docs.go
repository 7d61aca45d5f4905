// Package jobs runs the reconciliation sweeps on cron schedules
// (github.com/robfig/cron/v3, with seconds).
//
// # Available Jobs
//
// 1. OrderExpiryJob - cancels PendingPayment orders older than the payment grace (default 15m), every minute by default
// 2. DeliveryCompletionJob - completes InDelivery orders older than the delivery grace (default 1h), hourly by default
//
// # Usage
//
//	jobManager := jobs.NewJobManager(sweepHandler, jobs.Schedules{}, m, logger)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Overlap
//
// A pass still running at the next tick makes cron skip that tick. Passes
// that do overlap, across replicas for instance, are still safe: every write
// is a conditional status update, so each order moves at most once.
//
// # Error Handling
//
// - Per-order failures are counted and logged by the sweep handler
// - A failed candidate query is logged here and counted as an error run
// - Failed job starts will stop any already running jobs
package jobs
