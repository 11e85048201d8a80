// Package schedule turns a cron expression and the wall clock into page
// visits.
//
// The pure parts are ComputeNextRun, TimeUntil, SelectNextPage and OnFire.
// Scheduler drives them from a single ticker:
//   - next-run: re-read the expression and derive the next instant
//   - countdown: time left until that instant
//   - fire-check: once the instant has passed, open the least recently
//     opened page and record the visit
package schedule
