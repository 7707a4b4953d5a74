package constants

// JobStatus is the canonical status for per-file rows in the batch history store.
type JobStatus string

// Stable values (store these exact strings in the DB).
const (
	JobStatusQueued  JobStatus = "QUEUED"  // discovered, not yet processed
	JobStatusRunning JobStatus = "RUNNING" // in progress
	JobStatusTextOK  JobStatus = "TEXT_OK" // stage 1 completed (text extracted)
	JobStatusDone    JobStatus = "DONE"    // fields extracted and matched against ledger
	JobStatusFailed  JobStatus = "FAILED"  // terminal failure
)
