package domain

// ProcessResult is what a single account's orchestration did.
type ProcessResult string

// Possible process results
const (
	// ProcessSkipped means the account was already completed today.
	ProcessSkipped ProcessResult = "skipped"
	// ProcessCompleted means both workflows ran and the marker was written.
	ProcessCompleted ProcessResult = "completed"
)
