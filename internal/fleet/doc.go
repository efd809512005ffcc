// Package fleet runs the daily workflow across every stored account.
//
// A run lists the accounts, hands one task per account to a bounded worker
// pool, waits for all of them and then writes a RunSummary computed from the
// accounts as they are stored after the run.
package fleet
