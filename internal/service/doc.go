// Package service contains the fleet's use cases: claiming the daily quest,
// submitting network tests, processing one account per day and provisioning
// new accounts.
//
// Services receive their collaborators through constructor injection and
// depend only on the small interfaces declared in ports.go. Upstream failures
// are recorded on the account as outcome strings; only store failures are
// returned as errors.
package service
