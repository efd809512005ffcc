// Package events decouples the services that change fleet state from the
// background work those changes trigger.
//
// Services emit an Event through an EventEmitter. Handlers registered on the
// Dispatcher receive every event synchronously and pick the types
// they care about; the task package turns account.added events into
// background network tests.
package events
