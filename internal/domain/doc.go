// Package domain contains the entities of the fleet: accounts, the outcome
// vocabulary written by the quest and network test workflows, and the run
// summary. It has no dependencies on storage or transport.
package domain
