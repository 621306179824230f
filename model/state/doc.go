// Package state defines the document shared between the agent and the remote
// UI.  The document is the single source of truth for the human-in-the-loop
// approval workflow: proposed actions, the user's approve/reject decisions and
// the results of simulated execution.
//
// A document is never shared across requests – every incoming run
// reconstructs its own copy from the client supplied payload (see
// service/reconciler), therefore no locking is required at this level.
package state
