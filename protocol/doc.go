// Package protocol defines the AG-UI wire model used between the agent
// backend and the remote UI: the discrete event stream emitted while a run
// executes, the incoming run payload and its server-sent-events encoding.
//
// Only the subset of the AG-UI event vocabulary produced by this backend is
// modelled; unknown incoming fields are preserved or ignored rather than
// rejected.
package protocol
