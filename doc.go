// Package agui provides a human-in-the-loop agent backend speaking the AG-UI
// protocol.
//
// The backend keeps no approval state between turns: each request carries the
// shared state document, the agent proposes sensitive actions into it and the
// remote UI records approve/reject decisions before the next turn executes
// them.  Runs stream protocol events (RUN_STARTED, TEXT_MESSAGE_*,
// TOOL_CALL_*, STATE_SNAPSHOT, RUN_FINISHED) over SSE.
//
// End-users typically interact via the root Service facade:
//
//	svc, _ := agui.New(ctx, agui.WithConfig(config))
//	_ = svc.ListenAndServe(ctx)
//
// or embed svc.Handler() into an existing HTTP server.  Tooling is
// extensible: register additional types.Service implementations with
// WithExtensionServices and their methods become callable model tools.
package agui
