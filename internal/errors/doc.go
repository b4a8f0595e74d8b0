// Package errors provides structured errors for the adventure service.
//
// Every error carries a Code, a user-facing Message, an optional Cause and
// free-form metadata. Codes map one-to-one onto gRPC status codes so that an
// error raised deep in the engine reaches the client with the same meaning.
//
// # Basic Usage
//
//	err := errors.NotFound("session not found").WithMeta("session_id", id)
//
//	if err := repo.Get(ctx, input); err != nil {
//	    return nil, errors.Wrap(err, "failed to load session")
//	}
//
// Wrap preserves the code of an existing *Error, so a NOT_FOUND from the
// repository is still NOT_FOUND after the orchestrator adds context.
//
// # Session State
//
// Actions on a session that has already ended fail with InvalidSessionState.
// On the wire it is a FAILED_PRECONDITION whose metadata carries
// reason=invalid_session_state; IsInvalidSessionState recognises it on both
// sides of a gRPC call.
//
// # gRPC Integration
//
//	resp, err := h.service.Explore(ctx, input)
//	if err != nil {
//	    return nil, errors.ToGRPCError(err)
//	}
//
// FromGRPCError reverses the conversion on the client side, restoring code,
// message and metadata.
package errors
