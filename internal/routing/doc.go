// Package routing coordinates modal form presentation between business flows
// and a host UI.
//
// A flow asks a FormRouter to present a form mode and waits for its Outcome;
// the host watches the router, renders whatever Presented reports, and feeds
// the user's result back through Resolve. Outcomes are a closed vocabulary —
// succeeded, cancelled, failed — so every form flow in the application reports
// completion the same way.
//
// Two calling styles share one router. Present blocks the calling goroutine
// until the form is resolved, which makes multi-step flows read top to
// bottom:
//
//	out := owners.Present(ctx, OwnerFormMode{Kind: FormCreate})
//	if !out.IsSuccess() {
//	    return // cancelled or failed
//	}
//	owner, _ := out.Value()
//	// ... present the next form for owner ...
//
// PresentAsync registers a callback instead and returns immediately, for
// hosts that live inside an event loop and cannot block.
//
// One presentation is active per router at a time. Presenting over an active
// form cancels it first — the displaced waiter receives Cancelled — so a
// caller can never be left suspended by a newer request. The same guarantee
// holds at teardown: CancelActive resumes any pending waiter with Cancelled
// and must be called before a router is discarded mid-presentation.
//
// The router also carries the feature's navigation path (Navigate,
// DismissCurrent, GoToRoot), which is ordinary stack bookkeeping independent
// of form state.
package routing
