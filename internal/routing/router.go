package routing

import (
	"context"
	"sync"
)

// Route identifies a destination on the navigation path. Hosts define their
// own concrete route types and switch on them when rendering, the same way a
// bubbletea program switches on tea.Msg.
type Route any

// FormRouting is the caller-facing contract of a form router: ask for a modal
// form and receive its outcome, either by blocking or through a callback.
// Flows that only drive forms should depend on this interface rather than on
// *FormRouter.
type FormRouting[M comparable, T any] interface {
	Present(ctx context.Context, mode M) Outcome[T]
	PresentAsync(mode M, onResult func(Outcome[T]))
	Resolve(outcome Outcome[T])
	Presented() (M, bool)
	CancelActive()
}

// FormRouter coordinates at most one modal form presentation at a time, plus
// an independent navigation path. A single mutex owns all state, so every
// method is safe to call from any goroutine; a suspended Present call resumes
// through a buffered reply channel, which keeps the handoff race-free without
// pinning callers to a particular goroutine.
//
// A router lives for one feature session. If it is dropped while a
// presentation is pending, the suspended caller is leaked; call CancelActive
// first (tests assert this).
type FormRouter[M comparable, T any] struct {
	mu        sync.Mutex
	presented *M
	pending   *waiter[T]
	path      []Route
	changed   chan struct{}
}

// NewFormRouter returns an idle router.
func NewFormRouter[M comparable, T any]() *FormRouter[M, T] {
	return &FormRouter[M, T]{changed: make(chan struct{}, 1)}
}

var _ FormRouting[int, any] = (*FormRouter[int, any])(nil)

// Present shows mode and blocks until the host resolves it, ctx ends, or a
// later presentation displaces this one. Presenting while another form is
// active resolves that form's waiter with Cancelled before the new one is
// registered, so no caller is ever left suspended. If ctx ends after the
// outcome was already delivered, the outcome wins and is returned.
//
// Do not call Present from the goroutine that drives the host UI loop — that
// is the goroutine expected to call Resolve. Run it from a command goroutine
// (in bubbletea terms, inside a tea.Cmd).
func (r *FormRouter[M, T]) Present(ctx context.Context, mode M) Outcome[T] {
	w := newBlockingWaiter[T]()
	r.begin(mode, w)
	select {
	case out := <-w.reply:
		return out
	case <-ctx.Done():
		return r.abandon(w)
	}
}

// PresentAsync shows mode and returns immediately. onResult is invoked
// exactly once with the outcome, on the goroutine that resolves the form and
// never while the router lock is held, so it may start another presentation.
// A nil onResult is fire-and-forget: the form shows, nobody awaits it.
func (r *FormRouter[M, T]) PresentAsync(mode M, onResult func(Outcome[T])) {
	var w *waiter[T]
	if onResult != nil {
		w = newCallbackWaiter(onResult)
	}
	r.begin(mode, w)
}

// Resolve completes the active presentation: the suspended caller resumes (or
// the callback fires) exactly once with outcome, and the router returns to
// idle. Only the first Resolve of a cycle delivers; a later call finds no
// waiter and merely makes sure no stale mode is left showing, which also
// covers fire-and-forget presentations. Safe to call from any goroutine.
func (r *FormRouter[M, T]) Resolve(outcome Outcome[T]) {
	r.mu.Lock()
	deliver := r.pending.consume(outcome)
	r.pending = nil
	r.presented = nil
	r.mu.Unlock()
	r.signal()
	if deliver != nil {
		deliver()
	}
}

// Presented returns the mode the host should currently be rendering, if any.
func (r *FormRouter[M, T]) Presented() (M, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.presented == nil {
		var zero M
		return zero, false
	}
	return *r.presented, true
}

// CancelActive force-cancels any active presentation, resuming its waiter
// with Cancelled. Call it before discarding a router so a suspended caller is
// never leaked. On an idle router it does nothing.
func (r *FormRouter[M, T]) CancelActive() {
	r.Resolve(Cancelled[T]())
}

// Navigate pushes route onto the navigation path. Navigation is independent
// of form presentation. A nil route is ignored.
func (r *FormRouter[M, T]) Navigate(route Route) {
	if route == nil {
		return
	}
	r.mu.Lock()
	r.path = append(r.path, route)
	r.mu.Unlock()
	r.signal()
}

// DismissCurrent pops the top route. Popping an empty path is a no-op, not an
// error.
func (r *FormRouter[M, T]) DismissCurrent() {
	r.mu.Lock()
	if n := len(r.path); n > 0 {
		r.path = r.path[:n-1]
	}
	r.mu.Unlock()
	r.signal()
}

// GoToRoot clears the navigation path.
func (r *FormRouter[M, T]) GoToRoot() {
	r.mu.Lock()
	r.path = nil
	r.mu.Unlock()
	r.signal()
}

// Top returns the route currently on top of the path, if any.
func (r *FormRouter[M, T]) Top() (Route, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.path) == 0 {
		return nil, false
	}
	return r.path[len(r.path)-1], true
}

// Path returns a copy of the navigation path, root first.
func (r *FormRouter[M, T]) Path() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Route, len(r.path))
	copy(out, r.path)
	return out
}

// PathLen returns the depth of the navigation path.
func (r *FormRouter[M, T]) PathLen() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.path)
}

// Changed delivers a tick after every state transition: presentation,
// resolution, and navigation changes. Ticks coalesce (the channel holds at
// most one), so treat a receive as "re-read Presented and Path", not as a
// count of transitions.
func (r *FormRouter[M, T]) Changed() <-chan struct{} {
	return r.changed
}

// begin cancels whatever is presenting and installs the new presentation.
// The displaced waiter is consumed (its cancelled outcome is already in its
// reply buffer) before the new waiter is registered; displaced callbacks run
// after the lock is released.
func (r *FormRouter[M, T]) begin(mode M, w *waiter[T]) {
	r.mu.Lock()
	deliver := r.pending.consume(Cancelled[T]())
	m := mode
	r.presented = &m
	r.pending = w
	r.mu.Unlock()
	r.signal()
	if deliver != nil {
		deliver()
	}
}

// abandon gives up on a suspended presentation whose context ended. If the
// outcome raced in first it is honored; otherwise the presentation is torn
// down and Cancelled returned. The waiter cannot have been displaced here
// without also having been consumed, so an unconsumed waiter is still the
// registered one.
func (r *FormRouter[M, T]) abandon(w *waiter[T]) Outcome[T] {
	r.mu.Lock()
	if w.consumed {
		r.mu.Unlock()
		return <-w.reply
	}
	w.consumed = true
	r.pending = nil
	r.presented = nil
	r.mu.Unlock()
	r.signal()
	return Cancelled[T]()
}

// signal wakes the host watcher without ever blocking; a tick already in the
// buffer stands for all the transitions since the last read.
func (r *FormRouter[M, T]) signal() {
	select {
	case r.changed <- struct{}{}:
	default:
	}
}
