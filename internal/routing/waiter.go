package routing

// A waiter is the one-shot handle for whoever asked for a form: either a
// suspended Present call (reply channel) or a PresentAsync callback. A waiter
// is consumed at most once; the router's mutex guards the consumed flag, so a
// late or duplicate resolution finds the flag set and does nothing.
type waiter[T any] struct {
	reply    chan Outcome[T]  // blocking caller; buffered with capacity 1
	callback func(Outcome[T]) // async caller with result interest
	consumed bool
}

func newBlockingWaiter[T any]() *waiter[T] {
	return &waiter[T]{reply: make(chan Outcome[T], 1)}
}

func newCallbackWaiter[T any](fn func(Outcome[T])) *waiter[T] {
	return &waiter[T]{callback: fn}
}

// consume marks the waiter resolved with o. Blocking callers are handed the
// outcome immediately (the capacity-1 buffer makes the send non-blocking and
// the consumed flag makes it the only send ever). For callback waiters the
// invocation is returned so the router can run it after releasing its lock;
// a callback is allowed to start the next presentation. Consuming a nil or
// already-consumed waiter returns nil and changes nothing.
func (w *waiter[T]) consume(o Outcome[T]) func() {
	if w == nil || w.consumed {
		return nil
	}
	w.consumed = true
	if w.reply != nil {
		w.reply <- o
		return nil
	}
	if w.callback != nil {
		cb := w.callback
		return func() { cb(o) }
	}
	return nil
}
