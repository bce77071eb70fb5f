package routing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type patientForm struct {
	Kind string
	ID   string
}

// present launches a blocking Present on its own goroutine and returns the
// channel its outcome will arrive on. Callers must wait on r.Changed() before
// touching the router again so the presentation is known to have registered.
func present(r *FormRouter[patientForm, string], ctx context.Context, mode patientForm) <-chan Outcome[string] {
	ch := make(chan Outcome[string], 1)
	go func() {
		ch <- r.Present(ctx, mode)
	}()
	return ch
}

// awaitPresented blocks until the router reports want as presented. Ticks on
// Changed coalesce, so a single receive proves nothing about which transition
// produced it; re-reading the state on every tick does.
func awaitPresented(t *testing.T, r *FormRouter[patientForm, string], want patientForm) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		if mode, ok := r.Presented(); ok && mode == want {
			return
		}
		select {
		case <-r.Changed():
		case <-deadline:
			t.Fatal("timed out waiting for presentation")
		}
	}
}

func TestPresentDeliversFirstResolve(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	create := patientForm{Kind: "create"}

	got := present(r, context.Background(), create)
	awaitPresented(t, r, create)

	r.Resolve(Succeeded("patient-7"))
	r.Resolve(Failed[string](errors.New("too late")))

	out := <-got
	v, ok := out.Value()
	require.True(t, ok)
	require.Equal(t, "patient-7", v)

	_, presenting := r.Presented()
	require.False(t, presenting)
}

func TestResolveDeliversExactlyOnce(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()

	var calls int
	r.PresentAsync(patientForm{Kind: "edit", ID: "p1"}, func(Outcome[string]) {
		calls++
	})
	r.Resolve(Succeeded("p1"))
	r.Resolve(Succeeded("p1"))
	r.Resolve(Cancelled[string]())

	require.Equal(t, 1, calls)
}

func TestResolveWhenIdleIsNoop(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.Resolve(Succeeded("nobody is waiting"))

	_, presenting := r.Presented()
	require.False(t, presenting)
}

func TestPresentWhileBusyCancelsPrevious(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	first := patientForm{Kind: "create"}
	second := patientForm{Kind: "edit", ID: "p2"}

	gotFirst := present(r, context.Background(), first)
	awaitPresented(t, r, first)

	gotSecond := present(r, context.Background(), second)
	awaitPresented(t, r, second)

	// The displaced flow resumes with cancelled before the new form is live.
	out := <-gotFirst
	require.True(t, out.IsCancelled())

	r.Resolve(Succeeded("p2"))
	out = <-gotSecond
	v, ok := out.Value()
	require.True(t, ok)
	require.Equal(t, "p2", v)
}

func TestPresentAsyncWhileBusyCancelsPrevious(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()

	var first Outcome[string]
	var firstDone bool
	r.PresentAsync(patientForm{Kind: "create"}, func(o Outcome[string]) {
		first = o
		firstDone = true
	})

	var second Outcome[string]
	r.PresentAsync(patientForm{Kind: "edit", ID: "p3"}, func(o Outcome[string]) {
		second = o
	})

	require.True(t, firstDone)
	require.True(t, first.IsCancelled())

	mode, ok := r.Presented()
	require.True(t, ok)
	require.Equal(t, patientForm{Kind: "edit", ID: "p3"}, mode)

	r.Resolve(Succeeded("p3"))
	v, ok := second.Value()
	require.True(t, ok)
	require.Equal(t, "p3", v)
}

func TestPresentAsyncFireAndForget(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.PresentAsync(patientForm{Kind: "create"}, nil)

	_, presenting := r.Presented()
	require.True(t, presenting)

	// Nothing to resume, but the presentation state still clears.
	r.Resolve(Succeeded("ignored"))
	_, presenting = r.Presented()
	require.False(t, presenting)
}

func TestCancelActiveResumesWaiter(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.Navigate(patientForm{Kind: "detail", ID: "p4"})

	got := present(r, context.Background(), patientForm{Kind: "edit", ID: "p4"})
	awaitPresented(t, r, patientForm{Kind: "edit", ID: "p4"})

	r.CancelActive()

	out := <-got
	require.True(t, out.IsCancelled())

	_, presenting := r.Presented()
	require.False(t, presenting)

	// Teardown clears form state only; navigation history survives.
	require.Equal(t, 1, r.PathLen())

	r.mu.Lock()
	leaked := r.pending != nil
	r.mu.Unlock()
	require.False(t, leaked)
}

func TestCancelActiveWhenIdleIsNoop(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.CancelActive()
	r.CancelActive()

	_, presenting := r.Presented()
	require.False(t, presenting)
}

func TestPresentReturnsCancelledWhenContextEnds(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	ctx, cancel := context.WithCancel(context.Background())

	got := present(r, ctx, patientForm{Kind: "create"})
	awaitPresented(t, r, patientForm{Kind: "create"})

	cancel()

	out := <-got
	require.True(t, out.IsCancelled())

	// The abandoned presentation is fully torn down.
	_, presenting := r.Presented()
	require.False(t, presenting)
	r.mu.Lock()
	leaked := r.pending != nil
	r.mu.Unlock()
	require.False(t, leaked)
}

func TestDeliveredResultWinsOverContext(t *testing.T) {
	t.Parallel()

	// Resolve first, cancel immediately after: whichever select branch the
	// waiting goroutine takes, the delivered value must come through.
	for i := 0; i < 50; i++ {
		r := NewFormRouter[patientForm, string]()
		ctx, cancel := context.WithCancel(context.Background())

		got := present(r, ctx, patientForm{Kind: "create"})
		awaitPresented(t, r, patientForm{Kind: "create"})

		r.Resolve(Succeeded("kept"))
		cancel()

		out := <-got
		v, ok := out.Value()
		require.True(t, ok, "delivered result lost to context cancellation")
		require.Equal(t, "kept", v)
	}
}

func TestCallbackMayPresentNextForm(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	followUp := patientForm{Kind: "edit", ID: "p5"}

	r.PresentAsync(patientForm{Kind: "create"}, func(o Outcome[string]) {
		if o.IsSuccess() {
			r.PresentAsync(followUp, nil)
		}
	})
	r.Resolve(Succeeded("p5"))

	mode, ok := r.Presented()
	require.True(t, ok)
	require.Equal(t, followUp, mode)
}

func TestNavigationStack(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	require.Equal(t, 0, r.PathLen())

	// Popping an empty path is harmless.
	r.DismissCurrent()
	require.Equal(t, 0, r.PathLen())

	r.Navigate(patientForm{Kind: "list"})
	r.Navigate(patientForm{Kind: "detail", ID: "p6"})
	r.Navigate(nil)
	require.Equal(t, 2, r.PathLen())

	top, ok := r.Top()
	require.True(t, ok)
	require.Equal(t, patientForm{Kind: "detail", ID: "p6"}, top)

	r.DismissCurrent()
	require.Equal(t, 1, r.PathLen())

	r.Navigate(patientForm{Kind: "detail", ID: "p7"})
	r.GoToRoot()
	require.Equal(t, 0, r.PathLen())
	_, ok = r.Top()
	require.False(t, ok)
}

func TestNavigationLeavesFormStateAlone(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	edit := patientForm{Kind: "edit", ID: "p8"}

	got := present(r, context.Background(), edit)
	awaitPresented(t, r, edit)

	r.Navigate(patientForm{Kind: "detail", ID: "p8"})
	r.DismissCurrent()
	r.GoToRoot()

	mode, ok := r.Presented()
	require.True(t, ok)
	require.Equal(t, edit, mode)

	r.Resolve(Succeeded("p8"))
	out := <-got
	require.True(t, out.IsSuccess())
}

func TestPathReturnsCopy(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.Navigate(patientForm{Kind: "list"})

	path := r.Path()
	require.Len(t, path, 1)
	path[0] = patientForm{Kind: "mangled"}

	top, ok := r.Top()
	require.True(t, ok)
	require.Equal(t, patientForm{Kind: "list"}, top)
}

func TestChangedCoalesces(t *testing.T) {
	t.Parallel()

	r := NewFormRouter[patientForm, string]()
	r.Navigate(patientForm{Kind: "list"})
	r.Navigate(patientForm{Kind: "detail", ID: "p9"})
	r.DismissCurrent()

	// Three mutations, one pending tick.
	require.Len(t, r.changed, 1)
	<-r.Changed()

	select {
	case <-r.Changed():
		t.Fatal("expected the change signal to coalesce")
	default:
	}
}
