package routing_test

import (
	"context"
	"fmt"

	"github.com/vetpraxis/vetpraxis/internal/routing"
)

// A flow presents a form and suspends; the host renders whatever Presented
// reports and resolves it when the user is done. Here the host is a goroutine
// standing in for a UI event loop.
func Example() {
	router := routing.NewFormRouter[string, string]()

	hostDone := make(chan struct{})
	go func() {
		defer close(hostDone)
		<-router.Changed()
		if mode, ok := router.Presented(); ok {
			fmt.Println("host shows:", mode)
			router.Resolve(routing.Succeeded("Bella (patient P-2026-0001)"))
		}
	}()

	outcome := router.Present(context.Background(), "register-patient")
	<-hostDone

	if saved, ok := outcome.Value(); ok {
		fmt.Println("flow received:", saved)
	}

	// Output:
	// host shows: register-patient
	// flow received: Bella (patient P-2026-0001)
}

// Callback presentation suits hosts that cannot block, like an event loop
// resolving its own forms.
func ExampleFormRouter_PresentAsync() {
	router := routing.NewFormRouter[string, int]()

	router.PresentAsync("pick-owner", func(out routing.Outcome[int]) {
		if id, ok := out.Value(); ok {
			fmt.Println("picked owner", id)
		}
	})

	mode, _ := router.Presented()
	fmt.Println("showing:", mode)
	router.Resolve(routing.Succeeded(42))

	// Output:
	// showing: pick-owner
	// picked owner 42
}
