package synthstate_test

import (
	"fmt"

	synthstate "github.com/HiceS/synth-state"
)

func Example() {
	m := synthstate.New("idle")
	m.AddPath("idle", "loading", "ready")
	m.AddTransition("ready", "idle")

	m.On("ready", func(from, to string) {
		fmt.Printf("entered %s from %s\n", to, from)
	})

	m.Go("loading")
	m.Go("ready")
	m.Go("loading") // no edge ready -> loading, ignored

	fmt.Println(m.Current(), m.Previous())
	// Output:
	// entered ready from loading
	// ready loading
}

func ExampleMachine_TryGo() {
	m := synthstate.New("draft")
	m.AddTransition("draft", "review")

	if _, err := m.TryGo("published"); err != nil {
		fmt.Println(err)
	}
	// Output:
	// no transition from state 'draft' to 'published'. Valid targets: review
}
