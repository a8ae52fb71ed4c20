// Package realtime drives a statestack.Machine at a fixed tick rate.
//
// The core machine does no timing of its own: something has to call Update
// once per frame. Runner is that something for programs that want a plain
// fixed-rate loop (games, simulations, control loops).
//
// # Example Usage
//
//	m := statestack.New[World]()
//	world := World{}
//	m.Push(&Boot{}, &world)
//
//	r := realtime.NewRunner(m, &world, realtime.Config{
//		TickRate: 16667 * time.Microsecond, // 60 FPS
//	})
//	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
//
// # Termination
//
// Run returns when the machine stops on its own (a Pop of the last state or
// a Quit), when MaxTicks updates have run, or when the context is done. In
// the last two cases the remaining states are drained with Stop so every
// state sees OnStop.
//
// # Data ownership
//
// The runner borrows the shared data for as long as it runs. Callers must
// not read or write it from other goroutines until Run returns or Stop
// completes; Ticks and Running are safe to call at any time.
package realtime
