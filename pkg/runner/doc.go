/*
Package runner drives a dispatch.Dispatcher from a ports.Source and forwards
the produced messages to a ports.Sink.

Updates of one conversation are processed strictly in arrival order; distinct
conversations, and updates without a conversation key, are processed
concurrently up to a worker limit. A failed turn or a failed send is logged and
reported through the lifecycle hooks; it never stops the loop.

# Usage

	r := runner.New(dispatcher, transport, transport,
		runner.WithLogger(logger),
		runner.WithWorkers(32),
		runner.WithIdleTimeout(30*time.Minute),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
