// Package bench measures dispatch fan-out cost: subscribe many consumers
// to a single key, publish a batch of values concurrently, and confirm
// every consumer observes every value exactly once regardless of how many
// consumers are attached. Values are posted from independent goroutines
// with distinct group tokens, so append order across values is not itself
// deterministic — only per-consumer completeness is checked.
//
// Example:
//
//	result, err := bench.Run(context.Background(), bench.Options{
//		ConsumersCount: 16,
//		ValuesCount:    10_000,
//		WorkerPoolSize: 8,
//	})
package bench
