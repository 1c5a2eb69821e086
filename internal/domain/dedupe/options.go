// Package dedupe suppresses duplicate game lines during snapshot ingestion.
package dedupe

// Default deduper configuration constants.
const (
	defaultMaxSize = 2_000_000
)

// Option applies a configuration option to the inMemoryDeduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the safety-valve ceiling on tracked game lines.
// A value <= 0 disables the ceiling.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}
