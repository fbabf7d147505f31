package arches

import (
	"golang.org/x/exp/constraints"

	"github.com/kgasperich/arches/selection"
)

type config[T constraints.Float] struct {
	chunkSize int
	logger    *Logger
	selOpts   []selection.Option[T]
}

// Option configures loading and selection at the package level.
type Option[T constraints.Float] func(*config[T])

func newConfig[T constraints.Float](opts ...Option[T]) config[T] {
	cfg := config[T]{
		logger: NoopLogger(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithChunkSize caps the number of integrals per chunk. Zero or negative
// keeps one chunk per category.
func WithChunkSize[T constraints.Float](n int) Option[T] {
	return func(c *config[T]) {
		c.chunkSize = n
	}
}

// WithLogger sets the logger used for load and selection progress.
// Defaults to a no-op logger.
func WithLogger[T constraints.Float](l *Logger) Option[T] {
	return func(c *config[T]) {
		c.logger = l
	}
}

// WithSelection forwards options to the selection driver.
func WithSelection[T constraints.Float](opts ...selection.Option[T]) Option[T] {
	return func(c *config[T]) {
		c.selOpts = append(c.selOpts, opts...)
	}
}
