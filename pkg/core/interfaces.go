package core

import (
	"fmt"
	"math/rand"
	"time"
)

// Logger interface for scene construction and rendering output
type Logger interface {
	Printf(format string, args ...interface{})
}

// DefaultLogger implements Logger by writing to stdout
type DefaultLogger struct{}

// Printf implements Logger
func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() Logger {
	return &DefaultLogger{}
}

// NopLogger discards everything
type NopLogger struct{}

// Printf implements Logger
func (NopLogger) Printf(string, ...interface{}) {}

// Random is the source of uniform samples in [0, 1) used for procedural placement.
// *rand.Rand satisfies it.
type Random interface {
	Float64() float64
}

// NewRandom returns a seeded pseudo-random source; seed 0 picks a time-based seed
func NewRandom(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}
