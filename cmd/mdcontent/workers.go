package main

import (
	"runtime"

	"github.com/alnah/go-mdcontent/internal/config"
)

// resolveWorkers determines the batch worker count.
// Priority: explicit flag > config/env > GOMAXPROCS-based calculation.
// Rendering is CPU-bound, so auto mode uses every available processor.
func resolveWorkers(flagWorkers, cfgWorkers int) int {
	if flagWorkers > 0 {
		return min(flagWorkers, config.MaxWorkers)
	}
	if cfgWorkers > 0 {
		return min(cfgWorkers, config.MaxWorkers)
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0)
	if n < 1 {
		return 1
	}
	return min(n, config.MaxWorkers)
}
