package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineKm(t *testing.T) {
	assert.Zero(t, HaversineKm(9.9312, 76.2673, 9.9312, 76.2673))

	// Kochi to Bengaluru, roughly 365km as the crow flies.
	d := HaversineKm(9.9312, 76.2673, 12.9716, 77.5946)
	assert.InDelta(t, 365, d, 20)

	// Symmetric.
	assert.InDelta(t, d, HaversineKm(12.9716, 77.5946, 9.9312, 76.2673), 0.001)
}
