package breathe

import "zentime/internal/core/breathing"

const (
	minScale = 0.5
	maxScale = 1.0
)

// Scale returns the size of the breathing circle relative to its full size.
// The circle grows while breathing in, holds, shrinks while breathing out and
// holds again. An inactive session rests at the small size.
func Scale(phase breathing.Phase, progress float64, active bool) float64 {
	if !active {
		return minScale
	}
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	switch phase {
	case breathing.PhaseIn:
		return minScale + progress*(maxScale-minScale)
	case breathing.PhaseHoldIn:
		return maxScale
	case breathing.PhaseOut:
		return maxScale - progress*(maxScale-minScale)
	default:
		return minScale
	}
}
