package session

import "time"

// Rotation interval sentinels for Config.RotationInterval.
const (
	// RotateNever disables token rotation entirely.
	RotateNever time.Duration = 0
	// RotateAlways rotates the token on every successful validation.
	RotateAlways time.Duration = -1
)

// ShouldRotate decides whether the active token must be replaced, given the
// configured inactivity threshold and the last recorded activity. Zero
// threshold never rotates, any negative threshold always rotates, a positive
// threshold rotates once the elapsed inactivity reaches it (inclusive).
func ShouldRotate(threshold time.Duration, lastActivity, now time.Time) bool {
	switch {
	case threshold == RotateNever:
		return false
	case threshold < 0:
		return true
	default:
		return now.Sub(lastActivity) >= threshold
	}
}
