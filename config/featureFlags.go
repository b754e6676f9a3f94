package config

import (
	"os"
	"strings"
)

// StrictAdjustmentReview forbids users from approving their own stock
// adjustment requests (Admins are always allowed).
//
// Set via env:
// - STRICT_ADJUSTMENT_REVIEW=true
func StrictAdjustmentReview() bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("STRICT_ADJUSTMENT_REVIEW")))
	return v == "1" || v == "true" || v == "yes" || v == "y"
}

// RealtimeEventsEnabled gates the WebSocket push of domain events to
// connected POS terminals and dashboards.
//
// Set via env:
// - REALTIME_EVENTS_ENABLED=true (default true when unset)
func RealtimeEventsEnabled() bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv("REALTIME_EVENTS_ENABLED")))
	if raw == "" {
		return true
	}
	return raw == "1" || raw == "true" || raw == "yes" || raw == "y"
}
