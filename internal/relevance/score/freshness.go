package score

import (
	"time"

	"github.com/grantwell/grantsearch/internal/grants"
)

const hoursPerDay = 24

// Freshness maps document age (now minus last_updated) onto a step scale:
// under 7 days scores 5, under 30 scores 4, under 90 scores 3, under 180
// scores 2, anything older scores 1. A missing timestamp falls back to the
// oldest bucket rather than erring.
func Freshness(doc grants.Document, now time.Time) float64 {
	if doc.LastUpdated.IsZero() {
		return 1.0
	}
	days := now.Sub(doc.LastUpdated).Hours() / hoursPerDay
	switch {
	case days < 7:
		return 5.0
	case days < 30:
		return 4.0
	case days < 90:
		return 3.0
	case days < 180:
		return 2.0
	default:
		return 1.0
	}
}
