// Package countdown computes the time left until the exam.
package countdown

import (
	"time"

	"github.com/vytor/nclexnav/internal/models"
)

// RefreshInterval is how often clients are expected to recompute.
const RefreshInterval = time.Minute

// Until splits target-now into whole days, hours and minutes. A target that
// is not in the future yields zeros with Passed set.
func Until(now, target time.Time) models.Countdown {
	c := models.Countdown{
		Target:         target.Format(time.RFC3339),
		RefreshSeconds: int(RefreshInterval / time.Second),
	}
	diff := target.Sub(now)
	if diff <= 0 {
		c.Passed = true
		return c
	}
	c.Days = int(diff / (24 * time.Hour))
	c.Hours = int(diff % (24 * time.Hour) / time.Hour)
	c.Minutes = int(diff % time.Hour / time.Minute)
	return c
}

// ParseTarget accepts an RFC 3339 timestamp or a YYYY-MM-DD date, which is
// taken as midnight in loc.
func ParseTarget(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}
