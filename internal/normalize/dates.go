package normalize

import "time"

// dateFromEpoch converts a millisecond epoch wrapper to a YYYY-MM-DD date
// string in UTC. Absent wrappers and zero timestamps map to nil, which the
// loader passes through as SQL NULL. Values far outside the representable
// date range format to a degenerate date but never panic.
func dateFromEpoch(d *epochDate) *string {
	if d == nil || d.Millis == 0 {
		return nil
	}
	s := time.Unix(d.Millis/1000, 0).UTC().Format("2006-01-02")
	return &s
}
