package timeutil

import "time"

// IST is the Indian Standard Time location (UTC+5:30). Due dates and
// overdue checks are evaluated in IST, matching where cohorts run.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Now returns the current time in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// StartOfDay returns 00:00:00 IST for the given time. Day-count comparisons
// between due dates work on start-of-day values so partial days don't skew
// the overdue boundary.
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// DateLayout is the wire format for schedule dates.
const DateLayout = "2006-01-02"
