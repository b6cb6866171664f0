package storage

import "time"

// Timestamps are stored in ISO 8601 local time with microsecond precision,
// the format existing data files already use.
const timeLayout = "2006-01-02T15:04:05.999999"

// parseLayout omits the fraction; time.Parse accepts a fractional second
// after the seconds field whether or not the layout mentions one.
const parseLayout = "2006-01-02T15:04:05"

func formatTimestamp(t time.Time) string {
	return t.Format(timeLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(parseLayout, s, time.Local)
}

// noDeadline is the on-disk marker for a task without a deadline.
const noDeadline = "None"

func formatDeadline(t *time.Time) string {
	if t == nil {
		return noDeadline
	}
	return formatTimestamp(*t)
}

func parseDeadline(s string) (*time.Time, error) {
	if s == noDeadline {
		return nil, nil
	}
	t, err := parseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
