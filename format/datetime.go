package format

import "time"

// DateTime validates an RFC 3339 date-time string.
func DateTime() Format {
	return stringFormat("date-time", func(s string) error {
		if _, err := parseRFC3339(s); err != nil {
			return invalidf("date-time", "%v", err)
		}
		return nil
	})
}

// Date validates an RFC 3339 full-date (YYYY-MM-DD).
func Date() Format {
	return stringFormat("date", func(s string) error {
		if _, err := time.Parse(time.DateOnly, s); err != nil {
			return invalidf("date", "%v", err)
		}
		return nil
	})
}

// Time validates an RFC 3339 full-time: hh:mm:ss, optional fraction, and a
// zone offset.
func Time() Format {
	return stringFormat("time", func(s string) error {
		if _, err := time.Parse("15:04:05Z07:00", s); err != nil {
			return invalidf("time", "%v", err)
		}
		return nil
	})
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}
