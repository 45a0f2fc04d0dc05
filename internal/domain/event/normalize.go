package event

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/mujq1695/dev-events/internal/domain/validation"
)

// Slugify turns a title into a URL-safe slug: lowercase, characters outside
// letters/digits/underscore/hyphen dropped, whitespace runs collapsed into a
// single hyphen. Collision handling lives at the storage layer, this is just
// the base form.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))

	var b strings.Builder
	b.Grow(len(s))

	prevHyphen := false

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			prevHyphen = false
		case unicode.IsSpace(r), r == '-':
			// runs of whitespace and hyphens become one hyphen
			if !prevHyphen && b.Len() > 0 {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
		// anything else is dropped
	}

	return strings.TrimSuffix(b.String(), "-")
}

const canonicalDateLayout = "2006-01-02"

// layouts tried in order when the input is not already a canonical date.
// Offset-carrying forms are converted to their UTC calendar date.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeDate canonicalizes any accepted date input to YYYY-MM-DD.
// A bare calendar date is parsed in UTC so the day never shifts with the
// server timezone. Already-canonical input comes back unchanged.
func NormalizeDate(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	// fast path: already the canonical form
	if d, err := time.ParseInLocation(canonicalDateLayout, s, time.UTC); err == nil {
		return d.Format(canonicalDateLayout), nil
	}

	for _, layout := range dateLayouts {
		if d, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return d.UTC().Format(canonicalDateLayout), nil
		}
	}

	return "", validation.Error{Field: "date", Value: raw, Reason: "cannot be parsed as a calendar date"}
}

// hour and minutes, with an optional case-insensitive AM/PM marker
var timePattern = regexp.MustCompile(`^\s*([0-9]{1,2}):([0-9]{2})\s*([AaPp][Mm])?\s*$`)

// NormalizeTime canonicalizes a clock time to zero-padded 24h HH:MM.
// Accepted inputs: "H:MM" / "HH:MM" (hour 0-23) and 12-hour forms like
// "2:30 PM" or "2:30pm". 12 AM maps to 00, 12 PM stays 12.
func NormalizeTime(raw string) (string, error) {
	m := timePattern.FindStringSubmatch(raw)
	if m == nil {
		return "", validation.Error{Field: "time", Value: raw, Reason: "must be HH:MM or H:MM AM/PM"}
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	marker := strings.ToUpper(m[3])

	if minute > 59 {
		return "", validation.Error{Field: "time", Value: raw, Reason: "minutes out of range"}
	}

	switch marker {
	case "":
		if hour > 23 {
			return "", validation.Error{Field: "time", Value: raw, Reason: "hour out of range"}
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return "", validation.Error{Field: "time", Value: raw, Reason: "hour out of range for a 12-hour time"}
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return "", validation.Error{Field: "time", Value: raw, Reason: "hour out of range for a 12-hour time"}
		}
		if hour != 12 {
			hour += 12
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}
