package geo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Opening hours are stored as one compact string per weekday, either
// "HH:MM-HH:MM" or the literal "closed".

var ErrBadOpeningHours = errors.New("opening hours must be \"HH:MM-HH:MM\" or \"closed\"")

var Weekdays = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

var hoursPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]-([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateOpeningHours checks a per-weekday hours map. Missing weekdays are
// allowed (treated as unspecified); unknown keys and malformed values are not.
func ValidateOpeningHours(hours map[string]string) error {
	known := make(map[string]bool, len(Weekdays))
	for _, d := range Weekdays {
		known[d] = true
	}
	for day, value := range hours {
		if !known[strings.ToLower(day)] {
			return fmt.Errorf("%w: unknown weekday %q", ErrBadOpeningHours, day)
		}
		v := strings.TrimSpace(value)
		if strings.EqualFold(v, "closed") {
			continue
		}
		if !hoursPattern.MatchString(v) {
			return fmt.Errorf("%w: %q", ErrBadOpeningHours, value)
		}
	}
	return nil
}
