// Package coords holds the range and grammar checks shared by the converter,
// the point builder and the outer surfaces.
package coords

import (
	"errors"
	"fmt"
	"math"
	"regexp"
)

var (
	ErrInvalidLatitude  = errors.New("invalid latitude")
	ErrInvalidLongitude = errors.New("invalid longitude")
	ErrInvalidMGRS      = errors.New("invalid MGRS string")
)

// Grid zone number, band letter (A, B, Y and Z are the polar UPS bands, I and O
// are never used), 100km square identifier and an even digit block of at most
// ten digits.
var mgrsPattern = regexp.MustCompile(`(?i)^\d{1,2}[C-HJ-NP-X][A-Z]{2}(\d{2}|\d{4}|\d{6}|\d{8}|\d{10})?$`)

// ValidLatitude reports whether v is a finite latitude in [-90, 90].
func ValidLatitude(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -90 && v <= 90
}

// ValidLongitude reports whether v is a finite longitude in [-180, 180].
func ValidLongitude(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -180 && v <= 180
}

// ValidMGRS reports whether s is shaped like an MGRS reference. It does not
// check that the 100km square exists in the given zone.
func ValidMGRS(s string) bool {
	return mgrsPattern.MatchString(s)
}

func ValidateLatitude(v float64) error {
	if !ValidLatitude(v) {
		return fmt.Errorf("%w: %v", ErrInvalidLatitude, v)
	}
	return nil
}

func ValidateLongitude(v float64) error {
	if !ValidLongitude(v) {
		return fmt.Errorf("%w: %v", ErrInvalidLongitude, v)
	}
	return nil
}

func ValidateMGRS(s string) error {
	if !ValidMGRS(s) {
		return fmt.Errorf("%w: %q", ErrInvalidMGRS, s)
	}
	return nil
}
