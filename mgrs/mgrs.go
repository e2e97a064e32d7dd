// Package mgrs converts between WGS84 latitude/longitude and Military Grid
// Reference System strings. Only the UTM part of the grid is covered; polar
// positions handled by UPS are rejected.
package mgrs

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bgraf/coordextract/coords"
)

var ErrConversion = errors.New("MGRS conversion failed")

// MaxDigits is the per-axis digit count of a 1 meter reference.
const MaxDigits = 5

const (
	minLatitude = -80.0
	maxLatitude = 84.0

	squareSize = 100000.0
	rowCycle   = 2000000.0

	bandLetters = "CDEFGHJKLMNPQRSTUVWX"
	rowLetters  = "ABCDEFGHJKLMNPQRSTUV"

	// lower bound slack for resolving the 2000km northing cycle of a band
	bandNorthingSlack = 25000.0
)

var columnLetters = [3]string{"ABCDEFGH", "JKLMNPQR", "STUVWXYZ"}

// FromLatLon converts a position to a 1 meter MGRS reference, e.g.
// "14SKG8360370719".
func FromLatLon(lat, lon float64) (string, error) {
	return FromLatLonPrecision(lat, lon, MaxDigits)
}

// FromLatLonPrecision converts a position to an MGRS reference with the given
// number of digits per axis (0 to 5). Easting and northing are truncated to
// the precision, so the reference names the cell containing the position.
func FromLatLonPrecision(lat, lon float64, digits int) (string, error) {
	if digits < 0 || digits > MaxDigits {
		return "", fmt.Errorf("%w: precision %d not in [0, %d]", ErrConversion, digits, MaxDigits)
	}
	if err := coords.ValidateLatitude(lat); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}
	if err := coords.ValidateLongitude(lon); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConversion, err)
	}
	if lat < minLatitude || lat > maxLatitude {
		return "", fmt.Errorf("%w: latitude %v is in the polar region", ErrConversion, lat)
	}

	zone := zoneFor(lat, lon)
	c := toUTM(lat, lon, zone)

	divisor := math.Pow10(MaxDigits - digits)
	easting := math.Floor(c.easting/divisor) * divisor
	northing := math.Floor(c.northing/divisor) * divisor

	set := setOf(zone)
	col := int(easting/squareSize) - 1
	if col < 0 || col >= len(columnLetters[0]) {
		return "", fmt.Errorf("%w: easting %.0f outside zone %d", ErrConversion, easting, zone)
	}
	row := int(math.Mod(northing, rowCycle) / squareSize)
	if set%2 == 0 {
		row = (row + 5) % len(rowLetters)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%02d%c%c%c", zone, bandLetter(lat), columnLetters[(set-1)%3][col], rowLetters[row])
	if digits > 0 {
		east := int(math.Round(math.Mod(easting, squareSize) / divisor))
		north := int(math.Round(math.Mod(northing, squareSize) / divisor))
		fmt.Fprintf(&b, "%0*d%0*d", digits, east, digits, north)
	}

	s := b.String()
	if err := coords.ValidateMGRS(s); err != nil {
		return "", err
	}
	return s, nil
}

// ToLatLon converts an MGRS reference to the position of the south-west
// corner of the cell it denotes.
func ToLatLon(s string) (lat, lon float64, err error) {
	if err := coords.ValidateMGRS(s); err != nil {
		return 0, 0, err
	}
	s = strings.ToUpper(s)

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	zone, _ := strconv.Atoi(s[:i])
	if zone < 1 || zone > 60 {
		return 0, 0, fmt.Errorf("%w: grid zone %d in %q", ErrConversion, zone, s)
	}

	band, colLetter, rowLetter := s[i], s[i+1], s[i+2]
	if band == 'X' && (zone == 32 || zone == 34 || zone == 36) {
		return 0, 0, fmt.Errorf("%w: grid zone %d%c does not exist", ErrConversion, zone, band)
	}

	set := setOf(zone)
	col := strings.IndexByte(columnLetters[(set-1)%3], colLetter)
	if col < 0 {
		return 0, 0, fmt.Errorf("%w: column letter %c not used in zone %d", ErrConversion, colLetter, zone)
	}
	row := strings.IndexByte(rowLetters, rowLetter)
	if row < 0 {
		return 0, 0, fmt.Errorf("%w: row letter %c not used in MGRS", ErrConversion, rowLetter)
	}
	if set%2 == 0 {
		row = (row - 5 + len(rowLetters)) % len(rowLetters)
	}

	digits := s[i+3:]
	precision := len(digits) / 2
	var east, north float64
	if precision > 0 {
		e, _ := strconv.Atoi(digits[:precision])
		n, _ := strconv.Atoi(digits[precision:])
		unit := math.Pow10(MaxDigits - precision)
		east, north = float64(e)*unit, float64(n)*unit
	}

	bandIdx := strings.IndexByte(bandLetters, band)
	bandSouth, bandNorth := bandBounds(bandIdx)

	c := utmCoord{
		zone:     zone,
		easting:  float64(col+1)*squareSize + east,
		northing: float64(row)*squareSize + north,
		south:    band < 'N',
	}
	minNorthing := toUTM(bandSouth, centralMeridian(zone), zone).northing - bandNorthingSlack
	for c.northing < minNorthing {
		c.northing += rowCycle
	}

	lat, lon = fromUTM(c)
	if lat < bandSouth-1 || lat > bandNorth+1 {
		return 0, 0, fmt.Errorf("%w: %q lies outside latitude band %c", ErrConversion, s, band)
	}
	if err := coords.ValidateLatitude(lat); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	if err := coords.ValidateLongitude(lon); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", ErrConversion, err)
	}
	return lat, lon, nil
}

func setOf(zone int) int {
	if s := zone % 6; s != 0 {
		return s
	}
	return 6
}

func bandLetter(lat float64) byte {
	idx := int(math.Floor((lat - minLatitude) / 8))
	if idx >= len(bandLetters) {
		idx = len(bandLetters) - 1
	}
	return bandLetters[idx]
}

// bandBounds returns the southern and northern latitude of a band. Band X
// spans 12 degrees.
func bandBounds(idx int) (float64, float64) {
	south := minLatitude + 8*float64(idx)
	if idx == len(bandLetters)-1 {
		return south, maxLatitude
	}
	return south, south + 8
}
