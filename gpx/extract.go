// Package gpx pulls waypoints, trackpoints and routepoints out of GPX
// documents without interpreting their coordinates.
package gpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"
)

var (
	ErrEmptyDocument          = errors.New("GPX document is empty")
	ErrMalformedXML           = errors.New("GPX document is not well-formed XML")
	ErrInvalidCoordinateValue = errors.New("invalid coordinate value")
)

const (
	Namespace10 = "http://www.topografix.com/GPX/1/0"
	Namespace11 = "http://www.topografix.com/GPX/1/1"
)

// Local names of the point elements.
const (
	ElementWaypoint   = "wpt"
	ElementTrackpoint = "trkpt"
	ElementRoutepoint = "rtept"
)

// RawCoordinate is a point as found in the document. Lat and Lon are not
// range checked and may be NaN. Extra maps child element names to their text;
// a nil value means the element carried no text.
type RawCoordinate struct {
	Lat, Lon float64
	Extra    map[string]*string
}

// Extraction holds the points of one document, each slice in document order.
type Extraction struct {
	Namespace   string
	Waypoints   []RawCoordinate
	Trackpoints []RawCoordinate
	Routepoints []RawCoordinate
}

// Len returns the number of extracted points over all kinds.
func (x *Extraction) Len() int {
	return len(x.Waypoints) + len(x.Trackpoints) + len(x.Routepoints)
}

// Version derives the GPX schema version from the root namespace.
func (x *Extraction) Version() string {
	switch x.Namespace {
	case Namespace10:
		return "1.0"
	case Namespace11:
		return "1.1"
	}
	return ""
}

var byteOrderMark = []byte("\xef\xbb\xbf")

type element struct {
	name     xml.Name
	attrs    []xml.Attr
	text     []byte
	hasText  bool
	children []*element
}

// Extract parses data and collects every wpt, trkpt and rtept element in the
// root element's namespace, at any depth. Elements missing lat or lon are
// left out; a lat or lon that is not a number fails the whole document.
func Extract(data []byte) (*Extraction, error) {
	data = bytes.TrimPrefix(data, byteOrderMark)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyDocument
	}

	root, err := parseTree(data)
	if err != nil {
		return nil, err
	}

	x := &Extraction{Namespace: root.name.Space}
	if err := x.collect(root); err != nil {
		return nil, err
	}

	return x, nil
}

func (x *Extraction) collect(el *element) error {
	if el.name.Space == x.Namespace {
		var target *[]RawCoordinate
		switch el.name.Local {
		case ElementWaypoint:
			target = &x.Waypoints
		case ElementTrackpoint:
			target = &x.Trackpoints
		case ElementRoutepoint:
			target = &x.Routepoints
		}

		if target != nil {
			p, ok, err := parsePoint(el)
			if err != nil {
				return err
			}
			if ok {
				*target = append(*target, p)
			}
		}
	}

	for _, child := range el.children {
		if err := x.collect(child); err != nil {
			return err
		}
	}

	return nil
}

func parsePoint(el *element) (RawCoordinate, bool, error) {
	latS, hasLat := attr(el, "lat")
	lonS, hasLon := attr(el, "lon")

	extra := make(map[string]*string, len(el.children))
	for _, child := range el.children {
		extra[child.name.Local] = child.textValue()
	}

	if !hasLat || !hasLon {
		return RawCoordinate{}, false, nil
	}

	lat, err := parseCoordinate(latS)
	if err != nil {
		return RawCoordinate{}, false, err
	}
	lon, err := parseCoordinate(lonS)
	if err != nil {
		return RawCoordinate{}, false, err
	}

	return RawCoordinate{Lat: lat, Lon: lon, Extra: extra}, true, nil
}

// parseCoordinate reads a decimal number. Values too large for a float64
// come back as infinities and are left to the range checks.
func parseCoordinate(s string) (float64, error) {
	t := strings.TrimSpace(s)
	if isHex(t) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinateValue, s)
	}

	v, err := strconv.ParseFloat(t, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCoordinateValue, s)
	}
	return v, nil
}

func isHex(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func attr(el *element, local string) (string, bool) {
	for _, a := range el.attrs {
		if a.Name.Space == "" && a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (el *element) textValue() *string {
	if !el.hasText {
		return nil
	}
	s := strings.TrimSpace(string(el.text))
	if s == "" {
		return nil
	}
	return &s
}

// parseTree decodes the whole document. encoding/xml neither expands external
// entities nor loads DTDs, so documents cannot pull in outside content.
func parseTree(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true
	dec.CharsetReader = charset.NewReaderLabel

	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name, attrs: t.Copy().Attr}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("%w: more than one root element", ErrMalformedXML)
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]

		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) != 0 {
					return nil, fmt.Errorf("%w: text outside the root element", ErrMalformedXML)
				}
				continue
			}
			top := stack[len(stack)-1]
			top.text = append(top.text, t...)
			top.hasText = true
		}
	}

	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrMalformedXML)
	}

	return root, nil
}
