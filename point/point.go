// Package point builds the output records of the conversion pipeline.
package point

import (
	"encoding/json"
	"fmt"
)

// Kind is the GPX element a record was built from.
type Kind int

const (
	Waypoint Kind = iota
	Trackpoint
	Routepoint
)

var kindNames = [...]string{"waypoint", "trackpoint", "routepoint"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// JSON keys of the fixed record fields.
const (
	KeyKind      = "gpxpoint"
	KeyLatitude  = "latitude"
	KeyLongitude = "longitude"
	KeyMGRS      = "mgrs"
)

func isFixedKey(k string) bool {
	return k == KeyKind || k == KeyLatitude || k == KeyLongitude || k == KeyMGRS
}

// Record is a validated point. Records are only created by a Builder and
// cannot be changed afterwards.
type Record struct {
	kind      Kind
	latitude  float64
	longitude float64
	mgrs      string
	extra     map[string]*string
}

func (r Record) Kind() Kind         { return r.kind }
func (r Record) Latitude() float64  { return r.latitude }
func (r Record) Longitude() float64 { return r.longitude }
func (r Record) MGRS() string       { return r.mgrs }

// Extra returns the value of an extra field. ok is false if the field is
// absent; a nil value with ok set means the field is null.
func (r Record) Extra(key string) (value *string, ok bool) {
	v, ok := r.extra[key]
	if v == nil {
		return nil, ok
	}
	s := *v
	return &s, ok
}

// Fields flattens the record into one map: the fixed fields plus the extra
// fields, with the fixed fields winning on name collisions.
func (r Record) Fields() map[string]any {
	out := make(map[string]any, len(r.extra)+4)
	for k, v := range r.extra {
		if v == nil {
			out[k] = nil
		} else {
			out[k] = *v
		}
	}
	out[KeyKind] = r.kind.String()
	out[KeyLatitude] = r.latitude
	out[KeyLongitude] = r.longitude
	out[KeyMGRS] = r.mgrs
	return out
}

func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Fields())
}

func (r Record) MarshalYAML() (any, error) {
	return r.Fields(), nil
}
