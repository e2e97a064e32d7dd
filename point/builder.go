package point

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"

	"github.com/bgraf/coordextract/coords"
	"github.com/bgraf/coordextract/gpx"
	"github.com/bgraf/coordextract/mgrs"
)

// ErrSkipped is returned by Build for points with a NaN coordinate. It is not
// a failure: such points are left out of the output.
var ErrSkipped = errors.New("point skipped")

// Mode selects how BuildAll treats points that fail to build.
type Mode int

const (
	// FailFast aborts on the first point that fails.
	FailFast Mode = iota
	// BestEffort logs and counts failing points and keeps going.
	BestEffort
)

func (m Mode) String() string {
	if m == BestEffort {
		return "best-effort"
	}
	return "fail-fast"
}

func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "fail-fast":
		return FailFast, nil
	case "best-effort":
		return BestEffort, nil
	}
	return FailFast, fmt.Errorf("unknown build mode %q", s)
}

// Stats counts the outcome of a BuildAll call.
type Stats struct {
	Built   int `json:"built"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

type Builder struct {
	mode Mode
	log  *slog.Logger
}

func NewBuilder(mode Mode, log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{mode: mode, log: log}
}

// Build validates a coordinate pair, converts it to MGRS and returns the
// record. NaN coordinates yield ErrSkipped; out of range coordinates yield
// coords.ErrInvalidLatitude or coords.ErrInvalidLongitude.
func (b *Builder) Build(kind Kind, lat, lon float64, extra map[string]*string) (Record, error) {
	if math.IsNaN(lat) || math.IsNaN(lon) {
		b.log.Warn("skipping point with NaN coordinate",
			slog.String("kind", kind.String()),
			slog.String("lat", formatFloat(lat)),
			slog.String("lon", formatFloat(lon)),
		)
		return Record{}, ErrSkipped
	}

	if err := coords.ValidateLatitude(lat); err != nil {
		return Record{}, err
	}
	if err := coords.ValidateLongitude(lon); err != nil {
		return Record{}, err
	}

	ref, err := mgrs.FromLatLon(lat, lon)
	if err != nil {
		return Record{}, err
	}
	if err := coords.ValidateMGRS(ref); err != nil {
		return Record{}, err
	}

	fields := make(map[string]*string, len(extra))
	for k, v := range extra {
		if isFixedKey(k) {
			continue
		}
		if v != nil {
			s := *v
			v = &s
		}
		fields[k] = v
	}

	return Record{
		kind:      kind,
		latitude:  lat,
		longitude: lon,
		mgrs:      ref,
		extra:     fields,
	}, nil
}

// BuildAll builds the waypoints, then the trackpoints, then the routepoints
// of an extraction, each in document order.
func (b *Builder) BuildAll(x *gpx.Extraction) ([]Record, Stats, error) {
	groups := []struct {
		kind   Kind
		points []gpx.RawCoordinate
	}{
		{Waypoint, x.Waypoints},
		{Trackpoint, x.Trackpoints},
		{Routepoint, x.Routepoints},
	}

	var stats Stats
	records := make([]Record, 0, x.Len())

	for _, g := range groups {
		for i, p := range g.points {
			r, err := b.Build(g.kind, p.Lat, p.Lon, p.Extra)
			switch {
			case err == nil:
				records = append(records, r)
				stats.Built++
			case errors.Is(err, ErrSkipped):
				stats.Skipped++
			case b.mode == BestEffort:
				stats.Failed++
				b.log.Warn("dropping point",
					slog.String("kind", g.kind.String()),
					slog.Int("index", i),
					slog.Any("error", err),
				)
			default:
				return nil, stats, fmt.Errorf("%s %d: %w", g.kind, i, err)
			}
		}
	}

	return records, stats, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
