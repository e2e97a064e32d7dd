package mgrs

import (
	"math"

	"github.com/wroge/wgs84"
)

const (
	// approximate grid meters per radian, the step size of the inverse
	// refinement
	metersPerRadian = 0.9996 * wgs84.A

	// inverse refinement stops once a step moves less than this many degrees
	refineTolerance = 1e-11
	refineSteps     = 16
)

type utmCoord struct {
	zone     int
	easting  float64
	northing float64
	south    bool
}

// zoneFor returns the UTM zone for a position, including the Norway and
// Svalbard exceptions.
func zoneFor(lat, lon float64) int {
	zone := int(math.Floor((lon+180)/6)) + 1
	if zone > 60 {
		zone = 60
	}

	if lat >= 56 && lat < 64 && lon >= 3 && lon < 12 {
		return 32
	}

	if lat >= 72 && lat <= 84 {
		switch {
		case lon >= 0 && lon < 9:
			return 31
		case lon >= 9 && lon < 21:
			return 33
		case lon >= 21 && lon < 33:
			return 35
		case lon >= 33 && lon < 42:
			return 37
		}
	}

	return zone
}

func centralMeridian(zone int) float64 {
	return float64(zone-1)*6 - 180 + 3
}

func zoneSystem(zone int, south bool) wgs84.ProjectedReferenceSystem {
	return wgs84.UTM(float64(zone), !south)
}

// toUTM projects a geodetic position into the given zone.
func toUTM(lat, lon float64, zone int) utmCoord {
	return project(lat, lon, zone, lat < 0)
}

func project(lat, lon float64, zone int, south bool) utmCoord {
	easting, northing, _ := wgs84.LonLat().To(zoneSystem(zone, south))(lon, lat, 0)
	return utmCoord{zone: zone, easting: easting, northing: northing, south: south}
}

// fromUTM inverts toUTM. The inverse series of the projection drifts by tens
// of meters towards the zone edges, so its result is refined until projecting
// it again lands on c.
func fromUTM(c utmCoord) (lat, lon float64) {
	lon, lat, _ = zoneSystem(c.zone, c.south).To(wgs84.LonLat())(c.easting, c.northing, 0)

	for i := 0; i < refineSteps; i++ {
		p := project(lat, lon, c.zone, c.south)
		dLat := (c.northing - p.northing) / metersPerRadian * 180 / math.Pi
		dLon := (c.easting - p.easting) / (metersPerRadian * math.Cos(lat*math.Pi/180)) * 180 / math.Pi
		lat += dLat
		lon += dLon
		if math.Abs(dLat) < refineTolerance && math.Abs(dLon) < refineTolerance {
			break
		}
	}

	if lon > 180 {
		lon -= 360
	} else if lon < -180 {
		lon += 360
	}
	return lat, lon
}
