package iceweather

import (
	"math"
	"sort"
)

// EarthRadius is the mean radius of the Earth in kilometres.
const EarthRadius = 6371.0088

type entry struct {
	latitude  float64
	longitude float64

	value interface{}
}

// Ranked is a value from a GeoSet along with its distance (in km) from a search point.
type Ranked struct {
	Value    interface{}
	Distance float64
}

// GeoSet is a collection that allows for values to be stored by their latitude and longitude;
// and allows for lookups to find the entries closest to the supplied latitude and longitude.
type GeoSet struct {
	entries []entry
}

// NewGeoSet returns a new GeoSet
func NewGeoSet() *GeoSet {
	return &GeoSet{}
}

// Add the supplied value to the location specified with the latitude and longitude (in degrees)
func (gs *GeoSet) Add(lat float64, lon float64, value interface{}) {
	gs.entries = append(gs.entries, entry{lat, lon, value})
}

// Closest returns the entry in the set that is nearest to the supplied latitude and longitude (in degrees).
// nil is returned if the set is empty.
func (gs *GeoSet) Closest(lat float64, lon float64) interface{} {
	ranked := gs.Nearest(lat, lon, 1)
	if len(ranked) < 1 {
		return nil
	}
	return ranked[0].Value
}

// Nearest returns up to limit entries ordered by ascending distance from the supplied point.
// Entries at equal distances keep the order they were added in.
func (gs *GeoSet) Nearest(lat float64, lon float64, limit int) []Ranked {
	ranked := make([]Ranked, 0, len(gs.entries))
	for _, entry := range gs.entries {
		ranked = append(ranked, Ranked{
			Value:    entry.value,
			Distance: Distance(lat, lon, entry.latitude, entry.longitude),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Distance < ranked[j].Distance
	})

	if limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// haversine function
func hsin(theta float64) float64 {
	return math.Pow(math.Sin(theta/2), 2)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Distance returns the great-circle distance in kilometres between two points given in degrees.
// See http://en.wikipedia.org/wiki/Haversine_formula
func Distance(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	h := hsin(radians(lat2-lat1)) + math.Cos(radians(lat1))*math.Cos(radians(lat2))*hsin(radians(lon2-lon1))
	// rounding can push h just outside [0, 1] for antipodal points
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadius * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
