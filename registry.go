package iceweather

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sync"

	"gopkg.in/yaml.v3"
)

var (
	// ErrDuplicateStation is returned if two station records share an ID.
	ErrDuplicateStation = errors.New("duplicate station id")
	// ErrInvalidStation is returned if a station record is missing data or has out of range coordinates.
	ErrInvalidStation = errors.New("invalid station record")
	// ErrInvalidLimit is returned if a non-positive result limit is supplied.
	ErrInvalidLimit = errors.New("limit must be positive")
	// ErrInvalidCoordinate is returned if a supplied coordinate is not a finite number.
	ErrInvalidCoordinate = errors.New("coordinate must be a finite number")
	// ErrNoStations is returned if a proximity search is run against an empty registry.
	ErrNoStations = errors.New("no stations registered")
)

//go:embed stations.yaml
var stationsYAML []byte

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Registry is an immutable, ordered set of weather stations.
// The order is the order the stations were supplied in; it carries no meaning.
// A Registry is safe for concurrent use as it is never modified after creation.
type Registry struct {
	stations []Station
	geo      *GeoSet
}

// NewRegistry validates the supplied stations and returns a registry holding a copy of them.
func NewRegistry(stations []Station) (*Registry, error) {
	r := &Registry{
		stations: make([]Station, len(stations)),
		geo:      NewGeoSet(),
	}
	copy(r.stations, stations)

	seen := map[int]bool{}
	for idx, s := range r.stations {
		if err := validate.Struct(s); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrInvalidStation, idx, err)
		}
		if seen[s.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateStation, s.ID)
		}
		seen[s.ID] = true

		r.geo.Add(s.Latitude, s.Longitude, idx)
	}

	return r, nil
}

// LoadRegistry reads a YAML list of stations and builds a registry from them.
func LoadRegistry(reader io.Reader) (*Registry, error) {
	var stations []Station
	if err := yaml.NewDecoder(reader).Decode(&stations); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding stations: %w", err)
	}
	return NewRegistry(stations)
}

// DefaultRegistry returns the registry of Icelandic stations bundled with this package.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		r, err := LoadRegistry(bytes.NewReader(stationsYAML))
		if err != nil {
			panic(fmt.Sprintf("embedded station data is invalid: %v", err))
		}
		defaultRegistry = r
	})
	return defaultRegistry
}

// Len returns the number of stations in the registry.
func (r *Registry) Len() int {
	return len(r.stations)
}

// Stations returns all the stations in registry order.
func (r *Registry) Stations() []Station {
	ret := make([]Station, len(r.stations))
	copy(ret, r.stations)
	return ret
}

// StationForID returns the station with the supplied ID.
func (r *Registry) StationForID(id int) (Station, bool) {
	for _, s := range r.stations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// IDForStation returns the ID of the first station, in registry order, whose name exactly matches.
// Stations sharing a name with an earlier entry can only be reached by ID.
func (r *Registry) IDForStation(name string) (int, bool) {
	for _, s := range r.stations {
		if s.Name == name {
			return s.ID, true
		}
	}
	return 0, false
}

// RankedStations returns up to limit stations ordered by ascending distance from the supplied point.
// If limit exceeds the registry size every station is returned.
func (r *Registry) RankedStations(lat float64, lon float64, limit int) ([]RankedStation, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if !finite(lat) || !finite(lon) {
		return nil, ErrInvalidCoordinate
	}
	if len(r.stations) == 0 {
		return nil, ErrNoStations
	}

	nearest := r.geo.Nearest(lat, lon, limit)
	ret := make([]RankedStation, 0, len(nearest))
	for _, n := range nearest {
		ret = append(ret, RankedStation{
			Station:  r.stations[n.Value.(int)],
			Distance: n.Distance,
		})
	}
	return ret, nil
}

// ClosestStations returns up to limit stations ordered by ascending distance from the supplied point.
func (r *Registry) ClosestStations(lat float64, lon float64, limit int) ([]Station, error) {
	ranked, err := r.RankedStations(lat, lon, limit)
	if err != nil {
		return nil, err
	}

	ret := make([]Station, 0, len(ranked))
	for _, rs := range ranked {
		ret = append(ret, rs.Station)
	}
	return ret, nil
}

// ClosestStation returns the station nearest to the supplied point.
func (r *Registry) ClosestStation(lat float64, lon float64) (Station, error) {
	stations, err := r.ClosestStations(lat, lon, 1)
	if err != nil {
		return Station{}, err
	}
	return stations[0], nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Stations returns every bundled station.
func Stations() []Station {
	return DefaultRegistry().Stations()
}

// StationForID looks up a bundled station by its ID.
func StationForID(id int) (Station, bool) {
	return DefaultRegistry().StationForID(id)
}

// IDForStation looks up the ID of a bundled station by its name.
func IDForStation(name string) (int, bool) {
	return DefaultRegistry().IDForStation(name)
}

// ClosestStations returns the bundled stations nearest to the supplied point.
func ClosestStations(lat float64, lon float64, limit int) ([]Station, error) {
	return DefaultRegistry().ClosestStations(lat, lon, limit)
}
