package iceweather

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	// ErrLocationNotFound is returned if no station can be found for the supplied lat/lon value.
	ErrLocationNotFound = status.New(codes.NotFound, "location not found")
	// ErrInvalidQuery is returned if a query fails validation.
	ErrInvalidQuery = errors.New("invalid query")
)

// Provider retrieves weather data for stations from a remote service.
type Provider interface {
	Observations(ctx context.Context, ids []int, lang string) (*Results, error)
	Forecasts(ctx context.Context, ids []int, lang string) (*Results, error)
	Texts(ctx context.Context, types []string, lang string) (*Results, error)
}

// API is an implementation of the WeatherService server.
type API struct {
	UnsafeWeatherServiceServer

	logger   *zap.Logger
	stations *Registry
	provider Provider
}

// NewAPI creates a new weather service server.
func NewAPI(logger *zap.Logger, stations *Registry, provider Provider) *API {
	return &API{
		logger:   logger,
		stations: stations,
		provider: provider,
	}
}

// Registry returns the stations the API searches over.
func (api *API) Registry() *Registry {
	return api.stations
}

// ClosestStations returns the stations nearest to the queried location.
func (api *API) ClosestStations(ctx context.Context, q LocationQuery) ([]RankedStation, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return api.stations.RankedStations(q.Latitude, q.Longitude, q.Limit)
}

// Observations gets the current observations for the queried stations.
func (api *API) Observations(ctx context.Context, q StationQuery) (*Results, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	results, err := api.provider.Observations(ctx, q.IDs, q.Lang)
	if err != nil {
		api.logger.Info("error getting station observations",
			zap.Ints("station_ids", q.IDs),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}

// ObservationForClosest gets the current observation for the station nearest to the queried location.
func (api *API) ObservationForClosest(ctx context.Context, q LocationQuery) (*Results, Station, error) {
	s, err := api.closest(q)
	if err != nil {
		return nil, Station{}, err
	}

	results, err := api.Observations(ctx, StationQuery{IDs: []int{s.ID}, Lang: q.Lang})
	if err != nil {
		return nil, Station{}, err
	}
	return results, s, nil
}

// Forecasts gets the forecasts for the queried stations.
func (api *API) Forecasts(ctx context.Context, q StationQuery) (*Results, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	results, err := api.provider.Forecasts(ctx, q.IDs, q.Lang)
	if err != nil {
		api.logger.Info("error getting station forecasts",
			zap.Ints("station_ids", q.IDs),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}

// ForecastForClosest gets the forecast for the station nearest to the queried location.
func (api *API) ForecastForClosest(ctx context.Context, q LocationQuery) (*Results, Station, error) {
	s, err := api.closest(q)
	if err != nil {
		return nil, Station{}, err
	}

	results, err := api.Forecasts(ctx, StationQuery{IDs: []int{s.ID}, Lang: q.Lang})
	if err != nil {
		return nil, Station{}, err
	}
	return results, s, nil
}

// Texts gets the queried descriptive forecast texts.
func (api *API) Texts(ctx context.Context, q TextQuery) (*Results, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	results, err := api.provider.Texts(ctx, q.Types, q.Lang)
	if err != nil {
		api.logger.Info("error getting forecast texts",
			zap.Strings("types", q.Types),
			zap.Error(err),
		)
		return nil, err
	}
	return results, nil
}

func (api *API) closest(q LocationQuery) (Station, error) {
	q.Limit = 1
	if err := q.Validate(); err != nil {
		return Station{}, fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}

	s, err := api.stations.ClosestStation(q.Latitude, q.Longitude)
	if err != nil {
		return Station{}, err
	}

	api.logger.Debug("resolved closest station",
		zap.Int("station_id", s.ID),
		zap.String("name", s.Name),
	)
	return s, nil
}
