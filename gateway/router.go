// Package gateway exposes the weather API over HTTP as JSON.
package gateway

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rmrobinson/iceweather"
	"go.uber.org/zap"
)

type handler struct {
	logger *zap.Logger
	api    *iceweather.API
}

// locationParams are the query parameters identifying a point.
type locationParams struct {
	Latitude  *float64 `form:"lat" binding:"required"`
	Longitude *float64 `form:"lon" binding:"required"`
	Limit     int      `form:"limit"`
	Lang      string   `form:"lang"`
}

func (p locationParams) query() iceweather.LocationQuery {
	return iceweather.LocationQuery{
		Latitude:  *p.Latitude,
		Longitude: *p.Longitude,
		Limit:     p.Limit,
		Lang:      p.Lang,
	}
}

// NewRouter creates the HTTP routes serving the supplied API.
func NewRouter(logger *zap.Logger, api *iceweather.API) *gin.Engine {
	h := &handler{
		logger: logger,
		api:    api,
	}

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	{
		v1.GET("/stations", h.listStations)
		v1.GET("/stations/closest", h.closestStations)
		v1.GET("/stations/:id", h.getStation)
		v1.GET("/observations", h.observations)
		v1.GET("/forecasts", h.forecasts)
		v1.GET("/texts", h.texts)
	}

	return r
}

func (h *handler) listStations(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"results": h.api.Registry().Stations()})
}

func (h *handler) getStation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "station id must be a number"})
		return
	}

	s, ok := h.api.Registry().StationForID(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "station not found"})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handler) closestStations(c *gin.Context) {
	var params locationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stations, err := h.api.ClosestStations(c.Request.Context(), params.query())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": stations})
}

func (h *handler) observations(c *gin.Context) {
	h.stationData(c, h.api.Observations, h.api.ObservationForClosest)
}

func (h *handler) forecasts(c *gin.Context) {
	h.stationData(c, h.api.Forecasts, h.api.ForecastForClosest)
}

type byIDs func(context.Context, iceweather.StationQuery) (*iceweather.Results, error)
type byLocation func(context.Context, iceweather.LocationQuery) (*iceweather.Results, iceweather.Station, error)

func (h *handler) stationData(c *gin.Context, ids byIDs, location byLocation) {
	lang := c.Query("lang")

	if raw, ok := c.GetQuery("ids"); ok {
		stationIDs, err := parseIDs(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		results, err := ids(c.Request.Context(), iceweather.StationQuery{IDs: stationIDs, Lang: lang})
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
		return
	}

	var params locationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "either ids or lat and lon are required"})
		return
	}

	results, station, err := location(c.Request.Context(), params.query())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"results": results.Records,
		"station": station,
	})
}

func (h *handler) texts(c *gin.Context) {
	results, err := h.api.Texts(c.Request.Context(), iceweather.TextQuery{
		Types: splitList(c.Query("types")),
		Lang:  c.Query("lang"),
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, iceweather.ErrInvalidQuery),
		errors.Is(err, iceweather.ErrInvalidLimit),
		errors.Is(err, iceweather.ErrInvalidCoordinate):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, iceweather.ErrNoStations):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Info("error serving request",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}

func splitList(raw string) []string {
	var ret []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ret = append(ret, part)
		}
	}
	return ret
}

func parseIDs(raw string) ([]int, error) {
	var ret []int
	for _, part := range splitList(raw) {
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.New("station ids must be numbers")
		}
		ret = append(ret, id)
	}
	return ret, nil
}
