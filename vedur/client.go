// Package vedur retrieves observations, forecasts and descriptive texts from the
// Icelandic Met Office xmlweather service (https://xmlweather.vedur.is).
package vedur

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rmrobinson/iceweather"
	"go.uber.org/zap"
)

// DefaultBaseURL is the endpoint of the vedur.is xmlweather service.
const DefaultBaseURL = "https://xmlweather.vedur.is/"

const (
	defaultTimeout = 30 * time.Second

	typeObservation = "obs"
	typeForecast    = "forec"
	typeText        = "txt"

	// Every parameter the service reports for observations and forecasts.
	stationParams = "F;FX;FG;D;T;W;V;N;P;RH;SNC;SND;SED;RTE;TD;R"
)

// View is the document format requested from the service.
type View string

// Supported response formats.
const (
	ViewXML  View = "xml"
	ViewJSON View = "json"
)

var (
	// ErrRequestFailed is returned if the service could not be reached or responded with a non-OK status.
	ErrRequestFailed = errors.New("request failed")
	// ErrMalformedResponse is returned if the service response could not be parsed.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoIDs is returned if no station IDs or text types are supplied.
	ErrNoIDs = errors.New("no ids supplied")
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient overrides the HTTP client used to make requests.
// The supplied client is copied and never modified.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the timeout applied to each request, regardless of option order.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// WithView sets the document format requested from the service.
func WithView(view View) Option {
	return func(c *Client) {
		c.view = view
	}
}

// Client makes requests against the vedur.is xmlweather service.
// It holds no state between calls; results are neither cached nor retried.
type Client struct {
	baseURL    string
	view       View
	httpClient *http.Client
	timeout    *time.Duration

	logger *zap.Logger
}

// NewClient creates a new client.
func NewClient(logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		view:    ViewXML,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	httpClient := http.Client{
		Timeout: defaultTimeout,
	}
	if c.httpClient != nil {
		httpClient = *c.httpClient
	}
	if c.timeout != nil {
		httpClient.Timeout = *c.timeout
	}
	c.httpClient = &httpClient
	c.timeout = nil
	return c
}

// Observations returns the latest observations for the supplied stations.
func (c *Client) Observations(ctx context.Context, ids []int, lang string) (*iceweather.Results, error) {
	if len(ids) < 1 {
		return nil, ErrNoIDs
	}

	params := c.params(typeObservation, lang, joinInts(ids))
	params.Set("params", stationParams)
	return c.get(ctx, params, false)
}

// Observation returns the latest observation for the supplied station.
func (c *Client) Observation(ctx context.Context, id int, lang string) (*iceweather.Results, error) {
	return c.Observations(ctx, []int{id}, lang)
}

// ObservationForClosest returns the latest observation for the station in the registry nearest to the supplied point.
func (c *Client) ObservationForClosest(ctx context.Context, reg *iceweather.Registry, lat float64, lon float64, lang string) (*iceweather.Results, iceweather.Station, error) {
	s, err := reg.ClosestStation(lat, lon)
	if err != nil {
		return nil, iceweather.Station{}, err
	}

	results, err := c.Observation(ctx, s.ID, lang)
	if err != nil {
		return nil, iceweather.Station{}, err
	}
	return results, s, nil
}

// Forecasts returns the forecasts for the supplied stations.
func (c *Client) Forecasts(ctx context.Context, ids []int, lang string) (*iceweather.Results, error) {
	if len(ids) < 1 {
		return nil, ErrNoIDs
	}

	params := c.params(typeForecast, lang, joinInts(ids))
	params.Set("params", stationParams)
	return c.get(ctx, params, true)
}

// Forecast returns the forecast for the supplied station.
func (c *Client) Forecast(ctx context.Context, id int, lang string) (*iceweather.Results, error) {
	return c.Forecasts(ctx, []int{id}, lang)
}

// ForecastForClosest returns the forecast for the station in the registry nearest to the supplied point.
func (c *Client) ForecastForClosest(ctx context.Context, reg *iceweather.Registry, lat float64, lon float64, lang string) (*iceweather.Results, iceweather.Station, error) {
	s, err := reg.ClosestStation(lat, lon)
	if err != nil {
		return nil, iceweather.Station{}, err
	}

	results, err := c.Forecast(ctx, s.ID, lang)
	if err != nil {
		return nil, iceweather.Station{}, err
	}
	return results, s, nil
}

// Texts returns the descriptive forecast texts of the supplied types. See TextTypes for the known types.
func (c *Client) Texts(ctx context.Context, types []string, lang string) (*iceweather.Results, error) {
	if len(types) < 1 {
		return nil, ErrNoIDs
	}

	return c.get(ctx, c.params(typeText, lang, strings.Join(types, ";")), false)
}

// Text returns the descriptive forecast text of the supplied type.
func (c *Client) Text(ctx context.Context, textType string, lang string) (*iceweather.Results, error) {
	return c.Texts(ctx, []string{textType}, lang)
}

func (c *Client) params(requestType string, lang string, ids string) url.Values {
	if lang == "" {
		lang = iceweather.DefaultLang
	}

	params := url.Values{}
	params.Set("op_w", "xml")
	params.Set("type", requestType)
	params.Set("lang", lang)
	params.Set("view", string(c.view))
	params.Set("ids", ids)
	return params
}

func (c *Client) get(ctx context.Context, params url.Values, forecasts bool) (*iceweather.Results, error) {
	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		c.logger.Warn("error creating new request",
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("error performing request",
			zap.String("url", requestURL),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Info("received non-OK response",
			zap.String("url", requestURL),
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d for %s", ErrRequestFailed, resp.StatusCode, requestURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("error reading response",
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}

	var results *iceweather.Results
	if c.view == ViewJSON {
		results, err = parseJSON(body, forecasts)
	} else {
		results, err = parseXML(body, forecasts)
	}
	if err != nil {
		c.logger.Warn("error parsing response",
			zap.String("url", requestURL),
			zap.Error(err),
		)
		return nil, err
	}

	c.logger.Debug("retrieved records",
		zap.String("type", params.Get("type")),
		zap.String("ids", params.Get("ids")),
		zap.Int("count", len(results.Records)),
	)
	return results, nil
}

func joinInts(vals []int) string {
	strs := make([]string, 0, len(vals))
	for _, v := range vals {
		strs = append(strs, strconv.Itoa(v))
	}
	return strings.Join(strs, ";")
}
