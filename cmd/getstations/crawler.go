package main

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

	"github.com/PuerkitoBio/goquery"
	"github.com/rmrobinson/iceweather"
	"go.uber.org/zap"
)

var (
	errUnhandledStatusCode = errors.New("unhandled status code")
	errFieldNotFound       = errors.New("field not found")
	errInvalidLocation     = errors.New("invalid location")
)

type stationLink struct {
	name string
	url  string
}

type crawler struct {
	logger *zap.Logger
	client *http.Client

	// delay is waited between requests to the station pages.
	delay time.Duration
}

func (c *crawler) getWeatherStations(ctx context.Context, listURL string) ([]iceweather.Station, error) {
	body, err := c.loadPath(ctx, listURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	links, err := parseStationList(body, listURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("found stations",
		zap.Int("count", len(links)),
	)

	var stations []iceweather.Station
	for _, link := range links {
		station, err := c.getWeatherStation(ctx, link)
		if err != nil {
			c.logger.Warn("error handling station",
				zap.String("name", link.name),
				zap.String("path", link.url),
				zap.Error(err),
			)
		} else {
			stations = append(stations, station)
		}

		select {
		case <-ctx.Done():
			return stations, ctx.Err()
		case <-time.After(c.delay):
		}
	}

	return stations, nil
}

func (c *crawler) getWeatherStation(ctx context.Context, link stationLink) (iceweather.Station, error) {
	body, err := c.loadPath(ctx, link.url)
	if err != nil {
		return iceweather.Station{}, err
	}
	defer body.Close()

	station, err := parseStationPage(body)
	if err != nil {
		return iceweather.Station{}, err
	}
	station.Name = link.name
	return station, nil
}

func (c *crawler) loadPath(ctx context.Context, path string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		c.logger.Warn("error creating new request",
			zap.Error(err),
		)
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("error performing request",
			zap.Error(err),
		)
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		c.logger.Debug("received non-OK response",
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: %d", errUnhandledStatusCode, resp.StatusCode)
	}

	return resp.Body, nil
}

// parseStationList reads the station overview table, where each row has the station name
// in a "name" cell and a link labelled "Uppl." to the station's details page.
func parseStationList(r io.Reader, baseURL string) ([]stationLink, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	var links []stationLink
	doc.Find("td.name").Each(func(_ int, cell *goquery.Selection) {
		name := strings.TrimSpace(cell.Text())

		href, ok := cell.Parent().Find("a").FilterFunction(func(_ int, a *goquery.Selection) bool {
			return strings.TrimSpace(a.Text()) == "Uppl."
		}).First().Attr("href")
		if !ok || name == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, stationLink{
			name: name,
			url:  base.ResolveReference(ref).String(),
		})
	})

	return links, nil
}

// parseStationPage reads the station number and location from a station's details page.
func parseStationPage(r io.Reader) (iceweather.Station, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return iceweather.Station{}, err
	}

	idText, err := tableValue(doc, "Stöðvanúmer")
	if err != nil {
		return iceweather.Station{}, err
	}
	id, err := strconv.Atoi(idText)
	if err != nil {
		return iceweather.Station{}, fmt.Errorf("station number %q: %w", idText, err)
	}

	locText, err := tableValue(doc, "Staðsetning")
	if err != nil {
		return iceweather.Station{}, err
	}
	lat, lon, err := parseLocation(locText)
	if err != nil {
		return iceweather.Station{}, err
	}

	return iceweather.Station{
		ID:        id,
		Latitude:  lat,
		Longitude: lon,
	}, nil
}

// tableValue returns the text of the last cell in the row whose label cell matches.
func tableValue(doc *goquery.Document, label string) (string, error) {
	row := doc.Find("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
		return strings.TrimSpace(td.Text()) == label
	}).First().Parent()
	if row.Length() == 0 {
		return "", fmt.Errorf("%w: %s", errFieldNotFound, label)
	}
	return strings.TrimSpace(row.Find("td").Last().Text()), nil
}

// parseLocation reads coordinates of the form "64°07.648', 21°54.166' (64,1275, 21,9028)".
// Decimal commas are used and longitudes are given as degrees west.
func parseLocation(text string) (float64, float64, error) {
	parts := strings.Split(text, "(")
	coords := strings.TrimSuffix(strings.TrimSpace(parts[len(parts)-1]), ")")

	values := strings.Split(coords, ", ")
	if len(values) != 2 {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidLocation, text)
	}

	lat, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(values[0]), ",", "."), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidLocation, text)
	}
	lon, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(values[1]), ",", "."), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", errInvalidLocation, text)
	}

	return lat, lon * -1, nil
}
