package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rmrobinson/iceweather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const stationListHTML = `<html><body><table>
<tr><td class="name">Reykjavík</td><td>Sjálfvirk</td><td><a href="/vedur/stodvar/?s=reykjavik">Uppl.</a></td></tr>
<tr><td class="name">Seltjarnarnes - Suðurnes</td><td><a href="/kort">Kort</a> <a href="/vedur/stodvar/?s=seltjarnarnes">Uppl.</a></td></tr>
<tr><td class="name">Horfin</td><td><a href="/vedur/stodvar/?s=horfin">Uppl.</a></td></tr>
<tr><td class="name">Án tengils</td><td>-</td></tr>
</table></body></html>`

const reykjavikHTML = `<html><body><table>
<tr><td>Nafn</td><td>Reykjavík</td></tr>
<tr><td>Stöðvanúmer</td><td>1</td></tr>
<tr><td>Staðsetning</td><td>64°07.648', 21°54.166' (64,1275, 21,9028)</td></tr>
</table></body></html>`

const seltjarnarnesHTML = `<html><body><table>
<tr><td>Stöðvanúmer</td><td> 1471 </td></tr>
<tr><td>Staðsetning</td><td>Hnit</td><td>64°09.276', 22°01.584' (64,1546, 22,0264)</td></tr>
</table></body></html>`

func TestParseLocation(t *testing.T) {
	lat, lon, err := parseLocation("64°07.648', 21°54.166' (64,1275, 21,9028)")
	require.NoError(t, err)
	assert.InDelta(t, 64.1275, lat, 1e-9)
	assert.InDelta(t, -21.9028, lon, 1e-9)

	_, _, err = parseLocation("óþekkt")
	assert.ErrorIs(t, err, errInvalidLocation)
	_, _, err = parseLocation("(a, b)")
	assert.ErrorIs(t, err, errInvalidLocation)
}

func TestParseStationPage(t *testing.T) {
	s, err := parseStationPage(strings.NewReader(seltjarnarnesHTML))
	require.NoError(t, err)
	assert.Equal(t, iceweather.Station{ID: 1471, Latitude: 64.1546, Longitude: -22.0264}, s)

	_, err = parseStationPage(strings.NewReader(`<html><body><p>nothing here</p></body></html>`))
	assert.ErrorIs(t, err, errFieldNotFound)
}

func TestGetWeatherStations(t *testing.T) {
	pages := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("s") {
		case "":
			w.Write([]byte(stationListHTML))
		case "reykjavik":
			w.Write([]byte(reykjavikHTML))
		case "seltjarnarnes":
			w.Write([]byte(seltjarnarnesHTML))
		default:
			http.NotFound(w, r)
		}
	})
	mux := http.NewServeMux()
	mux.Handle("/vedur/stodvar", pages)
	mux.Handle("/vedur/stodvar/", pages)

	server := httptest.NewServer(mux)
	defer server.Close()

	c := crawler{
		logger: zap.NewNop(),
		client: server.Client(),
	}

	stations, err := c.getWeatherStations(context.Background(), server.URL+"/vedur/stodvar")
	require.NoError(t, err)
	assert.Equal(t, []iceweather.Station{
		{ID: 1, Name: "Reykjavík", Latitude: 64.1275, Longitude: -21.9028},
		{ID: 1471, Name: "Seltjarnarnes - Suðurnes", Latitude: 64.1546, Longitude: -22.0264},
	}, stations)

	_, err = iceweather.NewRegistry(stations)
	assert.NoError(t, err)
}
