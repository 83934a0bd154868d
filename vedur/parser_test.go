package vedur

import (
	"testing"

	"github.com/rmrobinson/iceweather"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const observationXML = `<?xml version="1.0" encoding="utf-8"?>
<observations>
  <station id="1" valid="1">
    <name>Reykjavík</name>
    <time>2021-03-04 12:00:00</time>
    <err></err>
    <link>http://www.vedur.is/vedur/athuganir/kort/hofudborgarsvaedid/#group=100&amp;station=1</link>
    <F>5</F>
    <D>NA</D>
    <T>1,2</T>
    <W>Skýjað</W>
    <SND/>
  </station>
  <station id="422" valid="1">
    <name>Akureyri</name>
    <time>2021-03-04 12:00:00</time>
    <err></err>
    <link>http://www.vedur.is/</link>
    <F>2</F>
    <T>-3,0</T>
  </station>
</observations>`

const forecastXML = `<?xml version="1.0" encoding="utf-8"?>
<forecasts>
  <station id="1" valid="1">
    <name>Reykjavík</name>
    <atime>2021-03-04 09:00:00</atime>
    <err></err>
    <link>http://www.vedur.is/</link>
    <forecast>
      <ftime>2021-03-04 12:00:00</ftime>
      <F>4</F>
      <D>A</D>
      <T>2</T>
      <W>Skýjað</W>
    </forecast>
    <forecast>
      <ftime>2021-03-04 15:00:00</ftime>
      <F>6</F>
      <D>ANA</D>
      <T>1</T>
      <W>Rigning</W>
    </forecast>
  </station>
  <station id="9999" valid="0">
    <name></name>
    <err>Engin spá fyrir stöð</err>
  </station>
</forecasts>`

const textXML = `<?xml version="1.0" encoding="utf-8"?>
<texts>
  <text id="3">
    <title>Veðurhorfur á höfuðborgarsvæðinu</title>
    <creation>2021-03-04 10:31:00</creation>
    <valid_from>2021-03-04 12:00:00</valid_from>
    <valid_to>2021-03-05 18:00:00</valid_to>
    <content>Norðaustan 5-10 m/s.<br/><br/>  Hiti 0 til 4 stig.</content>
  </text>
</texts>`

type parseXMLTest struct {
	name      string
	body      string
	forecasts bool
	result    *iceweather.Results
}

var parseXMLTests = []parseXMLTest{
	{
		"observations",
		observationXML,
		false,
		&iceweather.Results{
			Records: []iceweather.Record{
				{
					Fields: map[string]string{
						"id":    "1",
						"valid": "1",
						"name":  "Reykjavík",
						"time":  "2021-03-04 12:00:00",
						"err":   "",
						"link":  "http://www.vedur.is/vedur/athuganir/kort/hofudborgarsvaedid/#group=100&station=1",
						"F":     "5",
						"D":     "NA",
						"T":     "1,2",
						"W":     "Skýjað",
						"SND":   "",
					},
				},
				{
					Fields: map[string]string{
						"id":    "422",
						"valid": "1",
						"name":  "Akureyri",
						"time":  "2021-03-04 12:00:00",
						"err":   "",
						"link":  "http://www.vedur.is/",
						"F":     "2",
						"T":     "-3,0",
					},
				},
			},
		},
	},
	{
		"forecasts",
		forecastXML,
		true,
		&iceweather.Results{
			Records: []iceweather.Record{
				{
					Fields: map[string]string{
						"id":    "1",
						"valid": "1",
						"name":  "Reykjavík",
						"atime": "2021-03-04 09:00:00",
						"err":   "",
						"link":  "http://www.vedur.is/",
					},
					Forecasts: []map[string]string{
						{"ftime": "2021-03-04 12:00:00", "F": "4", "D": "A", "T": "2", "W": "Skýjað"},
						{"ftime": "2021-03-04 15:00:00", "F": "6", "D": "ANA", "T": "1", "W": "Rigning"},
					},
				},
				{
					Fields: map[string]string{
						"id":    "9999",
						"valid": "0",
						"name":  "",
						"err":   "Engin spá fyrir stöð",
					},
					Forecasts: []map[string]string{},
				},
			},
		},
	},
	{
		"text with line breaks",
		textXML,
		false,
		&iceweather.Results{
			Records: []iceweather.Record{
				{
					Fields: map[string]string{
						"id":         "3",
						"title":      "Veðurhorfur á höfuðborgarsvæðinu",
						"creation":   "2021-03-04 10:31:00",
						"valid_from": "2021-03-04 12:00:00",
						"valid_to":   "2021-03-05 18:00:00",
						"content":    "Norðaustan 5-10 m/s. Hiti 0 til 4 stig.",
					},
				},
			},
		},
	},
	{
		"empty document",
		`<observations></observations>`,
		false,
		&iceweather.Results{
			Records: []iceweather.Record{},
		},
	},
}

func TestParseXML(t *testing.T) {
	for _, tt := range parseXMLTests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseXML([]byte(tt.body), tt.forecasts)
			require.NoError(t, err)
			assert.Equal(t, tt.result, res)
		})
	}
}

func TestParseXMLMalformed(t *testing.T) {
	_, err := parseXML([]byte(`<observations><station id="1">`), false)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestParseXMLLatin1(t *testing.T) {
	body := append([]byte(`<?xml version="1.0" encoding="ISO-8859-1"?><observations><station id="1"><name>Reykjav`), 0xed)
	body = append(body, []byte(`k</name></station></observations>`)...)

	res, err := parseXML(body, false)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Reykjavík", res.Records[0].Get("name"))
}

type parseJSONTest struct {
	name      string
	body      string
	forecasts bool
	result    *iceweather.Results
}

var parseJSONTests = []parseJSONTest{
	{
		"observations",
		`{"results": [{"id": "1", "valid": "1", "name": "Reykjavík", "F": 5, "T": "1,2", "err": null}]}`,
		false,
		&iceweather.Results{
			Records: []iceweather.Record{
				{
					Fields: map[string]string{
						"id":    "1",
						"valid": "1",
						"name":  "Reykjavík",
						"F":     "5",
						"T":     "1,2",
						"err":   "",
					},
				},
			},
		},
	},
	{
		"forecasts",
		`{"results": [{"id": "1", "atime": "2021-03-04 09:00:00", "forecast": [{"ftime": "2021-03-04 12:00:00", "F": 4.5}]}]}`,
		true,
		&iceweather.Results{
			Records: []iceweather.Record{
				{
					Fields: map[string]string{
						"id":    "1",
						"atime": "2021-03-04 09:00:00",
					},
					Forecasts: []map[string]string{
						{"ftime": "2021-03-04 12:00:00", "F": "4.5"},
					},
				},
			},
		},
	},
}

func TestParseJSON(t *testing.T) {
	for _, tt := range parseJSONTests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := parseJSON([]byte(tt.body), tt.forecasts)
			require.NoError(t, err)
			assert.Equal(t, tt.result, res)
		})
	}
}

func TestParseJSONMalformed(t *testing.T) {
	_, err := parseJSON([]byte(`{"results": [`), false)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseJSON([]byte(`{"results": [{"forecast": ["x"]}]}`), true)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	_, err = parseJSON([]byte(`{"error": "unknown station"}`), false)
	assert.ErrorIs(t, err, ErrMalformedResponse)

	res, err := parseJSON([]byte(`{"results": []}`), false)
	require.NoError(t, err)
	assert.Empty(t, res.Records)
}
