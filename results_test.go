package iceweather

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordMarshalJSON(t *testing.T) {
	results := &Results{
		Records: []Record{
			{
				Fields: map[string]string{"id": "1", "name": "Reykjavík", "T": "1,2"},
			},
			{
				Fields:    map[string]string{"id": "422", "atime": "2021-03-04 09:00:00"},
				Forecasts: []map[string]string{{"ftime": "2021-03-04 12:00:00", "T": "2"}},
			},
		},
	}

	b, err := json.Marshal(results)
	require.NoError(t, err)
	assert.JSONEq(t, `{"results": [
		{"id": "1", "name": "Reykjavík", "T": "1,2"},
		{"id": "422", "atime": "2021-03-04 09:00:00", "forecast": [{"ftime": "2021-03-04 12:00:00", "T": "2"}]}
	]}`, string(b))

	rec, ok := results.ByID("422")
	require.True(t, ok)
	assert.Equal(t, []string{"atime", "id"}, rec.Keys())
	assert.Equal(t, "", rec.Get("missing"))

	_, ok = results.ByID("2")
	assert.False(t, ok)
}

func TestRecordEmptyForecasts(t *testing.T) {
	rec := Record{
		Fields:    map[string]string{"id": "1"},
		Forecasts: []map[string]string{},
	}
	assert.Equal(t, map[string]interface{}{"id": "1", "forecast": []interface{}{}}, rec.AsMap())
}
