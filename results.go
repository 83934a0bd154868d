package iceweather

import (
	"encoding/json"
	"sort"
)

// Languages supported by the vedur.is service.
const (
	LangIcelandic = "is"
	LangEnglish   = "en"

	DefaultLang = LangIcelandic
)

// ForecastKey is the key the nested forecast list is reported under when a Record is flattened.
const ForecastKey = "forecast"

// Record is a single flattened entry of a vedur.is response, such as one station's observation.
// Fields holds the entry's attributes and simple child values keyed by tag name.
// Forecasts is only populated for forecast responses and holds one map per forecast time.
type Record struct {
	Fields    map[string]string
	Forecasts []map[string]string
}

// Get returns the named field, or an empty string if it is not set.
func (r Record) Get(key string) string {
	return r.Fields[key]
}

// ID returns the id attribute of the record (station ID or text type).
func (r Record) ID() string {
	return r.Get("id")
}

// Keys returns the field names of the record in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsMap returns the record as a single mapping, with any forecasts nested under ForecastKey.
func (r Record) AsMap() map[string]interface{} {
	m := make(map[string]interface{}, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	if r.Forecasts != nil {
		forecasts := make([]interface{}, 0, len(r.Forecasts))
		for _, f := range r.Forecasts {
			fm := make(map[string]interface{}, len(f))
			for k, v := range f {
				fm[k] = v
			}
			forecasts = append(forecasts, fm)
		}
		m[ForecastKey] = forecasts
	}
	return m
}

// MarshalJSON encodes the record as a flat JSON object.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.AsMap())
}

// Results is the set of records returned by a single request.
type Results struct {
	Records []Record `json:"results"`
}

// ByID returns the first record with the supplied id.
func (r *Results) ByID(id string) (Record, bool) {
	for _, rec := range r.Records {
		if rec.ID() == id {
			return rec, true
		}
	}
	return Record{}, false
}

// AsMap returns the results as a mapping with the records listed under "results".
func (r *Results) AsMap() map[string]interface{} {
	records := make([]interface{}, 0, len(r.Records))
	for _, rec := range r.Records {
		records = append(records, rec.AsMap())
	}
	return map[string]interface{}{
		"results": records,
	}
}
