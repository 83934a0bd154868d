package vedur

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"

	"github.com/rmrobinson/iceweather"
	"golang.org/x/net/html/charset"
)

// HTML line breaks in descriptive texts would otherwise be parsed as child elements.
var lineBreaks = regexp.MustCompile(`\s*(?:<br\s*/?>\s*)+`)

type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Content  string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

// parseXML flattens a document of the form <root><entry attr="..."><tag>value</tag>...</entry>...</root>
// into one record per entry. Nested <forecast> elements are collected into the record's forecasts.
func parseXML(body []byte, forecasts bool) (*iceweather.Results, error) {
	body = lineBreaks.ReplaceAll(body, []byte(" "))

	decoder := xml.NewDecoder(bytes.NewReader(body))
	decoder.CharsetReader = charset.NewReaderLabel

	var root node
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	results := &iceweather.Results{
		Records: make([]iceweather.Record, 0, len(root.Children)),
	}
	for _, entry := range root.Children {
		record := iceweather.Record{
			Fields: map[string]string{},
		}
		if forecasts {
			record.Forecasts = []map[string]string{}
		}

		for _, attr := range entry.Attrs {
			record.Fields[attr.Name.Local] = attr.Value
		}

		for _, child := range entry.Children {
			if forecasts && child.XMLName.Local == iceweather.ForecastKey {
				forecast := map[string]string{}
				for _, value := range child.Children {
					forecast[value.XMLName.Local] = value.Content
				}
				record.Forecasts = append(record.Forecasts, forecast)
				continue
			}

			record.Fields[child.XMLName.Local] = child.Content
		}

		results.Records = append(results.Records, record)
	}

	return results, nil
}

// parseJSON flattens a document of the form {"results": [{...}, ...]} where the values
// of each entry are scalars, apart from an optional list of forecasts.
func parseJSON(body []byte, forecasts bool) (*iceweather.Results, error) {
	var doc struct {
		Results *[]map[string]interface{} `json:"results"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	if doc.Results == nil {
		return nil, fmt.Errorf("%w: missing results", ErrMalformedResponse)
	}

	results := &iceweather.Results{
		Records: make([]iceweather.Record, 0, len(*doc.Results)),
	}
	for _, entry := range *doc.Results {
		record := iceweather.Record{
			Fields: map[string]string{},
		}
		if forecasts {
			record.Forecasts = []map[string]string{}
		}

		for k, v := range entry {
			list, isList := v.([]interface{})
			if k != iceweather.ForecastKey || !isList {
				record.Fields[k] = stringFromJSON(v)
				continue
			}

			for _, item := range list {
				values, ok := item.(map[string]interface{})
				if !ok {
					return nil, fmt.Errorf("%w: forecast entry is not an object", ErrMalformedResponse)
				}

				forecast := make(map[string]string, len(values))
				for fk, fv := range values {
					forecast[fk] = stringFromJSON(fv)
				}
				record.Forecasts = append(record.Forecasts, forecast)
			}
		}

		results.Records = append(results.Records, record)
	}

	return results, nil
}

func stringFromJSON(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}

	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
