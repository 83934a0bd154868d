package iceweather

// LocationQuery identifies the stations nearest to a point.
type LocationQuery struct {
	Latitude  float64 `validate:"gte=-90,lte=90"`
	Longitude float64 `validate:"gte=-180,lte=180"`
	Limit     int     `validate:"gte=1"`
	Lang      string  `validate:"omitempty,oneof=is en"`
}

// Validate checks the query, filling in defaults for unset optional values.
func (q *LocationQuery) Validate() error {
	if q.Limit == 0 {
		q.Limit = 1
	}
	if q.Lang == "" {
		q.Lang = DefaultLang
	}
	return validate.Struct(q)
}

// StationQuery identifies stations by ID.
type StationQuery struct {
	IDs  []int  `validate:"required,min=1,dive,gt=0"`
	Lang string `validate:"omitempty,oneof=is en"`
}

// Validate checks the query, filling in defaults for unset optional values.
func (q *StationQuery) Validate() error {
	if q.Lang == "" {
		q.Lang = DefaultLang
	}
	return validate.Struct(q)
}

// TextQuery identifies descriptive forecast texts by type.
type TextQuery struct {
	Types []string `validate:"required,min=1,dive,required"`
	Lang  string   `validate:"omitempty,oneof=is en"`
}

// Validate checks the query, filling in defaults for unset optional values.
func (q *TextQuery) Validate() error {
	if q.Lang == "" {
		q.Lang = DefaultLang
	}
	return validate.Struct(q)
}
