package iceweather

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Station represents a single weather observation site run by the Icelandic Met Office.
type Station struct {
	ID        int     `yaml:"id" json:"id" validate:"gt=0"`
	Name      string  `yaml:"name" json:"name" validate:"required"`
	Latitude  float64 `yaml:"lat" json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `yaml:"lon" json:"lon" validate:"gte=-180,lte=180"`
}

// RankedStation is a station along with its distance (in km) from a queried location.
type RankedStation struct {
	Station
	Distance float64 `json:"distance_km"`
}
