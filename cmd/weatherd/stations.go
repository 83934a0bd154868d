package main

import (
	"os"

	"github.com/rmrobinson/iceweather"
)

func loadStations(path string) (*iceweather.Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return iceweather.LoadRegistry(f)
}
