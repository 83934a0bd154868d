package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/rmrobinson/iceweather"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const (
	configOutput  = "output"
	configListURL = "list_url"
	configDelay   = "delay"
)

func main() {
	pflag.String(configOutput, "/tmp/stations.yaml", "The path to save the results to")
	pflag.String(configListURL, "https://www.vedur.is/vedur/stodvar", "The page listing every station")
	pflag.Duration(configDelay, 500*time.Millisecond, "The delay between requests")
	pflag.Parse()

	viper.SetEnvPrefix("ICEWEATHER")
	viper.AutomaticEnv()
	viper.BindPFlags(pflag.CommandLine)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	f, err := os.Create(viper.GetString(configOutput))
	if err != nil {
		logger.Fatal("unable to create results file",
			zap.Error(err),
		)
		return
	}
	defer f.Close()

	c := crawler{
		logger: logger,
		client: &http.Client{Timeout: 30 * time.Second},
		delay:  viper.GetDuration(configDelay),
	}

	stations, err := c.getWeatherStations(context.Background(), viper.GetString(configListURL))
	if err != nil {
		logger.Fatal("unable to crawl stations",
			zap.Error(err),
		)
	}

	// the bundled registry rejects duplicate ids, so keep the first of each
	var records []iceweather.Station
	seen := map[int]bool{}
	for _, s := range stations {
		if seen[s.ID] {
			logger.Info("skipping duplicate station",
				zap.Int("station_id", s.ID),
				zap.String("name", s.Name),
			)
			continue
		}
		seen[s.ID] = true
		records = append(records, s)
	}

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		logger.Fatal("error writing records",
			zap.Error(err),
		)
	}
	enc.Close()

	logger.Info("wrote stations",
		zap.Int("count", len(records)),
		zap.String("path", viper.GetString(configOutput)),
	)
}
