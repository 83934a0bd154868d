package main

import (
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/rmrobinson/iceweather"
	"github.com/rmrobinson/iceweather/gateway"
	"github.com/rmrobinson/iceweather/vedur"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const (
	configGRPCPort = "grpc_port"
	configHTTPPort = "http_port"
	configBaseURL  = "base_url"
	configTimeout  = "timeout"
	configView     = "view"
	configStations = "stations"
)

func main() {
	pflag.Int(configGRPCPort, 10101, "The port to serve the gRPC API on")
	pflag.Int(configHTTPPort, 8080, "The port to serve the HTTP API on; 0 disables it")
	pflag.String(configBaseURL, vedur.DefaultBaseURL, "The vedur.is xmlweather endpoint")
	pflag.Duration(configTimeout, 0, "The timeout applied to requests to vedur.is; 0 uses the client default")
	pflag.String(configView, string(vedur.ViewXML), "The document format requested from vedur.is (xml or json)")
	pflag.String(configStations, "", "A YAML station list to use instead of the bundled one")
	pflag.Parse()

	viper.SetEnvPrefix("ICEWEATHER")
	viper.AutomaticEnv()
	viper.BindPFlags(pflag.CommandLine)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	stations := iceweather.DefaultRegistry()
	if path := viper.GetString(configStations); path != "" {
		stations, err = loadStations(path)
		if err != nil {
			logger.Fatal("unable to load stations",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	opts := []vedur.Option{
		vedur.WithBaseURL(viper.GetString(configBaseURL)),
		vedur.WithView(vedur.View(viper.GetString(configView))),
	}
	if timeout := viper.GetDuration(configTimeout); timeout > 0 {
		opts = append(opts, vedur.WithTimeout(timeout))
	}

	api := iceweather.NewAPI(logger, stations, vedur.NewClient(logger, opts...))

	if port := viper.GetInt(configHTTPPort); port > 0 {
		router := gateway.NewRouter(logger, api)
		go func() {
			logger.Info("serving http",
				zap.Int("port", port),
			)
			err := http.ListenAndServe(fmt.Sprintf(":%d", port), router)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal("failed to serve http",
					zap.Error(err),
				)
			}
		}()
	}

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", viper.GetInt(configGRPCPort)))
	if err != nil {
		logger.Fatal("failed to listen",
			zap.Error(err),
		)
	}

	logger.Info("serving grpc",
		zap.Int("port", viper.GetInt(configGRPCPort)),
		zap.Int("station_count", stations.Len()),
	)

	grpcServer := grpc.NewServer()
	iceweather.RegisterWeatherServiceServer(grpcServer, api)
	err = grpcServer.Serve(lis)
	if err != nil {
		logger.Fatal("failed to serve",
			zap.Error(err),
		)
	}
}
