package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rmrobinson/iceweather"
	"github.com/rmrobinson/iceweather/vedur"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	configEndpoint  = "endpoint"
	configLatitude  = "latitude"
	configLongitude = "longitude"
	configLimit     = "limit"
	configLang      = "lang"
	configIDs       = "ids"
	configTypes     = "types"
	configOp        = "op"
)

func main() {
	pflag.String(configEndpoint, "localhost:10101", "The weatherd gRPC endpoint")
	pflag.Float64(configLatitude, 64.147550, "The latitude to search from")
	pflag.Float64(configLongitude, -21.946171, "The longitude to search from")
	pflag.Int(configLimit, 1, "The number of stations to return for the closest operation")
	pflag.String(configLang, iceweather.DefaultLang, "The language of the results (is or en)")
	pflag.String(configIDs, "", "Comma separated station IDs; if unset the closest station is used")
	pflag.String(configTypes, "2", "Comma separated text types for the texts operation (e.g. 2 for the national outlook, 3 for the capital area)")
	pflag.String(configOp, "all", "One of closest, observations, forecasts, texts or all")
	pflag.Parse()

	viper.SetEnvPrefix("ICEWEATHER")
	viper.AutomaticEnv()
	viper.BindPFlags(pflag.CommandLine)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	var grpcOpts []grpc.DialOption
	grpcOpts = append(grpcOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))

	weatherConn, err := grpc.NewClient(viper.GetString(configEndpoint), grpcOpts...)
	if err != nil {
		logger.Fatal("unable to dial weather server",
			zap.String("endpoint", viper.GetString(configEndpoint)),
			zap.Error(err),
		)
	}
	defer weatherConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	weatherClient := iceweather.NewWeatherServiceClient(weatherConn)
	lat := viper.GetFloat64(configLatitude)
	lon := viper.GetFloat64(configLongitude)
	lang := viper.GetString(configLang)
	op := viper.GetString(configOp)

	stationReq := iceweather.NewLocationRequest(lat, lon, 0, lang)
	if ids := viper.GetString(configIDs); ids != "" {
		stationReq = iceweather.NewStationRequest(parseIDs(logger, ids), lang)
	}

	if op == "closest" || op == "all" {
		resp, err := weatherClient.GetClosestStations(ctx, iceweather.NewLocationRequest(lat, lon, viper.GetInt(configLimit), lang))
		dump(logger, "closest stations", resp, err)
	}
	if op == "observations" || op == "all" {
		resp, err := weatherClient.GetObservations(ctx, stationReq)
		dump(logger, "observations", resp, err)
	}
	if op == "forecasts" || op == "all" {
		resp, err := weatherClient.GetForecasts(ctx, stationReq)
		dump(logger, "forecasts", resp, err)
	}
	if op == "texts" || op == "all" {
		types, unknown := splitTextTypes(viper.GetString(configTypes))
		for _, typ := range unknown {
			logger.Warn("unknown text type",
				zap.String("type", typ),
			)
		}
		resp, err := weatherClient.GetTexts(ctx, iceweather.NewTextRequest(types, lang))
		dump(logger, "texts", resp, err)
	}
}

func dump(logger *zap.Logger, what string, resp *structpb.Struct, err error) {
	if err != nil {
		logger.Warn("unable to get "+what,
			zap.Error(err),
		)
		return
	}
	spew.Dump(resp.AsMap())
}

func parseIDs(logger *zap.Logger, raw string) []int {
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			logger.Fatal("invalid station id",
				zap.String("id", part),
			)
		}
		ids = append(ids, id)
	}
	return ids
}

// splitTextTypes returns the requested text types along with those not in the known catalogue.
func splitTextTypes(raw string) ([]string, []string) {
	var types, unknown []string
	for _, part := range strings.Split(raw, ",") {
		typ := strings.TrimSpace(part)
		if typ == "" {
			continue
		}
		if _, ok := vedur.TextTypes[typ]; !ok {
			unknown = append(unknown, typ)
		}
		types = append(types, typ)
	}
	return types, unknown
}
