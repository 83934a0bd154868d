package iceweather

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the WeatherService RPCs.
const (
	WeatherService_GetClosestStations_FullMethodName = "/iceweather.WeatherService/GetClosestStations"
	WeatherService_GetObservations_FullMethodName    = "/iceweather.WeatherService/GetObservations"
	WeatherService_GetForecasts_FullMethodName       = "/iceweather.WeatherService/GetForecasts"
	WeatherService_GetTexts_FullMethodName           = "/iceweather.WeatherService/GetTexts"
)

// Request and response field names.
const (
	FieldLatitude  = "latitude"
	FieldLongitude = "longitude"
	FieldLimit     = "limit"
	FieldLang      = "lang"
	FieldIDs       = "ids"
	FieldTypes     = "types"
	FieldStation   = "station"
	FieldResults   = "results"
)

// WeatherServiceServer is the server API for the WeatherService.
// Requests and responses are loosely typed structs; see the Field constants for the keys used.
type WeatherServiceServer interface {
	GetClosestStations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetObservations(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetForecasts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTexts(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedWeatherServiceServer()
}

// UnimplementedWeatherServiceServer can be embedded to have forward compatible implementations.
type UnimplementedWeatherServiceServer struct{}

func (UnimplementedWeatherServiceServer) GetClosestStations(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetClosestStations not implemented")
}
func (UnimplementedWeatherServiceServer) GetObservations(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetObservations not implemented")
}
func (UnimplementedWeatherServiceServer) GetForecasts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetForecasts not implemented")
}
func (UnimplementedWeatherServiceServer) GetTexts(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTexts not implemented")
}
func (UnimplementedWeatherServiceServer) mustEmbedUnimplementedWeatherServiceServer() {}

// UnsafeWeatherServiceServer may be embedded to opt out of forward compatibility for this service.
type UnsafeWeatherServiceServer interface {
	mustEmbedUnimplementedWeatherServiceServer()
}

// RegisterWeatherServiceServer registers the supplied implementation with the gRPC server.
func RegisterWeatherServiceServer(s grpc.ServiceRegistrar, srv WeatherServiceServer) {
	s.RegisterService(&WeatherService_ServiceDesc, srv)
}

type unaryMethod func(WeatherServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(WeatherServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(WeatherServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// WeatherService_ServiceDesc is the grpc.ServiceDesc for the WeatherService.
var WeatherService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "iceweather.WeatherService",
	HandlerType: (*WeatherServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetClosestStations",
			Handler:    unaryHandler(WeatherService_GetClosestStations_FullMethodName, WeatherServiceServer.GetClosestStations),
		},
		{
			MethodName: "GetObservations",
			Handler:    unaryHandler(WeatherService_GetObservations_FullMethodName, WeatherServiceServer.GetObservations),
		},
		{
			MethodName: "GetForecasts",
			Handler:    unaryHandler(WeatherService_GetForecasts_FullMethodName, WeatherServiceServer.GetForecasts),
		},
		{
			MethodName: "GetTexts",
			Handler:    unaryHandler(WeatherService_GetTexts_FullMethodName, WeatherServiceServer.GetTexts),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "iceweather/weather.proto",
}

// WeatherServiceClient is the client API for the WeatherService.
type WeatherServiceClient interface {
	GetClosestStations(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetObservations(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetForecasts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTexts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type weatherServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewWeatherServiceClient creates a client using the supplied connection.
func NewWeatherServiceClient(cc grpc.ClientConnInterface) WeatherServiceClient {
	return &weatherServiceClient{cc}
}

func (c *weatherServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *weatherServiceClient) GetClosestStations(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, WeatherService_GetClosestStations_FullMethodName, in, opts...)
}

func (c *weatherServiceClient) GetObservations(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, WeatherService_GetObservations_FullMethodName, in, opts...)
}

func (c *weatherServiceClient) GetForecasts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, WeatherService_GetForecasts_FullMethodName, in, opts...)
}

func (c *weatherServiceClient) GetTexts(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, WeatherService_GetTexts_FullMethodName, in, opts...)
}

// NewLocationRequest builds a request for the stations nearest to a point.
func NewLocationRequest(lat float64, lon float64, limit int, lang string) *structpb.Struct {
	fields := map[string]*structpb.Value{
		FieldLatitude:  structpb.NewNumberValue(lat),
		FieldLongitude: structpb.NewNumberValue(lon),
	}
	if limit > 0 {
		fields[FieldLimit] = structpb.NewNumberValue(float64(limit))
	}
	if lang != "" {
		fields[FieldLang] = structpb.NewStringValue(lang)
	}
	return &structpb.Struct{Fields: fields}
}

// NewStationRequest builds a request for the supplied station IDs.
func NewStationRequest(ids []int, lang string) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(ids))
	for _, id := range ids {
		values = append(values, structpb.NewNumberValue(float64(id)))
	}

	fields := map[string]*structpb.Value{
		FieldIDs: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}
	if lang != "" {
		fields[FieldLang] = structpb.NewStringValue(lang)
	}
	return &structpb.Struct{Fields: fields}
}

// NewTextRequest builds a request for the supplied text types.
func NewTextRequest(types []string, lang string) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(types))
	for _, t := range types {
		values = append(values, structpb.NewStringValue(t))
	}

	fields := map[string]*structpb.Value{
		FieldTypes: structpb.NewListValue(&structpb.ListValue{Values: values}),
	}
	if lang != "" {
		fields[FieldLang] = structpb.NewStringValue(lang)
	}
	return &structpb.Struct{Fields: fields}
}

// GetClosestStations returns the stations nearest to the requested location.
func (api *API) GetClosestStations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	q, err := locationQueryFromRequest(req)
	if err != nil {
		return nil, statusFromError(err)
	}

	stations, err := api.ClosestStations(ctx, q)
	if err != nil {
		return nil, statusFromError(err)
	}

	records := make([]interface{}, 0, len(stations))
	for _, s := range stations {
		records = append(records, rankedStationToMap(s))
	}
	return newResponse(map[string]interface{}{
		FieldResults: records,
	})
}

// GetObservations returns observations for the requested station IDs, or for the station
// closest to the requested location if no IDs are supplied.
func (api *API) GetObservations(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return api.getStationData(ctx, req, api.Observations, api.ObservationForClosest)
}

// GetForecasts returns forecasts for the requested station IDs, or for the station
// closest to the requested location if no IDs are supplied.
func (api *API) GetForecasts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return api.getStationData(ctx, req, api.Forecasts, api.ForecastForClosest)
}

// GetTexts returns the requested descriptive forecast texts.
func (api *API) GetTexts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	types, err := stringsFromValue(req.GetFields()[FieldTypes])
	if err != nil {
		return nil, statusFromError(err)
	}

	results, err := api.Texts(ctx, TextQuery{
		Types: types,
		Lang:  req.GetFields()[FieldLang].GetStringValue(),
	})
	if err != nil {
		return nil, statusFromError(err)
	}
	return newResponse(results.AsMap())
}

type byIDs func(context.Context, StationQuery) (*Results, error)
type byLocation func(context.Context, LocationQuery) (*Results, Station, error)

func (api *API) getStationData(ctx context.Context, req *structpb.Struct, ids byIDs, location byLocation) (*structpb.Struct, error) {
	fields := req.GetFields()
	if _, ok := fields[FieldIDs]; ok {
		stationIDs, err := intsFromValue(fields[FieldIDs])
		if err != nil {
			return nil, statusFromError(err)
		}

		results, err := ids(ctx, StationQuery{
			IDs:  stationIDs,
			Lang: fields[FieldLang].GetStringValue(),
		})
		if err != nil {
			return nil, statusFromError(err)
		}
		return newResponse(results.AsMap())
	}

	q, err := locationQueryFromRequest(req)
	if err != nil {
		return nil, statusFromError(err)
	}

	results, station, err := location(ctx, q)
	if err != nil {
		return nil, statusFromError(err)
	}

	resp := results.AsMap()
	resp[FieldStation] = stationToMap(station)
	return newResponse(resp)
}

func newResponse(m map[string]interface{}) (*structpb.Struct, error) {
	resp, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "unable to encode response: %v", err)
	}
	return resp, nil
}

func stationToMap(s Station) map[string]interface{} {
	return map[string]interface{}{
		"id":   s.ID,
		"name": s.Name,
		"lat":  s.Latitude,
		"lon":  s.Longitude,
	}
}

func rankedStationToMap(s RankedStation) map[string]interface{} {
	m := stationToMap(s.Station)
	m["distance_km"] = s.Distance
	return m
}

func locationQueryFromRequest(req *structpb.Struct) (LocationQuery, error) {
	fields := req.GetFields()

	lat, ok := fields[FieldLatitude]
	if !ok {
		return LocationQuery{}, fmt.Errorf("%w: %s is required", ErrInvalidQuery, FieldLatitude)
	}
	lon, ok := fields[FieldLongitude]
	if !ok {
		return LocationQuery{}, fmt.Errorf("%w: %s is required", ErrInvalidQuery, FieldLongitude)
	}

	q := LocationQuery{
		Lang: fields[FieldLang].GetStringValue(),
	}
	var err error
	if q.Latitude, err = numberFromValue(FieldLatitude, lat); err != nil {
		return LocationQuery{}, err
	}
	if q.Longitude, err = numberFromValue(FieldLongitude, lon); err != nil {
		return LocationQuery{}, err
	}
	if limit, ok := fields[FieldLimit]; ok {
		if q.Limit, err = intFromValue(limit); err != nil {
			return LocationQuery{}, err
		}
	}
	return q, nil
}

func numberFromValue(field string, v *structpb.Value) (float64, error) {
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidQuery, field)
	}
	return n.NumberValue, nil
}

func intFromValue(v *structpb.Value) (int, error) {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		if kind.NumberValue != math.Trunc(kind.NumberValue) || math.IsInf(kind.NumberValue, 0) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrInvalidQuery, kind.NumberValue)
		}
		return int(kind.NumberValue), nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(kind.StringValue)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidQuery, kind.StringValue)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: unsupported integer value", ErrInvalidQuery)
}

// intsFromValue accepts a list of integers or integer strings, or a single one of either.
func intsFromValue(v *structpb.Value) ([]int, error) {
	values := []*structpb.Value{v}
	if list := v.GetListValue(); list != nil {
		values = list.GetValues()
	}

	var ret []int
	for _, value := range values {
		id, err := intFromValue(value)
		if err != nil {
			return nil, err
		}
		ret = append(ret, id)
	}
	return ret, nil
}

// stringsFromValue accepts a list of strings or numbers, or a single one of either.
func stringsFromValue(v *structpb.Value) ([]string, error) {
	if v == nil {
		return nil, nil
	}

	values := []*structpb.Value{v}
	if list := v.GetListValue(); list != nil {
		values = list.GetValues()
	}

	var ret []string
	for _, value := range values {
		switch kind := value.GetKind().(type) {
		case *structpb.Value_StringValue:
			ret = append(ret, kind.StringValue)
		case *structpb.Value_NumberValue:
			typ, err := intFromValue(value)
			if err != nil {
				return nil, err
			}
			ret = append(ret, strconv.Itoa(typ))
		default:
			return nil, fmt.Errorf("%w: unsupported text type value", ErrInvalidQuery)
		}
	}
	return ret, nil
}

func statusFromError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidQuery),
		errors.Is(err, ErrInvalidLimit),
		errors.Is(err, ErrInvalidCoordinate):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, ErrNoStations):
		return ErrLocationNotFound.Err()
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	return status.Error(codes.Unavailable, err.Error())
}
