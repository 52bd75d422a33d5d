package main

import (
	"context"
	"log"
	"slices"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	serverName        = "Weather MCP Server"
	serverVersion     = "1.0.0"
	serverDescription = "真实天气查询服务"
	serverFramework   = "modelcontextprotocol/go-sdk"

	toolGetWeather          = "get_weather"
	toolListSupportedCities = "list_supported_cities"
	toolGetServerInfo       = "get_server_info"
)

// instanceID identifies this process in get_server_info
var instanceID = uuid.NewString()

// WeatherSource returns normalized weather for a display name
type WeatherSource interface {
	Fetch(ctx context.Context, city string) (*WeatherRecord, error)
}

// lookupWeather never fails: any error becomes an ErrorRecord carrying the
// city exactly as the caller sent it.
func lookupWeather(ctx context.Context, source WeatherSource, city string) WeatherResult {
	if city == "" {
		return &ErrorRecord{Error: "city is required", City: city}
	}

	record, err := source.Fetch(ctx, city)
	if err != nil {
		log.Printf("Warning: weather lookup for %q failed: %v", city, err)
		return &ErrorRecord{Error: err.Error(), City: city}
	}
	return record
}

// NewGetWeatherHandler returns the get_weather handler backed by source.
// The output is untyped because it is either a WeatherRecord or an ErrorRecord.
func NewGetWeatherHandler(source WeatherSource) func(context.Context, *mcp.CallToolRequest, GetWeatherInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetWeatherInput) (*mcp.CallToolResult, any, error) {
		return nil, lookupWeather(ctx, source, input.City), nil
	}
}

// ListSupportedCities lists the cities with a known provider location
func ListSupportedCities(ctx context.Context, req *mcp.CallToolRequest, input ListSupportedCitiesInput) (
	*mcp.CallToolResult,
	ListSupportedCitiesOutput,
	error,
) {
	names := cityNames()
	return nil, ListSupportedCitiesOutput{
		Cities: names,
		Count:  len(names),
	}, nil
}

func newServerInfo(transport string) GetServerInfoOutput {
	return GetServerInfoOutput{
		Name:        serverName,
		Version:     serverVersion,
		Description: serverDescription,
		Framework:   serverFramework,
		Status:      "running",
		Transport:   transport,
		Tools:       []string{toolGetWeather, toolListSupportedCities, toolGetServerInfo},
		InstanceID:  instanceID,
	}
}

// NewGetServerInfoHandler returns a handler reporting static server metadata
func NewGetServerInfoHandler(transport string) func(context.Context, *mcp.CallToolRequest, GetServerInfoInput) (*mcp.CallToolResult, GetServerInfoOutput, error) {
	info := newServerInfo(transport)
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetServerInfoInput) (*mcp.CallToolResult, GetServerInfoOutput, error) {
		out := info
		out.Tools = slices.Clone(info.Tools)
		return nil, out, nil
	}
}

// newServer creates the MCP server with the three weather tools registered
func newServer(source WeatherSource, transport string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: "weather-server", Version: serverVersion}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolGetWeather,
		Description: "Get the current weather for a city. Accepts Chinese city names from list_supported_cities or any name the provider understands. Failures are returned as {error, city}.",
	}, NewGetWeatherHandler(source))

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolListSupportedCities,
		Description: "List all supported Chinese cities",
	}, ListSupportedCities)

	mcp.AddTool(server, &mcp.Tool{
		Name:        toolGetServerInfo,
		Description: "Get information about this weather server",
	}, NewGetServerInfoHandler(transport))

	return server
}
