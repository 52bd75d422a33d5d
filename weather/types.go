package main

// Input types for the weather tools
type GetWeatherInput struct {
	City string `json:"city" jsonschema:"the city to get the weather for, e.g. 北京 or London"`
}

type ListSupportedCitiesInput struct{}

type GetServerInfoInput struct{}

// WeatherResult is the value returned by get_weather: either a *WeatherRecord
// or an *ErrorRecord. Callers tell them apart by the presence of "error".
type WeatherResult interface {
	weatherResult()
}

// WeatherRecord is the normalized current weather for a city
type WeatherRecord struct {
	City        string  `json:"city"`        // Display name as given by the caller
	Temperature float64 `json:"temperature"` // Degrees Celsius
	FeelsLike   float64 `json:"feels_like"`  // Degrees Celsius
	Humidity    int     `json:"humidity"`    // Percent
	Condition   string  `json:"condition"`
	WindSpeed   float64 `json:"wind_speed"` // Meters per second, 1 decimal
	Visibility  float64 `json:"visibility"` // Kilometers
	Timestamp   string  `json:"timestamp"`  // Local time, YYYY-MM-DD HH:MM:SS
}

// ErrorRecord replaces WeatherRecord when the lookup fails
type ErrorRecord struct {
	Error string `json:"error"`
	City  string `json:"city"`
}

func (*WeatherRecord) weatherResult() {}
func (*ErrorRecord) weatherResult() {}

// Output types
type ListSupportedCitiesOutput struct {
	Cities []string `json:"cities" jsonschema:"display names of the supported cities in declaration order"`
	Count  int      `json:"count" jsonschema:"number of supported cities"`
}

type GetServerInfoOutput struct {
	Name        string   `json:"name" jsonschema:"the server name"`
	Version     string   `json:"version" jsonschema:"the server version"`
	Description string   `json:"description" jsonschema:"what the server does"`
	Framework   string   `json:"framework" jsonschema:"the MCP framework serving the tools"`
	Status      string   `json:"status" jsonschema:"the running status of the server"`
	Transport   string   `json:"transport" jsonschema:"the transport the server is reachable on"`
	Tools       []string `json:"tools" jsonschema:"names of the exposed tools"`
	InstanceID  string   `json:"instance_id" jsonschema:"identifier of this server process"`
}

// j1Response mirrors the part of the wttr.in j1 document we read.
// Numeric fields arrive as JSON strings but numbers are accepted too.
type j1Response struct {
	CurrentCondition []currentCondition `json:"current_condition"`
}

type currentCondition struct {
	TempC       flexString `json:"temp_C"`
	FeelsLikeC  flexString `json:"FeelsLikeC"`
	Humidity    flexString `json:"humidity"`
	WeatherDesc []struct {
		Value string `json:"value"`
	} `json:"weatherDesc"`
	WindspeedKmph flexString `json:"windspeedKmph"`
	Visibility    flexString `json:"visibility"`
}
