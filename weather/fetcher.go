package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	timestampLayout = "2006-01-02 15:04:05"
	maxBodySize     = 1 << 20
	kmphPerMps      = 3.6
)

// FetchError describes any failure to obtain or parse weather data.
// Network errors, non-200 statuses and malformed payloads all end up here.
type FetchError struct {
	City string
	Msg  string
	Err  error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves current conditions from a wttr.in compatible provider
type Fetcher struct {
	client    *http.Client
	baseURL   string
	userAgent string
	now       func() time.Time
}

// NewFetcher creates a Fetcher talking to baseURL
func NewFetcher(baseURL, userAgent string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		now:       time.Now,
	}
}

// requestURL builds the j1 URL for a provider location
func (f *Fetcher) requestURL(location string) string {
	return fmt.Sprintf("%s/%s?format=j1", f.baseURL, url.PathEscape(location))
}

// Fetch resolves the display name, queries the provider once and returns the
// normalized record. The record carries the display name, not the location.
func (f *Fetcher) Fetch(ctx context.Context, name string) (*WeatherRecord, error) {
	location := resolveCity(name)
	requestID := uuid.NewString()
	debugf("[%s] fetching weather for %q (location %q)", requestID, name, location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.requestURL(location), nil)
	if err != nil {
		return nil, &FetchError{City: name, Msg: "failed to create request", Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{City: name, Msg: "failed to fetch weather data", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))
		return nil, &FetchError{City: name, Msg: fmt.Sprintf("weather API returned status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &FetchError{City: name, Msg: "failed to read response body", Err: err}
	}

	var data j1Response
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &FetchError{City: name, Msg: "failed to parse weather data", Err: err}
	}
	if len(data.CurrentCondition) == 0 {
		return nil, &FetchError{City: name, Msg: "failed to parse weather data: no current_condition in response"}
	}

	record, err := normalize(name, data.CurrentCondition[0], f.now())
	if err != nil {
		return nil, &FetchError{City: name, Msg: "failed to parse weather data", Err: err}
	}

	debugf("[%s] %s: %.1f°C, %s", requestID, name, record.Temperature, record.Condition)
	return record, nil
}

// normalize maps a provider condition onto a WeatherRecord, converting wind
// speed from km/h to m/s.
func normalize(name string, cc currentCondition, now time.Time) (*WeatherRecord, error) {
	temp, err := parseFloatField("temp_C", cc.TempC)
	if err != nil {
		return nil, err
	}
	feelsLike, err := parseFloatField("FeelsLikeC", cc.FeelsLikeC)
	if err != nil {
		return nil, err
	}
	humidity, err := parseIntField("humidity", cc.Humidity)
	if err != nil {
		return nil, err
	}
	if len(cc.WeatherDesc) == 0 {
		return nil, fmt.Errorf("missing field weatherDesc")
	}
	windKmph, err := parseFloatField("windspeedKmph", cc.WindspeedKmph)
	if err != nil {
		return nil, err
	}
	visibility, err := parseFloatField("visibility", cc.Visibility)
	if err != nil {
		return nil, err
	}

	return &WeatherRecord{
		City:        name,
		Temperature: temp,
		FeelsLike:   feelsLike,
		Humidity:    humidity,
		Condition:   cc.WeatherDesc[0].Value,
		WindSpeed:   kmphToMps(windKmph),
		Visibility:  visibility,
		Timestamp:   now.Format(timestampLayout),
	}, nil
}

// kmphToMps converts km/h to m/s rounded to one decimal place
func kmphToMps(kmph float64) float64 {
	return math.Round(kmph/kmphPerMps*10) / 10
}

func parseFloatField(field string, v flexString) (float64, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, fmt.Errorf("missing field %s", field)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return f, nil
}

func parseIntField(field string, v flexString) (int, error) {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return 0, fmt.Errorf("missing field %s", field)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return n, nil
}

// flexString accepts a JSON string or number and keeps its text
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*s = ""
	case len(data) > 0 && data[0] == '"':
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
	default:
		var num json.Number
		if err := json.Unmarshal(data, &num); err != nil {
			return fmt.Errorf("expected string or number, got %s", data)
		}
		*s = flexString(num.String())
	}
	return nil
}
