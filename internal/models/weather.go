package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MaxForecastPeriods is how many upstream forecast periods a summary surfaces.
const MaxForecastPeriods = 2

// Coordinates are kept as the strings the geocoder returned so they can be
// echoed and forwarded without float formatting drift.
type Coordinates struct {
	Latitude  string
	Longitude string
}

// String renders the pair the way it is echoed back as a forecast location.
func (c Coordinates) String() string {
	return c.Latitude + ", " + c.Longitude
}

// ForecastPeriod is one named window of a forecast document, e.g. "Tonight".
type ForecastPeriod struct {
	Name             string
	DetailedForecast string
}

// ForecastSummary holds up to MaxForecastPeriods periods for a location.
type ForecastSummary struct {
	Location string
	Periods  []ForecastPeriod
}

// MarshalJSON writes the summary as
// {"location", "Valid Time 1", "Forecast 1", "Valid Time 2", "Forecast 2"},
// omitting the keys of periods that are not present.
func (s ForecastSummary) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeJSONField(&buf, "location", s.Location); err != nil {
		return nil, err
	}
	for i, period := range s.Periods {
		n := strconv.Itoa(i + 1)
		buf.WriteByte(',')
		if err := writeJSONField(&buf, "Valid Time "+n, period.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		if err := writeJSONField(&buf, "Forecast "+n, period.DetailedForecast); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSONField(buf *bytes.Buffer, key, value string) error {
	k, err := json.Marshal(key)
	if err != nil {
		return err
	}
	v, err := json.Marshal(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// ErrorPayload is an error carried as ordinary data inside a successful body.
type ErrorPayload struct {
	Error string `json:"error" example:"Failed to fetch NOAA gridpoint data"`
} // @name ErrorPayload

// WeatherResponse is the body of GET /{zip_code}. Weather holds either a
// ForecastSummary or an ErrorPayload.
type WeatherResponse struct {
	ZipCode string        `json:"zip_code" example:"90210"`
	Weather any           `json:"weather" swaggertype:"object"`
	Status  RequestStatus `json:"status" example:"SUCCESS"`
} // @name WeatherResponse

// UpstreamKind names the external hop that produced an UpstreamError.
type UpstreamKind string

const (
	UpstreamGeocode   UpstreamKind = "geocode"
	UpstreamGridpoint UpstreamKind = "gridpoint"
	UpstreamForecast  UpstreamKind = "forecast"
)

// UpstreamError is the single failure type returned by the resolvers.
// Message is safe to show to API callers; Err carries the cause.
type UpstreamError struct {
	Kind    UpstreamKind
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
