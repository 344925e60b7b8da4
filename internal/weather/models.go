package weather

import (
	"time"
)

// Date and time layouts used when rendering a WeatherRecord.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// WeatherRecord is one forecast slot for one area, as published in a BMKG feed.
type WeatherRecord struct {
	AreaName string `json:"area_name"`
	Date     string `json:"date"`
	Time     string `json:"time"`
	// Hour is the feed's "h" attribute, carried verbatim. It is not reconciled with Time.
	Hour    string `json:"hour"`
	Icon    string `json:"icon"`
	Weather string `json:"weather"`

	// At is the parsed feed timestamp; Date and Time are derived from it.
	At time.Time `json:"-"`
}

// Response is the body served by GET /weather.
type Response struct {
	WeatherData []WeatherRecord `json:"weather_data"`
}

// AreaForecast holds the records of a single area, in feed order.
type AreaForecast struct {
	AreaName  string          `json:"area_name"`
	Forecasts []WeatherRecord `json:"forecasts"`
}

// ProbeStatus is the outcome of one scheduled upstream check for a province.
type ProbeStatus struct {
	Province   string    `json:"province"`
	CheckedAt  time.Time `json:"checked_at"` // always UTC
	OK         bool      `json:"ok"`
	StatusCode int       `json:"status_code,omitempty"`
	Records    int       `json:"records"`
	Error      string    `json:"error,omitempty"`
}
