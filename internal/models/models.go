package models

// Location is the caller's approximate physical location resolved from its
// network address. Created once per request, read-only afterwards.
type Location struct {
	City    string  `json:"city"`
	Region  string  `json:"region"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// WeatherSnapshot is the current-conditions summary for a coordinate pair.
// Numeric fields are pointers: an upstream response missing a sub-field
// yields null in the payload instead of failing the whole call.
type WeatherSnapshot struct {
	Condition    string   `json:"condition"`
	TemperatureC *float64 `json:"temperature_c"`
	Humidity     *int     `json:"humidity"`
	WindKph      *float64 `json:"wind_kph"`
}

// TimeContext is the local time-of-day classification in the configured
// timezone. Purely computed, never fetched.
type TimeContext struct {
	Hour       int    `json:"hour"`
	Weekday    string `json:"weekday"`
	TimePeriod string `json:"time_period"`
	IsWeekend  bool   `json:"is_weekend"`
}

// NewsItem is one top headline. Articles with missing fields keep empty
// values rather than being dropped.
type NewsItem struct {
	Title  string `json:"title"`
	Source string `json:"source"`
	URL    string `json:"url"`
}

// TransitStatus is the public-transport status record.
type TransitStatus struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// ExcuseResult is the aggregate response payload. It deliberately carries
// every intermediate value alongside the generated excuse so the endpoint
// doubles as its own diagnostic trace.
type ExcuseResult struct {
	IPUsed                string          `json:"ip_used"`
	Location              Location        `json:"location"`
	Weather               WeatherSnapshot `json:"weather"`
	TimeInfo              TimeContext     `json:"time_info"`
	NewsHeadlines         []NewsItem      `json:"news_headlines"`
	PublicTransportStatus TransitStatus   `json:"public_transport_status"`
	Excuse                string          `json:"excuse"`
}
