// Package weather provides an OpenWeatherMap client for current conditions
// and short-range forecasts.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Snapshot is a point-in-time weather reading. It is never cached; every
// request fetches fresh data.
type Snapshot struct {
	Temperature   float64 `json:"temperature"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
	Visibility    int     `json:"visibility"`
	City          string  `json:"city"`
	Country       string  `json:"country"`
}

// DailySummary aggregates one forecast day.
type DailySummary struct {
	Date          string  `json:"date"`
	MinTemp       float64 `json:"min_temp"`
	MaxTemp       float64 `json:"max_temp"`
	AvgHumidity   float64 `json:"avg_humidity"`
	Description   string  `json:"description"`
	Icon          string  `json:"icon"`
	Precipitation float64 `json:"precipitation"`
}

// ForecastReport holds daily summaries for the requested city.
type ForecastReport struct {
	City    string         `json:"city"`
	Country string         `json:"country"`
	Days    []DailySummary `json:"forecast"`
}

// Client fetches weather data by coordinates.
type Client interface {
	Current(ctx context.Context, lat, lon float64) (*Snapshot, error)
	Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastReport, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		limiter: rate.NewLimiter(10, 10),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// conditions mirrors the OpenWeatherMap current-weather payload.
type conditions struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Visibility int    `json:"visibility"`
	Name       string `json:"name"`
	DT         int64  `json:"dt"`
	Sys        struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Current fetches the current weather at the given coordinates.
func (c *httpClient) Current(ctx context.Context, lat, lon float64) (*Snapshot, error) {
	var payload conditions
	if err := c.get(ctx, "/weather", lat, lon, &payload); err != nil {
		return nil, err
	}

	s := &Snapshot{
		Temperature:   payload.Main.Temp,
		FeelsLike:     payload.Main.FeelsLike,
		Humidity:      payload.Main.Humidity,
		Pressure:      payload.Main.Pressure,
		WindSpeed:     payload.Wind.Speed,
		WindDirection: payload.Wind.Deg,
		Visibility:    payload.Visibility,
		City:          payload.Name,
		Country:       payload.Sys.Country,
	}
	if len(payload.Weather) > 0 {
		s.Description = payload.Weather[0].Description
		s.Icon = payload.Weather[0].Icon
	}
	return s, nil
}

type forecastPayload struct {
	List []conditions `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

// Forecast fetches the forecast and collapses the 3-hourly entries into
// daily summaries, at most days entries.
func (c *httpClient) Forecast(ctx context.Context, lat, lon float64, days int) (*ForecastReport, error) {
	if days <= 0 {
		days = 5
	}

	var payload forecastPayload
	if err := c.get(ctx, "/forecast", lat, lon, &payload); err != nil {
		return nil, err
	}

	// 8 three-hour slots per day.
	entries := payload.List
	if limit := days * 8; len(entries) > limit {
		entries = entries[:limit]
	}

	type bucket struct {
		summary    DailySummary
		humidCount int
		humidSum   float64
	}
	var order []string
	buckets := map[string]*bucket{}

	for _, e := range entries {
		date := time.Unix(e.DT, 0).UTC().Format("2006-01-02")
		b, ok := buckets[date]
		if !ok {
			b = &bucket{summary: DailySummary{
				Date:    date,
				MinTemp: e.Main.Temp,
				MaxTemp: e.Main.Temp,
			}}
			if len(e.Weather) > 0 {
				b.summary.Description = e.Weather[0].Description
				b.summary.Icon = e.Weather[0].Icon
			}
			buckets[date] = b
			order = append(order, date)
		}
		if e.Main.Temp < b.summary.MinTemp {
			b.summary.MinTemp = e.Main.Temp
		}
		if e.Main.Temp > b.summary.MaxTemp {
			b.summary.MaxTemp = e.Main.Temp
		}
		b.humidSum += float64(e.Main.Humidity)
		b.humidCount++
		b.summary.Precipitation += e.Rain.ThreeHour
	}

	report := &ForecastReport{City: payload.City.Name, Country: payload.City.Country}
	for _, date := range order {
		b := buckets[date]
		if b.humidCount > 0 {
			b.summary.AvgHumidity = b.humidSum / float64(b.humidCount)
		}
		report.Days = append(report.Days, b.summary)
	}
	return report, nil
}

func (c *httpClient) get(ctx context.Context, path string, lat, lon float64, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "weather: rate limit wait")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return eris.Wrap(err, "weather: build request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrapf(err, "weather: GET %s", path)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.New(fmt.Sprintf("weather: GET %s: status %d", path, resp.StatusCode))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return eris.Wrapf(err, "weather: decode %s response", path)
	}
	return nil
}
