package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/krishisetu/krishi-cli/internal/advisor"
	"github.com/krishisetu/krishi-cli/internal/crops"
	"github.com/krishisetu/krishi-cli/internal/dataset"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

// memStore is an in-memory record.Store for handler tests.
type memStore struct {
	records []record.FarmingRecord
	nextID  int
	failAll bool
}

func (m *memStore) Create(ctx context.Context, r *record.FarmingRecord) error {
	if m.failAll {
		return eris.New("store down")
	}
	m.nextID++
	r.ID = fmt.Sprintf("rec-%d", m.nextID)
	if r.SoilType == "" {
		r.SoilType = record.DefaultSoilType
	}
	m.records = append([]record.FarmingRecord{*r}, m.records...)
	return nil
}

func (m *memStore) Update(ctx context.Context, r *record.FarmingRecord) error {
	if m.failAll {
		return eris.New("store down")
	}
	for i := range m.records {
		if m.records[i].ID == r.ID {
			m.records[i] = *r
			return nil
		}
	}
	return eris.Wrapf(record.ErrNotFound, "record: update %s", r.ID)
}

func (m *memStore) Delete(ctx context.Context, id string) (bool, error) {
	if m.failAll {
		return false, eris.New("store down")
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records = append(m.records[:i], m.records[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) Get(ctx context.Context, id string) (*record.FarmingRecord, error) {
	for i := range m.records {
		if m.records[i].ID == id {
			return &m.records[i], nil
		}
	}
	return nil, nil
}

func (m *memStore) List(ctx context.Context, limit int) ([]record.FarmingRecord, error) {
	if m.failAll {
		return nil, eris.New("store down")
	}
	if limit > 0 && len(m.records) > limit {
		return m.records[:limit], nil
	}
	return m.records, nil
}

func (m *memStore) Ping(ctx context.Context) error {
	if m.failAll {
		return eris.New("store down")
	}
	return nil
}

func (m *memStore) Close() error { return nil }

func recordFixture(crop string) record.FarmingRecord {
	return record.FarmingRecord{
		ID:           "rec-" + crop,
		CropName:     crop,
		PlantingDate: "2026-06-01",
		SoilType:     record.DefaultSoilType,
	}
}

type stubLLM struct {
	lastReq anthropic.MessageRequest
	text    string
	err     error
}

func (s *stubLLM) CreateMessage(ctx context.Context, req anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &anthropic.MessageResponse{Text: s.text}, nil
}

type stubWeather struct {
	snap *weather.Snapshot
	err  error
}

func (s *stubWeather) Current(ctx context.Context, lat, lon float64) (*weather.Snapshot, error) {
	return s.snap, s.err
}

func (s *stubWeather) Forecast(ctx context.Context, lat, lon float64, days int) (*weather.ForecastReport, error) {
	return nil, eris.New("not implemented")
}

type stubDatasets struct {
	top    *crops.List
	report *dataset.MarketReport
}

func (s *stubDatasets) TopCrops(ctx context.Context) (*crops.List, error) {
	return s.top, nil
}

func (s *stubDatasets) CropMarket(ctx context.Context, cropName, month string) (*dataset.MarketReport, error) {
	return s.report, nil
}

type testEnv struct {
	store   *memStore
	llm     *stubLLM
	weather *stubWeather
	srv     *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := &memStore{}
	llm := &stubLLM{text: "Advice."}
	wc := &stubWeather{snap: &weather.Snapshot{City: "Kochi", Temperature: 28, Humidity: 70, Description: "clear sky"}}
	ds := &stubDatasets{top: &crops.List{Crops: []crops.Ranked{{Rank: 1, Name: "Coconut"}}}}

	g := advisor.NewGatherer(wc, store, ds, nil, 10, zap.NewNop())
	svc := advisor.NewService(g, llm, "claude-sonnet-4-5-20250929", 1024)

	s := NewServer(Config{
		Advisor:   svc,
		Records:   store,
		Weather:   wc,
		LLM:       llm,
		Model:     "claude-sonnet-4-5-20250929",
		MaxTokens: 1024,
		Logger:    zap.NewNop(),
	})

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &testEnv{store: store, llm: llm, weather: wc, srv: srv}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	var req *http.Request
	var err error
	if body != "" {
		req, err = http.NewRequest(method, e.srv.URL+path, strings.NewReader(body))
	} else {
		req, err = http.NewRequest(method, e.srv.URL+path, nil)
	}
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(data)
}
