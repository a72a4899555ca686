// Package advisor assembles farmer context from every available source,
// composes the advisory prompt, and queries the model. Context gathering
// is best-effort: a failing source degrades only its own section of the
// prompt, never the whole request.
package advisor

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/krishisetu/krishi-cli/internal/crops"
	"github.com/krishisetu/krishi-cli/internal/dataset"
	"github.com/krishisetu/krishi-cli/internal/record"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
	"github.com/krishisetu/krishi-cli/pkg/weather"
)

// Location is a farmer's geographic position.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Context aggregates everything known about the farmer's situation.
// Any field may be nil or empty when its source was unavailable.
type Context struct {
	Weather  *weather.Snapshot      `json:"weather,omitempty"`
	Records  []record.FarmingRecord `json:"records"`
	TopCrops *crops.List            `json:"topCrops,omitempty"`
	Market   *dataset.MarketReport  `json:"marketData,omitempty"`
}

// Flags reports which context sources contributed to an answer.
type Flags struct {
	Weather  bool `json:"weather"`
	Records  bool `json:"records"`
	TopCrops bool `json:"topCrops"`
	Market   bool `json:"marketData"`
}

// Used summarizes which sections of c carried data.
func (c *Context) Used() Flags {
	return Flags{
		Weather:  c.Weather != nil,
		Records:  len(c.Records) > 0,
		TopCrops: c.TopCrops != nil && len(c.TopCrops.Crops) > 0,
		Market:   c.Market != nil,
	}
}

// Query is one advisory request.
type Query struct {
	Message  string
	Location *Location
	Language string
	Image    *anthropic.ImageData
}

// Answer is a model response annotated with the context that shaped it.
type Answer struct {
	Text        string   `json:"response"`
	ContextUsed Flags    `json:"contextUsed"`
	Context     *Context `json:"-"`
}

// Service answers farmer queries with full context.
type Service struct {
	gatherer  *Gatherer
	llm       anthropic.Client
	model     string
	maxTokens int64
}

// NewService wires a context gatherer to a model client.
func NewService(g *Gatherer, llm anthropic.Client, model string, maxTokens int64) *Service {
	return &Service{gatherer: g, llm: llm, model: model, maxTokens: maxTokens}
}

// Answer gathers context, composes the prompt, and queries the model.
func (s *Service) Answer(ctx context.Context, q Query) (*Answer, error) {
	c := s.gatherer.Gather(ctx, q.Location)
	prompt := Compose(q.Message, c, q.Language)

	resp, err := s.llm.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		Messages:  []anthropic.Message{{Role: "user", Content: prompt, Image: q.Image}},
	})
	if err != nil {
		return nil, eris.Wrap(err, "advisor: model query")
	}
	resp.Usage.LogUsage(s.model, "advisor")

	return &Answer{Text: resp.Text, ContextUsed: c.Used(), Context: c}, nil
}

// Gather exposes raw context assembly for inspection endpoints.
func (s *Service) Gather(ctx context.Context, loc *Location) *Context {
	return s.gatherer.Gather(ctx, loc)
}
