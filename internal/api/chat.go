package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/krishisetu/krishi-cli/internal/advisor"
	"github.com/krishisetu/krishi-cli/pkg/anthropic"
)

const chatSystemPrompt = `You are an AI agricultural advisor for Indian farmers. Provide helpful, accurate, and practical farming advice in %s. Focus on:
- Crop management and cultivation techniques
- Pest and disease identification and treatment
- Soil health and fertilization
- Weather-based farming decisions
- Government schemes and subsidies
- Market prices and trends
- Sustainable farming practices

Keep responses concise, practical, and relevant to Indian agricultural conditions.`

type imageBody struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

func (b *imageBody) toImage() *anthropic.ImageData {
	if b == nil || b.Data == "" {
		return nil
	}
	mt := b.MimeType
	if mt == "" {
		mt = "image/jpeg"
	}
	return &anthropic.ImageData{MediaType: mt, Data: b.Data}
}

type chatBody struct {
	Message   string            `json:"message"`
	Language  string            `json:"language"`
	Location  *advisor.Location `json:"location"`
	ImageData *imageBody        `json:"imageData"`
}

func (b *chatBody) validate(w http.ResponseWriter) bool {
	if strings.TrimSpace(b.Message) == "" {
		writeError(w, http.StatusBadRequest, "Validation failed", "Message is required")
		return false
	}
	if b.Language == "" {
		b.Language = "en"
	}
	return true
}

// handleChatMessage answers without farmer context: a fixed agricultural
// system prompt plus the user's message and optional image.
func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	if s.llm == nil {
		writeError(w, http.StatusServiceUnavailable, "Chat unavailable",
			"No model API key is configured")
		return
	}

	var body chatBody
	if !decodeBody(w, r, &body) {
		return
	}
	if !body.validate(w) {
		return
	}

	resp, err := s.llm.CreateMessage(r.Context(), anthropic.MessageRequest{
		Model:     s.model,
		MaxTokens: s.maxTokens,
		System:    fmt.Sprintf(chatSystemPrompt, advisor.LanguageName(body.Language)),
		Messages: []anthropic.Message{{
			Role:    "user",
			Content: body.Message,
			Image:   body.ImageData.toImage(),
		}},
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "Model error", err.Error())
		return
	}
	resp.Usage.LogUsage(s.model, "chat")

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"message":   resp.Text,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"language":  body.Language,
			"hasImage":  body.ImageData.toImage() != nil,
		},
	})
}

// handleAdvisorMessage answers with full gathered context and echoes
// which sources contributed.
func (s *Server) handleAdvisorMessage(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "Advisor unavailable",
			"No model API key is configured")
		return
	}

	var body chatBody
	if !decodeBody(w, r, &body) {
		return
	}
	if !body.validate(w) {
		return
	}

	ans, err := s.advisor.Answer(r.Context(), advisor.Query{
		Message:  body.Message,
		Location: body.Location,
		Language: body.Language,
		Image:    body.ImageData.toImage(),
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, "Model error", err.Error())
		return
	}

	c := ans.Context
	marketNote := "Not available"
	if c.Market != nil {
		marketNote = "Available"
	}
	topCropsCount := 0
	if c.TopCrops != nil {
		topCropsCount = len(c.TopCrops.Crops)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"message": ans.Text,
			"context": map[string]any{
				"weather":    c.Weather,
				"records":    len(c.Records),
				"topCrops":   topCropsCount,
				"marketData": marketNote,
			},
			"contextUsed": ans.ContextUsed,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"language":    body.Language,
			"hasImage":    body.ImageData.toImage() != nil,
		},
	})
}

// handleAdvisorContext returns the raw aggregated context for a
// location, for frontend inspection and debugging.
func (s *Server) handleAdvisorContext(w http.ResponseWriter, r *http.Request) {
	if s.advisor == nil {
		writeError(w, http.StatusServiceUnavailable, "Advisor unavailable",
			"No model API key is configured")
		return
	}

	var loc *advisor.Location
	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, lon, ok := parseCoords(w, r)
		if !ok {
			return
		}
		loc = &advisor.Location{Lat: lat, Lon: lon}
	}

	c := s.advisor.Gather(r.Context(), loc)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    c,
	})
}
