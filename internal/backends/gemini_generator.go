package backends

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"

	"rag-chatbot-platform/internal/logger"
	"rag-chatbot-platform/models"
)

// GeminiGenerator produces answers with the Gemini API. Calls go through a
// circuit breaker and a client-side rate limiter so a struggling upstream
// degrades to fast failures instead of piling up blocked requests.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	breaker     *gobreaker.CircuitBreaker
	rateLimiter *rate.Limiter
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY for generation")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "GeminiAPI",
		MaxRequests: 5,
		Interval:    10 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state change", "name", name, "from", from.String(), "to", to.String())
		},
	})

	// Free-tier style default: 10 requests per minute with a small burst.
	rateLimiter := rate.NewLimiter(rate.Limit(10.0/60.0), 2)

	return &GeminiGenerator{
		client:      client,
		model:       model,
		breaker:     breaker,
		rateLimiter: rateLimiter,
	}, nil
}

// Generate maps the app's turn history to the Gemini chat format
// (user -> user, assistant -> model) and folds system-role turns into the
// system instruction alongside the fixed system prompt.
func (g *GeminiGenerator) Generate(ctx context.Context, system string, msgs []models.Turn, maxTokens int, temperature float64) (string, error) {
	tracer := otel.Tracer("gemini-generator")
	ctx, span := tracer.Start(ctx, "gemini.generate")
	defer span.End()

	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.Int("gemini.turns", len(msgs)),
	)

	contents, sysExtras := toContents(msgs)
	if len(contents) == 0 {
		return "", fmt.Errorf("no user message to generate from")
	}

	sysInstruction := system
	if sysExtras != "" {
		sysInstruction = system + "\n\n" + sysExtras
	}

	if err := g.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		model := g.client.GenerativeModel(g.model)
		model.SetTemperature(float32(temperature))
		model.SetMaxOutputTokens(int32(maxTokens))
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(sysInstruction)}}

		cs := model.StartChat()
		cs.History = contents[:len(contents)-1]

		last := contents[len(contents)-1]
		resp, err := cs.SendMessage(ctx, last.Parts...)
		if err != nil {
			return nil, err
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState {
			span.SetAttributes(attribute.Bool("gemini.circuit_breaker_open", true))
			return "", fmt.Errorf("generation temporarily unavailable: %w", err)
		}
		return "", err
	}

	resp := result.(*genai.GenerateContentResponse)
	if resp.UsageMetadata != nil {
		span.SetAttributes(attribute.Int("gemini.total_tokens", int(resp.UsageMetadata.TotalTokenCount)))
	}

	text := extractText(resp)
	if text == "" {
		return "", fmt.Errorf("empty generation response")
	}
	return text, nil
}

func (g *GeminiGenerator) ModelName() string { return g.model }

// Close releases the underlying API client.
func (g *GeminiGenerator) Close() error { return g.client.Close() }

func toContents(msgs []models.Turn) ([]*genai.Content, string) {
	var contents []*genai.Content
	var sysExtras []string

	for _, m := range msgs {
		if m.Role == models.RoleSystem {
			sysExtras = append(sysExtras, m.Content)
			continue
		}
		role := "user"
		if m.Role == models.RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(m.Content)},
		})
	}
	return contents, strings.Join(sysExtras, "\n\n")
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return strings.TrimSpace(sb.String())
}
