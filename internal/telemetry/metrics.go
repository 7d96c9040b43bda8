package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all application metrics
type Metrics struct {
	ChatRequests    metric.Int64Counter
	ChatDuration    metric.Float64Histogram
	IngestedFiles   metric.Int64Counter
	IngestedChunks  metric.Int64Counter
	RetrievedChunks metric.Int64Counter
}

// InitMetrics initializes all application metrics
func InitMetrics() (*Metrics, error) {
	meter := otel.Meter("rag-chatbot-platform")

	chatRequests, err := meter.Int64Counter(
		"chat.requests.total",
		metric.WithDescription("Total chat turns served"),
	)
	if err != nil {
		return nil, err
	}

	chatDuration, err := meter.Float64Histogram(
		"chat.turn.duration",
		metric.WithDescription("Chat turn duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	ingestedFiles, err := meter.Int64Counter(
		"ingest.files.total",
		metric.WithDescription("Total documents ingested"),
	)
	if err != nil {
		return nil, err
	}

	ingestedChunks, err := meter.Int64Counter(
		"ingest.chunks.total",
		metric.WithDescription("Total chunks written to the vector store"),
	)
	if err != nil {
		return nil, err
	}

	retrievedChunks, err := meter.Int64Counter(
		"retrieval.chunks.total",
		metric.WithDescription("Total chunks returned as chat sources"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		ChatRequests:    chatRequests,
		ChatDuration:    chatDuration,
		IngestedFiles:   ingestedFiles,
		IngestedChunks:  ingestedChunks,
		RetrievedChunks: retrievedChunks,
	}, nil
}
