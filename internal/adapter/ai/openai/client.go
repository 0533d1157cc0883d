// Package openai talks to the OpenAI HTTP API directly: chat completions
// with function calling for intent extraction, and Whisper for speech to
// text. Calls run through a circuit breaker so a flapping upstream is
// reported as unavailable instead of being hammered.
package openai

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/seu-repo/hawala-bot/internal/domain"
	"github.com/seu-repo/hawala-bot/pkg/config"
)

const apiBaseURL = "https://api.openai.com/v1"

type Client struct {
	apiKey          string
	nluModel        string
	sttModel        string
	defaultCurrency string
	directory       *domain.Directory
	httpClient      *http.Client
	breaker         *gobreaker.CircuitBreaker
	log             *zap.Logger
}

func NewClient(cfg config.OpenAIConfig, defaultCurrency string, directory *domain.Directory, log *zap.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openai",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		apiKey:          cfg.APIKey,
		nluModel:        cfg.NLUModel,
		sttModel:        cfg.STTModel,
		defaultCurrency: defaultCurrency,
		directory:       directory,
		httpClient:      &http.Client{Timeout: cfg.RequestTimeout},
		breaker:         breaker,
		log:             log,
	}
}
