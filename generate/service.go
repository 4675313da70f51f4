package generate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"relay/config"
	"relay/model"
	"relay/relayerr"
)

const fetchFailed = "Failed to fetch from Gemini API."

type Service struct {
	Creds config.Credentials
	Gen   Generator
	Log   zerolog.Logger
}

func NewService(cfg *config.Config, gen Generator, log zerolog.Logger) *Service {
	return &Service{
		Creds: cfg.Credentials,
		Gen:   gen,
		Log:   log.With().Str("component", "generate").Logger(),
	}
}

// Generate relays one prompt. The upstream body comes back untouched; any
// upstream failure collapses into a single generic UpstreamError.
func (s *Service) Generate(ctx context.Context, req model.GenerationRequest) ([]byte, error) {
	if msg := model.Validate(req); msg != "" {
		return nil, relayerr.Validation("Prompt is required.")
	}
	if !s.Creds.HasGeneration() {
		return nil, relayerr.Configuration("Gemini API key not configured on server.")
	}

	start := time.Now()
	body, err := s.Gen.Generate(ctx, req.Prompt)
	if err != nil {
		s.Log.Error().Err(err).Dur("elapsed", time.Since(start)).Msg("generation failed")
		return nil, relayerr.Upstream(fetchFailed, err)
	}
	s.Log.Debug().
		Int("prompt_chars", len(req.Prompt)).
		Int("response_bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("generation relayed")
	return body, nil
}
