package gateway

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
)

// Service is the draft gateway: the JSON API, WebSocket fan-out and,
// optionally, the JetStream consumer feeding it
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	apiHandler        *APIHandler
	eventConsumer     *EventConsumer
}

// Config holds configuration for the draft gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	// JetStream is nil when the gateway is fed by the engine directly.
	JetStream *JetStreamConsumerConfig
	Health    HealthFunc
	// Defaults seeds every start request; nil means config.DefaultSettings.
	Defaults *config.Settings
}

// DefaultConfig returns default configuration for the draft gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
	}
}

// NewService creates a new draft gateway service around cm.
func NewService(ctx context.Context, cfg Config, cm *ConnectionManager, app DraftApp, players PlayerCatalog) (*Service, error) {
	s := &Service{
		connectionManager: cm,
		wsHandler:         NewWebSocketHandler(cm, app),
		apiHandler:        NewAPIHandler(app, players, cm, cfg.Health),
	}
	if cfg.Defaults != nil {
		s.apiHandler.defaults = *cfg.Defaults
	}

	if cfg.JetStream != nil {
		consumer, err := NewEventConsumer(ctx, cm, *cfg.JetStream)
		if err != nil {
			return nil, fmt.Errorf("failed to create event consumer: %w", err)
		}
		s.eventConsumer = consumer
	}

	return s, nil
}

// Start runs the gateway until ctx is cancelled
func (s *Service) Start(ctx context.Context) error {
	log.Info().Bool("jetstream", s.eventConsumer != nil).Msg("starting draft gateway service")

	go s.connectionManager.Start(ctx)

	if s.eventConsumer != nil {
		go func() {
			if err := s.eventConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("event consumer failed")
			}
		}()
	}

	<-ctx.Done()

	log.Info().Msg("draft gateway service shutting down")
	return s.Stop()
}

// Stop gracefully shuts down the gateway service
func (s *Service) Stop() error {
	if s.eventConsumer != nil {
		if err := s.eventConsumer.Stop(); err != nil {
			log.Error().Err(err).Msg("failed to stop event consumer")
		}
	}

	log.Info().Msg("draft gateway service stopped")
	return nil
}

// RegisterRoutes registers the API and WebSocket routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.apiHandler.RegisterRoutes(mux)
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("draft gateway routes registered")
}
