package main

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/mockdraft/go/internal/config"
	"github.com/mcdev12/mockdraft/go/internal/draft"
	"github.com/mcdev12/mockdraft/go/internal/draft/eligibility"
	"github.com/mcdev12/mockdraft/go/internal/draft/gateway"
	"github.com/mcdev12/mockdraft/go/internal/draft/orchestrator"
	"github.com/mcdev12/mockdraft/go/internal/draft/outbox"
	"github.com/mcdev12/mockdraft/go/internal/player"
)

type Services struct {
	Players   *player.App
	Scheduler *orchestrator.Scheduler
	Drafts    *draft.App
	Draft     *draft.Service
	Gateway   *gateway.Service
	Counters  *outbox.Counters

	closers []func() error
}

// setupServices wires the dependency chain:
// player store → player app → scheduler + publishers → draft app → Connect service and gateway.
func setupServices(ctx context.Context, env config.Env, settings config.Settings) (*Services, error) {
	repo, closeRepo, err := setupPlayerRepository(ctx, env)
	if err != nil {
		return nil, err
	}
	s := &Services{closers: []func() error{closeRepo}}

	s.Players = player.NewApp(repo)
	s.Scheduler = orchestrator.NewScheduler(clockwork.NewRealClock(), env.SchedulerWorkers)
	s.Counters = outbox.NewCounters()

	cm := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	gatewayConfig := gateway.DefaultConfig()
	gatewayConfig.Defaults = &settings
	gatewayConfig.Health = func() map[string]any {
		return map[string]any{
			"events":      s.Counters.Stats(),
			"connections": cm.GetConnectionStats(),
		}
	}

	publishers := outbox.Fanout{outbox.NewLogPublisher(log.Logger)}
	if env.NATSEnabled {
		jsConfig := outbox.DefaultJetStreamConfig()
		jsConfig.URL = env.NATSURL
		js, err := outbox.NewJetStreamPublisher(ctx, jsConfig)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("failed to create jetstream publisher: %w", err)
		}
		s.closers = append(s.closers, js.Close)
		publishers = append(publishers, outbox.NewMetricPublisher(js, s.Counters))

		consumerConfig := gateway.DefaultJetStreamConsumerConfig()
		consumerConfig.URL = env.NATSURL
		gatewayConfig.JetStream = &consumerConfig
	} else {
		publishers = append(publishers, outbox.NewMetricPublisher(cm, s.Counters))
	}

	policy := eligibility.DefaultPolicy()
	s.Drafts = draft.NewApp(s.Players, s.Scheduler, publishers, draft.EngineConfig{
		AutoPickDelay: env.AutoPickDelay,
		Policy:        policy,
		Strategy:      orchestrator.NewStrategy(policy, orchestrator.StallPolicy(env.StallPolicy)),
		Clock:         clockwork.NewRealClock(),
	})
	s.Draft = draft.NewService(s.Drafts).WithDefaults(settings)

	s.Gateway, err = gateway.NewService(ctx, gatewayConfig, cm, s.Drafts, s.Players)
	if err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the player store and the JetStream connection.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Error().Err(err).Msg("failed to close resource")
		}
	}
}
