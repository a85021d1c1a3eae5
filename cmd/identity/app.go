package main

import (
	"context"
	"fmt"

	"github.com/jrsteele09/go-auth-client/credentials"
	"github.com/jrsteele09/go-auth-client/identity"
	"github.com/jrsteele09/go-auth-client/internal/config"
	"github.com/jrsteele09/go-auth-client/internal/metrics"
	"github.com/jrsteele09/go-auth-client/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// app is everything a command needs, built once from config.
type app struct {
	config   config.Config
	client   *identity.Client
	registry *prometheus.Registry
	closers  []func() error
}

func newApp(ctx context.Context, c config.Config) (*app, error) {
	if c.GetAPIKey() == "" {
		return nil, fmt.Errorf("FIREBASE_API_KEY is not set")
	}

	a := &app{config: c, registry: prometheus.NewRegistry()}
	store, err := a.newStore()
	if err != nil {
		return nil, err
	}

	m, err := metrics.New(a.registry)
	if err != nil {
		return nil, err
	}

	sess := session.New(c.GetAPIKey(),
		session.WithIdentityEndpoint(c.GetIdentityEndpoint()),
		session.WithTokenEndpoint(c.GetTokenEndpoint()),
		session.WithStore(store),
		session.WithMetrics(m),
		session.WithLogger(log.Logger),
	)
	a.client = identity.NewClient(ctx, sess, identity.WithClientLogger(log.Logger))
	return a, nil
}

func (a *app) newStore() (credentials.Store, error) {
	c := a.config
	switch c.GetStoreKind() {
	case config.FileStoreKind:
		return credentials.NewFileStore(c.GetCredentialsFile()), nil
	case config.EncryptedStoreKind:
		return credentials.NewEncryptedFileStore(c.GetCredentialsFile(), c.GetCredentialsPassphrase(), credentials.DefaultArgon2idParams())
	case config.RedisStoreKind:
		client := redis.NewClient(&redis.Options{Addr: c.GetRedisAddr(), Password: c.GetRedisPassword()})
		a.closers = append(a.closers, client.Close)
		return credentials.NewRedisStore(client, c.GetRedisKey()), nil
	default:
		return nil, fmt.Errorf("unknown CREDENTIALS_STORE %q", c.GetStoreKind())
	}
}

func (a *app) Close() {
	a.logMetrics()
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

// logMetrics reports the counters gathered during the command at debug level.
func (a *app) logMetrics() {
	if zerolog.GlobalLevel() > zerolog.DebugLevel {
		return
	}
	families, err := a.registry.Gather()
	if err != nil {
		log.Debug().Err(err).Msg("gather metrics")
		return
	}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			event := log.Debug().Str("metric", family.GetName()).Float64("value", m.GetCounter().GetValue())
			for _, label := range m.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			event.Msg("metric")
		}
	}
}
