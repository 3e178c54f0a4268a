package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"wallet-credit-score/internal/config"
	"wallet-credit-score/internal/sink"
	chstore "wallet-credit-score/internal/storage/clickhouse"
	pgstore "wallet-credit-score/internal/storage/postgres"
)

var errNoPostgres = errors.New("POSTGRES_DSN is required for this command")

// backends holds the database connections configured for a command.
// Either field may be nil.
type backends struct {
	pg *pgstore.Pool
	ch *chstore.Conn
}

// openBackends connects to every configured database.
func openBackends(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*backends, error) {
	b := &backends{}

	if cfg.PostgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.pg = pool
		log.Debug().Msg("connected to postgres")
	}

	if cfg.ClickHouseDSN != "" {
		conn, err := chstore.NewConn(ctx, cfg.ClickHouseDSN)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		b.ch = conn
		log.Debug().Msg("connected to clickhouse")
	}

	return b, nil
}

// storeSinks returns one sink per connected database.
func (b *backends) storeSinks() []sink.Sink {
	var sinks []sink.Sink
	if b.pg != nil {
		sinks = append(sinks, sink.NewStoreSink(
			pgstore.NewScoreRunStore(b.pg),
			pgstore.NewWalletScoreStore(b.pg),
			nil,
		).Named("postgres"))
	}
	if b.ch != nil {
		sinks = append(sinks, sink.NewStoreSink(
			nil,
			chstore.NewWalletScoreStore(b.ch),
			chstore.NewFeatureStore(b.ch),
		).Named("clickhouse"))
	}
	return sinks
}

// Close closes every open connection.
func (b *backends) Close() {
	if b.pg != nil {
		b.pg.Close()
	}
	if b.ch != nil {
		_ = b.ch.Close()
	}
}
