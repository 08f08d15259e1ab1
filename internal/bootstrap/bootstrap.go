// Package bootstrap assembles the process graph shared by the API server and
// the one-shot ingestor.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"eco_hotels/internal/adapters/llm"
	"eco_hotels/internal/adapters/notion"
	redisad "eco_hotels/internal/adapters/redis"
	"eco_hotels/internal/adapters/source"
	"eco_hotels/internal/app"
	"eco_hotels/internal/domain"
	"eco_hotels/internal/scheduler"
	"eco_hotels/internal/shared"
	mysqlrepo "eco_hotels/internal/storage/mysql"
)

// App holds the wired components of one process.
type App struct {
	Pipeline  *app.Pipeline
	Queries   *app.QueryService
	Scheduler *scheduler.Scheduler

	closers []func() error
}

// Build wires every component from cfg. The journal and the run lock are
// optional and only built when their DSN/address is set. A text-generation
// backend that cannot be built leaves the summarizer in fallback mode.
func Build(ctx context.Context, cfg shared.Config) (*App, error) {
	a := &App{}

	client, err := notion.New(cfg.NotionBase, cfg.NotionKey, cfg.NotionVersion, cfg.NotionRPS)
	if err != nil {
		return nil, fmt.Errorf("notion client: %w", err)
	}
	store := notion.NewStore(client, cfg.NotionDatabaseID, cfg.DefaultProject)

	gen, err := llm.New(ctx, llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMKey,
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		log.Warn().Err(err).Msg("text generation disabled, summaries will use descriptions")
	}

	var journal domain.RunJournal
	if cfg.MySQLDSN != "" {
		db, err := openDB(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		journal = mysqlrepo.New(db)
		log.Info().Msg("run journal enabled")
	}

	var locker domain.Locker
	if cfg.RedisAddr != "" {
		lk := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := lk.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, firings will run without a lock")
		}
		a.closers = append(a.closers, lk.Close)
		locker = lk
	}

	var probe domain.HealthProber
	if cfg.AcquisitionHealthURL != "" {
		probe = source.NewHealthProbe(cfg.AcquisitionHealthURL)
	}

	loc, err := time.LoadLocation(cfg.ScheduleTZ)
	if err != nil {
		return nil, fmt.Errorf("schedule timezone %q: %w", cfg.ScheduleTZ, err)
	}

	a.Pipeline = app.NewPipeline(
		source.NewFixtureSource(cfg.FixturesPath),
		app.NewSummarizer(gen, cfg.LLMMaxTokens),
		store, probe, journal, cfg.Workers,
	)
	a.Queries = app.NewQueryService(store, journal)
	a.Scheduler = scheduler.New(loc, locker, cfg.LockTTL)

	if err := a.Scheduler.Register(cfg.JobID, scheduler.DailySpec(cfg.ScheduleHour, cfg.ScheduleMinute), a.ingest); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// ingest is the scheduled job. Only acquisition failures surface as errors.
func (a *App) ingest(ctx context.Context) error {
	_, err := a.Pipeline.Run(ctx)
	return err
}

// Close releases the optional backing connections.
func (a *App) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			log.Warn().Err(err).Msg("close failed")
		}
	}
}

func openDB(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db.Ping: %w", err)
	}
	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}
