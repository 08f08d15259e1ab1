package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"eco_hotels/internal/adapters/observability"
	"eco_hotels/internal/domain"
)

// Pipeline runs Source -> Summarizer -> Writer once per call.
type Pipeline struct {
	source  domain.RecordSource
	sum     *Summarizer
	writer  domain.HotelWriter
	probe   domain.HealthProber // optional
	journal domain.RunJournal   // optional
	workers int64
	now     func() time.Time
}

func NewPipeline(src domain.RecordSource, sum *Summarizer, w domain.HotelWriter, probe domain.HealthProber, j domain.RunJournal, workers int) *Pipeline {
	if workers <= 0 {
		workers = 1
	}
	return &Pipeline{
		source:  src,
		sum:     sum,
		writer:  w,
		probe:   probe,
		journal: j,
		workers: int64(workers),
		now:     time.Now,
	}
}

// Run executes one ingestion run. Only an acquisition failure is returned as an
// error; per-record summarize and write failures are logged and counted.
func (p *Pipeline) Run(ctx context.Context) (domain.RunResult, error) {
	res := domain.RunResult{RunID: uuid.NewString(), StartedAt: p.now()}
	l := observability.Component(log.Logger, "pipeline").With().Str("run_id", res.RunID).Logger()
	l.Info().Msg("ingestion run starting")

	if p.journal != nil {
		if err := p.journal.StartRun(ctx, res.RunID, res.StartedAt); err != nil {
			l.Warn().Err(err).Msg("journal start failed")
		}
	}

	// advisory: the outcome is logged, never acted on
	if p.probe != nil {
		if status, err := p.probe.Probe(ctx); err != nil {
			l.Warn().Err(err).Msg("acquisition health check failed")
		} else {
			l.Info().Int("status", status).Msg("acquisition health check")
		}
	}

	records, err := p.source.Produce(ctx)
	if err != nil {
		if !errors.Is(err, domain.ErrAcquisition) {
			err = fmt.Errorf("%w: %v", domain.ErrAcquisition, err)
		}
		res.Status = domain.RunStatusFailed
		res.Error = err.Error()
		p.finish(ctx, l, &res)
		return res, err
	}
	l.Info().Int("hotels", len(records)).Msg("records acquired")

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(p.workers)
	)
	for _, rec := range records {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			l.Warn().Err(err).Msg("run interrupted before all records were dispatched")
			break
		}
		wg.Add(1)
		go func(r domain.RawRecord) {
			defer wg.Done()
			defer sem.Release(1)

			summarized, written := p.process(ctx, res.RunID, r)

			mu.Lock()
			defer mu.Unlock()
			res.HotelsProcessed++
			if summarized {
				res.Summarized++
			} else {
				res.SummaryFallbacks++
			}
			if written {
				res.Written++
			} else {
				res.WriteFailures++
			}
		}(rec)
	}
	wg.Wait()

	res.Status = domain.RunStatusSuccess
	p.finish(ctx, l, &res)
	return res, nil
}

// process summarizes then writes one record. Neither step can fail the run.
func (p *Pipeline) process(ctx context.Context, runID string, r domain.RawRecord) (summarized, written bool) {
	summary, summarized := p.sum.Summarize(ctx, r)
	rec := domain.Enrich(r, summary)

	id, err := p.writer.CreateHotel(ctx, rec)
	if err != nil {
		log.Error().Err(err).Str("run_id", runID).Str("hotel", r.Name).Msg("store write failed")
		observability.ObserveRecord("write", "error")
		if p.journal != nil {
			f := domain.WriteFailure{RunID: runID, Hotel: r.Name, Reason: err.Error()}
			if jerr := p.journal.LogWriteFailure(ctx, f); jerr != nil {
				log.Warn().Err(jerr).Str("hotel", r.Name).Msg("journal write failure not recorded")
			}
		}
		return summarized, false
	}
	observability.ObserveRecord("write", "ok")
	log.Info().Str("run_id", runID).Str("hotel", r.Name).Str("page_id", id).Msg("hotel stored")
	return summarized, true
}

func (p *Pipeline) finish(ctx context.Context, l zerolog.Logger, res *domain.RunResult) {
	res.FinishedAt = p.now()
	if p.journal != nil {
		if err := p.journal.FinishRun(context.WithoutCancel(ctx), *res); err != nil {
			l.Warn().Err(err).Msg("journal finish failed")
		}
	}
	ev := l.Info()
	if res.Status != domain.RunStatusSuccess {
		ev = l.Error()
	}
	ev.Str("status", res.Status).
		Int("hotels_processed", res.HotelsProcessed).
		Int("written", res.Written).
		Int("write_failures", res.WriteFailures).
		Int("summary_fallbacks", res.SummaryFallbacks).
		Dur("duration", res.FinishedAt.Sub(res.StartedAt)).
		Msg("ingestion run finished")
}
