package mysql

import (
	"context"
	"database/sql"
	"time"

	"eco_hotels/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Journal records pipeline runs and per-record write failures.
type Journal struct{ db *sql.DB }

func New(db *sql.DB) *Journal { return &Journal{db: db} }

var _ domain.RunJournal = (*Journal)(nil)

func (j *Journal) StartRun(ctx context.Context, runID string, startedAt time.Time) error {
	_, err := j.db.ExecContext(ctx, insertRunSQL, runID, startedAt.UTC())
	return err
}

func (j *Journal) FinishRun(ctx context.Context, r domain.RunResult) error {
	_, err := j.db.ExecContext(ctx, finishRunSQL,
		r.RunID,
		r.Status,
		r.HotelsProcessed,
		r.Summarized,
		r.SummaryFallbacks,
		r.Written,
		r.WriteFailures,
		valStr(r.Error),
		r.StartedAt.UTC(),
		r.FinishedAt.UTC(),
	)
	return err
}

func (j *Journal) LogWriteFailure(ctx context.Context, f domain.WriteFailure) error {
	_, err := j.db.ExecContext(ctx, insertWriteFailureSQL, f.RunID, f.Hotel, f.Reason)
	return err
}

func (j *Journal) ListRuns(ctx context.Context, limit int) ([]domain.RunResult, error) {
	rows, err := j.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.RunResult{}
	for rows.Next() {
		var (
			r          domain.RunResult
			errText    sql.NullString
			finishedAt sql.NullTime
		)
		if err := rows.Scan(
			&r.RunID,
			&r.Status,
			&r.HotelsProcessed,
			&r.Summarized,
			&r.SummaryFallbacks,
			&r.Written,
			&r.WriteFailures,
			&errText,
			&r.StartedAt,
			&finishedAt,
		); err != nil {
			return nil, err
		}
		if errText.Valid {
			r.Error = errText.String
		}
		if finishedAt.Valid {
			r.FinishedAt = finishedAt.Time
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
