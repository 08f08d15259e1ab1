package mysql

const insertRunSQL = `
INSERT INTO ingest_runs (id, status, started_at)
VALUES (?, 'running', ?)
ON DUPLICATE KEY UPDATE started_at = VALUES(started_at)
`

// Upsert so a run that failed before StartRun (journal briefly down) is still recorded.
const finishRunSQL = `
INSERT INTO ingest_runs
  (id, status, hotels_processed, summarized, summary_fallbacks, written, write_failures, error, started_at, finished_at)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  status            = VALUES(status),
  hotels_processed  = VALUES(hotels_processed),
  summarized        = VALUES(summarized),
  summary_fallbacks = VALUES(summary_fallbacks),
  written           = VALUES(written),
  write_failures    = VALUES(write_failures),
  error             = VALUES(error),
  finished_at       = VALUES(finished_at)
`

const insertWriteFailureSQL = `
INSERT INTO ingest_write_failures (run_id, hotel, reason)
VALUES (?, ?, ?)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Newest first; aligns with idx_runs_started.
const listRunsSQL = `
SELECT
  id,
  status,
  hotels_processed,
  summarized,
  summary_fallbacks,
  written,
  write_failures,
  error,
  started_at,
  finished_at
FROM ingest_runs
ORDER BY started_at DESC, id DESC
LIMIT ?
`
