package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"StockReturns/internal/model"
)

// SQLiteRecorder persists computed returns to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
	now    func() time.Time
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so ad-hoc readers don't block the server's writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger.With(zap.String("component", "recorder")), now: time.Now}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ticker_returns (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			ticker         TEXT NOT NULL,
			date           TEXT NOT NULL,
			return_value   REAL,
			price          REAL,
			previous_price REAL,
			error          TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ticker_returns_key ON ticker_returns(ticker, date)`,

		`CREATE TABLE IF NOT EXISTS batch_runs (
			id         TEXT PRIMARY KEY,
			timestamp  INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date   TEXT NOT NULL,
			source     TEXT,
			symbols    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batch_runs_ts ON batch_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS batch_summaries (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id   TEXT NOT NULL REFERENCES batch_runs(id),
			ticker   TEXT NOT NULL,
			points   INTEGER,
			min      REAL,
			max      REAL,
			mean     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_batch_summaries_run ON batch_summaries(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTickerReturn(rec *model.ReturnRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO ticker_returns
		(timestamp, ticker, date, return_value, price, previous_price, error)
		VALUES (?,?,?,?,?,?,?)`,
		r.now().Unix(), rec.Symbol, rec.Date,
		rec.Return, rec.Price, rec.PreviousPrice, rec.Error,
	)
	return err
}

// RecordBatch writes the run and one summary row per symbol in a single transaction.
func (r *SQLiteRecorder) RecordBatch(run *BatchRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO batch_runs
		(id, timestamp, start_date, end_date, source, symbols)
		VALUES (?,?,?,?,?,?)`,
		run.ID, r.now().Unix(), run.Start, run.End, run.Source,
		strings.Join(run.Result.Symbols, ","),
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, sym := range run.Result.Symbols {
		sum := run.Result.Summary[sym]
		if _, err := tx.Exec(`INSERT INTO batch_summaries
			(run_id, ticker, points, min, max, mean)
			VALUES (?,?,?,?,?,?)`,
			run.ID, sym, len(run.Result.Data[sym]), sum.Min, sum.Max, sum.Mean,
		); err != nil {
			return fmt.Errorf("insert summary %s: %w", sym, err)
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}
