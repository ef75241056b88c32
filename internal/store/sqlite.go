package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"condor-trader/internal/models"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		strategy TEXT NOT NULL,
		regime TEXT NOT NULL,
		lots INTEGER NOT NULL,
		entry_credit REAL NOT NULL,
		exit_debit REAL,
		pnl REAL,
		entry_time DATETIME NOT NULL,
		exit_time DATETIME,
		is_paper INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_trades_entry_time ON trades(entry_time);

	CREATE TABLE IF NOT EXISTS decisions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		timestamp DATETIME NOT NULL,
		regime TEXT NOT NULL,
		strategy TEXT NOT NULL,
		authenticated INTEGER NOT NULL,
		reason TEXT,
		coherence REAL NOT NULL,
		ensemble_score REAL NOT NULL,
		vix REAL NOT NULL,
		spot REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_decisions_timestamp ON decisions(timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveTrade inserts or updates a journaled trade.
func (s *SQLiteStore) SaveTrade(ctx context.Context, trade *models.Trade) error {
	query := `
	INSERT INTO trades (id, strategy, regime, lots, entry_credit, exit_debit, pnl, entry_time, exit_time, is_paper)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		exit_debit = excluded.exit_debit,
		pnl = excluded.pnl,
		exit_time = excluded.exit_time`

	var exitTime interface{}
	if !trade.ExitTime.IsZero() {
		exitTime = trade.ExitTime
	}

	_, err := s.db.ExecContext(ctx, query,
		trade.ID, string(trade.Strategy), string(trade.Regime), trade.Lots,
		trade.EntryCredit, trade.ExitDebit, trade.PnL,
		trade.EntryTime, exitTime, boolToInt(trade.IsPaper))
	if err != nil {
		return fmt.Errorf("failed to save trade: %w", err)
	}
	return nil
}

// GetTrades returns trades entered within [from, to].
func (s *SQLiteStore) GetTrades(ctx context.Context, from, to time.Time) ([]models.Trade, error) {
	query := `
	SELECT id, strategy, regime, lots, entry_credit, exit_debit, pnl, entry_time, exit_time, is_paper
	FROM trades
	WHERE entry_time >= ? AND entry_time <= ?
	ORDER BY entry_time`

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		var strategy, regime string
		var exitDebit, pnl sql.NullFloat64
		var exitTime sql.NullTime
		var isPaper int
		if err := rows.Scan(&t.ID, &strategy, &regime, &t.Lots, &t.EntryCredit,
			&exitDebit, &pnl, &t.EntryTime, &exitTime, &isPaper); err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		t.Strategy = models.Strategy(strategy)
		t.Regime = models.Regime(regime)
		t.ExitDebit = exitDebit.Float64
		t.PnL = pnl.Float64
		if exitTime.Valid {
			t.ExitTime = exitTime.Time
		}
		t.IsPaper = isPaper != 0
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveDecision journals one evaluation outcome.
func (s *SQLiteStore) SaveDecision(ctx context.Context, decision *Decision) error {
	query := `
	INSERT INTO decisions (timestamp, regime, strategy, authenticated, reason, coherence, ensemble_score, vix, spot)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		decision.Timestamp, string(decision.Regime), string(decision.Strategy),
		boolToInt(decision.Authenticated), decision.Reason,
		decision.Coherence, decision.EnsembleScore, decision.VIX, decision.Spot)
	if err != nil {
		return fmt.Errorf("failed to save decision: %w", err)
	}
	decision.ID, _ = result.LastInsertId()
	return nil
}

// GetDecisions returns decisions journaled within [from, to].
func (s *SQLiteStore) GetDecisions(ctx context.Context, from, to time.Time) ([]Decision, error) {
	query := `
	SELECT id, timestamp, regime, strategy, authenticated, reason, coherence, ensemble_score, vix, spot
	FROM decisions
	WHERE timestamp >= ? AND timestamp <= ?
	ORDER BY timestamp`

	rows, err := s.db.QueryContext(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var d Decision
		var regime, strategy string
		var authenticated int
		var reason sql.NullString
		if err := rows.Scan(&d.ID, &d.Timestamp, &regime, &strategy, &authenticated,
			&reason, &d.Coherence, &d.EnsembleScore, &d.VIX, &d.Spot); err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		d.Regime = models.Regime(regime)
		d.Strategy = models.Strategy(strategy)
		d.Authenticated = authenticated != 0
		d.Reason = reason.String
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
