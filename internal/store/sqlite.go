// Package store provides data persistence implementations.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	apperrors "fxtracker/internal/errors"
	"fxtracker/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for concurrent access
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

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Trading accounts
	CREATE TABLE IF NOT EXISTS accounts (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		starting_capital REAL NOT NULL,
		current_balance REAL NOT NULL,
		max_daily_loss REAL NOT NULL,
		max_overall_loss REAL NOT NULL,
		profit_target REAL NOT NULL,
		is_active INTEGER DEFAULT 1,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	-- Settled trades
	CREATE TABLE IF NOT EXISTS trades (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		account_id TEXT NOT NULL,
		pair TEXT NOT NULL,
		outcome TEXT NOT NULL,
		lot_size REAL NOT NULL,
		entry_price REAL NOT NULL,
		exit_price REAL NOT NULL,
		stop_loss_pips REAL,
		take_profit_pips REAL,
		profit_loss REAL NOT NULL,
		trade_time DATETIME NOT NULL,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Recommendation snapshot, one row per account
	CREATE TABLE IF NOT EXISTS trading_plans (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL UNIQUE,
		recommended_lot_size REAL NOT NULL,
		max_open_positions INTEGER NOT NULL,
		stop_loss_pips REAL NOT NULL,
		take_profit_pips REAL NOT NULL,
		suggested_trades_week INTEGER NOT NULL,
		risk_percentage REAL NOT NULL,
		last_updated DATETIME NOT NULL,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Multi-day growth plans
	CREATE TABLE IF NOT EXISTS growth_plans (
		id TEXT PRIMARY KEY,
		account_id TEXT NOT NULL,
		target_amount REAL NOT NULL,
		target_trades INTEGER NOT NULL,
		current_trade INTEGER NOT NULL,
		risk_per_trade REAL NOT NULL,
		daily_risk_limit REAL NOT NULL,
		daily_loss_used REAL NOT NULL,
		total_trades_completed INTEGER NOT NULL,
		remaining_days INTEGER NOT NULL,
		last_trade_date DATETIME,
		is_completed INTEGER DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (account_id) REFERENCES accounts(id)
	);

	-- Daily trade slots
	CREATE TABLE IF NOT EXISTS daily_trade_plans (
		id TEXT PRIMARY KEY,
		growth_plan_id TEXT NOT NULL,
		pair TEXT NOT NULL,
		slot_index INTEGER NOT NULL,
		allocated_risk REAL NOT NULL,
		lot_size REAL NOT NULL,
		stop_loss_pips REAL NOT NULL,
		take_profit_pips REAL NOT NULL,
		expected_profit REAL NOT NULL,
		actual_result REAL,
		is_executed INTEGER DEFAULT 0,
		executed_at DATETIME,
		trade_date DATETIME NOT NULL,
		FOREIGN KEY (growth_plan_id) REFERENCES growth_plans(id)
	);

	-- Create indexes for performance
	CREATE INDEX IF NOT EXISTS idx_accounts_user ON accounts(user_id);
	CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account_id);
	CREATE INDEX IF NOT EXISTS idx_trades_user ON trades(user_id);
	CREATE INDEX IF NOT EXISTS idx_trades_time ON trades(trade_time);
	CREATE INDEX IF NOT EXISTS idx_growth_plans_account ON growth_plans(account_id);
	CREATE INDEX IF NOT EXISTS idx_daily_plans_plan ON daily_trade_plans(growth_plan_id);
	CREATE INDEX IF NOT EXISTS idx_daily_plans_date ON daily_trade_plans(trade_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ============================================================================
// Account Methods
// ============================================================================

// CreateAccount inserts a new account.
func (s *SQLiteStore) CreateAccount(ctx context.Context, acct *models.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, user_id, name, starting_capital, current_balance, max_daily_loss, max_overall_loss, profit_target, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, acct.ID, acct.UserID, acct.Name, acct.StartingCapital, acct.CurrentBalance, acct.MaxDailyLoss, acct.MaxOverallLoss, acct.ProfitTarget, boolInt(acct.IsActive), acct.CreatedAt)
	if err != nil {
		return apperrors.NewStoreError("insert", "account", err)
	}
	return nil
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStore) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, name, starting_capital, current_balance, max_daily_loss, max_overall_loss, profit_target, is_active, created_at
		FROM accounts WHERE id = ?
	`, id)
	return scanAccount(row)
}

// GetAccountsByUser retrieves all accounts for a user.
func (s *SQLiteStore) GetAccountsByUser(ctx context.Context, userID string) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, starting_capital, current_balance, max_daily_loss, max_overall_loss, profit_target, is_active, created_at
		FROM accounts WHERE user_id = ? ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("query", "accounts", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var active int
		if err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.StartingCapital, &a.CurrentBalance, &a.MaxDailyLoss, &a.MaxOverallLoss, &a.ProfitTarget, &active, &a.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("scan", "account", err)
		}
		a.IsActive = active != 0
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate", "accounts", err)
	}
	return accounts, nil
}

// UpdateAccount rewrites an account's mutable fields.
func (s *SQLiteStore) UpdateAccount(ctx context.Context, acct *models.Account) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET name = ?, current_balance = ?, max_daily_loss = ?, max_overall_loss = ?, profit_target = ?, is_active = ?
		WHERE id = ?
	`, acct.Name, acct.CurrentBalance, acct.MaxDailyLoss, acct.MaxOverallLoss, acct.ProfitTarget, boolInt(acct.IsActive), acct.ID)
	if err != nil {
		return apperrors.NewStoreError("update", "account", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*models.Account, error) {
	var a models.Account
	var active int
	err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.StartingCapital, &a.CurrentBalance, &a.MaxDailyLoss, &a.MaxOverallLoss, &a.ProfitTarget, &active, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrAccountNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("scan", "account", err)
	}
	a.IsActive = active != 0
	return &a, nil
}

// ============================================================================
// Trade Methods
// ============================================================================

// GetTrade retrieves a trade by ID.
func (s *SQLiteStore) GetTrade(ctx context.Context, id string) (*models.Trade, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, account_id, pair, outcome, lot_size, entry_price, exit_price, stop_loss_pips, take_profit_pips, profit_loss, trade_time, notes, created_at
		FROM trades WHERE id = ?
	`, id)

	var t models.Trade
	err := row.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Pair, &t.Outcome, &t.LotSize, &t.EntryPrice, &t.ExitPrice, &t.StopLossPips, &t.TakeProfitPips, &t.ProfitLoss, &t.TradeTime, &t.Notes, &t.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrTradeNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("scan", "trade", err)
	}
	return &t, nil
}

// GetTrades retrieves trades matching the filter, newest first.
func (s *SQLiteStore) GetTrades(ctx context.Context, filter TradeFilter) ([]models.Trade, error) {
	query := `SELECT id, user_id, account_id, pair, outcome, lot_size, entry_price, exit_price, stop_loss_pips, take_profit_pips, profit_loss, trade_time, notes, created_at FROM trades WHERE 1=1`
	args := []interface{}{}

	if filter.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	if filter.AccountID != "" {
		query += " AND account_id = ?"
		args = append(args, filter.AccountID)
	}
	if filter.Pair != "" {
		query += " AND pair = ?"
		args = append(args, filter.Pair)
	}
	if !filter.StartDate.IsZero() {
		query += " AND trade_time >= ?"
		args = append(args, filter.StartDate)
	}
	if !filter.EndDate.IsZero() {
		query += " AND trade_time <= ?"
		args = append(args, filter.EndDate)
	}

	query += " ORDER BY trade_time DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("query", "trades", err)
	}
	defer rows.Close()

	var trades []models.Trade
	for rows.Next() {
		var t models.Trade
		if err := rows.Scan(&t.ID, &t.UserID, &t.AccountID, &t.Pair, &t.Outcome, &t.LotSize, &t.EntryPrice, &t.ExitPrice, &t.StopLossPips, &t.TakeProfitPips, &t.ProfitLoss, &t.TradeTime, &t.Notes, &t.CreatedAt); err != nil {
			return nil, apperrors.NewStoreError("scan", "trade", err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate", "trades", err)
	}
	return trades, nil
}

// ============================================================================
// Trading Plan Methods
// ============================================================================

// SaveTradingPlan upserts the recommendation snapshot for an account.
func (s *SQLiteStore) SaveTradingPlan(ctx context.Context, plan *models.TradingPlan) error {
	return upsertTradingPlan(ctx, s.db, plan)
}

// GetTradingPlan retrieves the recommendation snapshot for an account.
func (s *SQLiteStore) GetTradingPlan(ctx context.Context, accountID string) (*models.TradingPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, recommended_lot_size, max_open_positions, stop_loss_pips, take_profit_pips, suggested_trades_week, risk_percentage, last_updated
		FROM trading_plans WHERE account_id = ?
	`, accountID)

	var p models.TradingPlan
	err := row.Scan(&p.ID, &p.AccountID, &p.RecommendedLotSize, &p.MaxOpenPositions, &p.StopLossPips, &p.TakeProfitPips, &p.SuggestedTradesWeek, &p.RiskPercentage, &p.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("scan", "trading_plan", err)
	}
	return &p, nil
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func upsertTradingPlan(ctx context.Context, db execer, plan *models.TradingPlan) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO trading_plans (id, account_id, recommended_lot_size, max_open_positions, stop_loss_pips, take_profit_pips, suggested_trades_week, risk_percentage, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			recommended_lot_size = excluded.recommended_lot_size,
			max_open_positions = excluded.max_open_positions,
			stop_loss_pips = excluded.stop_loss_pips,
			take_profit_pips = excluded.take_profit_pips,
			suggested_trades_week = excluded.suggested_trades_week,
			risk_percentage = excluded.risk_percentage,
			last_updated = excluded.last_updated
	`, plan.ID, plan.AccountID, plan.RecommendedLotSize, plan.MaxOpenPositions, plan.StopLossPips, plan.TakeProfitPips, plan.SuggestedTradesWeek, plan.RiskPercentage, plan.LastUpdated)
	if err != nil {
		return apperrors.NewStoreError("upsert", "trading_plan", err)
	}
	return nil
}

// ============================================================================
// Growth Plan Methods
// ============================================================================

// CreateGrowthPlan inserts a new growth plan.
func (s *SQLiteStore) CreateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO growth_plans (id, account_id, target_amount, target_trades, current_trade, risk_per_trade, daily_risk_limit, daily_loss_used, total_trades_completed, remaining_days, last_trade_date, is_completed, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, plan.ID, plan.AccountID, plan.TargetAmount, plan.TargetTrades, plan.CurrentTrade, plan.RiskPerTrade, plan.DailyRiskLimit, plan.DailyLossUsed, plan.TotalTradesCompleted, plan.RemainingDays, nullTime(plan.LastTradeDate), boolInt(plan.IsCompleted), plan.CreatedAt, plan.UpdatedAt)
	if err != nil {
		return apperrors.NewStoreError("insert", "growth_plan", err)
	}
	return nil
}

// GetGrowthPlan retrieves the most recent growth plan for an account.
func (s *SQLiteStore) GetGrowthPlan(ctx context.Context, accountID string) (*models.GrowthPlan, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, target_amount, target_trades, current_trade, risk_per_trade, daily_risk_limit, daily_loss_used, total_trades_completed, remaining_days, last_trade_date, is_completed, created_at, updated_at
		FROM growth_plans WHERE account_id = ? ORDER BY created_at DESC LIMIT 1
	`, accountID)

	var p models.GrowthPlan
	var last sql.NullTime
	var completed int
	err := row.Scan(&p.ID, &p.AccountID, &p.TargetAmount, &p.TargetTrades, &p.CurrentTrade, &p.RiskPerTrade, &p.DailyRiskLimit, &p.DailyLossUsed, &p.TotalTradesCompleted, &p.RemainingDays, &last, &completed, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrPlanNotFound
	}
	if err != nil {
		return nil, apperrors.NewStoreError("scan", "growth_plan", err)
	}
	if last.Valid {
		t := last.Time
		p.LastTradeDate = &t
	}
	p.IsCompleted = completed != 0
	return &p, nil
}

// UpdateGrowthPlan rewrites a growth plan row.
func (s *SQLiteStore) UpdateGrowthPlan(ctx context.Context, plan *models.GrowthPlan) error {
	return updateGrowthPlan(ctx, s.db, plan)
}

func updateGrowthPlan(ctx context.Context, db execer, plan *models.GrowthPlan) error {
	res, err := db.ExecContext(ctx, `
		UPDATE growth_plans SET target_amount = ?, target_trades = ?, current_trade = ?, risk_per_trade = ?, daily_risk_limit = ?, daily_loss_used = ?, total_trades_completed = ?, remaining_days = ?, last_trade_date = ?, is_completed = ?, updated_at = ?
		WHERE id = ?
	`, plan.TargetAmount, plan.TargetTrades, plan.CurrentTrade, plan.RiskPerTrade, plan.DailyRiskLimit, plan.DailyLossUsed, plan.TotalTradesCompleted, plan.RemainingDays, nullTime(plan.LastTradeDate), boolInt(plan.IsCompleted), plan.UpdatedAt, plan.ID)
	if err != nil {
		return apperrors.NewStoreError("update", "growth_plan", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperrors.ErrPlanNotFound
	}
	return nil
}

// ============================================================================
// Daily Trade Slot Methods
// ============================================================================

// SaveDailyPlans inserts a batch of daily trade slots.
func (s *SQLiteStore) SaveDailyPlans(ctx context.Context, plans []models.DailyTradePlan) error {
	if len(plans) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", "daily_trade_plans", err)
	}
	defer tx.Rollback()

	if err := insertDailyPlans(ctx, tx, plans); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", "daily_trade_plans", err)
	}
	return nil
}

func insertDailyPlans(ctx context.Context, tx *sql.Tx, plans []models.DailyTradePlan) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_trade_plans (id, growth_plan_id, pair, slot_index, allocated_risk, lot_size, stop_loss_pips, take_profit_pips, expected_profit, actual_result, is_executed, executed_at, trade_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperrors.NewStoreError("prepare", "daily_trade_plan", err)
	}
	defer stmt.Close()

	for _, p := range plans {
		_, err := stmt.ExecContext(ctx, p.ID, p.GrowthPlanID, p.Pair, p.SlotIndex, p.AllocatedRisk, p.LotSize, p.StopLossPips, p.TakeProfitPips, p.ExpectedProfit, nullFloat(p.ActualResult), boolInt(p.IsExecuted), nullTime(p.ExecutedAt), p.TradeDate)
		if err != nil {
			return apperrors.NewStoreError("insert", "daily_trade_plan", err)
		}
	}
	return nil
}

// GetDailyPlans retrieves daily slots matching the filter, ordered by
// slot index.
func (s *SQLiteStore) GetDailyPlans(ctx context.Context, filter DailyPlanFilter) ([]models.DailyTradePlan, error) {
	query := `SELECT id, growth_plan_id, pair, slot_index, allocated_risk, lot_size, stop_loss_pips, take_profit_pips, expected_profit, actual_result, is_executed, executed_at, trade_date FROM daily_trade_plans WHERE 1=1`
	args := []interface{}{}

	if filter.GrowthPlanID != "" {
		query += " AND growth_plan_id = ?"
		args = append(args, filter.GrowthPlanID)
	}
	if !filter.Date.IsZero() {
		day := filter.Date.Format("2006-01-02")
		query += " AND date(trade_date) = ?"
		args = append(args, day)
	}
	if filter.OnlyPending {
		query += " AND is_executed = 0"
	}

	query += " ORDER BY trade_date ASC, slot_index ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError("query", "daily_trade_plans", err)
	}
	defer rows.Close()

	var plans []models.DailyTradePlan
	for rows.Next() {
		var p models.DailyTradePlan
		var result sql.NullFloat64
		var executedAt sql.NullTime
		var executed int
		if err := rows.Scan(&p.ID, &p.GrowthPlanID, &p.Pair, &p.SlotIndex, &p.AllocatedRisk, &p.LotSize, &p.StopLossPips, &p.TakeProfitPips, &p.ExpectedProfit, &result, &executed, &executedAt, &p.TradeDate); err != nil {
			return nil, apperrors.NewStoreError("scan", "daily_trade_plan", err)
		}
		if result.Valid {
			v := result.Float64
			p.ActualResult = &v
		}
		if executedAt.Valid {
			t := executedAt.Time
			p.ExecutedAt = &t
		}
		p.IsExecuted = executed != 0
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate", "daily_trade_plans", err)
	}
	return plans, nil
}

// ============================================================================
// Settlement
// ============================================================================

// ApplySettlement applies a settled trade and its downstream state in a
// single transaction: the trade row, the account balance, the rebuilt
// trading plan, the growth plan transition, slot execution and any
// replacement slots.
func (s *SQLiteStore) ApplySettlement(ctx context.Context, st *Settlement) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin", "settlement", err)
	}
	defer tx.Rollback()

	if st.Trade != nil {
		t := st.Trade
		_, err := tx.ExecContext(ctx, `
			INSERT INTO trades (id, user_id, account_id, pair, outcome, lot_size, entry_price, exit_price, stop_loss_pips, take_profit_pips, profit_loss, trade_time, notes, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, t.ID, t.UserID, t.AccountID, t.Pair, t.Outcome, t.LotSize, t.EntryPrice, t.ExitPrice, t.StopLossPips, t.TakeProfitPips, t.ProfitLoss, t.TradeTime, t.Notes, t.CreatedAt)
		if err != nil {
			return apperrors.NewStoreError("insert", "trade", err)
		}
	}

	if st.AccountID != "" {
		res, err := tx.ExecContext(ctx, `UPDATE accounts SET current_balance = ? WHERE id = ?`, st.NewBalance, st.AccountID)
		if err != nil {
			return apperrors.NewStoreError("update", "account", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperrors.ErrAccountNotFound
		}
	}

	if st.TradingPlan != nil {
		if err := upsertTradingPlan(ctx, tx, st.TradingPlan); err != nil {
			return err
		}
	}

	if st.GrowthPlan != nil {
		if err := updateGrowthPlan(ctx, tx, st.GrowthPlan); err != nil {
			return err
		}
	}

	if st.ReplaceSlots != nil && st.GrowthPlan != nil {
		day := st.ReplaceSlots[0].TradeDate.Format("2006-01-02")
		_, err := tx.ExecContext(ctx, `
			DELETE FROM daily_trade_plans WHERE growth_plan_id = ? AND date(trade_date) = ? AND is_executed = 0
		`, st.GrowthPlan.ID, day)
		if err != nil {
			return apperrors.NewStoreError("delete", "daily_trade_plans", err)
		}
		if err := insertDailyPlans(ctx, tx, st.ReplaceSlots); err != nil {
			return err
		}
	}

	if st.ExecutedSlotID != "" {
		_, err := tx.ExecContext(ctx, `
			UPDATE daily_trade_plans SET actual_result = ?, is_executed = 1, executed_at = ? WHERE id = ?
		`, st.SlotResult, st.ExecutedAt, st.ExecutedSlotID)
		if err != nil {
			return apperrors.NewStoreError("update", "daily_trade_plan", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit", "settlement", err)
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
