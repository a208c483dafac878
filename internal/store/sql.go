package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"BudgetSentinel/internal/model"
)

var _ Store = (*SQLStore)(nil)

// SQLStore persists data to SQLite or PostgreSQL.
type SQLStore struct {
	db     *sql.DB
	driver string
	mu     sync.Mutex
	logger *logrus.Logger
}

// Open connects to the database and runs migrations. driver is "sqlite" or "postgres".
func Open(driver, dsn string, logger *logrus.Logger) (*SQLStore, error) {
	if driver != "sqlite" && driver != "postgres" {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if driver == "sqlite" {
		// WAL lets the API read while the scheduler writes.
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
		if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set busy timeout: %w", err)
		}
	}

	s := &SQLStore{db: db, driver: driver, logger: logger}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("driver", driver).Info("store opened")
	return s, nil
}

func (s *SQLStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS incomes (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL,
			name        TEXT NOT NULL,
			amount      TEXT NOT NULL,
			frequency   TEXT NOT NULL,
			start_date  TEXT,
			notes       TEXT,
			created_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_incomes_user ON incomes(user_id)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			name              TEXT NOT NULL,
			amount            TEXT NOT NULL,
			frequency         TEXT NOT NULL,
			category          TEXT NOT NULL,
			necessary         BOOLEAN NOT NULL DEFAULT FALSE,
			cancellable       BOOLEAN NOT NULL DEFAULT FALSE,
			is_active         BOOLEAN NOT NULL DEFAULT TRUE,
			contract_end_date TEXT,
			merchant_hint     TEXT,
			notes             TEXT,
			created_at        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user ON expenses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_contract ON expenses(contract_end_date)`,

		`CREATE TABLE IF NOT EXISTS generated_tips (
			id                       TEXT PRIMARY KEY,
			user_id                  TEXT NOT NULL,
			date                     TEXT NOT NULL,
			tip_id                   TEXT NOT NULL,
			title                    TEXT NOT NULL,
			message                  TEXT NOT NULL,
			estimated_saving_monthly TEXT NOT NULL,
			action_cta               TEXT NOT NULL,
			status                   TEXT NOT NULL,
			expense_id               TEXT,
			created_at               TEXT NOT NULL,
			UNIQUE (user_id, date)
		)`,

		`CREATE TABLE IF NOT EXISTS insights_state (
			user_id     TEXT PRIMARY KEY,
			last_tip_at TEXT,
			tip_history TEXT NOT NULL,
			cooldowns   TEXT NOT NULL
		)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

// rebind rewrites ? placeholders to $1, $2, ... for postgres.
func (s *SQLStore) rebind(query string) string {
	if s.driver != "postgres" {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLStore) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.ExecContext(ctx, s.rebind(query), args...)
}

// execOne runs a statement that must touch exactly one row of the user.
func (s *SQLStore) execOne(ctx context.Context, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// timeLayout is fixed-width so that created_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) time.Time {
	t, _ := time.Parse(timeLayout, s)
	return t
}

// Incomes

func (s *SQLStore) AddIncome(ctx context.Context, inc *model.IncomeEntry) error {
	if inc.ID == "" {
		inc.ID = uuid.NewString()
	}
	if inc.CreatedAt.IsZero() {
		inc.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec(ctx, `INSERT INTO incomes
		(id, user_id, name, amount, frequency, start_date, notes, created_at)
		VALUES (?,?,?,?,?,?,?,?)`,
		inc.ID, inc.UserID, inc.Name, inc.Amount, string(inc.Frequency),
		nullString(inc.StartDate), nullString(inc.Notes), formatTime(inc.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert income: %w", err)
	}
	return nil
}

func (s *SQLStore) ListIncomes(ctx context.Context, userID string) ([]model.IncomeEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(`SELECT
		id, user_id, name, amount, frequency, start_date, notes, created_at
		FROM incomes WHERE user_id = ? ORDER BY created_at, id`), userID)
	if err != nil {
		return nil, fmt.Errorf("query incomes: %w", err)
	}
	defer rows.Close()

	var out []model.IncomeEntry
	for rows.Next() {
		var (
			inc              model.IncomeEntry
			freq, createdAt  string
			startDate, notes sql.NullString
		)
		if err := rows.Scan(&inc.ID, &inc.UserID, &inc.Name, &inc.Amount, &freq, &startDate, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan income: %w", err)
		}
		inc.Frequency = model.Frequency(freq)
		inc.StartDate = startDate.String
		inc.Notes = notes.String
		inc.CreatedAt = parseTime(createdAt)
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteIncome(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM incomes WHERE id = ? AND user_id = ?`, id, userID)
}

// Expenses

const expenseColumns = `id, user_id, name, amount, frequency, category, necessary, cancellable,
	is_active, contract_end_date, merchant_hint, notes, created_at`

func (s *SQLStore) AddExpense(ctx context.Context, exp *model.ExpenseEntry) error {
	if exp.ID == "" {
		exp.ID = uuid.NewString()
	}
	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now().UTC()
	}
	_, err := s.exec(ctx, `INSERT INTO expenses (`+expenseColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		exp.ID, exp.UserID, exp.Name, exp.Amount, string(exp.Frequency), exp.Category,
		exp.Necessary, exp.Cancellable, exp.Active,
		nullString(exp.ContractEndDate), nullString(exp.MerchantHint), nullString(exp.Notes),
		formatTime(exp.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (s *SQLStore) ListExpenses(ctx context.Context, userID string) ([]model.ExpenseEntry, error) {
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+`
		FROM expenses WHERE user_id = ? ORDER BY created_at, id`, userID)
}

func (s *SQLStore) ExpiringContracts(ctx context.Context, from, to string) ([]model.ExpenseEntry, error) {
	return s.queryExpenses(ctx, `SELECT `+expenseColumns+`
		FROM expenses
		WHERE is_active = ? AND contract_end_date IS NOT NULL
		  AND contract_end_date >= ? AND contract_end_date <= ?
		ORDER BY contract_end_date, user_id, id`, true, from, to)
}

func (s *SQLStore) queryExpenses(ctx context.Context, query string, args ...any) ([]model.ExpenseEntry, error) {
	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	var out []model.ExpenseEntry
	for rows.Next() {
		var (
			exp                        model.ExpenseEntry
			freq, createdAt            string
			contractEnd, merchant, nts sql.NullString
		)
		if err := rows.Scan(&exp.ID, &exp.UserID, &exp.Name, &exp.Amount, &freq, &exp.Category,
			&exp.Necessary, &exp.Cancellable, &exp.Active,
			&contractEnd, &merchant, &nts, &createdAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		exp.Frequency = model.Frequency(freq)
		exp.ContractEndDate = contractEnd.String
		exp.MerchantHint = merchant.String
		exp.Notes = nts.String
		exp.CreatedAt = parseTime(createdAt)
		out = append(out, exp)
	}
	return out, rows.Err()
}

func (s *SQLStore) SetExpenseActive(ctx context.Context, userID, id string, active bool) error {
	return s.execOne(ctx, `UPDATE expenses SET is_active = ? WHERE id = ? AND user_id = ?`, active, id, userID)
}

func (s *SQLStore) DeleteExpense(ctx context.Context, userID, id string) error {
	return s.execOne(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
}

func (s *SQLStore) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM incomes UNION SELECT user_id FROM expenses ORDER BY 1`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// Tips

const tipColumns = `id, user_id, date, tip_id, title, message, estimated_saving_monthly,
	action_cta, status, expense_id, created_at`

func (s *SQLStore) HasTipForDate(ctx context.Context, userID, date string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT COUNT(*) FROM generated_tips WHERE user_id = ? AND date = ?`), userID, date).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("count tips: %w", err)
	}
	return n > 0, nil
}

func (s *SQLStore) GetTipForDate(ctx context.Context, userID, date string) (*model.GeneratedTip, error) {
	return s.queryTip(ctx, `SELECT `+tipColumns+` FROM generated_tips WHERE user_id = ? AND date = ?`, userID, date)
}

func (s *SQLStore) GetTip(ctx context.Context, userID, id string) (*model.GeneratedTip, error) {
	return s.queryTip(ctx, `SELECT `+tipColumns+` FROM generated_tips WHERE user_id = ? AND id = ?`, userID, id)
}

func (s *SQLStore) queryTip(ctx context.Context, query string, args ...any) (*model.GeneratedTip, error) {
	var (
		tip               model.GeneratedTip
		status, createdAt string
		expenseID         sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(query), args...).Scan(
		&tip.ID, &tip.UserID, &tip.Date, &tip.TipID, &tip.Title, &tip.Message,
		&tip.EstimatedSavingMonthly, &tip.ActionCTA, &status, &expenseID, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query tip: %w", err)
	}
	tip.Status = model.TipStatus(status)
	tip.ExpenseID = expenseID.String
	tip.CreatedAt = parseTime(createdAt)
	return &tip, nil
}

func (s *SQLStore) InsertTip(ctx context.Context, tip *model.GeneratedTip) (model.InsertOutcome, error) {
	if tip.ID == "" {
		tip.ID = uuid.NewString()
	}
	if tip.CreatedAt.IsZero() {
		tip.CreatedAt = time.Now().UTC()
	}
	if tip.Status == "" {
		tip.Status = model.TipStatusNew
	}
	res, err := s.exec(ctx, `INSERT INTO generated_tips (`+tipColumns+`)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
		ON CONFLICT (user_id, date) DO NOTHING`,
		tip.ID, tip.UserID, tip.Date, tip.TipID, tip.Title, tip.Message,
		tip.EstimatedSavingMonthly, tip.ActionCTA, string(tip.Status),
		nullString(tip.ExpenseID), formatTime(tip.CreatedAt),
	)
	if err != nil {
		return model.Inserted, fmt.Errorf("insert tip: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.Inserted, fmt.Errorf("insert tip: %w", err)
	}
	if n == 0 {
		return model.Conflict, nil
	}
	return model.Inserted, nil
}

func (s *SQLStore) UpdateTipStatus(ctx context.Context, userID, id string, status model.TipStatus) error {
	return s.execOne(ctx, `UPDATE generated_tips SET status = ? WHERE id = ? AND user_id = ?`,
		string(status), id, userID)
}

// Insights state

func (s *SQLStore) LoadState(ctx context.Context, userID string) (*model.InsightsState, error) {
	var (
		lastTipAt          sql.NullString
		history, cooldowns string
	)
	err := s.db.QueryRowContext(ctx, s.rebind(
		`SELECT last_tip_at, tip_history, cooldowns FROM insights_state WHERE user_id = ?`), userID,
	).Scan(&lastTipAt, &history, &cooldowns)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query insights state: %w", err)
	}
	return decodeState(userID, lastTipAt, history, cooldowns)
}

func (s *SQLStore) SaveState(ctx context.Context, state model.InsightsState) error {
	history, cooldowns, err := encodeState(state)
	if err != nil {
		return err
	}
	_, err = s.exec(ctx, `INSERT INTO insights_state (user_id, last_tip_at, tip_history, cooldowns)
		VALUES (?,?,?,?)
		ON CONFLICT (user_id) DO UPDATE SET
			last_tip_at = excluded.last_tip_at,
			tip_history = excluded.tip_history,
			cooldowns   = excluded.cooldowns`,
		state.UserID, nullString(state.LastTipAt), history, cooldowns,
	)
	if err != nil {
		return fmt.Errorf("upsert insights state: %w", err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	s.logger.Info("closing store")
	return s.db.Close()
}
