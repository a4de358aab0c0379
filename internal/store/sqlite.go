package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/castlemilk/budgetwise/backend/internal/model"
	"github.com/castlemilk/budgetwise/backend/internal/period"
	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// timestampLayout is fixed width so stored timestamps sort lexically.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func sqliteDSN(dbPath string) string {
	return dbPath + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// SQLiteStore implements Store on a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath and
// migrates it to the latest schema.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", sqliteDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("[Store] SQLite store ready at %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Category operations

func (s *SQLiteStore) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetCategory(ctx context.Context, categoryID string) (*model.Category, error) {
	var c model.Category
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description FROM categories WHERE id = ?`, categoryID,
	).Scan(&c.ID, &c.Name, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %s: %w", categoryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// User operations

func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*model.User, error) {
	var (
		u                    model.User
		salary               sql.NullFloat64
		age, members         sql.NullInt64
		gender               sql.NullString
		isSingle, isProvider sql.NullBool
		createdAt, updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, salary, age, gender, is_single, is_family_provider,
		       family_members_count, created_at, updated_at
		FROM users WHERE id = ?`, userID,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &salary, &age, &gender, &isSingle, &isProvider,
		&members, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if salary.Valid {
		u.Salary = &salary.Float64
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if isSingle.Valid {
		u.IsSingle = &isSingle.Bool
	}
	if isProvider.Valid {
		u.IsFamilyProvider = &isProvider.Bool
	}
	if members.Valid {
		v := int(members.Int64)
		u.FamilyMembersCount = &v
	}
	u.CreatedAt = parseTimestamp(createdAt)
	u.UpdatedAt = parseTimestamp(updatedAt)
	return &u, nil
}

func (s *SQLiteStore) UpsertUser(ctx context.Context, user *model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, display_name, salary, age, gender, is_single,
		                   is_family_provider, family_members_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			salary = excluded.salary,
			age = excluded.age,
			gender = excluded.gender,
			is_single = excluded.is_single,
			is_family_provider = excluded.is_family_provider,
			family_members_count = excluded.family_members_count,
			updated_at = excluded.updated_at`,
		user.ID, user.Email, user.DisplayName,
		nullable(user.Salary), nullable(user.Age), nullable(user.Gender),
		nullable(user.IsSingle), nullable(user.IsFamilyProvider), nullable(user.FamilyMembersCount),
		formatTimestamp(user.CreatedAt), formatTimestamp(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	return nil
}

// Budget operations

const budgetColumns = `id, user_id, category_id, name, amount, created_at, updated_at`

func (s *SQLiteStore) CreateBudget(ctx context.Context, budget *model.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		budget.ID, budget.UserID, budget.CategoryID, budget.Name, budget.Amount,
		formatTimestamp(budget.CreatedAt), formatTimestamp(budget.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("create budget: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetBudget(ctx context.Context, budgetID string) (*model.Budget, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+budgetColumns+` FROM budgets WHERE id = ?`, budgetID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget %s: %w", budgetID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) GetBudgetByCategory(ctx context.Context, userID, categoryID string) (*model.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND category_id = ?`, userID, categoryID)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("budget for category %s: %w", categoryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get budget by category: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) UpdateBudget(ctx context.Context, budget *model.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET category_id = ?, name = ?, amount = ?, updated_at = ? WHERE id = ?`,
		budget.CategoryID, budget.Name, budget.Amount, formatTimestamp(budget.UpdatedAt), budget.ID,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("budget for category %s: %w", budget.CategoryID, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("update budget: %w", err)
	}
	return requireAffected(res, "budget", budget.ID)
}

// DeleteBudget removes the budget and its entries in one transaction.
func (s *SQLiteStore) DeleteBudget(ctx context.Context, budgetID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete budget: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE budget_id = ?`, budgetID); err != nil {
		return fmt.Errorf("delete budget entries: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = ?`, budgetID)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if err := requireAffected(res, "budget", budgetID); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SQLiteStore) ListBudgets(ctx context.Context, userID string) ([]*model.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var out []*model.Budget
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// Entry operations

const entryColumns = `id, user_id, category_id, budget_id, amount, date, time, stats_type, description, created_at, updated_at`

func (s *SQLiteStore) CreateEntry(ctx context.Context, entry *model.Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.UserID, entry.CategoryID, entry.BudgetID, entry.Amount,
		entry.DateString(), entry.Time, string(entry.StatsType), entry.Description,
		formatTimestamp(entry.CreatedAt), formatTimestamp(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetEntry(ctx context.Context, entryID string) (*model.Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, entryID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %s: %w", entryID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) UpdateEntry(ctx context.Context, entry *model.Entry) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE entries
		SET category_id = ?, budget_id = ?, amount = ?, date = ?, time = ?, stats_type = ?,
		    description = ?, updated_at = ?
		WHERE id = ?`,
		entry.CategoryID, entry.BudgetID, entry.Amount, entry.DateString(), entry.Time,
		string(entry.StatsType), entry.Description, formatTimestamp(entry.UpdatedAt), entry.ID,
	)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireAffected(res, "entry", entry.ID)
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireAffected(res, "entry", entryID)
}

func (s *SQLiteStore) ListEntries(ctx context.Context, filter EntryFilter) ([]*model.Entry, error) {
	where, args := entryWhere(filter)
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries`+where+` ORDER BY date, time, id`, args...)
}

// entrySortColumns maps sort keys to columns.
var entrySortColumns = map[string]string{
	SortByDate:      "date",
	SortByAmount:    "amount",
	SortByTime:      "time",
	SortByStatsType: "stats_type",
	SortByCreatedAt: "created_at",
}

func (s *SQLiteStore) ListEntriesPage(ctx context.Context, filter EntryFilter, page EntryPageRequest) ([]*model.Entry, int, error) {
	page = page.Normalize()
	where, args := entryWhere(filter)

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	dir := "DESC"
	if page.SortOrder == SortAsc {
		dir = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s, date %s, time %s, id %s",
		entrySortColumns[page.SortBy], dir, dir, dir, dir)

	entries, err := s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM entries`+where+order+` LIMIT ? OFFSET ?`,
		append(args, page.PerPage, page.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (s *SQLiteStore) queryEntries(ctx context.Context, query string, args ...any) ([]*model.Entry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	out := []*model.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func entryWhere(f EntryFilter) (string, []any) {
	var (
		clauses []string
		args    []any
	)
	add := func(clause string, arg any) {
		clauses = append(clauses, clause)
		args = append(args, arg)
	}
	if f.UserID != "" {
		add("user_id = ?", f.UserID)
	}
	if f.CategoryID != "" {
		add("category_id = ?", f.CategoryID)
	}
	if f.BudgetID != "" {
		add("budget_id = ?", f.BudgetID)
	}
	if f.StatsType != "" {
		add("stats_type = ?", string(f.StatsType))
	}
	if f.Start != nil {
		add("date >= ?", period.FormatDate(*f.Start))
	}
	if f.End != nil {
		add("date <= ?", period.FormatDate(*f.End))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBudget(row rowScanner) (*model.Budget, error) {
	var (
		b                    model.Budget
		createdAt, updatedAt string
	)
	if err := row.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Name, &b.Amount, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	b.CreatedAt = parseTimestamp(createdAt)
	b.UpdatedAt = parseTimestamp(updatedAt)
	return &b, nil
}

func scanEntry(row rowScanner) (*model.Entry, error) {
	var (
		e                    model.Entry
		date, statsType      string
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &e.UserID, &e.CategoryID, &e.BudgetID, &e.Amount, &date, &e.Time,
		&statsType, &e.Description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d, err := period.ParseDate(date)
	if err != nil {
		return nil, fmt.Errorf("entry %s date %q: %w", e.ID, date, err)
	}
	e.Date = d
	e.StatsType = period.Kind(statsType)
	e.CreatedAt = parseTimestamp(createdAt)
	e.UpdatedAt = parseTimestamp(updatedAt)
	return &e, nil
}

func requireAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %s rows affected: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func nullable[T any](v *T) any {
	if v == nil {
		return nil
	}
	return *v
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
