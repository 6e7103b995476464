package pricingrule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-QuestScheduleService/internal/domain"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/dbmetrics"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-QuestScheduleService/pkg/types"
)

const tableName = "pricing_rules"

var ruleColumns = []string{
	"id",
	"name",
	"quest_ids",
	"start_date",
	"end_date",
	"weekdays",
	"time_from",
	"time_to",
	"interval_minutes",
	"price",
	"is_blocked",
	"priority",
	"is_active",
	"created_at",
	"updated_at",
}

// Repository репозиторий правил ценообразования
// Наборы квестов и дней недели хранятся в массивах PostgreSQL
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое правило
func (r *Repository) Create(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(tableName).
		Columns(
			"name",
			"quest_ids",
			"start_date",
			"end_date",
			"weekdays",
			"time_from",
			"time_to",
			"interval_minutes",
			"price",
			"is_blocked",
			"priority",
			"is_active",
		).
		Values(
			rule.Name,
			pq.Array(rule.QuestIDs),
			nullDate(rule.StartDate),
			nullDate(rule.EndDate),
			pq.Array(weekdaysToInts(rule.Weekdays)),
			rule.TimeFrom,
			rule.TimeTo,
			rule.IntervalMinutes,
			rule.Price,
			rule.IsBlocked,
			rule.Priority,
			rule.IsActive,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rule.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// Update полностью обновляет правило
// CreatedAt не изменяется, так как участвует в детерминированном порядке применения правил
func (r *Repository) Update(ctx context.Context, rule *domain.PricingRule) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(tableName).
		Set("name", rule.Name).
		Set("quest_ids", pq.Array(rule.QuestIDs)).
		Set("start_date", nullDate(rule.StartDate)).
		Set("end_date", nullDate(rule.EndDate)).
		Set("weekdays", pq.Array(weekdaysToInts(rule.Weekdays))).
		Set("time_from", rule.TimeFrom).
		Set("time_to", rule.TimeTo).
		Set("interval_minutes", rule.IntervalMinutes).
		Set("price", rule.Price).
		Set("is_blocked", rule.IsBlocked).
		Set("priority", rule.Priority).
		Set("is_active", rule.IsActive).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rule.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return rule, nil
}

// GetByID получает правило по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(ruleColumns...).
		From(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	rule, err := scanRule(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRuleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan rule: %v", ErrScanRow, err)
	}

	return rule, nil
}

// List получает правила по фильтру в порядке создания
func (r *Repository) List(ctx context.Context, filter domain.PricingRuleFilter) ([]*domain.PricingRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(ruleColumns...).
		From(tableName).
		OrderBy("created_at ASC", "id ASC")

	if filter.QuestID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr("? = ANY(quest_ids)", *filter.QuestID))
	}
	if filter.OnlyActive {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"is_active": true})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	rules := make([]*domain.PricingRule, 0)
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan rule: %v", ErrScanRow, err)
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - iterate rows: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Delete удаляет правило
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(tableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if n == 0 {
		return ErrRuleNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRule(row rowScanner) (*domain.PricingRule, error) {
	var rule domain.PricingRule
	var questIDs, weekdays pq.Int64Array
	var startDate, endDate, createdAt, updatedAt sql.NullTime
	var timeFrom, timeTo types.TimeString
	var price sql.NullInt64

	err := row.Scan(
		&rule.ID,
		&rule.Name,
		&questIDs,
		&startDate,
		&endDate,
		&weekdays,
		&timeFrom,
		&timeTo,
		&rule.IntervalMinutes,
		&price,
		&rule.IsBlocked,
		&rule.Priority,
		&rule.IsActive,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rule.QuestIDs = []int64(questIDs)
	rule.Weekdays = make([]time.Weekday, 0, len(weekdays))
	for _, w := range weekdays {
		rule.Weekdays = append(rule.Weekdays, time.Weekday(w))
	}
	if startDate.Valid {
		d := domain.DateOnly(startDate.Time)
		rule.StartDate = &d
	}
	if endDate.Valid {
		d := domain.DateOnly(endDate.Time)
		rule.EndDate = &d
	}
	if !timeFrom.IsZero() {
		rule.TimeFrom = &timeFrom
	}
	if !timeTo.IsZero() {
		rule.TimeTo = &timeTo
	}
	if price.Valid {
		rule.Price = &price.Int64
	}
	rule.CreatedAt = createdAt.Time
	rule.UpdatedAt = updatedAt.Time

	return &rule, nil
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return domain.FormatDate(*t)
}

func weekdaysToInts(days []time.Weekday) []int64 {
	out := make([]int64, 0, len(days))
	for _, d := range days {
		out = append(out, int64(d))
	}
	return out
}
