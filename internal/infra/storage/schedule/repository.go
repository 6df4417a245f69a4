package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий настроек расписания
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// scopeFilter условие на область правила: глобальное или мастера
// Для мастера выбираются обе области, чтобы резолвер мог выбрать по приоритету
func scopeFilter(professionalID *int64) squirrel.Sqlizer {
	if professionalID == nil {
		return squirrel.Eq{"professional_id": nil}
	}
	return squirrel.Or{
		squirrel.Eq{"professional_id": nil},
		squirrel.Eq{"professional_id": *professionalID},
	}
}

// exactScope условие на ровно одну область
func exactScope(professionalID *int64) squirrel.Eq {
	if professionalID == nil {
		return squirrel.Eq{"professional_id": nil}
	}
	return squirrel.Eq{"professional_id": *professionalID}
}

// GetScheduleRules загружает все правила-кандидаты для (дата, мастер) двумя запросами
func (r *Repository) GetScheduleRules(ctx context.Context, date time.Time, professionalID *int64) (domain.ScheduleRules, error) {
	var rules domain.ScheduleRules

	// 1. Исключения на дату
	specials, err := r.querySpecialDates(ctx, "GetScheduleRules",
		squirrel.And{squirrel.Eq{"special_date": date.Format(domain.DateFormat)}, scopeFilter(professionalID)}, 0)
	if err != nil {
		return rules, err
	}
	for _, s := range specials {
		if s.ProfessionalID == nil {
			rules.GlobalSpecial = s
		} else {
			rules.ProfessionalSpecial = s
		}
	}

	// 2. Рабочие часы по дню недели
	windows, err := r.queryBusinessHours(ctx, "GetScheduleRules",
		squirrel.And{squirrel.Eq{"weekday": int(date.Weekday())}, scopeFilter(professionalID)})
	if err != nil {
		return rules, err
	}
	for _, w := range windows {
		if w.ProfessionalID == nil {
			rules.GlobalWeekday = w
		} else {
			rules.ProfessionalWeekday = w
		}
	}

	return rules, nil
}

// ListBusinessHours рабочие часы области, по дням недели
func (r *Repository) ListBusinessHours(ctx context.Context, professionalID *int64) ([]*domain.OperatingWindow, error) {
	return r.queryBusinessHours(ctx, "ListBusinessHours", exactScope(professionalID))
}

// ReplaceBusinessHours заменяет рабочие часы области целиком
// Вызывать внутри транзакции
func (r *Repository) ReplaceBusinessHours(ctx context.Context, professionalID *int64, windows []*domain.OperatingWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("business_hours").Where(exactScope(professionalID)).ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute delete: %w", ErrExecQuery, err)
	}

	if len(windows) == 0 {
		return nil
	}

	insert := psqlbuilder.Insert("business_hours").
		Columns("weekday", "enabled", "open_time", "close_time", "professional_id")
	for _, w := range windows {
		open, closeTime := windowTimes(w.Enabled, w.OpenMinute, w.CloseMinute)
		insert = insert.Values(int(w.Weekday), w.Enabled, open, closeTime, professionalID)
	}

	query, args, err = insert.ToSql()
	if err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: ReplaceBusinessHours - execute insert: %w", ErrExecQuery, err)
	}

	return nil
}

// ListSpecialDates исключения начиная с даты from, по возрастанию
// professionalID nil возвращает исключения всех областей
func (r *Repository) ListSpecialDates(ctx context.Context, from time.Time, professionalID *int64) ([]*domain.SpecialDateOverride, error) {
	cond := squirrel.And{squirrel.GtOrEq{"special_date": from.Format(domain.DateFormat)}}
	if professionalID != nil {
		cond = append(cond, squirrel.Eq{"professional_id": *professionalID})
	}
	return r.querySpecialDates(ctx, "ListSpecialDates", cond, 0)
}

// UpsertSpecialDate создает или обновляет исключение для (дата, мастер)
func (r *Repository) UpsertSpecialDate(ctx context.Context, o *domain.SpecialDateOverride) (*domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	open, closeTime := windowTimes(o.Enabled, o.OpenMinute, o.CloseMinute)

	query, args, err := psqlbuilder.Insert("special_dates").
		Columns("special_date", "enabled", "open_time", "close_time", "professional_id", "note").
		Values(o.Date.Format(domain.DateFormat), o.Enabled, open, closeTime, o.ProfessionalID, o.Note).
		Suffix(`ON CONFLICT (special_date, COALESCE(professional_id, 0)) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			note = EXCLUDED.note
			RETURNING id, created_at`).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpsertSpecialDate - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&o.ID, &o.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: UpsertSpecialDate - execute insert: %w", ErrExecQuery, err)
	}

	return o, nil
}

// DeleteSpecialDate удаляет исключение
func (r *Repository) DeleteSpecialDate(ctx context.Context, id int64) (*domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("special_dates").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING id, special_date, enabled, open_time, close_time, professional_id, note, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: DeleteSpecialDate - build delete query: %v", ErrBuildQuery, err)
	}

	o, err := scanSpecialDate(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrSpecialDateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: DeleteSpecialDate - execute delete: %w", ErrExecQuery, err)
	}

	return o, nil
}

// ListManualSlotsForDate доступные ручные слоты на дату: глобальные и мастера
func (r *Repository) ListManualSlotsForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.ManualSlot, error) {
	return r.queryManualSlots(ctx, "ListManualSlotsForDate", squirrel.And{
		squirrel.Eq{"slot_date": date.Format(domain.DateFormat)},
		squirrel.Eq{"available": true},
		scopeFilter(professionalID),
	}, 0)
}

// ListManualSlots ручные слоты начиная с даты from
func (r *Repository) ListManualSlots(ctx context.Context, from time.Time, limit int) ([]*domain.ManualSlot, error) {
	return r.queryManualSlots(ctx, "ListManualSlots",
		squirrel.GtOrEq{"slot_date": from.Format(domain.DateFormat)}, limit)
}

// CreateManualSlot создает ручной слот
func (r *Repository) CreateManualSlot(ctx context.Context, s *domain.ManualSlot) (*domain.ManualSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("manual_slots").
		Columns("slot_date", "slot_time", "professional_id", "note", "available").
		Values(s.Date.Format(domain.DateFormat), types.FromMinutes(s.Minute), s.ProfessionalID, s.Note, s.Available).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateManualSlot - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&s.ID, &s.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: CreateManualSlot - execute insert: %w", ErrExecQuery, err)
	}

	return s, nil
}

// DeleteManualSlot удаляет ручной слот и возвращает его дату
func (r *Repository) DeleteManualSlot(ctx context.Context, id int64) (time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("manual_slots").
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING slot_date").
		ToSql()

	if err != nil {
		return time.Time{}, fmt.Errorf("%w: DeleteManualSlot - build delete query: %v", ErrBuildQuery, err)
	}

	var date time.Time
	err = executor.QueryRowContext(ctx, query, args...).Scan(&date)
	if err == sql.ErrNoRows {
		return time.Time{}, ErrManualSlotNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: DeleteManualSlot - execute delete: %w", ErrExecQuery, err)
	}

	return date, nil
}

// GetHorizon последний доступный для бронирования месяц, nil если не ограничен
func (r *Repository) GetHorizon(ctx context.Context) (*domain.YearMonth, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("last_month").
		From("booking_horizon").
		Where(squirrel.Eq{"id": 1}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetHorizon - build select query: %v", ErrBuildQuery, err)
	}

	var lastMonth sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&lastMonth)
	if err == sql.ErrNoRows || (err == nil && !lastMonth.Valid) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetHorizon - scan: %w", ErrScanRow, err)
	}

	return &domain.YearMonth{Year: lastMonth.Time.Year(), Month: lastMonth.Time.Month()}, nil
}

// SetHorizon задает горизонт, nil снимает ограничение
func (r *Repository) SetHorizon(ctx context.Context, horizon *domain.YearMonth) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var value interface{}
	if horizon != nil {
		value = fmt.Sprintf("%s-01", horizon.String())
	}

	query, args, err := psqlbuilder.Insert("booking_horizon").
		Columns("id", "last_month").
		Values(1, value).
		Suffix("ON CONFLICT (id) DO UPDATE SET last_month = EXCLUDED.last_month").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetHorizon - build upsert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: SetHorizon - execute upsert: %w", ErrExecQuery, err)
	}

	return nil
}

func (r *Repository) queryBusinessHours(ctx context.Context, op string, where squirrel.Sqlizer) ([]*domain.OperatingWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "weekday", "enabled", "open_time", "close_time", "professional_id").
		From("business_hours").
		Where(where).
		OrderBy("weekday ASC", "professional_id ASC NULLS FIRST").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: %s - build business hours query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute business hours query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	windows := make([]*domain.OperatingWindow, 0)
	for rows.Next() {
		var w domain.OperatingWindow
		var weekday int
		var open, closeTime types.TimeString

		if err := rows.Scan(&w.ID, &weekday, &w.Enabled, &open, &closeTime, &w.ProfessionalID); err != nil {
			return nil, fmt.Errorf("%w: %s - scan business hours: %w", ErrScanRow, op, err)
		}

		w.Weekday = time.Weekday(weekday)
		if w.OpenMinute, w.CloseMinute, err = minutesPair(open, closeTime); err != nil {
			return nil, fmt.Errorf("%w: %s - business hours times: %v", ErrScanRow, op, err)
		}

		windows = append(windows, &w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return windows, nil
}

func (r *Repository) querySpecialDates(ctx context.Context, op string, where squirrel.Sqlizer, limit int) ([]*domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "special_date", "enabled", "open_time", "close_time", "professional_id", "note", "created_at").
		From("special_dates").
		Where(where).
		OrderBy("special_date ASC", "professional_id ASC NULLS FIRST")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build special dates query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute special dates query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.SpecialDateOverride, 0)
	for rows.Next() {
		o, err := scanSpecialDate(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan special date: %w", ErrScanRow, op, err)
		}
		result = append(result, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}

func (r *Repository) queryManualSlots(ctx context.Context, op string, where squirrel.Sqlizer, limit int) ([]*domain.ManualSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "slot_date", "slot_time", "professional_id", "note", "available", "created_at").
		From("manual_slots").
		Where(where).
		OrderBy("slot_date ASC", "slot_time ASC")

	if limit > 0 {
		selectBuilder = selectBuilder.Limit(uint64(limit))
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build manual slots query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute manual slots query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	result := make([]*domain.ManualSlot, 0)
	for rows.Next() {
		var s domain.ManualSlot
		var slotTime types.TimeString

		if err := rows.Scan(&s.ID, &s.Date, &slotTime, &s.ProfessionalID, &s.Note, &s.Available, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %s - scan manual slot: %w", ErrScanRow, op, err)
		}
		if s.Minute, err = slotTime.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: %s - slot_time: %v", ErrScanRow, op, err)
		}

		result = append(result, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %w", ErrScanRow, op, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSpecialDate(row rowScanner) (*domain.SpecialDateOverride, error) {
	var o domain.SpecialDateOverride
	var open, closeTime types.TimeString

	if err := row.Scan(&o.ID, &o.Date, &o.Enabled, &open, &closeTime, &o.ProfessionalID, &o.Note, &o.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	if o.OpenMinute, o.CloseMinute, err = minutesPair(open, closeTime); err != nil {
		return nil, err
	}

	return &o, nil
}

// minutesPair NULL время (закрытый день) дает нули
func minutesPair(open, closeTime types.TimeString) (int, int, error) {
	if open.IsZero() || closeTime.IsZero() {
		return 0, 0, nil
	}
	o, err := open.Minutes()
	if err != nil {
		return 0, 0, err
	}
	c, err := closeTime.Minutes()
	if err != nil {
		return 0, 0, err
	}
	return o, c, nil
}

// windowTimes значения колонок open_time/close_time, для закрытого дня NULL
func windowTimes(enabled bool, open, closeMinute int) (interface{}, interface{}) {
	if !enabled {
		return nil, nil
	}
	return types.FromMinutes(open), types.FromMinutes(closeMinute)
}
