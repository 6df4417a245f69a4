package reschedule

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий запросов на перенос
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория запросов на перенос
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

var requestColumns = []string{
	"id",
	"booking_id",
	"requested_date",
	"requested_time",
	"status",
	"client_note",
	"response_note",
	"responded_at",
	"created_at",
}

// Create сохраняет запрос на перенос
// Статус берется из запроса: pending для клиента, approved для истории прямого переноса
func (r *Repository) Create(ctx context.Context, req *domain.RescheduleRequest) (*domain.RescheduleRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("reschedule_requests").
		Columns(
			"booking_id",
			"requested_date",
			"requested_time",
			"status",
			"client_note",
			"response_note",
			"responded_at",
		).
		Values(
			req.BookingID,
			req.RequestedDate.Format(domain.DateFormat),
			types.FromMinutes(req.RequestedMinute),
			string(req.Status),
			req.ClientNote,
			req.ResponseNote,
			req.RespondedAt,
		).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &req.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return req, nil
}

// GetByID получает запрос по ID, внутри транзакции строка блокируется
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.RescheduleRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).
		From("reschedule_requests").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan request: %w", ErrScanRow, err)
	}

	return req, nil
}

// HasPending проверяет наличие ожидающего запроса для бронирования
func (r *Repository) HasPending(ctx context.Context, bookingID int64) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("1").
		From("reschedule_requests").
		Where(squirrel.Eq{"booking_id": bookingID, "status": string(domain.RescheduleStatusPending)}).
		Limit(1).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasPending - build select query: %v", ErrBuildQuery, err)
	}

	var one int
	err = executor.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: HasPending - execute query: %w", ErrExecQuery, err)
	}

	return true, nil
}

// Resolve переводит запрос в конечный статус, проставляя responded_at
func (r *Repository) Resolve(ctx context.Context, id int64, status domain.RescheduleStatus, note *string) (*domain.RescheduleRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("reschedule_requests").
		Set("status", string(status)).
		Set("response_note", note).
		Set("responded_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(requestColumns, ", ")).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Resolve - build update query: %v", ErrBuildQuery, err)
	}

	req, err := scanRequest(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRequestNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Resolve - execute update: %w", ErrExecQuery, err)
	}

	return req, nil
}

// DenyPending отклоняет все ожидающие запросы бронирования, возвращает их количество
func (r *Repository) DenyPending(ctx context.Context, bookingID int64, note string) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := denyPending(bookingID, note).ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: DenyPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: DenyPending - execute update: %w", ErrExecQuery, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: DenyPending - rows affected: %w", ErrExecQuery, err)
	}

	return affected, nil
}

func denyPending(bookingID int64, note string) squirrel.UpdateBuilder {
	return psqlbuilder.Update("reschedule_requests").
		Set("status", string(domain.RescheduleStatusDenied)).
		Set("response_note", note).
		Set("responded_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"booking_id": bookingID, "status": string(domain.RescheduleStatusPending)})
}

// List получает запросы по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.RescheduleRequestsFilter) ([]*domain.RescheduleRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(requestColumns...).From("reschedule_requests")

	if len(filter.BookingIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"booking_id": filter.BookingIDs})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": string(*filter.Status)})
	}

	query, args, err := selectBuilder.OrderBy("created_at DESC", "id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.RescheduleRequest, 0)
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}
		result = append(result, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*domain.RescheduleRequest, error) {
	var req domain.RescheduleRequest
	var requested types.TimeString
	var status string
	var respondedAt sql.NullTime

	err := row.Scan(
		&req.ID,
		&req.BookingID,
		&req.RequestedDate,
		&requested,
		&status,
		&req.ClientNote,
		&req.ResponseNote,
		&respondedAt,
		&req.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if req.RequestedMinute, err = requested.Minutes(); err != nil {
		return nil, err
	}
	req.Status = domain.RescheduleStatus(status)
	if respondedAt.Valid {
		at := respondedAt.Time
		req.RespondedAt = &at
	}

	return &req, nil
}
