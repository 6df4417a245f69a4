package cancellation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

const pqUniqueViolation = "23505"

// Repository репозиторий отмен бронирований
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория отмен
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create записывает отмену бронирования
// Повторная отмена того же бронирования возвращает ErrAlreadyCancelled
func (r *Repository) Create(ctx context.Context, bookingID int64, cancelledBy domain.CancelledBy) (*domain.Cancellation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("cancellations").
		Columns("booking_id", "cancelled_by").
		Values(bookingID, string(cancelledBy)).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	c := &domain.Cancellation{BookingID: bookingID, CancelledBy: cancelledBy}
	err = executor.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return c, nil
}

// List получает отмены по фильтру, новые первыми
func (r *Repository) List(ctx context.Context, filter domain.CancellationsFilter) ([]*domain.Cancellation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"c.id",
		"c.booking_id",
		"c.cancelled_by",
		"c.created_at",
		"b.booking_date",
		"b.start_time",
		"b.professional_id",
		"b.client_id",
	).
		From("cancellations c").
		Join("bookings b ON b.id = c.booking_id")

	if filter.CancelledBy != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"c.cancelled_by": string(*filter.CancelledBy)})
	}
	if filter.CreatedFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"c.created_at": *filter.CreatedFrom})
	}
	if filter.CreatedTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"c.created_at": *filter.CreatedTo})
	}
	if len(filter.BookingIDs) > 0 {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"c.booking_id": filter.BookingIDs})
	}
	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.professional_id": *filter.ProfessionalID})
	}

	query, args, err := selectBuilder.
		OrderBy("c.created_at DESC", "c.id DESC").
		Limit(uint64(domain.ClampLimit(filter.Limit))).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.Cancellation, 0)
	for rows.Next() {
		var c domain.Cancellation
		var by string
		var start types.TimeString
		var createdAt sql.NullTime

		if err := rows.Scan(
			&c.ID,
			&c.BookingID,
			&by,
			&createdAt,
			&c.BookingDate,
			&start,
			&c.ProfessionalID,
			&c.ClientID,
		); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %w", ErrScanRow, err)
		}

		if c.StartMinute, err = start.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: List - start_time: %v", ErrScanRow, err)
		}
		c.CancelledBy = domain.CancelledBy(by)
		c.CreatedAt = createdAt.Time

		result = append(result, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %w", ErrScanRow, err)
	}

	return result, nil
}
