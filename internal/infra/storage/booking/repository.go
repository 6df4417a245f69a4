package booking

import (
	"context"
	"database/sql"
	"fmt"
	"hash/fnv"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/dbmetrics"
	"github.com/m04kA/SMC-AppointmentService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var bookingColumns = []string{
	"b.id",
	"b.client_id",
	"b.professional_id",
	"b.booking_date",
	"b.start_time",
	"b.duration_minutes",
	"b.notes",
	"c.cancelled_by",
	"c.created_at",
	"b.created_at",
	"b.updated_at",
}

// activeOnly отсекает бронирования, у которых есть запись об отмене
var activeOnly = squirrel.Expr("NOT EXISTS (SELECT 1 FROM cancellations cx WHERE cx.booking_id = b.id)")

func selectBookings() squirrel.SelectBuilder {
	return psqlbuilder.Select(bookingColumns...).
		From("bookings b").
		LeftJoin("cancellations c ON c.booking_id = b.id")
}

// Create создает бронирование вместе с его услугами
// Должен вызываться внутри транзакции вместе с проверкой пересечений
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"client_id",
			"professional_id",
			"booking_date",
			"start_time",
			"duration_minutes",
			"notes",
		).
		Values(
			booking.ClientID,
			booking.ProfessionalID,
			booking.Date.Format(domain.DateFormat),
			types.FromMinutes(booking.StartMinute),
			booking.DurationMinutes,
			booking.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	if len(booking.Services) == 0 {
		return booking, nil
	}

	insertServices := psqlbuilder.Insert("booking_services").
		Columns("booking_id", "service_id", "quantity", "service_name", "service_price", "duration_minutes")
	for _, s := range booking.Services {
		insertServices = insertServices.Values(booking.ID, s.ServiceID, s.Quantity, s.ServiceName, s.ServicePrice, s.DurationMinutes)
	}

	query, args, err = insertServices.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build services insert: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%w: Create - insert services: %w", ErrExecQuery, err)
	}

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка бронирования блокируется (FOR UPDATE OF b)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings().Where(squirrel.Eq{"b.id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF b")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %w", ErrScanRow, err)
	}

	if err := r.attachServices(ctx, []*domain.Booking{booking}); err != nil {
		return nil, err
	}

	return booking, nil
}

// List получает бронирования по фильтру, отсортированные по дате и времени начала
func (r *Repository) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := selectBookings()

	if filter.ProfessionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.professional_id": *filter.ProfessionalID})
	}
	if filter.ClientID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.client_id": *filter.ClientID})
	}
	if filter.DateFrom != nil {
		selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.booking_date": filter.DateFrom.Format(domain.DateFormat)})
	}
	if filter.DateTo != nil {
		selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.booking_date": filter.DateTo.Format(domain.DateFormat)})
	}

	// Точное время имеет приоритет над диапазоном
	if filter.StartMinute != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"b.start_time": types.FromMinutes(*filter.StartMinute)})
	} else {
		if filter.TimeFrom != nil {
			selectBuilder = selectBuilder.Where(squirrel.GtOrEq{"b.start_time": types.FromMinutes(*filter.TimeFrom)})
		}
		if filter.TimeTo != nil {
			selectBuilder = selectBuilder.Where(squirrel.LtOrEq{"b.start_time": types.FromMinutes(*filter.TimeTo)})
		}
	}

	if filter.ServiceID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Expr(
			"EXISTS (SELECT 1 FROM booking_services bs WHERE bs.booking_id = b.id AND bs.service_id = ?)",
			*filter.ServiceID,
		))
	}

	if !filter.IncludeCancelled {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"c.id": nil})
	}

	query, args, err := selectBuilder.OrderBy("b.booking_date ASC", "b.start_time ASC", "b.id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings, err := scanBookings(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachServices(ctx, bookings); err != nil {
		return nil, err
	}

	return bookings, nil
}

// activeForDate запрос активных бронирований на дату
// Для мастера в выборку попадают его бронирования и бронирования без мастера,
// без мастера - все бронирования даты
func activeForDate(date time.Time, professionalID *int64, forUpdate bool) squirrel.SelectBuilder {
	selectBuilder := psqlbuilder.Select(
		"b.id",
		"b.client_id",
		"b.professional_id",
		"b.booking_date",
		"b.start_time",
		"b.duration_minutes",
	).
		From("bookings b").
		Where(squirrel.Eq{"b.booking_date": date.Format(domain.DateFormat)}).
		Where(activeOnly).
		OrderBy("b.start_time ASC")

	if professionalID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Or{
			squirrel.Eq{"b.professional_id": *professionalID},
			squirrel.Eq{"b.professional_id": nil},
		})
	}

	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	return selectBuilder
}

// ListActiveForDate получает активные бронирования на дату
// Бронирование без мастера блокирует всю дату, поэтому входит в выборку любого мастера.
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) ListActiveForDate(ctx context.Context, date time.Time, professionalID *int64) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := activeForDate(date, professionalID, dbmetrics.IsInTransaction(ctx)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDate - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	bookings := make([]*domain.Booking, 0)
	for rows.Next() {
		var booking domain.Booking
		var start types.TimeString

		if err := rows.Scan(
			&booking.ID,
			&booking.ClientID,
			&booking.ProfessionalID,
			&booking.Date,
			&start,
			&booking.DurationMinutes,
		); err != nil {
			return nil, fmt.Errorf("%w: ListActiveForDate - scan row: %w", ErrScanRow, err)
		}

		if booking.StartMinute, err = start.Minutes(); err != nil {
			return nil, fmt.Errorf("%w: ListActiveForDate - start_time: %v", ErrScanRow, err)
		}

		bookings = append(bookings, &booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListActiveForDate - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}

// LockSchedule берет advisory lock на (дату, мастера) до конца текущей транзакции
// Бронирование без мастера берет ключ даты эксклюзивно. Мастер берет ключ даты разделяемо,
// затем свой ключ эксклюзивно: мастера не мешают друг другу, но ждут записи без мастера.
// Ключ даты всегда берется первым, порядок одинаков для всех транзакций.
// Вне транзакции блокировка снимается сразу после запроса
func (r *Repository) LockSchedule(ctx context.Context, date time.Time, professionalID *int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	dateKey := ScheduleLockKey(date, nil)
	if professionalID == nil {
		if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", dateKey); err != nil {
			return fmt.Errorf("%w: LockSchedule - date lock: %w", ErrExecQuery, err)
		}
		return nil
	}

	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock_shared($1)", dateKey); err != nil {
		return fmt.Errorf("%w: LockSchedule - shared date lock: %w", ErrExecQuery, err)
	}
	if _, err := executor.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", ScheduleLockKey(date, professionalID)); err != nil {
		return fmt.Errorf("%w: LockSchedule - professional lock: %w", ErrExecQuery, err)
	}

	return nil
}

// UpdateTime переносит бронирование на новую дату и время
func (r *Repository) UpdateTime(ctx context.Context, id int64, date time.Time, startMinute int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("booking_date", date.Format(domain.DateFormat)).
		Set("start_time", types.FromMinutes(startMinute)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTime - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTime - execute update: %w", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTime - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// ScheduleLockKey ключ advisory lock для пары (дата, мастер)
func ScheduleLockKey(date time.Time, professionalID *int64) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte("schedule:" + date.Format(domain.DateFormat)))
	if professionalID != nil {
		_, _ = fmt.Fprintf(h, ":%d", *professionalID)
	}
	return int64(h.Sum64())
}

// attachServices подгружает услуги для списка бронирований одним запросом
func (r *Repository) attachServices(ctx context.Context, bookings []*domain.Booking) error {
	if len(bookings) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	byID := make(map[int64]*domain.Booking, len(bookings))
	ids := make([]int64, 0, len(bookings))
	for _, b := range bookings {
		byID[b.ID] = b
		ids = append(ids, b.ID)
	}

	query, args, err := psqlbuilder.Select(
		"booking_id",
		"service_id",
		"quantity",
		"service_name",
		"service_price",
		"duration_minutes",
	).
		From("booking_services").
		Where(squirrel.Eq{"booking_id": ids}).
		OrderBy("booking_id ASC", "service_id ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: attachServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: attachServices - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int64
		var s domain.BookingService
		if err := rows.Scan(&bookingID, &s.ServiceID, &s.Quantity, &s.ServiceName, &s.ServicePrice, &s.DurationMinutes); err != nil {
			return fmt.Errorf("%w: attachServices - scan row: %w", ErrScanRow, err)
		}
		if b, ok := byID[bookingID]; ok {
			b.Services = append(b.Services, s)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: attachServices - rows error: %w", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var start types.TimeString
	var cancelledBy sql.NullString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.ClientID,
		&booking.ProfessionalID,
		&booking.Date,
		&start,
		&booking.DurationMinutes,
		&booking.Notes,
		&cancelledBy,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if booking.StartMinute, err = start.Minutes(); err != nil {
		return nil, err
	}

	if cancelledAt.Valid {
		by := domain.CancelledBy(cancelledBy.String)
		at := cancelledAt.Time
		booking.CancelledBy = &by
		booking.CancelledAt = &at
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

// scanBookings сканирует результаты запроса в слайс бронирований
func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanBookings - scan row: %w", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanBookings - rows error: %w", ErrScanRow, err)
	}

	return bookings, nil
}
