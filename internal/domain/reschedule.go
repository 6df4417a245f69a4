package domain

import "time"

// RescheduleStatus статус запроса на перенос
type RescheduleStatus string

const (
	RescheduleStatusPending  RescheduleStatus = "pending"
	RescheduleStatusApproved RescheduleStatus = "approved"
	RescheduleStatusDenied   RescheduleStatus = "denied"
)

// rescheduleTransitions approved и denied терминальные
var rescheduleTransitions = map[RescheduleStatus][]RescheduleStatus{
	RescheduleStatusPending: {RescheduleStatusApproved, RescheduleStatusDenied},
}

// CanTransition checks if transition is allowed.
func CanTransition(from, to RescheduleStatus) bool {
	for _, s := range rescheduleTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValid проверяет, что статус известен
func (s RescheduleStatus) IsValid() bool {
	switch s {
	case RescheduleStatusPending, RescheduleStatusApproved, RescheduleStatusDenied:
		return true
	}
	return false
}

// IsTerminal returns true for approved and denied
func (s RescheduleStatus) IsTerminal() bool {
	return s.IsValid() && len(rescheduleTransitions[s]) == 0
}

// RescheduleRequest запрос клиента на перенос бронирования
type RescheduleRequest struct {
	ID              int64
	BookingID       int64
	RequestedDate   time.Time
	RequestedMinute int
	Status          RescheduleStatus
	ClientNote      *string
	ResponseNote    *string
	RespondedAt     *time.Time
	CreatedAt       time.Time
}

// IsPending returns true while the request awaits a decision
func (r *RescheduleRequest) IsPending() bool {
	return r.Status == RescheduleStatusPending
}

// RescheduleRequestsFilter фильтр списка запросов на перенос
type RescheduleRequestsFilter struct {
	BookingIDs []int64
	Status     *RescheduleStatus
}
