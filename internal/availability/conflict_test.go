package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

func TestFindConflict(t *testing.T) {
	cancelledAt := time.Now()
	reservations := []*domain.Booking{
		{ID: 1, StartMinute: 540, DurationMinutes: 60},
		{ID: 2, StartMinute: 660, DurationMinutes: 30, CancelledAt: &cancelledAt},
		{ID: 3, StartMinute: 720, DurationMinutes: 60},
	}

	tests := []struct {
		name      string
		start     int
		duration  int
		excludeID *int64
		expected  int64
	}{
		{"touching end is free", 600, 60, nil, 0},
		{"one minute overlap", 599, 30, nil, 1},
		{"cancelled reservation ignored", 660, 30, nil, 0},
		{"covers second reservation", 690, 60, nil, 3},
		{"excluded self", 540, 60, ptr.Ptr(int64(1)), 0},
		{"excluded self still conflicts with other", 700, 60, ptr.Ptr(int64(1)), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindConflict(tt.start, tt.duration, reservations, tt.excludeID)
			if tt.expected == 0 {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.expected, got.ID)
		})
	}
}

func TestConflictError(t *testing.T) {
	var err error = &ConflictError{ReservationID: 42}

	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "id=42")

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, int64(42), conflict.ReservationID)
}

func TestInferProfessional(t *testing.T) {
	p1 := ptr.Ptr(int64(1))
	p2 := ptr.Ptr(int64(2))

	t.Run("explicit wins", func(t *testing.T) {
		got, err := InferProfessional(p2, []domain.Service{{ID: 1, ResponsibleProfessionalID: p1}})
		require.NoError(t, err)
		assert.Equal(t, int64(2), *got)
	})

	t.Run("shared professional inferred", func(t *testing.T) {
		got, err := InferProfessional(nil, []domain.Service{
			{ID: 1, ResponsibleProfessionalID: p1},
			{ID: 2},
			{ID: 3, ResponsibleProfessionalID: ptr.Ptr(int64(1))},
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), *got)
	})

	t.Run("no responsible professional", func(t *testing.T) {
		got, err := InferProfessional(nil, []domain.Service{{ID: 1}})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("different professionals", func(t *testing.T) {
		_, err := InferProfessional(nil, []domain.Service{
			{ID: 1, ResponsibleProfessionalID: p1},
			{ID: 2, ResponsibleProfessionalID: p2},
		})
		assert.ErrorIs(t, err, ErrConflictingProfessionals)
	})
}
