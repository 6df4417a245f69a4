package reschedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDenyPendingQuery(t *testing.T) {
	query, args, err := denyPending(5, "booking cancelled").ToSql()

	require.NoError(t, err)
	assert.Equal(t,
		"UPDATE reschedule_requests SET status = $1, response_note = $2, responded_at = NOW() WHERE booking_id = $3 AND status = $4",
		query)
	assert.Equal(t, []interface{}{"denied", "booking cancelled", int64(5), "pending"}, args)
}
