package bulk

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status RestoreStatus
		want   bool
	}{
		{"pending", RestoreStatusPending, false},
		{"processing", RestoreStatusProcessing, false},
		{"completed", RestoreStatusCompleted, true},
		{"failed", RestoreStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestNewRestoreRun(t *testing.T) {
	accountID := uuid.New()

	t.Run("success", func(t *testing.T) {
		run, err := NewRestoreRun(accountID, RestoreSourceUpload, "backup.xlsx", 2048)
		require.NoError(t, err)
		assert.Equal(t, accountID, run.AccountID)
		assert.Equal(t, RestoreStatusPending, run.Status)
		assert.NotEmpty(t, run.ID)
		assert.Empty(t, run.Counts)
	})

	t.Run("invalid source", func(t *testing.T) {
		_, err := NewRestoreRun(accountID, RestoreSource("ftp"), "backup.xlsx", 1)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Invalid restore source")
	})

	t.Run("empty file name", func(t *testing.T) {
		_, err := NewRestoreRun(accountID, RestoreSourceJSON, "", 1)
		require.Error(t, err)
	})

	t.Run("negative size", func(t *testing.T) {
		_, err := NewRestoreRun(accountID, RestoreSourceS3, "k", -1)
		require.Error(t, err)
	})
}

func TestRestoreRun_Lifecycle(t *testing.T) {
	run, err := NewRestoreRun(uuid.New(), RestoreSourceUpload, "backup.xlsx", 10)
	require.NoError(t, err)

	require.Error(t, run.Complete(nil, 0), "cannot complete before start")
	require.NoError(t, run.StartProcessing())
	assert.NotNil(t, run.StartedAt)
	require.Error(t, run.StartProcessing())

	require.NoError(t, run.Complete(map[string]int{"sim_types": 2, "sale_orders": 3}, 4))
	assert.Equal(t, RestoreStatusCompleted, run.Status)
	assert.Equal(t, 5, run.TotalRecords())
	assert.Equal(t, 4, run.RemappedIDs)
	assert.NotNil(t, run.CompletedAt)
	assert.GreaterOrEqual(t, run.Duration().Nanoseconds(), int64(0))

	assert.Error(t, run.Fail(errors.New("late")), "terminal runs cannot fail")
}

func TestRestoreRun_Fail(t *testing.T) {
	run, _ := NewRestoreRun(uuid.New(), RestoreSourceJSON, "backup.json", 10)
	require.NoError(t, run.Fail(errors.New("no recognizable data")))
	assert.Equal(t, RestoreStatusFailed, run.Status)
	assert.Equal(t, "no recognizable data", run.ErrorMessage)
	assert.Equal(t, 0, run.TotalRecords())
}
