package cyclelog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cycles.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAppendAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Now().Unix()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Append(ctx, &CycleModel{
			CycleID:       uuid.NewString(),
			DecisionModel: "openai:gpt-test",
			TradeMode:     "test",
			Status:        CycleStatusExecuted,
			Confidence:    0.7,
			PlanJSON:      datatypes.JSON(`{"buys":[{"symbol":"BTCUSDT","quote_usdt":15}]}`),
			StartedAtUnix: base + int64(i),
		}))
	}

	rows, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, base+2, rows[0].StartedAtUnix)
	assert.Equal(t, base+1, rows[1].StartedAtUnix)
}

func TestAppendRejectsNil(t *testing.T) {
	s := openTestStore(t)
	assert.Error(t, s.Append(context.Background(), nil))
}

func TestRecentDefaultsLimit(t *testing.T) {
	s := openTestStore(t)
	rows, err := s.Recent(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	_, err := Open("  ")
	assert.Error(t, err)
}

func TestCycleIDUnique(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	id := uuid.NewString()
	require.NoError(t, s.Append(ctx, &CycleModel{CycleID: id}))
	assert.Error(t, s.Append(ctx, &CycleModel{CycleID: id}))
}
