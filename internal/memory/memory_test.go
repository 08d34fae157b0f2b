package memory

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arena/internal/decision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLog(t *testing.T, maxItems int) *Log {
	t.Helper()
	return NewLog(Config{
		Enabled:  true,
		Path:     filepath.Join(t.TempDir(), "memory.json"),
		MaxItems: maxItems,
	})
}

func recordAt(model string, ts time.Time) Record {
	return Record{
		Timestamp:     ts,
		TradeMode:     "test",
		DecisionModel: model,
		FinalDecision: decision.TradePlan{
			Buys: []decision.BuyLeg{{Symbol: "BTCUSDT", QuoteAmount: 10}},
		},
		Results: []OperationResult{
			{Op: "BUY", Symbol: "BTCUSDT", Amount: 10, OK: true},
		},
	}
}

func TestAppendReadRoundTrip(t *testing.T) {
	log := newTestLog(t, 10)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		require.NoError(t, log.Append(recordAt(fmt.Sprintf("model-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	records := log.ReadAll()
	require.Len(t, records, 3)
	for i, rec := range records {
		assert.Equal(t, fmt.Sprintf("model-%d", i), rec.DecisionModel, "append order preserved")
	}
	assert.Equal(t, "BTCUSDT", records[0].FinalDecision.Buys[0].Symbol)
	assert.True(t, records[0].Results[0].OK)
}

func TestAppendEvictsOldest(t *testing.T) {
	log := newTestLog(t, 3)
	base := time.Now().UTC()

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Append(recordAt(fmt.Sprintf("model-%d", i), base)))
	}

	records := log.ReadAll()
	require.Len(t, records, 3)
	assert.Equal(t, "model-2", records[0].DecisionModel)
	assert.Equal(t, "model-4", records[2].DecisionModel)
}

func TestDisabledLogIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	log := NewLog(Config{Enabled: false, Path: path})

	require.NoError(t, log.Append(recordAt("m", time.Now())))
	assert.Empty(t, log.ReadAll())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "disabled log never touches disk")
}

func TestCorruptFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memory.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	log := NewLog(Config{Enabled: true, Path: path, MaxItems: 5})
	assert.Empty(t, log.ReadAll())

	// appending over a corrupt file starts a fresh log
	require.NoError(t, log.Append(recordAt("m", time.Now())))
	assert.Len(t, log.ReadAll(), 1)
}

func TestMissingFileReadsEmpty(t *testing.T) {
	log := newTestLog(t, 5)
	assert.Empty(t, log.ReadAll())
}

func TestRecentLines(t *testing.T) {
	log := newTestLog(t, 10)
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		require.NoError(t, log.Append(recordAt(fmt.Sprintf("model-%d", i), base)))
	}

	lines := log.RecentLines(2)
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "model-2")
	assert.Contains(t, lines[1], "model-3")
	assert.Contains(t, lines[1], "BTCUSDT")
}
