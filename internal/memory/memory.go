// Package memory persists a bounded log of past decision cycles.
// The risk gate reads it for cooldown checks and the prompt builder
// replays recent outcomes to the advisors.
package memory

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"arena/internal/decision"
	"arena/internal/logger"
)

// OperationResult is one executed, skipped or failed intent.
type OperationResult struct {
	Op          string  `json:"op"`
	Symbol      string  `json:"symbol"`
	Amount      float64 `json:"amount"`
	OK          bool    `json:"ok"`
	Skipped     bool    `json:"skipped,omitempty"`
	Reason      string  `json:"reason,omitempty"`
	MonitorOnly bool    `json:"monitor_only,omitempty"`
}

// Record is one cycle's outcome.
type Record struct {
	Timestamp     time.Time          `json:"timestamp"`
	TradeMode     string             `json:"trade_mode"`
	DecisionModel string             `json:"decision_model"`
	FinalDecision decision.TradePlan `json:"final_decision"`
	Results       []OperationResult  `json:"results"`
}

type Config struct {
	Enabled  bool
	Path     string
	MaxItems int
}

// Log is a ring-buffer of Records backed by one JSON file. A single
// process owns the file; writes go through a temp file and rename so
// a crash never leaves a half-written log.
type Log struct {
	cfg Config
	mu  sync.Mutex
}

func NewLog(cfg Config) *Log {
	if cfg.MaxItems <= 0 {
		cfg.MaxItems = 10
	}
	if strings.TrimSpace(cfg.Path) == "" {
		cfg.Path = "memory.json"
	}
	return &Log{cfg: cfg}
}

func (l *Log) Enabled() bool { return l.cfg.Enabled }

// ReadAll returns records oldest first. Disabled logs and missing or
// corrupt files read as empty.
func (l *Log) ReadAll() []Record {
	if !l.cfg.Enabled {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Log) load() []Record {
	raw, err := os.ReadFile(l.cfg.Path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("memory: read %s failed: %v", l.cfg.Path, err)
		}
		return nil
	}
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warnf("memory: %s is corrupt, starting empty: %v", l.cfg.Path, err)
		return nil
	}
	return records
}

// Append adds a record and truncates to the newest MaxItems. A
// disabled log swallows the append.
func (l *Log) Append(rec Record) error {
	if !l.cfg.Enabled {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	records := append(l.load(), rec)
	if len(records) > l.cfg.MaxItems {
		records = records[len(records)-l.cfg.MaxItems:]
	}
	return l.write(records)
}

func (l *Log) write(records []Record) error {
	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("memory: marshal log: %w", err)
	}

	dir := filepath.Dir(l.cfg.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("memory: create log dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".memory-*.json")
	if err != nil {
		return fmt.Errorf("memory: create temp log: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("memory: write temp log: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: close temp log: %w", err)
	}
	if err := os.Rename(tmpName, l.cfg.Path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("memory: replace log: %w", err)
	}
	return nil
}

// RecentLines renders up to n newest records as one-line summaries
// for the advisory prompt, oldest of the window first.
func (l *Log) RecentLines(n int) []string {
	records := l.ReadAll()
	if len(records) == 0 || n <= 0 {
		return nil
	}
	if len(records) > n {
		records = records[len(records)-n:]
	}
	out := make([]string, 0, len(records))
	for _, rec := range records {
		fd := rec.FinalDecision
		out = append(out, fmt.Sprintf("[%s] source=%s buys=%s sells=%s",
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.DecisionModel,
			joinOrEmpty(fd.BuySymbols()),
			joinOrEmpty(fd.SellSymbols())))
	}
	return out
}

func joinOrEmpty(symbols []string) string {
	if len(symbols) == 0 {
		return "[]"
	}
	return strings.Join(symbols, ",")
}
