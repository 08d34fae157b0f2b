package cyclelog

import "gorm.io/datatypes"

type CycleStatus int

const (
	CycleStatusUnknown  CycleStatus = 0
	CycleStatusExecuted CycleStatus = 1
	CycleStatusNoop     CycleStatus = 2
	CycleStatusFailed   CycleStatus = 3
)

// CycleModel maps to the 'decision_cycles' table. PlanJSON and
// ResultsJSON hold the selected plan and per-operation outcomes as
// raw JSON so the schema never chases plan shape changes.
type CycleModel struct {
	ID            int64          `gorm:"column:id;primaryKey"`
	CycleID       string         `gorm:"column:cycle_id;uniqueIndex"`
	DecisionModel string         `gorm:"column:decision_model"`
	TradeMode     string         `gorm:"column:trade_mode"`
	Status        CycleStatus    `gorm:"column:status"`
	Rationale     string         `gorm:"column:rationale"`
	Confidence    float64        `gorm:"column:confidence"`
	PlanJSON      datatypes.JSON `gorm:"column:plan_json;type:TEXT"`
	ResultsJSON   datatypes.JSON `gorm:"column:results_json;type:TEXT"`
	Error         string         `gorm:"column:error"`
	StartedAtUnix int64          `gorm:"column:started_at"`
	ElapsedMS     int64          `gorm:"column:elapsed_ms"`
	CreatedAtUnix int64          `gorm:"column:created_at;autoCreateTime"`
}

func (CycleModel) TableName() string { return "decision_cycles" }
