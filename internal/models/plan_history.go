package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Outcomes recorded for a generation pass
const (
	OutcomeComplete = "complete"
	OutcomePartial  = "partial"
	OutcomeFailed   = "failed"
	OutcomeEmpty    = "empty"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, a)
}

// PlanHistory is a record of one recommendation pass for a session
type PlanHistory struct {
	ID                  uuid.UUID        `gorm:"type:varchar(36);primarykey" json:"id"`
	SessionID           string           `gorm:"size:64;index;not null" json:"-"`
	Age                 int              `gorm:"not null" json:"age"`
	Height              int              `gorm:"not null" json:"height"`
	Weight              int              `gorm:"not null" json:"weight"`
	Gender              string           `gorm:"size:16;not null" json:"gender"`
	Activity            string           `gorm:"size:64;not null" json:"activity"`
	WeightLossPlan      string           `gorm:"size:32;not null" json:"weight_loss_plan"`
	MealsPerDay         int              `gorm:"not null" json:"meals_per_day"`
	BMI                 float64          `gorm:"type:float" json:"bmi"`
	MaintenanceCalories float64          `gorm:"type:float" json:"maintenance_calories"`
	TargetCalories      float64          `gorm:"type:float" json:"target_calories"`
	Outcome             string           `gorm:"size:16;not null" json:"outcome"`
	FailureReason       string           `gorm:"type:text" json:"failure_reason,omitempty"`
	RecipeNames         JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"recipe_names"`
	CreatedAt           time.Time        `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for PlanHistory
func (PlanHistory) TableName() string {
	return "plan_history"
}

// BeforeCreate assigns an ID when none is set
func (p *PlanHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
