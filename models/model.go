package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LogDate is a calendar date column that marshals as "2006-01-02" in JSON,
// matching the format clients send. Storage behaviour comes from
// datatypes.Date.
type LogDate datatypes.Date

func (d LogDate) Value() (driver.Value, error) {
	return datatypes.Date(d).Value()
}

func (d *LogDate) Scan(value interface{}) error {
	return (*datatypes.Date)(d).Scan(value)
}

func (d LogDate) GormDataType() string {
	return datatypes.Date(d).GormDataType()
}

func (d LogDate) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", time.Time(d).Format("2006-01-02"))), nil
}

func (d *LogDate) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	t, err := time.Parse(`"2006-01-02"`, string(data))
	if err != nil {
		return err
	}
	*d = LogDate(t)
	return nil
}

// User represents a registered user together with the metabolic targets
// derived from their biometrics at registration time.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Email     string         `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username  string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	FirstName string         `gorm:"size:150" json:"first_name"`
	LastName  string         `gorm:"size:150" json:"last_name"`
	IsPremium bool           `gorm:"default:false" json:"is_premium"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Biometric inputs. These feed the target derivation once, at
	// registration; later edits do not recompute the derived fields.
	Age           uint    `json:"age"`
	Gender        string  `gorm:"size:10" json:"gender"`
	HeightCm      float64 `json:"height_cm"`
	WeightKg      float64 `json:"weight_kg"`
	ActivityLevel string  `gorm:"size:20" json:"activity_level"`

	// Derived calorie targets, read-only to clients.
	BMR                 float64 `json:"bmr"`
	MaintenanceCalories float64 `json:"maintenance_calories"`
	GainCalories        float64 `json:"gain_calories"`
	LossCalories        float64 `json:"loss_calories"`

	// Per-goal macro tables in grams.
	MaintenanceProtein float64 `json:"maintenance_protein"`
	MaintenanceFat     float64 `json:"maintenance_fat"`
	MaintenanceCarbs   float64 `json:"maintenance_carbs"`
	GainProtein        float64 `json:"gain_protein"`
	GainFat            float64 `json:"gain_fat"`
	GainCarbs          float64 `json:"gain_carbs"`
	LossProtein        float64 `json:"loss_protein"`
	LossFat            float64 `json:"loss_fat"`
	LossCarbs          float64 `json:"loss_carbs"`

	// Selected-goal projection. Written only by nutrition.ApplyGoal so the
	// current_* values always mirror the table row for the selected goal.
	CalorieGoalType    string  `gorm:"size:10" json:"calorie_goal_type"`
	CurrentCalorieGoal float64 `json:"current_calorie_goal"`
	CurrentProteinGoal float64 `json:"current_protein_goal"`
	CurrentFatGoal     float64 `json:"current_fat_goal"`
	CurrentCarbsGoal   float64 `json:"current_carbs_goal"`
}

// CalorieLog is one day's consumption record. At most one row per user and
// date, enforced by the composite unique index.
type CalorieLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_log_date" json:"user_id"`
	Date      LogDate   `gorm:"not null;uniqueIndex:idx_user_log_date" json:"date"`
	Calories  uint      `gorm:"not null" json:"calories"`
	Protein   *float64  `json:"protein,omitempty"`
	Fat       *float64  `json:"fat,omitempty"`
	Carbs     *float64  `json:"carbs,omitempty"`
	Notes     string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatSession is one assistant conversation. Sessions are created implicitly
// on the first turn and never auto-deleted.
type ChatSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	Title     string    `gorm:"size:255;not null;default:'New Chat'" json:"title"`
	CreatedAt time.Time `json:"created_at"`

	Messages []ChatMessage `gorm:"foreignKey:SessionID" json:"messages,omitempty"`
}

// BeforeCreate assigns the session ID.
func (s *ChatSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// ChatMessage is a single turn half within a session. Messages are totally
// ordered by Timestamp; the assembler and history reads rely on that order.
type ChatMessage struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	IsUser    bool      `gorm:"not null" json:"is_user"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
}
