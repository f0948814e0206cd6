package model

import (
	"database/sql/driver"
	"time"
)

// Targets are the personal goals shown on the profile: desired weight,
// workouts per week and a daily calorie budget.
type Targets struct {
	TargetWeight   *float64 `json:"targetWeight,omitempty"`
	WeeklyWorkouts *int     `json:"weeklyWorkouts,omitempty"`
	DailyCalories  *float64 `json:"dailyCalories,omitempty"`
}

func (t Targets) Value() (driver.Value, error) { return jsonValue(t) }
func (t *Targets) Scan(src any) error          { return scanJSON(src, t) }

type Profile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Name      string    `db:"name" json:"name"`
	HeightCm  *float64  `db:"height_cm" json:"heightCm,omitempty"`
	WeightKg  *float64  `db:"weight_kg" json:"weightKg,omitempty"`
	Targets   Targets   `db:"targets" json:"goals"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
