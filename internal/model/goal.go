package model

import (
	"encoding/json"
	"math"
	"time"
)

const (
	GoalCategoryWeightLoss = "Weight Loss"
	GoalCategoryMuscleGain = "Muscle Gain"
	GoalCategoryStrength   = "Strength"
	GoalCategoryEndurance  = "Endurance"
	GoalCategoryNutrition  = "Nutrition"
	GoalCategoryOther      = "Other"
)

var GoalCategories = []string{
	GoalCategoryWeightLoss,
	GoalCategoryMuscleGain,
	GoalCategoryStrength,
	GoalCategoryEndurance,
	GoalCategoryNutrition,
	GoalCategoryOther,
}

var GoalUnits = []string{"kg", "lbs", "reps", "minutes", "kilometers", "miles", "calories", "grams", "percent", "other"}

func ValidGoalCategory(category string) bool {
	for _, c := range GoalCategories {
		if c == category {
			return true
		}
	}
	return false
}

type Goal struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	Title        string    `db:"title" json:"title"`
	Category     string    `db:"category" json:"category"`
	TargetDate   time.Time `db:"target_date" json:"targetDate"`
	TargetValue  float64   `db:"target_value" json:"targetValue"`
	CurrentValue float64   `db:"current_value" json:"currentValue"`
	Unit         string    `db:"unit" json:"unit"`
	Notes        string    `db:"notes" json:"notes"`
	Completed    bool      `db:"completed" json:"completed"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Progress is currentValue/targetValue capped at 1. A non-positive target yields 0.
func (g *Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	return math.Min(g.CurrentValue/g.TargetValue, 1)
}

// ProgressPercent is Progress as a rounded whole percentage.
func (g *Goal) ProgressPercent() int {
	return int(math.Round(g.Progress() * 100))
}

func (g Goal) MarshalJSON() ([]byte, error) {
	type goal Goal
	return json.Marshal(struct {
		goal
		Progress        float64 `json:"progress"`
		ProgressPercent int     `json:"progressPercent"`
	}{goal(g), g.Progress(), g.ProgressPercent()})
}
