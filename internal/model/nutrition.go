package model

import (
	"database/sql/driver"
	"time"
)

type Meal struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

type Meals []Meal

func (m Meals) Value() (driver.Value, error) {
	if m == nil {
		m = Meals{}
	}
	return jsonValue([]Meal(m))
}

func (m *Meals) Scan(src any) error { return scanJSON(src, (*[]Meal)(m)) }

// Sum adds up the per-meal macros.
func (m Meals) Sum() (calories, protein, carbs, fat float64) {
	for _, meal := range m {
		calories += meal.Calories
		protein += meal.Protein
		carbs += meal.Carbs
		fat += meal.Fat
	}
	return calories, protein, carbs, fat
}

type NutritionEntry struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"userId"`
	Date          time.Time `db:"date" json:"date"`
	Meals         Meals     `db:"meals" json:"meals"`
	TotalCalories float64   `db:"total_calories" json:"totalCalories"`
	TotalProtein  float64   `db:"total_protein" json:"totalProtein"`
	TotalCarbs    float64   `db:"total_carbs" json:"totalCarbs"`
	TotalFat      float64   `db:"total_fat" json:"totalFat"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}
