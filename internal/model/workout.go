package model

import (
	"database/sql/driver"
	"time"
)

type Exercise struct {
	Name     string   `json:"name" validate:"required"`
	Sets     int      `json:"sets" validate:"gte=0"`
	Reps     int      `json:"reps" validate:"gte=0"`
	Weight   *float64 `json:"weight,omitempty"`
	Duration *float64 `json:"duration,omitempty"` // minutes
	Distance *float64 `json:"distance,omitempty"`
}

type Exercises []Exercise

func (e Exercises) Value() (driver.Value, error) {
	if e == nil {
		e = Exercises{}
	}
	return jsonValue([]Exercise(e))
}

func (e *Exercises) Scan(src any) error { return scanJSON(src, (*[]Exercise)(e)) }

type Workout struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"userId"`
	Title     string    `db:"title" json:"title"`
	Date      time.Time `db:"date" json:"date"`
	Exercises Exercises `db:"exercises" json:"exercises"`
	Notes     string    `db:"notes" json:"notes"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
