package model

import (
	"database/sql/driver"
	"time"
)

// Measurements are body circumferences in centimetres.
type Measurements struct {
	Chest  *float64 `json:"chest,omitempty"`
	Waist  *float64 `json:"waist,omitempty"`
	Hips   *float64 `json:"hips,omitempty"`
	Biceps *float64 `json:"biceps,omitempty"`
	Thighs *float64 `json:"thighs,omitempty"`
}

func (m Measurements) Value() (driver.Value, error) { return jsonValue(m) }
func (m *Measurements) Scan(src any) error          { return scanJSON(src, m) }

// Empty reports whether no circumference was recorded.
func (m *Measurements) Empty() bool {
	return m == nil || (m.Chest == nil && m.Waist == nil && m.Hips == nil && m.Biceps == nil && m.Thighs == nil)
}

type ProgressEntry struct {
	ID           string        `db:"id" json:"id"`
	UserID       string        `db:"user_id" json:"userId"`
	Date         time.Time     `db:"date" json:"date"`
	Weight       *float64      `db:"weight" json:"weight,omitempty"`
	BodyFat      *float64      `db:"body_fat" json:"bodyFat,omitempty"`
	MuscleMass   *float64      `db:"muscle_mass" json:"muscleMass,omitempty"`
	Measurements *Measurements `db:"measurements" json:"measurements,omitempty"`
	Notes        string        `db:"notes" json:"notes"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// HasMeasurement reports whether at least one body metric is present.
func (p *ProgressEntry) HasMeasurement() bool {
	return p.Weight != nil || p.BodyFat != nil || p.MuscleMass != nil || !p.Measurements.Empty()
}
