// Package analytics folds a user's workouts and nutrition entries into
// per-month statistics. Months are calendar months in UTC.
package analytics

import (
	"sort"
	"time"

	"github.com/fittrack/fittrack/internal/model"
)

const monthLayout = "2006-01"

type WorkoutStat struct {
	Month            string  `json:"month"`
	TotalWorkouts    int     `json:"totalWorkouts"`
	AverageExercises float64 `json:"averageExercises"`
}

type NutritionStat struct {
	Month           string  `json:"month"`
	AverageCalories float64 `json:"averageCalories"`
	AverageProtein  float64 `json:"averageProtein"`
	AverageCarbs    float64 `json:"averageCarbs"`
	AverageFat      float64 `json:"averageFat"`
}

type Report struct {
	WorkoutStats   []WorkoutStat   `json:"workoutStats"`
	NutritionStats []NutritionStat `json:"nutritionStats"`
}

func monthKey(t time.Time) string {
	return t.UTC().Format(monthLayout)
}

// MonthlyWorkouts groups workouts by month, ascending. The exercise average
// is over workouts in the month.
func MonthlyWorkouts(workouts []*model.Workout) []WorkoutStat {
	type bucket struct {
		count     int
		exercises int
	}
	buckets := map[string]*bucket{}

	for _, w := range workouts {
		key := monthKey(w.Date)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.exercises += len(w.Exercises)
	}

	stats := make([]WorkoutStat, 0, len(buckets))
	for _, month := range sortedKeys(buckets) {
		b := buckets[month]
		stats = append(stats, WorkoutStat{
			Month:            month,
			TotalWorkouts:    b.count,
			AverageExercises: float64(b.exercises) / float64(b.count),
		})
	}
	return stats
}

// MonthlyNutrition averages daily entry totals per month, ascending.
func MonthlyNutrition(entries []*model.NutritionEntry) []NutritionStat {
	type bucket struct {
		count    int
		calories float64
		protein  float64
		carbs    float64
		fat      float64
	}
	buckets := map[string]*bucket{}

	for _, e := range entries {
		key := monthKey(e.Date)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.count++
		b.calories += e.TotalCalories
		b.protein += e.TotalProtein
		b.carbs += e.TotalCarbs
		b.fat += e.TotalFat
	}

	stats := make([]NutritionStat, 0, len(buckets))
	for _, month := range sortedKeys(buckets) {
		b := buckets[month]
		n := float64(b.count)
		stats = append(stats, NutritionStat{
			Month:           month,
			AverageCalories: b.calories / n,
			AverageProtein:  b.protein / n,
			AverageCarbs:    b.carbs / n,
			AverageFat:      b.fat / n,
		})
	}
	return stats
}

// Build produces both series. Slices are never nil so they encode as [].
func Build(workouts []*model.Workout, entries []*model.NutritionEntry) Report {
	return Report{
		WorkoutStats:   MonthlyWorkouts(workouts),
		NutritionStats: MonthlyNutrition(entries),
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
