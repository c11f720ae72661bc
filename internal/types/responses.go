package types

import "github.com/pageza/dietrec/backend/internal/model"

// BMIResponse is returned by the BMI calculator endpoint
type BMIResponse struct {
	BMI          float64 `json:"bmi"`
	Display      string  `json:"display"`
	Category     string  `json:"category"`
	Severity     string  `json:"severity"`
	HealthyRange string  `json:"healthy_range"`
}

// CalorieGuideline is the daily intake for one weight loss plan
type CalorieGuideline struct {
	Plan        string `json:"plan"`
	CaloriesDay int    `json:"calories_per_day"`
	WeeklyLoss  string `json:"weekly_loss"`
}

// CaloriesResponse is returned by the calories calculator endpoint
type CaloriesResponse struct {
	MaintenanceCalories float64            `json:"maintenance_calories"`
	Guidelines          []CalorieGuideline `json:"guidelines"`
}

// PlanResponse is returned after a generation pass and for the current session plan
type PlanResponse struct {
	Generated       bool                       `json:"generated"`
	BMI             *BMIResponse               `json:"bmi,omitempty"`
	Calories        *CaloriesResponse          `json:"calories,omitempty"`
	TargetCalories  float64                    `json:"target_calories"`
	Recommendations []model.SlotRecommendation `json:"recommendations"`
	Partial         bool                       `json:"partial,omitempty"`
	Error           string                     `json:"error,omitempty"`
	Message         string                     `json:"message,omitempty"`
}

// ChartPoint is one labelled value in a chart series
type ChartPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color,omitempty"`
}

// MealChoicesResponse summarises the chosen meals against the calorie target
type MealChoicesResponse struct {
	Totals            model.Nutrients `json:"totals"`
	TargetCalories    int             `json:"target_calories"`
	Highlight         string          `json:"highlight"`
	CalorieComparison []ChartPoint    `json:"calorie_comparison"`
	NutrientBreakdown []ChartPoint    `json:"nutrient_breakdown"`
}
