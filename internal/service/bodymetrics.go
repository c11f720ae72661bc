package service

import (
	"fmt"
	"math"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/types"
)

// BMI severities
const (
	SeverityOK     = "ok"
	SeverityWarn   = "warn"
	SeveritySevere = "severe"
)

// HealthyBMIRange is shown alongside every BMI result
const HealthyBMIRange = "Healthy BMI range: 18.5 kg/m² - 25 kg/m²."

// BMICategory is the screening label for a BMI value
type BMICategory struct {
	Label    string
	Severity string
	Color    string
}

// BMI returns weight / height² in kg/m², rounded to two decimals.
func BMI(p model.Profile) float64 {
	h := float64(p.Height) / 100
	return math.Round(float64(p.Weight)/(h*h)*100) / 100
}

// ClassifyBMI maps a BMI onto its category. Lower bounds are inclusive.
func ClassifyBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return BMICategory{"Underweight", SeveritySevere, "Red"}
	case bmi < 25:
		return BMICategory{"Normal", SeverityOK, "Green"}
	case bmi < 30:
		return BMICategory{"Overweight", SeverityWarn, "Yellow"}
	default:
		return BMICategory{"Obesity", SeveritySevere, "Red"}
	}
}

// BMR computes the basal metabolic rate with the Mifflin-St Jeor equation
func BMR(p model.Profile) (float64, error) {
	base := 10*float64(p.Weight) + 6.25*float64(p.Height) - 5*float64(p.Age)
	switch p.Gender {
	case model.Male:
		return base + 5, nil
	case model.Female:
		return base - 161, nil
	default:
		return 0, fmt.Errorf("%w: %q", model.ErrUnsupportedGender, p.Gender)
	}
}

// ActivityMultiplier looks up the BMR multiplier for an activity label
func ActivityMultiplier(level model.ActivityLevel) (float64, error) {
	for _, f := range model.ActivityFactors {
		if f.Level == level {
			return f.Multiplier, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", model.ErrUnknownActivityLevel, level)
}

// MaintenanceCalories is the activity-adjusted BMR
func MaintenanceCalories(p model.Profile) (float64, error) {
	bmr, err := BMR(p)
	if err != nil {
		return 0, err
	}
	mult, err := ActivityMultiplier(p.Activity)
	if err != nil {
		return 0, err
	}
	return bmr * mult, nil
}

// CalorieGuidelines lists the daily intake for every weight loss plan
func CalorieGuidelines(maintenance float64) []types.CalorieGuideline {
	out := make([]types.CalorieGuideline, 0, len(model.WeightLossPlans))
	for _, plan := range model.WeightLossPlans {
		out = append(out, types.CalorieGuideline{
			Plan:        plan.Name,
			CaloriesDay: int(math.Round(maintenance * plan.Multiplier)),
			WeeklyLoss:  plan.WeeklyLoss,
		})
	}
	return out
}

// NewBMIResponse builds the BMI calculator output
func NewBMIResponse(p model.Profile) *types.BMIResponse {
	bmi := BMI(p)
	cat := ClassifyBMI(bmi)
	return &types.BMIResponse{
		BMI:          bmi,
		Display:      fmt.Sprintf("%v kg/m²", bmi),
		Category:     cat.Label,
		Severity:     cat.Severity,
		HealthyRange: HealthyBMIRange,
	}
}

// NewCaloriesResponse builds the calorie calculator output
func NewCaloriesResponse(p model.Profile) (*types.CaloriesResponse, error) {
	maintenance, err := MaintenanceCalories(p)
	if err != nil {
		return nil, err
	}
	return &types.CaloriesResponse{
		MaintenanceCalories: maintenance,
		Guidelines:          CalorieGuidelines(maintenance),
	}, nil
}
