package types

import (
	"fmt"

	"github.com/pageza/dietrec/backend/internal/model"
)

// BodyMetricsRequest carries the biometrics needed for BMI and calorie figures
type BodyMetricsRequest struct {
	Age      int    `json:"age" binding:"required,min=2,max=120"`
	Height   int    `json:"height" binding:"required,min=50,max=300"`
	Weight   int    `json:"weight" binding:"required,min=10,max=300"`
	Gender   string `json:"gender" binding:"required,oneof=Male Female"`
	Activity string `json:"activity" binding:"omitempty,activity_level"`
}

// Profile converts the request into a profile without a meal plan
func (r *BodyMetricsRequest) Profile() model.Profile {
	return model.Profile{
		Age:        r.Age,
		Height:     r.Height,
		Weight:     r.Weight,
		Gender:     model.Gender(r.Gender),
		Activity:   model.ActivityLevel(r.Activity),
		WeightLoss: 1.0,
	}
}

// GeneratePlanRequest is the recommendation form submission
type GeneratePlanRequest struct {
	Age            int    `json:"age" binding:"required,min=2,max=120"`
	Height         int    `json:"height" binding:"required,min=50,max=300"`
	Weight         int    `json:"weight" binding:"required,min=10,max=300"`
	Gender         string `json:"gender" binding:"required,oneof=Male Female"`
	Activity       string `json:"activity" binding:"required,activity_level"`
	WeightLossPlan string `json:"weight_loss_plan" binding:"required,weight_loss_plan"`
	MealsPerDay    int    `json:"meals_per_day" binding:"required,min=3,max=5"`
}

// Profile resolves the plan label and meal count into a full profile
func (r *GeneratePlanRequest) Profile() (model.Profile, model.WeightLossPlan, error) {
	plan, ok := model.FindWeightLossPlan(r.WeightLossPlan)
	if !ok {
		return model.Profile{}, model.WeightLossPlan{}, fmt.Errorf("%w: %q", model.ErrUnknownWeightLossPlan, r.WeightLossPlan)
	}
	split, err := model.MealSplitFor(r.MealsPerDay)
	if err != nil {
		return model.Profile{}, model.WeightLossPlan{}, err
	}
	return model.Profile{
		Age:        r.Age,
		Height:     r.Height,
		Weight:     r.Weight,
		Gender:     model.Gender(r.Gender),
		Activity:   model.ActivityLevel(r.Activity),
		MealSplit:  split,
		WeightLoss: plan.Multiplier,
	}, plan, nil
}

// MealChoicesRequest selects one recipe name per meal slot
type MealChoicesRequest struct {
	Choices map[string]string `json:"choices" binding:"required"`
}
