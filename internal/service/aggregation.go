package service

import (
	"fmt"
	"math"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/types"
)

// Chart colours used for the calorie comparison
const (
	ColorOverTarget  = "#FF3333"
	ColorWithinLimit = "#33FF8D"
	ColorTarget      = "#3339FF"
)

// Totals sums the nutrients of the chosen recipe in each slot.
// choices maps slot name to recipe name. Slots without a choice add nothing.
func Totals(choices map[string]string, recommendations []model.SlotRecommendation) (model.Nutrients, error) {
	bySlot := make(map[string]model.SlotRecommendation, len(recommendations))
	for _, rec := range recommendations {
		bySlot[rec.Slot] = rec
	}
	for slot := range choices {
		if _, ok := bySlot[slot]; !ok {
			return model.Nutrients{}, fmt.Errorf("%w: no recommendations for slot %q", ErrUnknownRecipeChoice, slot)
		}
	}

	var total model.Nutrients
	for _, rec := range recommendations {
		name, ok := choices[rec.Slot]
		if !ok {
			continue
		}
		recipe, found := findRecipe(rec.Recipes, name)
		if !found {
			return model.Nutrients{}, fmt.Errorf("%w: %q in %s", ErrUnknownRecipeChoice, name, rec.Slot)
		}
		total = total.Add(recipe.Nutrients)
	}
	return total, nil
}

func findRecipe(recipes []model.Recipe, name string) (model.Recipe, bool) {
	for _, r := range recipes {
		if r.Name == name {
			return r, true
		}
	}
	return model.Recipe{}, false
}

// ChoiceTarget is the daily calorie target the chosen meals are compared against
func ChoiceTarget(profile model.Profile) (int, error) {
	maintenance, err := MaintenanceCalories(profile)
	if err != nil {
		return 0, err
	}
	return int(math.Round(maintenance * profile.WeightLoss)), nil
}

// Highlight colours the chosen total red when it exceeds the target
func Highlight(total float64, target int) string {
	if total > float64(target) {
		return ColorOverTarget
	}
	return ColorWithinLimit
}

// BuildMealSummary produces totals and chart data for the chosen meals
func BuildMealSummary(totals model.Nutrients, target int, planLabel string) *types.MealChoicesResponse {
	highlight := Highlight(totals.Calories, target)

	rounded := totals.Rounded()
	breakdown := make([]types.ChartPoint, 0, len(model.NutrientNames))
	for _, name := range model.NutrientNames {
		breakdown = append(breakdown, types.ChartPoint{Label: name, Value: float64(rounded[name])})
	}

	return &types.MealChoicesResponse{
		Totals:         totals,
		TargetCalories: target,
		Highlight:      highlight,
		CalorieComparison: []types.ChartPoint{
			{Label: "Total Calories you chose", Value: totals.Calories, Color: highlight},
			{Label: planLabel + " Calories", Value: float64(target), Color: ColorTarget},
		},
		NutrientBreakdown: breakdown,
	}
}
