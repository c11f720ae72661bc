package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/dietrec/backend/internal/model"
)

func sampleRecommendations() []model.SlotRecommendation {
	return []model.SlotRecommendation{
		{Slot: model.SlotBreakfast, Recipes: []model.Recipe{
			{Name: "Oatmeal", Nutrients: model.Nutrients{Calories: 350, FatContent: 8, ProteinContent: 12, SugarContent: 5}},
			{Name: "Pancakes", Nutrients: model.Nutrients{Calories: 500}},
		}},
		{Slot: model.SlotLunch, Recipes: []model.Recipe{
			{Name: "Chicken Salad", Nutrients: model.Nutrients{Calories: 600, FatContent: 20, ProteinContent: 45, SugarContent: 3}},
		}},
		{Slot: model.SlotDinner, Recipes: []model.Recipe{
			{Name: "Salmon", Nutrients: model.Nutrients{Calories: 550.4, FatContent: 25, ProteinContent: 40, SugarContent: 1}},
		}},
	}
}

func TestTotals(t *testing.T) {
	t.Run("should sum the chosen recipes", func(t *testing.T) {
		total, err := Totals(map[string]string{
			model.SlotBreakfast: "Oatmeal",
			model.SlotLunch:     "Chicken Salad",
			model.SlotDinner:    "Salmon",
		}, sampleRecommendations())
		require.NoError(t, err)
		assert.InDelta(t, 1500.4, total.Calories, 1e-9)
		assert.InDelta(t, 53, total.FatContent, 1e-9)
		assert.InDelta(t, 97, total.ProteinContent, 1e-9)
		assert.InDelta(t, 9, total.SugarContent, 1e-9)
	})

	t.Run("should skip slots without a choice", func(t *testing.T) {
		total, err := Totals(map[string]string{model.SlotBreakfast: "Pancakes"}, sampleRecommendations())
		require.NoError(t, err)
		assert.Equal(t, 500.0, total.Calories)
	})

	t.Run("should reject unknown recipe", func(t *testing.T) {
		_, err := Totals(map[string]string{model.SlotLunch: "Pizza"}, sampleRecommendations())
		assert.ErrorIs(t, err, ErrUnknownRecipeChoice)
	})

	t.Run("should reject unknown slot", func(t *testing.T) {
		_, err := Totals(map[string]string{model.SlotAfternoonSnack: "Apple"}, sampleRecommendations())
		assert.ErrorIs(t, err, ErrUnknownRecipeChoice)
	})
}

func TestHighlight(t *testing.T) {
	assert.Equal(t, ColorOverTarget, Highlight(2001, 2000))
	assert.Equal(t, ColorWithinLimit, Highlight(2000, 2000))
	assert.Equal(t, ColorWithinLimit, Highlight(1500, 2000))
}

func TestChoiceTarget(t *testing.T) {
	p := testProfile(model.Male)
	p.WeightLoss = 0.8
	target, err := ChoiceTarget(p)
	require.NoError(t, err)
	// 1617.5 * 1.2 * 0.8 = 1552.8
	assert.Equal(t, 1553, target)
}

func TestBuildMealSummary(t *testing.T) {
	totals := model.Nutrients{Calories: 1800.6, FatContent: 60.4, ProteinContent: 90.5}
	summary := BuildMealSummary(totals, 1553, "Weight loss")

	assert.Equal(t, ColorOverTarget, summary.Highlight)
	assert.Equal(t, 1553, summary.TargetCalories)
	require.Len(t, summary.CalorieComparison, 2)
	assert.Equal(t, "Weight loss Calories", summary.CalorieComparison[1].Label)
	assert.Equal(t, ColorTarget, summary.CalorieComparison[1].Color)
	assert.Equal(t, ColorOverTarget, summary.CalorieComparison[0].Color)

	require.Len(t, summary.NutrientBreakdown, len(model.NutrientNames))
	assert.Equal(t, "Calories", summary.NutrientBreakdown[0].Label)
	assert.Equal(t, 1801.0, summary.NutrientBreakdown[0].Value)
}
