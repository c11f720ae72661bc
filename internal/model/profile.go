package model

import (
	"fmt"
	"strings"
)

// Gender selects the Mifflin-St Jeor constant.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ActivityLevel is one of the fixed activity labels offered by the form.
type ActivityLevel string

const (
	ActivitySedentary   ActivityLevel = "Little/no exercise"
	ActivityLight       ActivityLevel = "Light exercise"
	ActivityModerate    ActivityLevel = "Moderate exercise (3-5 days/wk)"
	ActivityVeryActive  ActivityLevel = "Very active (6-7 days/wk)"
	ActivityExtraActive ActivityLevel = "Extra active (very active & physical job)"
)

// ActivityFactor pairs an activity label with its BMR multiplier.
type ActivityFactor struct {
	Level      ActivityLevel
	Multiplier float64
}

// ActivityFactors is ordered from least to most active.
var ActivityFactors = []ActivityFactor{
	{ActivitySedentary, 1.2},
	{ActivityLight, 1.375},
	{ActivityModerate, 1.55},
	{ActivityVeryActive, 1.725},
	{ActivityExtraActive, 1.9},
}

// WeightLossPlan is a named calorie multiplier applied to maintenance calories.
type WeightLossPlan struct {
	Name       string  `json:"name"`
	Multiplier float64 `json:"multiplier"`
	WeeklyLoss string  `json:"weekly_loss"`
}

// WeightLossPlans lists the plans offered by the form, from most gain to most loss.
var WeightLossPlans = []WeightLossPlan{
	{"Extreme weight gain", 1.3, "+1 kg/week"},
	{"Weight gain", 1.2, "+0.5 kg/week"},
	{"Mild weight gain", 1.1, "+0.25 kg/week"},
	{"Maintain weight", 1.0, "-0 kg/week"},
	{"Mild weight loss", 0.9, "-0.25 kg/week"},
	{"Weight loss", 0.8, "-0.5 kg/week"},
	{"Extreme weight loss", 0.6, "-1 kg/week"},
}

// FindWeightLossPlan looks a plan up by name, ignoring case.
func FindWeightLossPlan(name string) (WeightLossPlan, bool) {
	for _, p := range WeightLossPlans {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return WeightLossPlan{}, false
}

// MealSlot is a named meal occasion with its share of the daily calories.
type MealSlot struct {
	Name     string  `json:"name"`
	Fraction float64 `json:"fraction"`
}

const (
	SlotBreakfast      = "breakfast"
	SlotMorningSnack   = "morning snack"
	SlotLunch          = "lunch"
	SlotAfternoonSnack = "afternoon snack"
	SlotDinner         = "dinner"
)

// MealSplits maps a meals-per-day count to its slot table. Each table sums to 1.0.
var MealSplits = map[int][]MealSlot{
	3: {
		{SlotBreakfast, 0.35},
		{SlotLunch, 0.40},
		{SlotDinner, 0.25},
	},
	4: {
		{SlotBreakfast, 0.30},
		{SlotMorningSnack, 0.05},
		{SlotLunch, 0.40},
		{SlotDinner, 0.25},
	},
	5: {
		{SlotBreakfast, 0.30},
		{SlotMorningSnack, 0.05},
		{SlotLunch, 0.40},
		{SlotAfternoonSnack, 0.05},
		{SlotDinner, 0.20},
	},
}

// MealSplitFor returns a copy of the slot table for the given meal count.
func MealSplitFor(meals int) ([]MealSlot, error) {
	split, ok := MealSplits[meals]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedMealCount, meals)
	}
	out := make([]MealSlot, len(split))
	copy(out, split)
	return out, nil
}

// Profile holds the biometrics and plan choices for one computation pass.
type Profile struct {
	Age        int           `json:"age"`
	Height     int           `json:"height"`
	Weight     int           `json:"weight"`
	Gender     Gender        `json:"gender"`
	Activity   ActivityLevel `json:"activity"`
	MealSplit  []MealSlot    `json:"meal_split"`
	WeightLoss float64       `json:"weight_loss"`
}
