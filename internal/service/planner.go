package service

import (
	"math/rand"
	"sync"
	"time"

	"github.com/pageza/dietrec/backend/internal/model"
)

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

// NutrientRange is an inclusive lower and exclusive upper bound for sampling
type NutrientRange struct {
	Min float64
	Max float64
}

// EnvelopeRanges holds the sampling ranges for the eight non-calorie fields
type EnvelopeRanges struct {
	Fat          NutrientRange
	SaturatedFat NutrientRange
	Cholesterol  NutrientRange
	Sodium       NutrientRange
	Carbohydrate NutrientRange
	Fiber        NutrientRange
	Sugar        NutrientRange
	Protein      NutrientRange
}

var (
	// LightMealRanges applies to breakfast and snack slots
	LightMealRanges = EnvelopeRanges{
		Fat:          NutrientRange{10, 30},
		SaturatedFat: NutrientRange{0, 4},
		Cholesterol:  NutrientRange{0, 30},
		Sodium:       NutrientRange{0, 400},
		Carbohydrate: NutrientRange{40, 75},
		Fiber:        NutrientRange{4, 10},
		Sugar:        NutrientRange{0, 10},
		Protein:      NutrientRange{30, 100},
	}

	// MainMealRanges applies to lunch and dinner
	MainMealRanges = EnvelopeRanges{
		Fat:          NutrientRange{20, 40},
		SaturatedFat: NutrientRange{0, 4},
		Cholesterol:  NutrientRange{0, 30},
		Sodium:       NutrientRange{0, 400},
		Carbohydrate: NutrientRange{40, 75},
		Fiber:        NutrientRange{4, 20},
		Sugar:        NutrientRange{0, 10},
		Protein:      NutrientRange{50, 175},
	}
)

// RangesForSlot picks the sampling class for a slot name
func RangesForSlot(slot string) EnvelopeRanges {
	switch slot {
	case model.SlotLunch, model.SlotDinner:
		return MainMealRanges
	default:
		return LightMealRanges
	}
}

// TargetCalories applies the weight loss multiplier to maintenance calories
func TargetCalories(p model.Profile) (float64, error) {
	maintenance, err := MaintenanceCalories(p)
	if err != nil {
		return 0, err
	}
	return p.WeightLoss * maintenance, nil
}

// MealPlanner splits the daily target into per-slot nutrient envelopes
type MealPlanner struct {
	mu  sync.Mutex
	rng RandomSource
}

// NewMealPlanner creates a planner drawing from rng. A nil rng is seeded from the clock.
func NewMealPlanner(rng RandomSource) *MealPlanner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &MealPlanner{rng: rng}
}

// NewSeededMealPlanner creates a planner whose envelopes repeat for the same seed
func NewSeededMealPlanner(seed int64) *MealPlanner {
	return NewMealPlanner(rand.New(rand.NewSource(seed)))
}

// Plan builds one envelope per slot, in slot table order
func (p *MealPlanner) Plan(profile model.Profile) ([]model.SlotEnvelope, error) {
	target, err := TargetCalories(profile)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	envelopes := make([]model.SlotEnvelope, 0, len(profile.MealSplit))
	for _, slot := range profile.MealSplit {
		envelopes = append(envelopes, model.SlotEnvelope{
			Slot:     slot,
			Envelope: p.sample(slot.Fraction*target, RangesForSlot(slot.Name)),
		})
	}
	return envelopes, nil
}

func (p *MealPlanner) sample(calories float64, r EnvelopeRanges) model.Nutrients {
	return model.Nutrients{
		Calories:            calories,
		FatContent:          p.uniform(r.Fat),
		SaturatedFatContent: p.uniform(r.SaturatedFat),
		CholesterolContent:  p.uniform(r.Cholesterol),
		SodiumContent:       p.uniform(r.Sodium),
		CarbohydrateContent: p.uniform(r.Carbohydrate),
		FiberContent:        p.uniform(r.Fiber),
		SugarContent:        p.uniform(r.Sugar),
		ProteinContent:      p.uniform(r.Protein),
	}
}

func (p *MealPlanner) uniform(r NutrientRange) float64 {
	return r.Min + (r.Max-r.Min)*p.rng.Float64()
}
