package model

import "math"

// NutrientNames lists the nutrient fields in the order the recommender expects them.
var NutrientNames = []string{
	"Calories",
	"FatContent",
	"SaturatedFatContent",
	"CholesterolContent",
	"SodiumContent",
	"CarbohydrateContent",
	"FiberContent",
	"SugarContent",
	"ProteinContent",
}

// Nutrients is the nine-value nutrition profile shared by envelopes and recipes.
type Nutrients struct {
	Calories            float64 `json:"Calories"`
	FatContent          float64 `json:"FatContent"`
	SaturatedFatContent float64 `json:"SaturatedFatContent"`
	CholesterolContent  float64 `json:"CholesterolContent"`
	SodiumContent       float64 `json:"SodiumContent"`
	CarbohydrateContent float64 `json:"CarbohydrateContent"`
	FiberContent        float64 `json:"FiberContent"`
	SugarContent        float64 `json:"SugarContent"`
	ProteinContent      float64 `json:"ProteinContent"`
}

// Vector returns the values in NutrientNames order.
func (n Nutrients) Vector() []float64 {
	return []float64{
		n.Calories,
		n.FatContent,
		n.SaturatedFatContent,
		n.CholesterolContent,
		n.SodiumContent,
		n.CarbohydrateContent,
		n.FiberContent,
		n.SugarContent,
		n.ProteinContent,
	}
}

// Add returns the field-by-field sum of n and o.
func (n Nutrients) Add(o Nutrients) Nutrients {
	return Nutrients{
		Calories:            n.Calories + o.Calories,
		FatContent:          n.FatContent + o.FatContent,
		SaturatedFatContent: n.SaturatedFatContent + o.SaturatedFatContent,
		CholesterolContent:  n.CholesterolContent + o.CholesterolContent,
		SodiumContent:       n.SodiumContent + o.SodiumContent,
		CarbohydrateContent: n.CarbohydrateContent + o.CarbohydrateContent,
		FiberContent:        n.FiberContent + o.FiberContent,
		SugarContent:        n.SugarContent + o.SugarContent,
		ProteinContent:      n.ProteinContent + o.ProteinContent,
	}
}

// Rounded returns a name -> rounded value map, used for the breakdown chart.
func (n Nutrients) Rounded() map[string]int {
	out := make(map[string]int, len(NutrientNames))
	for i, v := range n.Vector() {
		out[NutrientNames[i]] = int(math.Round(v))
	}
	return out
}
