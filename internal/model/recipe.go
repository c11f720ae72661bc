package model

// Recipe is a recommendation returned by the recommender, enriched with an image link.
type Recipe struct {
	Name string `json:"Name"`
	Nutrients
	RecipeIngredientParts []string `json:"RecipeIngredientParts"`
	RecipeInstructions    []string `json:"RecipeInstructions"`
	CookTime              string   `json:"CookTime"`
	PrepTime              string   `json:"PrepTime"`
	TotalTime             string   `json:"TotalTime"`
	ImageLink             string   `json:"image_link"`
}

// SlotEnvelope is the nutrient target for one meal slot.
type SlotEnvelope struct {
	Slot     MealSlot  `json:"slot"`
	Envelope Nutrients `json:"envelope"`
}

// SlotRecommendation holds the recipes returned for one meal slot.
type SlotRecommendation struct {
	Slot     string    `json:"slot"`
	Envelope Nutrients `json:"envelope"`
	Recipes  []Recipe  `json:"recipes"`
}
