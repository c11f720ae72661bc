package types

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/pageza/dietrec/backend/internal/model"
)

var registerOnce sync.Once

// RegisterValidators adds the form label checks to gin's validator.
// Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("activity_level", validateActivityLevel)
		_ = v.RegisterValidation("weight_loss_plan", validateWeightLossPlan)
	})
}

func validateActivityLevel(fl validator.FieldLevel) bool {
	level := model.ActivityLevel(fl.Field().String())
	for _, f := range model.ActivityFactors {
		if f.Level == level {
			return true
		}
	}
	return false
}

func validateWeightLossPlan(fl validator.FieldLevel) bool {
	_, ok := model.FindWeightLossPlan(fl.Field().String())
	return ok
}
