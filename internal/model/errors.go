package model

import "errors"

var (
	ErrUnsupportedGender     = errors.New("unsupported gender")
	ErrUnknownActivityLevel  = errors.New("unknown activity level")
	ErrUnknownWeightLossPlan = errors.New("unknown weight loss plan")
	ErrUnsupportedMealCount  = errors.New("unsupported number of meals per day")
)
