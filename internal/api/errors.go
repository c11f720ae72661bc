package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/service"
)

// profileErrors are caused by bad input and map to 400
var profileErrors = []error{
	model.ErrUnsupportedGender,
	model.ErrUnknownActivityLevel,
	model.ErrUnknownWeightLossPlan,
	model.ErrUnsupportedMealCount,
	service.ErrUnknownRecipeChoice,
}

func isBadInput(err error) bool {
	for _, target := range profileErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes 400 for input errors and 500 for everything else
func respondError(c *gin.Context, err error, fallback string) {
	if isBadInput(err) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
}
