package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/types"
)

// CalculatorHandler serves the stateless BMI and calorie calculators
type CalculatorHandler struct{}

func NewCalculatorHandler() *CalculatorHandler {
	types.RegisterValidators()
	return &CalculatorHandler{}
}

func (h *CalculatorHandler) RegisterRoutes(router *gin.RouterGroup) {
	metrics := router.Group("/metrics")
	{
		metrics.POST("/bmi", h.BMI)
		metrics.POST("/calories", h.Calories)
	}
}

func (h *CalculatorHandler) BMI(c *gin.Context) {
	var req types.BodyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, service.NewBMIResponse(req.Profile()))
}

func (h *CalculatorHandler) Calories(c *gin.Context) {
	var req types.BodyMetricsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	resp, err := service.NewCaloriesResponse(req.Profile())
	if err != nil {
		respondError(c, err, "failed to calculate calories")
		return
	}
	c.JSON(http.StatusOK, resp)
}
