package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/middleware"
	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/models"
	"github.com/pageza/dietrec/backend/internal/service"
	"github.com/pageza/dietrec/backend/internal/types"
)

const (
	msgRecommenderFailed = "Recommendations are unavailable right now. Please try again."
	msgPartialPlan       = "Some meals could not be recommended. Showing what was found."
	msgNoRecipes         = "No recipes matched your nutrition targets."
)

// PlanHandler serves meal plan generation for the current session
type PlanHandler struct {
	recommendations service.IRecommendationService
	sessions        service.ISessionStore
	history         service.IHistoryService
	limiter         *middleware.RateLimiter
	logger          *zap.Logger
}

// NewPlanHandler creates a new PlanHandler. history and limiter may be nil.
func NewPlanHandler(recommendations service.IRecommendationService, sessions service.ISessionStore, history service.IHistoryService, limiter *middleware.RateLimiter, logger *zap.Logger) *PlanHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	types.RegisterValidators()
	return &PlanHandler{
		recommendations: recommendations,
		sessions:        sessions,
		history:         history,
		limiter:         limiter,
		logger:          logger,
	}
}

func (h *PlanHandler) RegisterRoutes(router *gin.RouterGroup) {
	plans := router.Group("/plans")
	{
		if h.limiter != nil {
			plans.POST("", h.limiter.RateLimitMiddleware(), h.GeneratePlan)
		} else {
			plans.POST("", h.GeneratePlan)
		}
		plans.GET("/current", h.CurrentPlan)
		plans.POST("/current/choices", h.Choices)
		plans.GET("/history", h.History)
	}
}

func (h *PlanHandler) GeneratePlan(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	var req types.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	profile, plan, err := req.Profile()
	if err != nil {
		respondError(c, err, "failed to build profile")
		return
	}

	resp, err := planSummary(profile)
	if err != nil {
		respondError(c, err, "failed to calculate targets")
		return
	}

	result, err := h.recommendations.Generate(c.Request.Context(), profile)
	if err != nil {
		respondError(c, err, "failed to generate plan")
		return
	}

	session.Reset()
	session.Generated = true
	session.Profile = &profile
	session.WeightLossOption = plan.Name
	session.Recommendations = result.Slots
	if result.Failure != nil {
		session.Error = result.Failure.Error()
		h.logger.Warn("[PlanHandler] returning degraded plan",
			zap.String("session_id", session.ID),
			zap.String("failed_slot", result.Failure.Slot),
			zap.Int("kept_slots", len(result.Slots)))
	}
	if err := h.sessions.Save(c.Request.Context(), session); err != nil {
		respondError(c, err, "failed to save session")
		return
	}

	h.recordHistory(c, session.ID, &req, plan, resp, result)

	resp.Generated = true
	resp.Recommendations = slotsOrEmpty(result.Slots)
	resp.Partial = result.Partial()
	resp.Error = session.Error
	resp.Message = resultMessage(result)
	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) CurrentPlan(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	if !session.Generated || session.Profile == nil {
		c.JSON(http.StatusOK, types.PlanResponse{Recommendations: []model.SlotRecommendation{}})
		return
	}

	resp, err := planSummary(*session.Profile)
	if err != nil {
		respondError(c, err, "failed to calculate targets")
		return
	}
	resp.Generated = true
	resp.Recommendations = slotsOrEmpty(session.Recommendations)
	resp.Error = session.Error
	resp.Partial = session.Error != "" && len(session.Recommendations) > 0
	resp.Message = sessionMessage(session)
	c.JSON(http.StatusOK, resp)
}

func (h *PlanHandler) Choices(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}

	var req types.MealChoicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if !session.Generated || session.Profile == nil {
		c.JSON(http.StatusConflict, gin.H{"error": service.ErrNoPlanGenerated.Error()})
		return
	}

	totals, err := service.Totals(req.Choices, session.Recommendations)
	if err != nil {
		respondError(c, err, "failed to total choices")
		return
	}

	target, err := service.ChoiceTarget(*session.Profile)
	if err != nil {
		respondError(c, err, "failed to calculate target")
		return
	}

	c.JSON(http.StatusOK, service.BuildMealSummary(totals, target, session.WeightLossOption))
}

func (h *PlanHandler) History(c *gin.Context) {
	sessionID := c.GetString(middleware.SessionIDKey)
	if sessionID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no session"})
		return
	}
	if h.history == nil {
		c.JSON(http.StatusOK, gin.H{"history": []*models.PlanHistory{}})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.history.List(c.Request.Context(), sessionID, limit)
	if err != nil {
		respondError(c, err, "failed to load history")
		return
	}
	if entries == nil {
		entries = []*models.PlanHistory{}
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *PlanHandler) recordHistory(c *gin.Context, sessionID string, req *types.GeneratePlanRequest, plan model.WeightLossPlan, resp *types.PlanResponse, result *service.RecommendationResult) {
	if h.history == nil {
		return
	}

	entry := &models.PlanHistory{
		SessionID:      sessionID,
		Age:            req.Age,
		Height:         req.Height,
		Weight:         req.Weight,
		Gender:         req.Gender,
		Activity:       req.Activity,
		WeightLossPlan: plan.Name,
		MealsPerDay:    req.MealsPerDay,
		TargetCalories: resp.TargetCalories,
		Outcome:        result.Outcome(),
		RecipeNames:    result.RecipeNames(),
	}
	if resp.BMI != nil {
		entry.BMI = resp.BMI.BMI
	}
	if resp.Calories != nil {
		entry.MaintenanceCalories = resp.Calories.MaintenanceCalories
	}
	if result.Failure != nil {
		entry.FailureReason = result.Failure.Error()
	}

	if err := h.history.Record(c.Request.Context(), entry); err != nil {
		h.logger.Warn("[PlanHandler] failed to record history", zap.String("session_id", sessionID), zap.Error(err))
	}
}

// planSummary computes the BMI, calorie and target figures shown with every plan
func planSummary(profile model.Profile) (*types.PlanResponse, error) {
	calories, err := service.NewCaloriesResponse(profile)
	if err != nil {
		return nil, err
	}
	target, err := service.TargetCalories(profile)
	if err != nil {
		return nil, err
	}
	return &types.PlanResponse{
		BMI:            service.NewBMIResponse(profile),
		Calories:       calories,
		TargetCalories: target,
	}, nil
}

func resultMessage(result *service.RecommendationResult) string {
	return planMessage(result.Failure != nil, len(result.Slots))
}

// sessionMessage rebuilds the generation message from a stored plan
func sessionMessage(session *types.Session) string {
	return planMessage(session.Error != "", len(session.Recommendations))
}

func planMessage(failed bool, slots int) string {
	switch {
	case failed && slots > 0:
		return msgPartialPlan
	case failed:
		return msgRecommenderFailed
	case slots == 0:
		return msgNoRecipes
	}
	return ""
}

func slotsOrEmpty(slots []model.SlotRecommendation) []model.SlotRecommendation {
	if slots == nil {
		return []model.SlotRecommendation{}
	}
	return slots
}
