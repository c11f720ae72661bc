package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/models"
	"github.com/pageza/dietrec/backend/internal/monitoring"
)

// FailurePolicy decides what a pass keeps when a slot fails
type FailurePolicy int

const (
	// DiscardOnFailure drops every slot once any slot fails
	DiscardOnFailure FailurePolicy = iota
	// KeepPartial keeps the slots finished before the failure
	KeepPartial
)

// ParseFailurePolicy maps a config value to a policy. Unknown values discard.
func ParseFailurePolicy(s string) FailurePolicy {
	if s == "keep_partial" {
		return KeepPartial
	}
	return DiscardOnFailure
}

func (p FailurePolicy) String() string {
	if p == KeepPartial {
		return "keep_partial"
	}
	return "discard"
}

// RecommendationResult is the outcome of one pass
type RecommendationResult struct {
	Slots   []model.SlotRecommendation
	Failure *SlotError
}

// Partial reports whether slots were kept despite a failure
func (r *RecommendationResult) Partial() bool {
	return r.Failure != nil && len(r.Slots) > 0
}

// Outcome labels the pass for history records
func (r *RecommendationResult) Outcome() string {
	switch {
	case r.Failure != nil && len(r.Slots) > 0:
		return models.OutcomePartial
	case r.Failure != nil:
		return models.OutcomeFailed
	case len(r.Slots) == 0:
		return models.OutcomeEmpty
	default:
		return models.OutcomeComplete
	}
}

// RecipeNames lists every recommended recipe in slot order
func (r *RecommendationResult) RecipeNames() []string {
	var names []string
	for _, slot := range r.Slots {
		for _, recipe := range slot.Recipes {
			names = append(names, recipe.Name)
		}
	}
	return names
}

// RecommendationService runs the planner and recommender for every meal slot
type RecommendationService struct {
	planner     Planner
	recommender Recommender
	images      ImageLookup
	policy      FailurePolicy
	logger      *zap.Logger
	metrics     *monitoring.MetricsCollector
}

// Ensure RecommendationService implements IRecommendationService
var _ IRecommendationService = (*RecommendationService)(nil)

// NewRecommendationService creates a new RecommendationService. images may be nil.
func NewRecommendationService(planner Planner, recommender Recommender, images ImageLookup, policy FailurePolicy, logger *zap.Logger, metrics *monitoring.MetricsCollector) *RecommendationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		planner:     planner,
		recommender: recommender,
		images:      images,
		policy:      policy,
		logger:      logger,
		metrics:     metrics,
	}
}

// Generate plans the slots and requests recipes for each one in order.
// Profile errors are returned directly. Recommender errors end the pass and
// are reported through the result.
func (s *RecommendationService) Generate(ctx context.Context, profile model.Profile) (*RecommendationResult, error) {
	envelopes, err := s.planner.Plan(profile)
	if err != nil {
		return nil, err
	}

	result := &RecommendationResult{}
	for _, env := range envelopes {
		recipes, err := s.recommender.Recommend(ctx, env.Envelope)
		if err != nil {
			result.Failure = &SlotError{Slot: env.Slot.Name, Err: err}
			s.logger.Error("[RecommendationService] slot failed, ending pass",
				zap.String("slot", env.Slot.Name),
				zap.Stringer("policy", s.policy),
				zap.Error(err))
			break
		}
		if len(recipes) == 0 {
			s.logger.Debug("[RecommendationService] no recipes for slot", zap.String("slot", env.Slot.Name))
			continue
		}

		s.attachImages(ctx, recipes)
		result.Slots = append(result.Slots, model.SlotRecommendation{
			Slot:     env.Slot.Name,
			Envelope: env.Envelope,
			Recipes:  recipes,
		})
	}

	if result.Failure != nil && s.policy == DiscardOnFailure {
		result.Slots = nil
	}

	s.metrics.RecordPass(result.Outcome())
	return result, nil
}

func (s *RecommendationService) attachImages(ctx context.Context, recipes []model.Recipe) {
	if s.images == nil {
		return
	}
	for i := range recipes {
		link, err := s.images.FindImage(ctx, recipes[i].Name)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Warn("[RecommendationService] image lookup failed",
				zap.String("recipe", recipes[i].Name), zap.Error(err))
			continue
		}
		recipes[i].ImageLink = link
	}
}
