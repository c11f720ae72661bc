package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pageza/dietrec/backend/internal/model"
	"github.com/pageza/dietrec/backend/internal/models"
	"github.com/pageza/dietrec/backend/internal/types"
)

var (
	// ErrUnknownRecipeChoice is returned when a chosen recipe is not among a slot's recommendations
	ErrUnknownRecipeChoice = errors.New("unknown recipe choice")
	// ErrSessionNotFound is returned when no session is stored for an ID
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoPlanGenerated is returned when meal choices arrive before any plan exists
	ErrNoPlanGenerated = errors.New("no plan generated for session")
)

// SlotError reports which meal slot failed during a recommendation pass
type SlotError struct {
	Slot string
	Err  error
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("recommendation for %s failed: %v", e.Slot, e.Err)
}

func (e *SlotError) Unwrap() error {
	return e.Err
}

// Recommender returns recipes that fit a nutrient envelope
type Recommender interface {
	Recommend(ctx context.Context, envelope model.Nutrients) ([]model.Recipe, error)
}

// ImageLookup finds an image link for a recipe name
type ImageLookup interface {
	FindImage(ctx context.Context, recipeName string) (string, error)
}

// Planner turns a profile into per-slot nutrient envelopes
type Planner interface {
	Plan(profile model.Profile) ([]model.SlotEnvelope, error)
}

// IRecommendationService runs a full recommendation pass
type IRecommendationService interface {
	Generate(ctx context.Context, profile model.Profile) (*RecommendationResult, error)
}

// ISessionStore persists per-visitor session state
type ISessionStore interface {
	New(ctx context.Context) (*types.Session, error)
	Get(ctx context.Context, id string) (*types.Session, error)
	Save(ctx context.Context, session *types.Session) error
	Delete(ctx context.Context, id string) error
}

// IHistoryService records generation passes
type IHistoryService interface {
	Record(ctx context.Context, entry *models.PlanHistory) error
	List(ctx context.Context, sessionID string, limit int) ([]*models.PlanHistory, error)
}
