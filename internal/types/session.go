package types

import (
	"time"

	"github.com/pageza/dietrec/backend/internal/model"
)

// Session is the per-visitor state kept between form submissions.
// A new submission replaces Profile, WeightLossOption and Recommendations.
type Session struct {
	ID               string                     `json:"id"`
	Generated        bool                       `json:"generated"`
	Profile          *model.Profile             `json:"profile,omitempty"`
	WeightLossOption string                     `json:"weight_loss_option,omitempty"`
	Recommendations  []model.SlotRecommendation `json:"recommendations"`
	Error            string                     `json:"error,omitempty"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// Reset clears the generated state before a new submission
func (s *Session) Reset() {
	s.Generated = false
	s.Profile = nil
	s.WeightLossOption = ""
	s.Recommendations = nil
	s.Error = ""
}
