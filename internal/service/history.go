package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/dietrec/backend/internal/models"
)

const defaultHistoryLimit = 20

// HistoryService stores one record per recommendation pass
type HistoryService struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Ensure HistoryService implements IHistoryService
var _ IHistoryService = (*HistoryService)(nil)

// NewHistoryService creates a new HistoryService
func NewHistoryService(db *gorm.DB, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{db: db, logger: logger}
}

// Record saves a pass
func (s *HistoryService) Record(ctx context.Context, entry *models.PlanHistory) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record plan history: %w", err)
	}
	s.logger.Debug("[HistoryService] recorded pass",
		zap.String("id", entry.ID.String()),
		zap.String("outcome", entry.Outcome))
	return nil
}

// List returns the newest passes for a session first
func (s *HistoryService) List(ctx context.Context, sessionID string, limit int) ([]*models.PlanHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}

	var entries []*models.PlanHistory
	err := s.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list plan history: %w", err)
	}
	return entries, nil
}
