package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/yourusername/pitwall/internal/models"
)

// PredictionRepository defines the interface for forecast data access
type PredictionRepository interface {
	Create(ctx context.Context, run *models.PredictionRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRun, error)
	ListRecent(ctx context.Context, season int, circuitID string, limit int) ([]*models.PredictionRun, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
