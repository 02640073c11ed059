package surveys

import (
	"context"

	"github.com/dmitrijs2005/surveykeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, survey *models.Survey) (*models.Survey, error)
	GetByID(ctx context.Context, id string) (*models.Survey, error)
	ListByOwner(ctx context.Context, userID string) ([]*models.Survey, error)
}
