package users

import (
	"context"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db/models"
)

// Repository defines the persistence surface required by the users service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByExternalID(ctx context.Context, externalID int64) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
}
