package users

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mvolkova/shopbot-backend/pkg/db"
	"github.com/mvolkova/shopbot-backend/pkg/db/models"
	pkgerrors "github.com/mvolkova/shopbot-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// UpsertInput carries the identity fields the bot layer knows about a shopper.
type UpsertInput struct {
	ExternalID int64
	Username   string
	IsAdmin    bool
}

// Service manages shopper identities keyed by the bot platform id.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*models.User, error)
	IsAdmin(ctx context.Context, externalID int64) (bool, error)
	EnsureAdmin(ctx context.Context, externalID int64) error
}

type service struct {
	tx   txRunner
	repo Repository
}

// NewService builds the users service.
func NewService(tx txRunner, repo Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{tx: tx, repo: repo}, nil
}

// Upsert registers a shopper on first contact and refreshes their admin flag
// afterwards. The username is only overwritten when a non-empty one arrives,
// so a shopper who hides their handle keeps the last known value.
func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.User, error) {
	if input.ExternalID == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "external id required")
	}

	var out *models.User
	apply := func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		user, err := repo.FindByExternalID(ctx, input.ExternalID)
		switch {
		case err == nil:
			user.IsAdmin = input.IsAdmin
			if input.Username != "" {
				user.Username = &input.Username
			}
			if err := repo.Save(ctx, user); err != nil {
				return err
			}
			out = user
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			fresh := &models.User{ExternalID: input.ExternalID, IsAdmin: input.IsAdmin}
			if input.Username != "" {
				fresh.Username = &input.Username
			}
			created, err := repo.Create(ctx, fresh)
			if err != nil {
				return err
			}
			out = created
			return nil
		default:
			return err
		}
	}

	err := s.tx.WithTx(ctx, apply)
	if db.IsUniqueViolation(err, "") {
		// Lost the insert race; the winning row is visible to a fresh
		// transaction, so one rerun lands on the update path.
		err = s.tx.WithTx(ctx, apply)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert user")
	}
	return out, nil
}

func (s *service) IsAdmin(ctx context.Context, externalID int64) (bool, error) {
	user, err := s.repo.FindByExternalID(ctx, externalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user.IsAdmin, nil
}

// EnsureAdmin creates the user as an admin when missing. Existing users keep
// whatever flag they already carry.
func (s *service) EnsureAdmin(ctx context.Context, externalID int64) error {
	if externalID == 0 {
		return nil
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		_, err := repo.FindByExternalID(ctx, externalID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		_, err = repo.Create(ctx, &models.User{ExternalID: externalID, IsAdmin: true})
		return err
	})
	if db.IsUniqueViolation(err, "") {
		// Raced with the shopper's own first contact; the row exists now.
		return nil
	}
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed admin")
	}
	return nil
}
