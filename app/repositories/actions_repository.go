package repositories

import (
	"context"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type ActionRepositoryImpl interface {
	Create(ctx context.Context, action *models.Action) error
	ListForTarget(ctx context.Context, target models.EntityRef) ([]models.Action, error)
	LatestViews(ctx context.Context, userID string, kind models.EntityKind, limit int) ([]models.Action, error)
}

type actionRepository struct {
	db *gorm.DB
}

func NewActionRepository(db *gorm.DB) ActionRepositoryImpl {
	return &actionRepository{db}
}

func (r *actionRepository) Create(ctx context.Context, action *models.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r *actionRepository) ListForTarget(ctx context.Context, target models.EntityRef) ([]models.Action, error) {
	var actions []models.Action
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_kind = ? AND target_id = ?", target.Kind, target.ID).
		Order("created_at DESC").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

func (r *actionRepository) LatestViews(ctx context.Context, userID string, kind models.EntityKind, limit int) ([]models.Action, error) {
	verb := models.ActionViewService
	if kind == models.EntityKindProject {
		verb = models.ActionViewProject
	}

	var actions []models.Action
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND verb = ? AND target_kind = ?", userID, verb, kind).
		Order("created_at DESC").
		Limit(limit).
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}
