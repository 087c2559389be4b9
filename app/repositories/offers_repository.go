package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type OfferRepositoryImpl interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id string) (*models.Offer, error)
	ListForProject(ctx context.Context, projectID string) ([]models.Offer, error)
	HasAccepted(ctx context.Context, projectID string) (bool, error)
	UpdateStatus(ctx context.Context, offerID, status string, isCancelled bool) error

	// AcceptAndDeclineSiblings marks the offer accepted and, in the same
	// transaction, declines the project's other offers still in created.
	AcceptAndDeclineSiblings(ctx context.Context, offerID, projectID string) error
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepositoryImpl {
	return &offerRepository{db}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).Preload("Project").Preload("Candidate").First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) ListForProject(ctx context.Context, projectID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *offerRepository) HasAccepted(ctx context.Context, projectID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("project_id = ? AND status = ?", projectID, models.OfferStatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *offerRepository) UpdateStatus(ctx context.Context, offerID, status string, isCancelled bool) error {
	return r.db.WithContext(ctx).Model(&models.Offer{}).
		Where("id = ?", offerID).
		Updates(map[string]interface{}{
			"status":       status,
			"is_cancelled": isCancelled,
		}).Error
}

func (r *offerRepository) AcceptAndDeclineSiblings(ctx context.Context, offerID, projectID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Offer{}).
			Where("id = ?", offerID).
			Updates(map[string]interface{}{
				"status":       models.OfferStatusAccepted,
				"is_cancelled": false,
			}).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Offer{}).
			Where("project_id = ? AND id <> ? AND status = ?", projectID, offerID, models.OfferStatusCreated).
			Updates(map[string]interface{}{
				"status":       models.OfferStatusDeclined,
				"is_cancelled": true,
			}).Error
	})
}
