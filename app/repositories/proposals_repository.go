package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type ProposalRepositoryImpl interface {
	Create(ctx context.Context, proposal *models.CategoryProposal) error
	FindByID(ctx context.Context, id string) (*models.CategoryProposal, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.CategoryProposal, error)
	List(ctx context.Context, status string) ([]models.CategoryProposal, error)
	UpdateStatus(ctx context.Context, proposalID, status string) error
}

type proposalRepository struct {
	db *gorm.DB
}

func NewProposalRepository(db *gorm.DB) ProposalRepositoryImpl {
	return &proposalRepository{db}
}

func (r *proposalRepository) Create(ctx context.Context, proposal *models.CategoryProposal) error {
	return r.db.WithContext(ctx).Create(proposal).Error
}

func (r *proposalRepository) FindByID(ctx context.Context, id string) (*models.CategoryProposal, error) {
	var proposal models.CategoryProposal
	err := r.db.WithContext(ctx).Preload("Parent").Preload("User").First(&proposal, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &proposal, nil
}

func (r *proposalRepository) FindByIDs(ctx context.Context, ids []string) ([]models.CategoryProposal, error) {
	var proposals []models.CategoryProposal
	err := r.db.WithContext(ctx).Preload("Parent").Where("id IN ?", ids).Find(&proposals).Error
	if err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *proposalRepository) List(ctx context.Context, status string) ([]models.CategoryProposal, error) {
	var proposals []models.CategoryProposal
	query := r.db.WithContext(ctx).Preload("Parent").Preload("User").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Find(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *proposalRepository) UpdateStatus(ctx context.Context, proposalID, status string) error {
	return r.db.WithContext(ctx).Model(&models.CategoryProposal{}).
		Where("id = ?", proposalID).
		Update("status", status).Error
}
