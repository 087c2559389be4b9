package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type ProjectFilter struct {
	CategoryID string
	CustomerID string
}

type ProjectRepositoryImpl interface {
	Create(ctx context.Context, project *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]models.Project, error)
	SetActive(ctx context.Context, projectID string, active bool) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepositoryImpl {
	return &projectRepository{db}
}

func (r *projectRepository) Create(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	// Offers are deliberately not preloaded; bids are served to the
	// customer alone through OfferRepositoryImpl.ListForProject.
	err := r.db.WithContext(ctx).
		Preload("Category.Parent").
		Preload("Customer").
		First(&project, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]models.Project, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Customer").
		Where("is_active = ?", true).
		Order("created_at DESC")

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.CustomerID != "" {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepository) SetActive(ctx context.Context, projectID string, active bool) error {
	return r.db.WithContext(ctx).Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("is_active", active).Error
}
