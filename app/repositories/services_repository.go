package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

// ServiceFilter narrows the catalog listing.
type ServiceFilter struct {
	CategoryID string
	ProviderID string
	Search     string
}

// RecommendationQuery is the composed filter the recommendation matcher
// hands to the store after its keyword pass.
type RecommendationQuery struct {
	IDs         []string
	CategoryIDs []string
	MinPrice    int
	MaxPrice    int
	ActiveFirst bool
	NewestFirst bool
	Limit       int
}

type ServiceRepositoryImpl interface {
	Create(ctx context.Context, service *models.Service) error
	GetByID(ctx context.Context, id string) (*models.Service, error)
	Update(ctx context.Context, service *models.Service) error
	SetActive(ctx context.Context, serviceID string, active bool) error
	List(ctx context.Context, filter ServiceFilter) ([]models.Service, error)
	LatestActive(ctx context.Context, limit int) ([]models.Service, error)

	// SearchActiveIDsByTitle returns ids of active services whose title
	// contains the keyword, case-insensitively, capped at limit.
	SearchActiveIDsByTitle(ctx context.Context, keyword string, limit int) ([]string, error)
	ListActiveFiltered(ctx context.Context, query RecommendationQuery) ([]models.Service, error)
}

type serviceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepositoryImpl {
	return &serviceRepository{db}
}

func (r *serviceRepository) Create(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *serviceRepository) GetByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	err := r.db.WithContext(ctx).
		Preload("Category.Parent.Parent").
		Preload("Provider").
		First(&service, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *models.Service) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *serviceRepository) SetActive(ctx context.Context, serviceID string, active bool) error {
	return r.db.WithContext(ctx).Model(&models.Service{}).
		Where("id = ?", serviceID).
		Update("is_active", active).Error
}

func (r *serviceRepository) List(ctx context.Context, filter ServiceFilter) ([]models.Service, error) {
	query := r.db.WithContext(ctx).
		Preload("Category.Parent").
		Preload("Provider").
		Where("is_active = ?", true).
		Order("created_at DESC")

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.ProviderID != "" {
		query = query.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) LatestActive(ctx context.Context, limit int) ([]models.Service, error) {
	var services []models.Service
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Provider").
		Where("is_active = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&services).Error
	if err != nil {
		return nil, err
	}
	return services, nil
}

func (r *serviceRepository) SearchActiveIDsByTitle(ctx context.Context, keyword string, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Service{}).
		Where("is_active = ? AND LOWER(title) LIKE LOWER(?)", true, "%"+keyword+"%").
		Limit(limit).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *serviceRepository) ListActiveFiltered(ctx context.Context, q RecommendationQuery) ([]models.Service, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Provider").
		Where("is_active = ?", true)

	if len(q.IDs) > 0 {
		query = query.Where("id IN ?", q.IDs)
	}
	if len(q.CategoryIDs) > 0 {
		query = query.Where("category_id IN ?", q.CategoryIDs)
	}
	if q.MinPrice > 0 {
		query = query.Where("price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		query = query.Where("price <= ?", q.MaxPrice)
	}
	if q.ActiveFirst {
		query = query.Order("is_active DESC")
	}
	if q.NewestFirst {
		query = query.Order("created_at DESC")
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var services []models.Service
	if err := query.Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}
