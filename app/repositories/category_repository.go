package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

// ErrCategoryCycle is returned when a parent change would make the
// category tree cyclic.
var ErrCategoryCycle = errors.New("category parent chain would form a cycle")

type CategoryRepositoryImpl interface {
	List(ctx context.Context) ([]models.Category, error)
	ListWithServices(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id string) (*models.Category, error)
	FindIDsByTitleLike(ctx context.Context, keywords []string) ([]string, error)

	// GetOrCreate returns the category with the given (title, parent)
	// pair, creating it if absent. The bool reports whether a row was
	// created.
	GetOrCreate(ctx context.Context, title string, parentID *string) (*models.Category, bool, error)
	UpdateParent(ctx context.Context, categoryID string, parentID *string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db}
}

func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Preload("Parent").Order("title").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) ListWithServices(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Joins("JOIN services ON services.category_id = categories.id AND services.is_active = ?", true).
		Group("categories.id").
		Order("categories.title").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("Parent.Parent").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindIDsByTitleLike(ctx context.Context, keywords []string) ([]string, error) {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, kw := range keywords {
		var matched []string
		err := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("title LIKE ?", "%"+kw+"%").
			Pluck("id", &matched).Error
		if err != nil {
			return nil, err
		}
		for _, id := range matched {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

func (r *categoryRepository) GetOrCreate(ctx context.Context, title string, parentID *string) (*models.Category, bool, error) {
	var category models.Category
	query := r.db.WithContext(ctx).Where("title = ?", title)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	err := query.First(&category).Error
	if err == nil {
		return &category, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	category = models.Category{Title: title, ParentID: parentID}
	if err := r.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, false, fmt.Errorf("failed to create category %q: %w", title, err)
	}
	return &category, true, nil
}

func (r *categoryRepository) UpdateParent(ctx context.Context, categoryID string, parentID *string) error {
	if parentID != nil {
		cyclic, err := r.wouldCycle(ctx, categoryID, *parentID)
		if err != nil {
			return err
		}
		if cyclic {
			return ErrCategoryCycle
		}
	}
	return r.db.WithContext(ctx).Model(&models.Category{}).
		Where("id = ?", categoryID).
		Update("parent_id", parentID).Error
}

// wouldCycle walks the prospective parent chain and reports whether it
// revisits categoryID.
func (r *categoryRepository) wouldCycle(ctx context.Context, categoryID, parentID string) (bool, error) {
	current := parentID
	for current != "" {
		if current == categoryID {
			return true, nil
		}
		var parents []*string
		err := r.db.WithContext(ctx).Model(&models.Category{}).
			Where("id = ?", current).
			Limit(1).
			Pluck("parent_id", &parents).Error
		if err != nil {
			return false, err
		}
		if len(parents) == 0 || parents[0] == nil {
			return false, nil
		}
		current = *parents[0]
	}
	return false, nil
}
