package repositories

import (
	"context"
	"errors"

	"github.com/poslugy/marketplace/app/models"
	"gorm.io/gorm"
)

type QuestionnaireRepositoryImpl interface {
	FindByUserID(ctx context.Context, userID string) (*models.Questionnaire, error)
	GetOrCreateByUserID(ctx context.Context, userID string) (*models.Questionnaire, error)
	Update(ctx context.Context, questionnaire *models.Questionnaire) error
}

type questionnaireRepository struct {
	db *gorm.DB
}

func NewQuestionnaireRepository(db *gorm.DB) QuestionnaireRepositoryImpl {
	return &questionnaireRepository{db}
}

func (r *questionnaireRepository) FindByUserID(ctx context.Context, userID string) (*models.Questionnaire, error) {
	var questionnaire models.Questionnaire
	err := r.db.WithContext(ctx).First(&questionnaire, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &questionnaire, nil
}

func (r *questionnaireRepository) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Questionnaire, error) {
	questionnaire, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if questionnaire != nil {
		return questionnaire, nil
	}

	questionnaire = &models.Questionnaire{UserID: userID}
	if err := r.db.WithContext(ctx).Create(questionnaire).Error; err != nil {
		return nil, err
	}
	return questionnaire, nil
}

func (r *questionnaireRepository) Update(ctx context.Context, questionnaire *models.Questionnaire) error {
	return r.db.WithContext(ctx).Save(questionnaire).Error
}
