package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
)

var ErrBudgetRange = errors.New("budget_min must not exceed budget_max")

// TopUpEnqueuer hands a balance top-up to the background queue. The
// caller only learns the request was accepted for processing, not that
// the credit landed.
type TopUpEnqueuer interface {
	EnqueueTopUp(ctx context.Context, userID string, amount int, cardNumber string) error
}

type UserService struct {
	userRepo          repositories.UserRepositoryImpl
	questionnaireRepo repositories.QuestionnaireRepositoryImpl
	topUps            TopUpEnqueuer
}

func NewUserService(userRepo repositories.UserRepositoryImpl, questionnaireRepo repositories.QuestionnaireRepositoryImpl, topUps TopUpEnqueuer) *UserService {
	return &UserService{
		userRepo:          userRepo,
		questionnaireRepo: questionnaireRepo,
		topUps:            topUps,
	}
}

// RequestTopUp dispatches an asynchronous balance credit. The card
// charge itself is outside this system.
func (s *UserService) RequestTopUp(ctx context.Context, userID string, amount int, cardNumber string) error {
	if amount < 100 {
		return fmt.Errorf("minimum top-up amount is 100, got %d", amount)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return fmt.Errorf("user %s not found", userID)
	}
	return s.topUps.EnqueueTopUp(ctx, userID, amount, cardNumber)
}

// SubmitOnboarding stores the coarse questionnaire flags kept directly
// on the user row.
func (s *UserService) SubmitOnboarding(ctx context.Context, userID string, fields map[string]interface{}) error {
	return s.userRepo.UpdateOnboarding(ctx, userID, fields)
}

// SubmitQuestionnaire upserts the user's detailed questionnaire and
// marks the onboarding flag. A non-zero budget range must be ordered.
func (s *UserService) SubmitQuestionnaire(ctx context.Context, userID string, updated *models.Questionnaire) (*models.Questionnaire, error) {
	if updated.BudgetMin > 0 && updated.BudgetMax > 0 && updated.BudgetMin > updated.BudgetMax {
		return nil, ErrBudgetRange
	}

	questionnaire, err := s.questionnaireRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questionnaire for user %s: %w", userID, err)
	}

	updated.ID = questionnaire.ID
	updated.UserID = userID
	updated.CreatedAt = questionnaire.CreatedAt
	if err := s.questionnaireRepo.Update(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.userRepo.MarkQuestionnaireCompleted(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}
