package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrOfferNotFound   = errors.New("offer not found")
	ErrNotOfferActor   = errors.New("only the project's customer or the offer's candidate may change its status")
)

type OfferService struct {
	offerRepo   repositories.OfferRepositoryImpl
	projectRepo repositories.ProjectRepositoryImpl
}

func NewOfferService(offerRepo repositories.OfferRepositoryImpl, projectRepo repositories.ProjectRepositoryImpl) *OfferService {
	return &OfferService{offerRepo: offerRepo, projectRepo: projectRepo}
}

// Create places a candidate's bid on a project. Projects with an
// accepted offer take no further bids.
func (s *OfferService) Create(ctx context.Context, projectID, candidateID, comment string) (*models.Offer, TransitionResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, TransitionResult{}, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	if project == nil {
		return nil, TransitionResult{}, ErrProjectNotFound
	}

	if !project.IsActive {
		return nil, TransitionResult{Reason: "проєкт неактивний"}, nil
	}
	if project.CustomerID == candidateID {
		return nil, TransitionResult{Reason: "замовник не може подавати пропозицію на власний проєкт"}, nil
	}

	accepted, err := s.offerRepo.HasAccepted(ctx, projectID)
	if err != nil {
		return nil, TransitionResult{}, err
	}
	if accepted {
		return nil, TransitionResult{Reason: "за цим проєктом вже прийнято пропозицію"}, nil
	}

	offer := &models.Offer{
		ProjectID:   projectID,
		CandidateID: candidateID,
		Comment:     comment,
		Status:      models.OfferStatusCreated,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, TransitionResult{}, err
	}
	return offer, TransitionResult{Applied: true}, nil
}

// ListForProject returns a project's bids, newest first. Bids are
// visible only to the project's customer.
func (s *OfferService) ListForProject(ctx context.Context, projectID, actorID string) ([]models.Offer, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project %s: %w", projectID, err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	if project.CustomerID != actorID {
		return nil, ErrNotOfferActor
	}
	return s.offerRepo.ListForProject(ctx, projectID)
}

// SetStatus drives the offer lifecycle. The project's customer may
// decline or accept a created offer; the candidate may cancel their
// own. Accepting declines the project's remaining created offers in the
// same transaction, keeping at most one accepted offer per project.
func (s *OfferService) SetStatus(ctx context.Context, offerID, newStatus, actorID string) (TransitionResult, error) {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("failed to load offer %s: %w", offerID, err)
	}
	if offer == nil {
		return TransitionResult{}, ErrOfferNotFound
	}

	isCustomer := offer.Project.CustomerID == actorID
	isCandidate := offer.CandidateID == actorID
	if !isCustomer && !isCandidate {
		return TransitionResult{}, ErrNotOfferActor
	}

	if offer.Status != models.OfferStatusCreated {
		return TransitionResult{Reason: fmt.Sprintf("пропозиція вже має статус %q", offer.Status)}, nil
	}

	switch newStatus {
	case models.OfferStatusDeclined:
		if !isCustomer {
			return TransitionResult{Reason: "відхилити пропозицію може лише замовник проєкту"}, nil
		}
		if err := s.offerRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusDeclined, true); err != nil {
			return TransitionResult{}, err
		}
	case models.OfferStatusCancelled:
		if !isCandidate {
			return TransitionResult{Reason: "скасувати пропозицію може лише кандидат"}, nil
		}
		if err := s.offerRepo.UpdateStatus(ctx, offer.ID, models.OfferStatusCancelled, true); err != nil {
			return TransitionResult{}, err
		}
	case models.OfferStatusAccepted:
		if !isCustomer {
			return TransitionResult{Reason: "прийняти пропозицію може лише замовник проєкту"}, nil
		}
		if err := s.offerRepo.AcceptAndDeclineSiblings(ctx, offer.ID, offer.ProjectID); err != nil {
			return TransitionResult{}, err
		}
	default:
		return TransitionResult{Reason: fmt.Sprintf("невідомий статус пропозиції %q", newStatus)}, nil
	}

	return TransitionResult{Applied: true}, nil
}
