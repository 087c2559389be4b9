package services

import (
	"context"
	"fmt"
	"log"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
)

// ModerationResult summarizes a batch moderation action.
type ModerationResult struct {
	Processed         int
	CategoriesCreated int
}

type ModerationService struct {
	proposalRepo repositories.ProposalRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewModerationService(proposalRepo repositories.ProposalRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl) *ModerationService {
	return &ModerationService{proposalRepo: proposalRepo, categoryRepo: categoryRepo}
}

// ApproveProposals approves a batch of category proposals. The matching
// category is get-or-created for every proposal in the batch, so
// re-approving an already-approved proposal creates nothing but is
// still counted as processed.
func (s *ModerationService) ApproveProposals(ctx context.Context, proposalIDs []string) (ModerationResult, error) {
	proposals, err := s.proposalRepo.FindByIDs(ctx, proposalIDs)
	if err != nil {
		return ModerationResult{}, fmt.Errorf("failed to load proposals: %w", err)
	}

	var result ModerationResult
	for _, proposal := range proposals {
		_, created, err := s.categoryRepo.GetOrCreate(ctx, proposal.Title, proposal.ParentID)
		if err != nil {
			return result, fmt.Errorf("failed to create category for proposal %s: %w", proposal.ID, err)
		}
		if created {
			result.CategoriesCreated++
		}

		if proposal.Status != models.ProposalStatusApproved {
			if err := s.proposalRepo.UpdateStatus(ctx, proposal.ID, models.ProposalStatusApproved); err != nil {
				return result, err
			}
		}
		result.Processed++
	}

	log.Printf("ModerationService: approved %d proposals, created %d categories", result.Processed, result.CategoriesCreated)
	return result, nil
}

// RejectProposals rejects a batch, skipping proposals already rejected.
func (s *ModerationService) RejectProposals(ctx context.Context, proposalIDs []string) (ModerationResult, error) {
	proposals, err := s.proposalRepo.FindByIDs(ctx, proposalIDs)
	if err != nil {
		return ModerationResult{}, fmt.Errorf("failed to load proposals: %w", err)
	}

	var result ModerationResult
	for _, proposal := range proposals {
		if proposal.Status == models.ProposalStatusRejected {
			continue
		}
		if err := s.proposalRepo.UpdateStatus(ctx, proposal.ID, models.ProposalStatusRejected); err != nil {
			return result, err
		}
		result.Processed++
	}
	return result, nil
}
