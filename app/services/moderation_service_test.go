package services

import (
	"context"
	"testing"

	"github.com/poslugy/marketplace/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveProposalsCreatesCategories(t *testing.T) {
	proposals := newFakeProposalRepo(
		&models.CategoryProposal{ID: "p1", Title: "Груминг", Status: models.ProposalStatusPending},
		&models.CategoryProposal{ID: "p2", Title: "Евакуатор", Status: models.ProposalStatusPending},
	)
	categories := newFakeCategoryRepo()
	svc := NewModerationService(proposals, categories)

	result, err := svc.ApproveProposals(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 2, result.CategoriesCreated)

	p1, _ := proposals.FindByID(context.Background(), "p1")
	p2, _ := proposals.FindByID(context.Background(), "p2")
	assert.Equal(t, models.ProposalStatusApproved, p1.Status)
	assert.Equal(t, models.ProposalStatusApproved, p2.Status)

	all, _ := categories.List(context.Background())
	assert.Len(t, all, 2)
}

func TestApproveProposalsIsIdempotent(t *testing.T) {
	proposals := newFakeProposalRepo(
		&models.CategoryProposal{ID: "p1", Title: "Груминг", Status: models.ProposalStatusPending},
	)
	categories := newFakeCategoryRepo()
	svc := NewModerationService(proposals, categories)

	first, err := svc.ApproveProposals(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.CategoriesCreated)

	second, err := svc.ApproveProposals(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, second.Processed, "re-approving still counts as processed")
	assert.Equal(t, 0, second.CategoriesCreated, "re-approving must not duplicate the category")

	all, _ := categories.List(context.Background())
	assert.Len(t, all, 1)
}

func TestApproveProposalsMatchingExistingCategory(t *testing.T) {
	proposals := newFakeProposalRepo(
		&models.CategoryProposal{ID: "p1", Title: "Дизайн", Status: models.ProposalStatusPending},
	)
	categories := newFakeCategoryRepo(models.Category{ID: "c1", Title: "Дизайн"})
	svc := NewModerationService(proposals, categories)

	result, err := svc.ApproveProposals(context.Background(), []string{"p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)
	assert.Equal(t, 0, result.CategoriesCreated, "an identical category already exists")
}

func TestRejectProposalsSkipsAlreadyRejected(t *testing.T) {
	proposals := newFakeProposalRepo(
		&models.CategoryProposal{ID: "p1", Title: "Спам", Status: models.ProposalStatusPending},
		&models.CategoryProposal{ID: "p2", Title: "Ще спам", Status: models.ProposalStatusRejected},
	)
	svc := NewModerationService(proposals, newFakeCategoryRepo())

	result, err := svc.RejectProposals(context.Background(), []string{"p1", "p2"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Processed)

	p1, _ := proposals.FindByID(context.Background(), "p1")
	assert.Equal(t, models.ProposalStatusRejected, p1.Status)
}

func TestModerationIgnoresUnknownIDs(t *testing.T) {
	proposals := newFakeProposalRepo()
	svc := NewModerationService(proposals, newFakeCategoryRepo())

	result, err := svc.ApproveProposals(context.Background(), []string{"ghost"})
	require.NoError(t, err)
	assert.Zero(t, result.Processed)
	assert.Zero(t, result.CategoriesCreated)
}
