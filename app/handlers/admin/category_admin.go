package admin

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/services"
	"github.com/unrolled/render"
)

type CategoryAdminHandler struct {
	render       *render.Render
	proposalRepo repositories.ProposalRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	moderation   *services.ModerationService
	validator    *validator.Validate
}

func NewCategoryAdminHandler(
	r *render.Render,
	proposalRepo repositories.ProposalRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	moderation *services.ModerationService,
	validator *validator.Validate,
) *CategoryAdminHandler {
	return &CategoryAdminHandler{
		render:       r,
		proposalRepo: proposalRepo,
		categoryRepo: categoryRepo,
		moderation:   moderation,
		validator:    validator,
	}
}

type ModerateProposalsForm struct {
	ProposalIDs []string `json:"proposal_ids" validate:"required,min=1,dive,required"`
}

type ReparentCategoryForm struct {
	ParentID *string `json:"parent_id"`
}

// ProposalListGet lists category proposals, by default the pending
// queue. Pass ?status=approved or ?status=rejected for the archives.
func (h *CategoryAdminHandler) ProposalListGet(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	if status == "" {
		status = models.ProposalStatusPending
	}

	proposals, err := h.proposalRepo.List(r.Context(), status)
	if err != nil {
		log.Printf("ProposalListGet: failed to list proposals: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити пропозиції"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"proposals": proposals})
}

// ProposalApprovePost approves a batch of proposals, creating the
// categories they describe. Re-approving is harmless: an already
// approved proposal counts as processed without a duplicate category.
func (h *CategoryAdminHandler) ProposalApprovePost(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeModerateForm(w, r)
	if !ok {
		return
	}

	result, err := h.moderation.ApproveProposals(r.Context(), form.ProposalIDs)
	if err != nil {
		log.Printf("ProposalApprovePost: failed to approve proposals: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося схвалити пропозиції"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"processed":          result.Processed,
		"categories_created": result.CategoriesCreated,
	})
}

func (h *CategoryAdminHandler) ProposalRejectPost(w http.ResponseWriter, r *http.Request) {
	form, ok := h.decodeModerateForm(w, r)
	if !ok {
		return
	}

	result, err := h.moderation.RejectProposals(r.Context(), form.ProposalIDs)
	if err != nil {
		log.Printf("ProposalRejectPost: failed to reject proposals: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося відхилити пропозиції"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"processed": result.Processed})
}

// CategoryReparentPost moves a category under a new parent, or to the
// root when parent_id is null. Cyclic parenting is refused.
func (h *CategoryAdminHandler) CategoryReparentPost(w http.ResponseWriter, r *http.Request) {
	categoryID := mux.Vars(r)["categoryID"]

	var form ReparentCategoryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	err := h.categoryRepo.UpdateParent(r.Context(), categoryID, form.ParentID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryCycle) {
			_ = h.render.JSON(w, http.StatusConflict, map[string]string{"error": "перенесення створило б цикл у дереві категорій"})
			return
		}
		log.Printf("CategoryReparentPost: failed to reparent category %s: %v", categoryID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося перенести категорію"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *CategoryAdminHandler) decodeModerateForm(w http.ResponseWriter, r *http.Request) (ModerateProposalsForm, bool) {
	var form ModerateProposalsForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return form, false
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "proposal_ids обов'язкові"})
		return form, false
	}
	return form, true
}
