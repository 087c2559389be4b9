package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/poslugy/marketplace/app/helpers"
	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/unrolled/render"
)

type CategoryHandler struct {
	render       *render.Render
	categoryRepo repositories.CategoryRepositoryImpl
	proposalRepo repositories.ProposalRepositoryImpl
	validator    *validator.Validate
}

func NewCategoryHandler(r *render.Render, categoryRepo repositories.CategoryRepositoryImpl, proposalRepo repositories.ProposalRepositoryImpl, validator *validator.Validate) *CategoryHandler {
	return &CategoryHandler{render: r, categoryRepo: categoryRepo, proposalRepo: proposalRepo, validator: validator}
}

type ProposeCategoryForm struct {
	Title       string  `json:"title" validate:"required,max=70"`
	ParentID    *string `json:"parent_id"`
	Description string  `json:"description" validate:"max=1500"`
}

func (h *CategoryHandler) CategoryListGet(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.List(r.Context())
	if err != nil {
		log.Printf("CategoryListGet: failed to list categories: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити категорії"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"categories": categories})
}

// CategoryProposePost files a new category suggestion for moderation.
// The proposal sits in pending until a moderator approves or rejects it.
func (h *CategoryHandler) CategoryProposePost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var form ProposeCategoryForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}
	if err := h.validator.Struct(form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": helpers.FormatValidationErrors(validationErrs),
			})
			return
		}
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if form.ParentID != nil {
		parent, err := h.categoryRepo.FindByID(r.Context(), *form.ParentID)
		if err != nil {
			log.Printf("CategoryProposePost: failed to load parent %s: %v", *form.ParentID, err)
			_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
			return
		}
		if parent == nil {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": map[string]string{"parent_id": "батьківську категорію не знайдено"},
			})
			return
		}
	}

	proposal := &models.CategoryProposal{
		Title:       form.Title,
		ParentID:    form.ParentID,
		Description: form.Description,
		UserID:      userID,
		Status:      models.ProposalStatusPending,
	}
	if err := h.proposalRepo.Create(r.Context(), proposal); err != nil {
		log.Printf("CategoryProposePost: failed to create proposal: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося подати пропозицію"})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"id": proposal.ID, "status": proposal.Status})
}
