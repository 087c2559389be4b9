package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/poslugy/marketplace/app/helpers"
	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/services"
	"github.com/unrolled/render"
)

type ProjectHandler struct {
	render       *render.Render
	projectRepo  repositories.ProjectRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	actionRepo   repositories.ActionRepositoryImpl
	offerService *services.OfferService
	validator    *validator.Validate
}

func NewProjectHandler(
	r *render.Render,
	projectRepo repositories.ProjectRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	actionRepo repositories.ActionRepositoryImpl,
	offerService *services.OfferService,
	validator *validator.Validate,
) *ProjectHandler {
	return &ProjectHandler{
		render:       r,
		projectRepo:  projectRepo,
		categoryRepo: categoryRepo,
		actionRepo:   actionRepo,
		offerService: offerService,
		validator:    validator,
	}
}

type ProjectForm struct {
	Title                string `json:"title" validate:"required,max=70"`
	CategoryID           string `json:"category_id" validate:"required"`
	Description          string `json:"description" validate:"required"`
	Price                int    `json:"price" validate:"required,min=1"`
	IsHigherPriceAllowed bool   `json:"is_higher_price_allowed"`
	MaxPrice             *int   `json:"max_price" validate:"omitempty,min=1"`
}

type OfferForm struct {
	Comment string `json:"comment" validate:"max=1500"`
}

type OfferStatusForm struct {
	NewStatus string `json:"new_status" validate:"required,oneof=declined cancelled accepted"`
}

func (h *ProjectHandler) ProjectListGet(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ProjectFilter{
		CategoryID: r.URL.Query().Get("category_id"),
		CustomerID: r.URL.Query().Get("customer_id"),
	}

	projects, err := h.projectRepo.List(r.Context(), filter)
	if err != nil {
		log.Printf("ProjectListGet: failed to list projects: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити проєкти"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"projects": projects})
}

// ProjectDetailGet shows a project and records the view for signed-in
// visitors. Offers are not included; the customer lists them through
// OfferListGet.
func (h *ProjectHandler) ProjectDetailGet(w http.ResponseWriter, r *http.Request) {
	projectID := mux.Vars(r)["projectID"]

	project, err := h.projectRepo.GetByID(r.Context(), projectID)
	if err != nil {
		log.Printf("ProjectDetailGet: failed to load project %s: %v", projectID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if project == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "проєкт не знайдено"})
		return
	}

	if viewerID := helpers.GetUserIDFromContext(r.Context()); viewerID != "" && viewerID != project.CustomerID {
		action := &models.Action{UserID: viewerID, Verb: models.ActionViewProject, Target: project.Ref()}
		if err := h.actionRepo.Create(r.Context(), action); err != nil {
			log.Printf("ProjectDetailGet: failed to record view of %s: %v", projectID, err)
		}
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"project": project})
}

func (h *ProjectHandler) ProjectCreatePost(w http.ResponseWriter, r *http.Request) {
	customerID := helpers.GetUserIDFromContext(r.Context())

	var form ProjectForm
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
	if form.IsHigherPriceAllowed && form.MaxPrice != nil && *form.MaxPrice < form.Price {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": map[string]string{"max_price": "максимальна ціна не може бути меншою за бюджет"},
		})
		return
	}

	category, err := h.categoryRepo.FindByID(r.Context(), form.CategoryID)
	if err != nil {
		log.Printf("ProjectCreatePost: failed to load category %s: %v", form.CategoryID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if category == nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": map[string]string{"category_id": "категорію не знайдено"},
		})
		return
	}

	project := &models.Project{
		CustomerID:           customerID,
		Title:                form.Title,
		CategoryID:           form.CategoryID,
		Description:          form.Description,
		Price:                form.Price,
		IsHigherPriceAllowed: form.IsHigherPriceAllowed,
		MaxPrice:             form.MaxPrice,
		IsActive:             true,
	}
	if err := h.projectRepo.Create(r.Context(), project); err != nil {
		log.Printf("ProjectCreatePost: failed to create project: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося створити проєкт"})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"id": project.ID})
}

// ProjectSetActivePost lets the customer close or reopen their project
// for new offers.
func (h *ProjectHandler) ProjectSetActivePost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectID"]

	var form struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	project, err := h.projectRepo.GetByID(r.Context(), projectID)
	if err != nil {
		log.Printf("ProjectSetActivePost: failed to load project %s: %v", projectID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if project == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "проєкт не знайдено"})
		return
	}
	if project.CustomerID != userID {
		_ = h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "проєкт може змінювати лише його замовник"})
		return
	}

	if err := h.projectRepo.SetActive(r.Context(), projectID, form.Active); err != nil {
		log.Printf("ProjectSetActivePost: failed to update project %s: %v", projectID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося оновити проєкт"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"id": projectID, "active": form.Active})
}

// OfferListGet returns the project's bids to its customer.
func (h *ProjectHandler) OfferListGet(w http.ResponseWriter, r *http.Request) {
	actorID := helpers.GetUserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectID"]

	offers, err := h.offerService.ListForProject(r.Context(), projectID, actorID)
	if err != nil {
		if errors.Is(err, services.ErrNotOfferActor) {
			_ = h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "пропозиції проєкту бачить лише його замовник"})
			return
		}
		h.renderOfferError(w, err)
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"offers": offers})
}

// OfferCreatePost submits a bid on a project. Business rejections
// (inactive project, own project, already-accepted offer) come back as
// an unapplied result, not an error.
func (h *ProjectHandler) OfferCreatePost(w http.ResponseWriter, r *http.Request) {
	candidateID := helpers.GetUserIDFromContext(r.Context())
	projectID := mux.Vars(r)["projectID"]

	var form OfferForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "занадто довгий коментар"})
		return
	}

	offer, result, err := h.offerService.Create(r.Context(), projectID, candidateID, form.Comment)
	if err != nil {
		h.renderOfferError(w, err)
		return
	}
	if !result.Applied {
		_ = h.render.JSON(w, http.StatusConflict, map[string]interface{}{
			"applied": false,
			"reason":  result.Reason,
		})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"id": offer.ID, "status": offer.Status})
}

func (h *ProjectHandler) OfferSetStatusPost(w http.ResponseWriter, r *http.Request) {
	actorID := helpers.GetUserIDFromContext(r.Context())
	offerID := mux.Vars(r)["offerID"]

	var form OfferStatusForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "new_status має бути declined, cancelled або accepted"})
		return
	}

	result, err := h.offerService.SetStatus(r.Context(), offerID, form.NewStatus, actorID)
	if err != nil {
		h.renderOfferError(w, err)
		return
	}

	status := http.StatusOK
	if !result.Applied {
		status = http.StatusConflict
	}
	_ = h.render.JSON(w, status, map[string]interface{}{
		"applied": result.Applied,
		"reason":  result.Reason,
	})
}

func (h *ProjectHandler) renderOfferError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "проєкт не знайдено"})
	case errors.Is(err, services.ErrOfferNotFound):
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "пропозицію не знайдено"})
	case errors.Is(err, services.ErrNotOfferActor):
		_ = h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "пропозицію можуть змінювати лише замовник проєкту або кандидат"})
	default:
		log.Printf("ProjectHandler: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
	}
}
