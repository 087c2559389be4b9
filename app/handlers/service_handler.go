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
	"github.com/poslugy/marketplace/app/utils/format"
	"github.com/unrolled/render"
)

const homeLatestServices = 8

type ServiceHandler struct {
	render       *render.Render
	serviceRepo  repositories.ServiceRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	actionRepo   repositories.ActionRepositoryImpl
	validator    *validator.Validate
}

func NewServiceHandler(
	r *render.Render,
	serviceRepo repositories.ServiceRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	actionRepo repositories.ActionRepositoryImpl,
	validator *validator.Validate,
) *ServiceHandler {
	return &ServiceHandler{
		render:       r,
		serviceRepo:  serviceRepo,
		categoryRepo: categoryRepo,
		actionRepo:   actionRepo,
		validator:    validator,
	}
}

type ServiceForm struct {
	Title        string `json:"title" validate:"required,max=70"`
	CategoryID   string `json:"category_id" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Requirements string `json:"requirements"`
	Price        int    `json:"price" validate:"required,min=1"`
	TermDays     int    `json:"term_days" validate:"required,min=1"`
	Options      string `json:"options"`
	PortfolioURL string `json:"portfolio_url" validate:"omitempty,url"`
	Image        string `json:"image"`
}

// HomeGet is the landing page payload: the category tree alongside the
// freshest active services.
func (h *ServiceHandler) HomeGet(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.ListWithServices(r.Context())
	if err != nil {
		log.Printf("HomeGet: failed to load categories: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}

	latest, err := h.serviceRepo.LatestActive(r.Context(), homeLatestServices)
	if err != nil {
		log.Printf("HomeGet: failed to load latest services: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"categories":      categories,
		"latest_services": latest,
	})
}

func (h *ServiceHandler) ServiceListGet(w http.ResponseWriter, r *http.Request) {
	filter := repositories.ServiceFilter{
		CategoryID: r.URL.Query().Get("category_id"),
		ProviderID: r.URL.Query().Get("provider_id"),
		Search:     r.URL.Query().Get("q"),
	}

	services, err := h.serviceRepo.List(r.Context(), filter)
	if err != nil {
		log.Printf("ServiceListGet: failed to list services: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити послуги"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"services": services})
}

// ServiceDetailGet shows one service and records the view in the action
// log when the viewer is signed in.
func (h *ServiceHandler) ServiceDetailGet(w http.ResponseWriter, r *http.Request) {
	serviceID := mux.Vars(r)["serviceID"]

	service, err := h.serviceRepo.GetByID(r.Context(), serviceID)
	if err != nil {
		log.Printf("ServiceDetailGet: failed to load service %s: %v", serviceID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if service == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "послугу не знайдено"})
		return
	}

	if viewerID := helpers.GetUserIDFromContext(r.Context()); viewerID != "" && viewerID != service.ProviderID {
		action := &models.Action{UserID: viewerID, Verb: models.ActionViewService, Target: service.Ref()}
		if err := h.actionRepo.Create(r.Context(), action); err != nil {
			log.Printf("ServiceDetailGet: failed to record view of %s: %v", serviceID, err)
		}
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"service": service,
		"price":   format.HryvniaInt(service.Price),
	})
}

func (h *ServiceHandler) ServiceCreatePost(w http.ResponseWriter, r *http.Request) {
	providerID := helpers.GetUserIDFromContext(r.Context())

	var form ServiceForm
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

	category, err := h.categoryRepo.FindByID(r.Context(), form.CategoryID)
	if err != nil {
		log.Printf("ServiceCreatePost: failed to load category %s: %v", form.CategoryID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if category == nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"errors": map[string]string{"category_id": "категорію не знайдено"},
		})
		return
	}

	service := &models.Service{
		ProviderID:   providerID,
		Title:        form.Title,
		CategoryID:   form.CategoryID,
		Description:  form.Description,
		Requirements: form.Requirements,
		Price:        form.Price,
		TermDays:     form.TermDays,
		Options:      form.Options,
		PortfolioURL: form.PortfolioURL,
		Image:        form.Image,
		IsActive:     true,
	}
	if err := h.serviceRepo.Create(r.Context(), service); err != nil {
		log.Printf("ServiceCreatePost: failed to create service: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося створити послугу"})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"id": service.ID})
}

// ServiceSetActivePost toggles a listing in or out of the catalog. Only
// the provider who owns it may do so.
func (h *ServiceHandler) ServiceSetActivePost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	serviceID := mux.Vars(r)["serviceID"]

	var form struct {
		Active bool `json:"active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	service, err := h.serviceRepo.GetByID(r.Context(), serviceID)
	if err != nil {
		log.Printf("ServiceSetActivePost: failed to load service %s: %v", serviceID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if service == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "послугу не знайдено"})
		return
	}
	if service.ProviderID != userID {
		_ = h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "послугу може змінювати лише її виконавець"})
		return
	}

	if err := h.serviceRepo.SetActive(r.Context(), serviceID, form.Active); err != nil {
		log.Printf("ServiceSetActivePost: failed to update service %s: %v", serviceID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося оновити послугу"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"id": serviceID, "active": form.Active})
}
