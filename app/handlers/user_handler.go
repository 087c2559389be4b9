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
	"github.com/poslugy/marketplace/app/utils/format"
	"github.com/poslugy/marketplace/app/utils/sessions"
	"github.com/unrolled/render"
)

type UserHandler struct {
	render         *render.Render
	userRepo       repositories.UserRepositoryImpl
	actionRepo     repositories.ActionRepositoryImpl
	userService    *services.UserService
	recommendation *services.RecommendationService
	sessionStore   sessions.SessionStore
	validator      *validator.Validate
}

func NewUserHandler(
	r *render.Render,
	userRepo repositories.UserRepositoryImpl,
	actionRepo repositories.ActionRepositoryImpl,
	userService *services.UserService,
	recommendation *services.RecommendationService,
	sessionStore sessions.SessionStore,
	validator *validator.Validate,
) *UserHandler {
	return &UserHandler{
		render:         r,
		userRepo:       userRepo,
		actionRepo:     actionRepo,
		userService:    userService,
		recommendation: recommendation,
		sessionStore:   sessionStore,
		validator:      validator,
	}
}

type UpdateProfileForm struct {
	FirstName   string `json:"first_name" validate:"max=100"`
	LastName    string `json:"last_name" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=64"`
	Country     string `json:"country" validate:"max=64"`
	City        string `json:"city" validate:"max=64"`
	Speciality  string `json:"speciality" validate:"max=50"`
	Description string `json:"description" validate:"max=3000"`
	Skills      string `json:"skills" validate:"max=512"`
}

type TopUpForm struct {
	Amount     int    `json:"amount" validate:"required,min=100"`
	CardNumber string `json:"card_number" validate:"required,min=12,max=19"`
}

type SetModeForm struct {
	Mode string `json:"mode" validate:"required,oneof=buyer provider"`
}

// ProfileGet shows the public profile of any user by username.
func (h *UserHandler) ProfileGet(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	user, err := h.userRepo.FindByUsername(r.Context(), username)
	if err != nil {
		log.Printf("ProfileGet: failed to load user %s: %v", username, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if user == nil {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "користувача не знайдено"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"username":    user.Username,
		"full_name":   user.FullName(),
		"location":    user.Location(),
		"speciality":  user.Speciality,
		"description": user.Description,
		"skills":      user.Skills,
	})
}

// MeGet returns the authenticated user's own account, including the
// balance and recently viewed services.
func (h *UserHandler) MeGet(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())
	if user == nil {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "потрібна авторизація"})
		return
	}

	views, err := h.actionRepo.LatestViews(r.Context(), user.ID, models.EntityKindService, 6)
	if err != nil {
		log.Printf("MeGet: failed to load recent views for user %s: %v", user.ID, err)
	}

	// Email, phone and balance are stripped from User JSON; the owner
	// gets them back here explicitly.
	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"user":             user,
		"email":            user.Email,
		"phone":            user.Phone,
		"balance":          format.Hryvnia(user.Balance),
		"mode":             h.sessionStore.GetUserMode(r),
		"recently_viewed":  views,
		"needs_onboarding": !user.QuestionnaireCompleted,
	})
}

func (h *UserHandler) ProfileUpdatePost(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())

	var form UpdateProfileForm
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

	user.FirstName = form.FirstName
	user.LastName = form.LastName
	user.Phone = form.Phone
	user.Country = form.Country
	user.City = form.City
	user.Speciality = form.Speciality
	user.Description = form.Description
	user.Skills = form.Skills

	if err := h.userRepo.Update(r.Context(), user); err != nil {
		log.Printf("ProfileUpdatePost: failed to update user %s: %v", user.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося зберегти профіль"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// TopUpPost accepts a balance top-up request. The card charge runs in a
// background worker; the balance is credited once the charge settles.
func (h *UserHandler) TopUpPost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var form TopUpForm
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

	if err := h.userService.RequestTopUp(r.Context(), userID, form.Amount, form.CardNumber); err != nil {
		log.Printf("TopUpPost: failed to enqueue top-up for user %s: %v", userID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося прийняти поповнення"})
		return
	}

	_ = h.render.JSON(w, http.StatusAccepted, map[string]string{
		"status": "прийнято, баланс буде поповнено після обробки платежу",
	})
}

// OnboardingPost saves the short sign-up questions shown right after
// registration.
func (h *UserHandler) OnboardingPost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	if err := h.userService.SubmitOnboarding(r.Context(), userID, fields); err != nil {
		log.Printf("OnboardingPost: failed for user %s: %v", userID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося зберегти відповіді"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *UserHandler) QuestionnairePost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var questionnaire models.Questionnaire
	if err := json.NewDecoder(r.Body).Decode(&questionnaire); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	saved, err := h.userService.SubmitQuestionnaire(r.Context(), userID, &questionnaire)
	if err != nil {
		if errors.Is(err, services.ErrBudgetRange) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"errors": map[string]string{"budget_min": "мінімальний бюджет не може перевищувати максимальний"},
			})
			return
		}
		log.Printf("QuestionnairePost: failed for user %s: %v", userID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося зберегти анкету"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"questionnaire": saved})
}

// RecommendationsGet returns personalised service picks for the
// authenticated user.
func (h *UserHandler) RecommendationsGet(w http.ResponseWriter, r *http.Request) {
	user := helpers.GetUserFromContext(r.Context())
	if user == nil {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "потрібна авторизація"})
		return
	}

	picks, err := h.recommendation.ForUser(r.Context(), user, services.DefaultRecommendationLimit)
	if err != nil {
		log.Printf("RecommendationsGet: failed for user %s: %v", user.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося підібрати рекомендації"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"services": picks})
}

// SetModePost switches the session between buyer and provider views.
func (h *UserHandler) SetModePost(w http.ResponseWriter, r *http.Request) {
	var form SetModeForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "mode має бути buyer або provider"})
		return
	}

	if err := h.sessionStore.SetUserMode(w, r, form.Mode); err != nil {
		log.Printf("SetModePost: failed to save session: %v", err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося зберегти режим"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"mode": form.Mode})
}
