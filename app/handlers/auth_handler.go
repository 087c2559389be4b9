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
	"github.com/poslugy/marketplace/app/utils/sessions"
	"github.com/unrolled/render"
)

type AuthHandler struct {
	render       *render.Render
	userRepo     repositories.UserRepositoryImpl
	sessionStore sessions.SessionStore
	validator    *validator.Validate
}

func NewAuthHandler(r *render.Render, userRepo repositories.UserRepositoryImpl, sessionStore sessions.SessionStore, validator *validator.Validate) *AuthHandler {
	return &AuthHandler{
		render:       r,
		userRepo:     userRepo,
		sessionStore: sessionStore,
		validator:    validator,
	}
}

type RegisterForm struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) RegisterPost(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
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

	existing, err := h.userRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("RegisterPost: failed to check email %s: %v", form.Email, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if existing != nil {
		_ = h.render.JSON(w, http.StatusConflict, map[string]string{"error": "користувач з таким email вже існує"})
		return
	}

	user := &models.User{
		Username:  form.Username,
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	}
	if err := h.userRepo.Create(r.Context(), user); err != nil {
		log.Printf("RegisterPost: failed to create user %s: %v", form.Email, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося створити користувача"})
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("RegisterPost: failed to set session for user %s: %v", user.ID, err)
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]string{"id": user.ID, "username": user.Username})
}

func (h *AuthHandler) LoginPost(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}

	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "email та пароль обов'язкові"})
		return
	}

	user, err := h.userRepo.FindByEmail(r.Context(), form.Email)
	if err != nil {
		log.Printf("LoginPost: failed to get user by email %s: %v", form.Email, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if user == nil || !helpers.CheckPassword(user.Password, form.Password) {
		_ = h.render.JSON(w, http.StatusUnauthorized, map[string]string{"error": "невірний email або пароль"})
		return
	}

	if err := h.sessionStore.SetUserID(w, r, user.ID); err != nil {
		log.Printf("LoginPost: failed to set session for user %s: %v", user.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося створити сесію"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]string{"id": user.ID, "username": user.Username})
}

func (h *AuthHandler) LogoutPost(w http.ResponseWriter, r *http.Request) {
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		log.Printf("LogoutPost: failed to clear session: %v", err)
	}
	_ = h.render.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
