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

type OrderHandler struct {
	render       *render.Render
	orderService *services.OrderService
	chatService  *services.ChatService
	serviceRepo  repositories.ServiceRepositoryImpl
	actionRepo   repositories.ActionRepositoryImpl
	sessionStore sessions.SessionStore
	validator    *validator.Validate
}

func NewOrderHandler(
	r *render.Render,
	orderService *services.OrderService,
	chatService *services.ChatService,
	serviceRepo repositories.ServiceRepositoryImpl,
	actionRepo repositories.ActionRepositoryImpl,
	sessionStore sessions.SessionStore,
	validator *validator.Validate,
) *OrderHandler {
	return &OrderHandler{
		render:       r,
		orderService: orderService,
		chatService:  chatService,
		serviceRepo:  serviceRepo,
		actionRepo:   actionRepo,
		sessionStore: sessionStore,
		validator:    validator,
	}
}

type CreateServiceOrderForm struct {
	ServiceID string `json:"service_id" validate:"required"`
	Comment   string `json:"comment" validate:"max=1500"`
}

type OrderChangeStatusForm struct {
	NewStatus string `json:"new_status" validate:"required"`
}

// OrderCreatePost places an order for a service, paying from the
// customer's balance up front.
func (h *OrderHandler) OrderCreatePost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())

	var form CreateServiceOrderForm
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

	service, err := h.serviceRepo.GetByID(r.Context(), form.ServiceID)
	if err != nil {
		log.Printf("OrderCreatePost: failed to load service %s: %v", form.ServiceID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
		return
	}
	if service == nil || !service.IsActive {
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "послугу не знайдено"})
		return
	}
	if service.ProviderID == userID {
		_ = h.render.JSON(w, http.StatusConflict, map[string]interface{}{
			"applied": false,
			"reason":  "не можна замовити власну послугу",
		})
		return
	}

	order, payment, err := h.orderService.CreateForService(r.Context(), userID, service, form.Comment)
	if err != nil {
		log.Printf("OrderCreatePost: failed to create order for service %s: %v", service.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося створити замовлення"})
		return
	}
	if !payment.Paid {
		_ = h.render.JSON(w, http.StatusConflict, map[string]interface{}{
			"applied": false,
			"reason":  payment.Reason,
		})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{
		"id":     order.ID,
		"status": order.Status,
		"price":  format.HryvniaInt(order.Price),
	})
}

// OrderListGet lists the user's orders for the session's browsing mode.
func (h *OrderHandler) OrderListGet(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	mode := h.sessionStore.GetUserMode(r)

	orders, err := h.orderService.ListForUser(r.Context(), userID, mode)
	if err != nil {
		log.Printf("OrderListGet: failed to list orders for user %s: %v", userID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити замовлення"})
		return
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"mode": mode, "orders": orders})
}

// OrderDetailGet shows one order with its audit trail and chat thread.
// Only the order's customer or provider may view it.
func (h *OrderHandler) OrderDetailGet(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["orderID"]

	order, err := h.orderService.GetForActor(r.Context(), orderID, userID)
	if err != nil {
		h.renderOrderError(w, orderID, err)
		return
	}

	actions, err := h.actionRepo.ListForTarget(r.Context(), order.Ref())
	if err != nil {
		log.Printf("OrderDetailGet: failed to load actions for order %s: %v", orderID, err)
	}
	messages, err := h.chatService.MessagesForTopic(r.Context(), order.Ref())
	if err != nil {
		log.Printf("OrderDetailGet: failed to load messages for order %s: %v", orderID, err)
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{
		"order":               order,
		"actions":             actions,
		"messages":            messages,
		"allowed_transitions": models.AllowedOrderTransitions(order.Status, order.RoleOf(userID)),
	})
}

// OrderSetStatusPost requests a state-machine transition. An illegal
// transition is not an error: the response reports it was not applied,
// with the reason.
func (h *OrderHandler) OrderSetStatusPost(w http.ResponseWriter, r *http.Request) {
	userID := helpers.GetUserIDFromContext(r.Context())
	orderID := mux.Vars(r)["orderID"]

	var form OrderChangeStatusForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		_ = h.render.JSON(w, http.StatusBadRequest, map[string]string{"error": "некоректне тіло запиту"})
		return
	}
	if err := h.validator.Struct(form); err != nil {
		_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "new_status обов'язковий"})
		return
	}

	result, err := h.orderService.SetStatus(r.Context(), orderID, models.OrderStatus(form.NewStatus), userID)
	if err != nil {
		h.renderOrderError(w, orderID, err)
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

func (h *OrderHandler) renderOrderError(w http.ResponseWriter, orderID string, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound):
		_ = h.render.JSON(w, http.StatusNotFound, map[string]string{"error": "замовлення не знайдено"})
	case errors.Is(err, services.ErrNotOrderActor):
		_ = h.render.JSON(w, http.StatusForbidden, map[string]string{"error": "статус замовлення можуть змінювати лише замовник або виконавець"})
	default:
		log.Printf("OrderHandler: order %s: %v", orderID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "внутрішня помилка сервера"})
	}
}
