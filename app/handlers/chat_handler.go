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

type ChatHandler struct {
	render      *render.Render
	chatService *services.ChatService
	resolver    *repositories.EntityResolver
	validator   *validator.Validate
}

func NewChatHandler(r *render.Render, chatService *services.ChatService, resolver *repositories.EntityResolver, validator *validator.Validate) *ChatHandler {
	return &ChatHandler{render: r, chatService: chatService, resolver: resolver, validator: validator}
}

type PostMessageForm struct {
	Text string `json:"text" validate:"required,max=3000"`
	File string `json:"file" validate:"max=255"`
}

func topicFromRequest(r *http.Request) models.EntityRef {
	vars := mux.Vars(r)
	return models.EntityRef{Kind: models.EntityKind(vars["kind"]), ID: vars["topicID"]}
}

// resolveTopic loads the topic entity and returns the actor's
// counterpart as the recipient. Threads exist only for orders, and an
// order's thread is readable and writable only by its two actors.
func (h *ChatHandler) resolveTopic(r *http.Request, actorID string) (models.EntityRef, string, int, string) {
	topic := topicFromRequest(r)
	if topic.Kind != models.EntityKindOrder {
		return topic, "", http.StatusNotFound, "чат доступний лише в межах замовлення"
	}

	entity, err := h.resolver.Resolve(r.Context(), topic)
	if err != nil {
		log.Printf("ChatHandler: failed to resolve topic %s/%s: %v", topic.Kind, topic.ID, err)
		return topic, "", http.StatusInternalServerError, "внутрішня помилка сервера"
	}

	order, ok := entity.(*models.Order)
	if !ok || order == nil {
		return topic, "", http.StatusNotFound, "замовлення не знайдено"
	}

	switch actorID {
	case order.CustomerID:
		return topic, order.ProviderID, 0, ""
	case order.ProviderID:
		return topic, order.CustomerID, 0, ""
	default:
		return topic, "", http.StatusForbidden, "чат замовлення доступний лише його учасникам"
	}
}

func (h *ChatHandler) MessagePost(w http.ResponseWriter, r *http.Request) {
	senderID := helpers.GetUserIDFromContext(r.Context())

	var form PostMessageForm
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

	topic, recipientID, failStatus, failMessage := h.resolveTopic(r, senderID)
	if failStatus != 0 {
		_ = h.render.JSON(w, failStatus, map[string]string{"error": failMessage})
		return
	}

	message, err := h.chatService.PostMessage(r.Context(), senderID, recipientID, topic, form.Text, form.File)
	if err != nil {
		if errors.Is(err, services.ErrSelfMessage) {
			_ = h.render.JSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "не можна надіслати повідомлення самому собі"})
			return
		}
		log.Printf("MessagePost: failed to post message in %s/%s: %v", topic.Kind, topic.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося надіслати повідомлення"})
		return
	}

	_ = h.render.JSON(w, http.StatusCreated, map[string]interface{}{"message": message})
}

// MessagesGet lists the topic's thread oldest-first and marks the
// reader's unread messages as read.
func (h *ChatHandler) MessagesGet(w http.ResponseWriter, r *http.Request) {
	readerID := helpers.GetUserIDFromContext(r.Context())

	topic, _, failStatus, failMessage := h.resolveTopic(r, readerID)
	if failStatus != 0 {
		_ = h.render.JSON(w, failStatus, map[string]string{"error": failMessage})
		return
	}

	messages, err := h.chatService.MessagesForTopic(r.Context(), topic)
	if err != nil {
		log.Printf("MessagesGet: failed to list messages for %s/%s: %v", topic.Kind, topic.ID, err)
		_ = h.render.JSON(w, http.StatusInternalServerError, map[string]string{"error": "не вдалося завантажити повідомлення"})
		return
	}

	if err := h.chatService.MarkTopicRead(r.Context(), topic, readerID); err != nil {
		log.Printf("MessagesGet: failed to mark %s/%s read: %v", topic.Kind, topic.ID, err)
	}

	_ = h.render.JSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}
