package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/unrolled/render"
)

func chatTopicRequest(kind, topicID string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/chats/"+kind+"/"+topicID+"/messages", nil)
	return mux.SetURLVars(r, map[string]string{"kind": kind, "topicID": topicID})
}

func newChatHandlerWithOrder(order *models.Order) *ChatHandler {
	resolver := repositories.NewEntityResolver()
	resolver.Register(models.EntityKindOrder, func(ctx context.Context, id string) (interface{}, error) {
		if order != nil && order.ID == id {
			return order, nil
		}
		return (*models.Order)(nil), nil
	})
	return NewChatHandler(render.New(), nil, resolver, validator.New())
}

func TestResolveTopicOrderActors(t *testing.T) {
	h := newChatHandlerWithOrder(&models.Order{ID: "o1", CustomerID: "customer", ProviderID: "provider"})

	topic, recipient, status, _ := h.resolveTopic(chatTopicRequest("order", "o1"), "customer")
	assert.Equal(t, 0, status)
	assert.Equal(t, "provider", recipient)
	assert.Equal(t, models.EntityRef{Kind: models.EntityKindOrder, ID: "o1"}, topic)

	_, recipient, status, _ = h.resolveTopic(chatTopicRequest("order", "o1"), "provider")
	assert.Equal(t, 0, status)
	assert.Equal(t, "customer", recipient)
}

// A third party must not be able to read or extend an order's thread,
// even when authenticated.
func TestResolveTopicRejectsOutsider(t *testing.T) {
	h := newChatHandlerWithOrder(&models.Order{ID: "o1", CustomerID: "customer", ProviderID: "provider"})

	_, _, status, _ := h.resolveTopic(chatTopicRequest("order", "o1"), "stranger")
	assert.Equal(t, http.StatusForbidden, status)
}

// Threads exist only for orders; listing pages are not topics.
func TestResolveTopicRejectsNonOrderKinds(t *testing.T) {
	h := newChatHandlerWithOrder(&models.Order{ID: "o1", CustomerID: "customer", ProviderID: "provider"})

	for _, kind := range []string{"service", "project", "bogus"} {
		_, _, status, _ := h.resolveTopic(chatTopicRequest(kind, "o1"), "customer")
		assert.Equal(t, http.StatusNotFound, status, kind)
	}
}

func TestResolveTopicUnknownOrder(t *testing.T) {
	h := newChatHandlerWithOrder(nil)

	_, _, status, _ := h.resolveTopic(chatTopicRequest("order", "missing"), "customer")
	assert.Equal(t, http.StatusNotFound, status)
}
