package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Users are embedded into order, service, project and offer payloads,
// so nothing private to the account owner may survive marshaling.
func TestUserJSONOmitsPrivateFields(t *testing.T) {
	user := &User{
		ID:          "u1",
		Username:    "oksana",
		FirstName:   "Оксана",
		Email:       "oksana@example.com",
		Password:    "$2a$10$abcdefghijklmnopqrstuv",
		Phone:       "+380501112233",
		Balance:     decimal.NewFromInt(750),
		HasChildren: true,
		HomeType:    HomeTypeHouse,
		Questionnaire: &Questionnaire{
			BudgetMax: 500,
			Notes:     "лише перевірені виконавці",
		},
	}

	payload, err := json.Marshal(user)
	require.NoError(t, err)

	body := string(payload)
	assert.NotContains(t, body, "$2a$10$")
	assert.NotContains(t, body, "Password")
	assert.NotContains(t, body, "oksana@example.com")
	assert.NotContains(t, body, "+380501112233")
	assert.NotContains(t, body, "750")
	assert.NotContains(t, body, "budget_max")
	assert.NotContains(t, body, "has_children")

	assert.Contains(t, body, `"username":"oksana"`)
	assert.Contains(t, body, `"first_name":"Оксана"`)
}

func TestUserFullNameAndLocation(t *testing.T) {
	user := &User{FirstName: "Оксана", LastName: "Коваль", Country: "Україна", City: "Львів"}

	assert.Equal(t, "Оксана Коваль", user.FullName())
	assert.Equal(t, "Львів, Україна", user.Location())

	assert.Equal(t, "Україна", (&User{Country: "Україна"}).Location())
	assert.Equal(t, "Київ", (&User{City: "Київ"}).Location())
}
