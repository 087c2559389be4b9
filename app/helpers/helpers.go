package helpers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/poslugy/marketplace/app/models"
	"golang.org/x/crypto/bcrypt"
)

type contextKey string

const (
	ContextKeyUserID contextKey = "userID"
	ContextKeyUser   contextKey = "userObject"
)

func GetUserIDFromContext(ctx context.Context) string {
	if userID, ok := ctx.Value(ContextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

func GetUserFromContext(ctx context.Context) *models.User {
	if user, ok := ctx.Value(ContextKeyUser).(*models.User); ok {
		return user
	}
	return nil
}

func FormatValidationErrors(errs validator.ValidationErrors) map[string]string {
	errorMessages := make(map[string]string)
	for _, err := range errs {
		field := strings.ToLower(err.Field())
		switch err.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("Поле %s обов'язкове.", err.Field())
		case "email":
			errorMessages[field] = fmt.Sprintf("Поле %s має бути коректною email-адресою.", err.Field())
		case "numeric":
			errorMessages[field] = fmt.Sprintf("Поле %s має бути числом.", err.Field())
		case "min":
			errorMessages[field] = fmt.Sprintf("Поле %s: мінімум %s.", err.Field(), err.Param())
		case "max":
			errorMessages[field] = fmt.Sprintf("Поле %s: максимум %s.", err.Field(), err.Param())
		case "oneof":
			errorMessages[field] = fmt.Sprintf("Поле %s: допустимі значення %s.", err.Field(), err.Param())
		default:
			errorMessages[field] = fmt.Sprintf("Поле %s некоректне.", err.Field())
		}
	}
	return errorMessages
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
