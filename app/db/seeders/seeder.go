package seeders

import (
	"fmt"
	"log"

	"github.com/poslugy/marketplace/app/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedUser struct {
	Username string
	Email    string
	Role     string
	Balance  int64
}

type seedService struct {
	Title    string
	Category string
	Price    int
	TermDays int
	Provider string
}

var seedCategories = map[string][]string{
	"Дім":       {"Прибирання", "Ремонт", "Догляд за тваринами", "Догляд за дітьми"},
	"Дизайн":    {"Логотипи", "Веб-дизайн", "Ілюстрації"},
	"Розробка":  {"Сайти", "Мобільні застосунки"},
	"Маркетинг": {"SMM", "Контекстна реклама"},
	"Тексти":    {"Копірайтинг", "Редагування"},
	"Переклад":  {},
	"Авто":      {"Перегон авто", "Діагностика"},
}

var seedUsers = []seedUser{
	{Username: "moderator", Email: "moderator@poslugy.ua", Role: models.RoleAdmin, Balance: 0},
	{Username: "oksana_clean", Email: "oksana@poslugy.ua", Role: models.RoleUser, Balance: 500},
	{Username: "taras_dev", Email: "taras@poslugy.ua", Role: models.RoleUser, Balance: 1200},
	{Username: "iryna_design", Email: "iryna@poslugy.ua", Role: models.RoleUser, Balance: 300},
}

var seedServices = []seedService{
	{Title: "Прибирання квартири", Category: "Прибирання", Price: 400, TermDays: 1, Provider: "oksana_clean"},
	{Title: "Собаче вигулювання", Category: "Догляд за тваринами", Price: 300, TermDays: 1, Provider: "oksana_clean"},
	{Title: "Няня на вихідні", Category: "Догляд за дітьми", Price: 700, TermDays: 2, Provider: "oksana_clean"},
	{Title: "Лендінг під ключ", Category: "Сайти", Price: 5000, TermDays: 14, Provider: "taras_dev"},
	{Title: "Логотип для бізнесу", Category: "Логотипи", Price: 1500, TermDays: 5, Provider: "iryna_design"},
	{Title: "Дизайн візитки", Category: "Ілюстрації", Price: 350, TermDays: 2, Provider: "iryna_design"},
}

const seedPassword = "password123"

// DBSeed fills an empty database with a small demo catalog. It is
// idempotent: rows are matched by their natural keys before insert.
func DBSeed(db *gorm.DB) error {
	categoryIDs, err := seedCategoryTree(db)
	if err != nil {
		return err
	}

	userIDs, err := seedDemoUsers(db)
	if err != nil {
		return err
	}

	return seedDemoServices(db, categoryIDs, userIDs)
}

func seedCategoryTree(db *gorm.DB) (map[string]string, error) {
	ids := make(map[string]string)
	for rootTitle, children := range seedCategories {
		root := models.Category{Title: rootTitle}
		if err := db.Where("title = ? AND parent_id IS NULL", rootTitle).FirstOrCreate(&root).Error; err != nil {
			return nil, fmt.Errorf("failed to seed category %q: %w", rootTitle, err)
		}
		ids[rootTitle] = root.ID

		for _, childTitle := range children {
			child := models.Category{Title: childTitle, ParentID: &root.ID}
			if err := db.Where("title = ? AND parent_id = ?", childTitle, root.ID).FirstOrCreate(&child).Error; err != nil {
				return nil, fmt.Errorf("failed to seed category %q: %w", childTitle, err)
			}
			ids[childTitle] = child.ID
		}
	}
	return ids, nil
}

func seedDemoUsers(db *gorm.DB) (map[string]string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	ids := make(map[string]string)
	for _, su := range seedUsers {
		user := models.User{
			Username: su.Username,
			Email:    su.Email,
			Password: string(hash),
			Role:     su.Role,
			Balance:  decimal.NewFromInt(su.Balance),
		}
		if err := db.Where("username = ?", su.Username).FirstOrCreate(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to seed user %q: %w", su.Username, err)
		}
		ids[su.Username] = user.ID
	}
	return ids, nil
}

func seedDemoServices(db *gorm.DB, categoryIDs, userIDs map[string]string) error {
	for _, ss := range seedServices {
		categoryID, ok := categoryIDs[ss.Category]
		if !ok {
			log.Printf("DBSeed: skipping service %q, unknown category %q", ss.Title, ss.Category)
			continue
		}
		providerID, ok := userIDs[ss.Provider]
		if !ok {
			log.Printf("DBSeed: skipping service %q, unknown provider %q", ss.Title, ss.Provider)
			continue
		}

		service := models.Service{
			Title:       ss.Title,
			CategoryID:  categoryID,
			ProviderID:  providerID,
			Description: ss.Title,
			Price:       ss.Price,
			TermDays:    ss.TermDays,
			IsActive:    true,
		}
		if err := db.Where("title = ? AND provider_id = ?", ss.Title, providerID).FirstOrCreate(&service).Error; err != nil {
			return fmt.Errorf("failed to seed service %q: %w", ss.Title, err)
		}
	}
	return nil
}
