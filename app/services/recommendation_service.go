package services

import (
	"context"
	"fmt"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
)

const DefaultRecommendationLimit = 12

// triggerRule maps a satisfied condition to title keyword stems.
type triggerRule struct {
	satisfied bool
	keywords  []string
}

// RecommendationService is a transparent rule engine over the user's
// onboarding flags and detailed questionnaire. Deliberately not a
// learned ranker: the catalog is cold-start, so explainable keyword and
// budget rules with graceful degradation win over relevance scoring.
//
// Pass order is part of the contract: keyword match, budget filter,
// online tie-break, category fallback, recency fallback. Callers rely
// on always getting something back while any active service survives
// the budget filter.
type RecommendationService struct {
	serviceRepo  repositories.ServiceRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
}

func NewRecommendationService(serviceRepo repositories.ServiceRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl) *RecommendationService {
	return &RecommendationService{serviceRepo: serviceRepo, categoryRepo: categoryRepo}
}

func (s *RecommendationService) ForUser(ctx context.Context, user *models.User, limit int) ([]models.Service, error) {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}
	dq := user.Questionnaire

	rules := []triggerRule{
		{user.HasChildren, []string{"няня", "дит", "репетитор"}},
		{user.HasPets, []string{"твар", "кіт", "собак", "догляд за твар", "вет"}},
		{user.HomeType == models.HomeTypeApartment || user.HomeType == models.HomeTypeHouse,
			[]string{"прибиран", "ремонт", "сантех", "електрик"}},
		{user.CarOwner, []string{"авто", "шиномонтаж", "діагност", "заміна масла"}},
		{user.PreferOnlineServices, []string{"дизайн", "розроб", "маркет", "копірай", "переклад"}},
	}

	if dq != nil {
		rules = append(rules,
			triggerRule{dq.InterestedChildren || dq.HouseholdChildren > 0 || dq.HasInfants,
				[]string{"няня", "репетитор", "садок", "догляд за дітьми"}},
			triggerRule{dq.InterestedPets || dq.PetsCats || dq.PetsDogs || dq.PetsOther,
				[]string{"вигул", "догляд за твар", "грумінг"}},
			triggerRule{dq.InterestedHome || dq.DwellingType == models.HomeTypeApartment || dq.DwellingType == models.HomeTypeHouse,
				[]string{"прибиран", "миття вікон", "ремонт", "сантех", "електрик"}},
			triggerRule{dq.InterestedAuto || dq.CarOwner,
				[]string{"СТО", "шиномонтаж", "діагност", "евакуатор"}},
			triggerRule{dq.InterestedIT, []string{"сайт", "дизайн", "розроб", "SEO", "SMM"}},
			triggerRule{dq.InterestedMarketing, []string{"маркет", "таргет", "SMM", "контент"}},
			triggerRule{dq.InterestedTranslation, []string{"переклад", "локалізація"}},
			triggerRule{dq.InterestedAdmin, []string{"адміністрат", "підтримка", "віртуальний асистент"}},
		)
	}

	matched, err := s.keywordMatch(ctx, rules, limit)
	if err != nil {
		return nil, err
	}

	query := repositories.RecommendationQuery{Limit: limit}
	if len(matched) > 0 {
		query.IDs = matched
	}
	if dq != nil {
		query.MinPrice = dq.BudgetMin
		query.MaxPrice = dq.BudgetMax
		query.ActiveFirst = dq.PreferOnline
	}

	if len(matched) > 0 {
		return s.serviceRepo.ListActiveFiltered(ctx, query)
	}

	// No keyword hits: fall back to online-friendly category names.
	if user.PreferOnlineServices {
		categoryIDs, err := s.categoryRepo.FindIDsByTitleLike(ctx,
			[]string{"Дизайн", "Розробка", "Маркетинг", "Тексти", "Переклад"})
		if err != nil {
			return nil, fmt.Errorf("failed to match fallback categories: %w", err)
		}
		if len(categoryIDs) > 0 {
			query.CategoryIDs = categoryIDs
			services, err := s.serviceRepo.ListActiveFiltered(ctx, query)
			if err != nil {
				return nil, err
			}
			if len(services) > 0 {
				return services, nil
			}
			query.CategoryIDs = nil
		}
	}

	// Final fallback: newest active services.
	query.NewestFirst = true
	return s.serviceRepo.ListActiveFiltered(ctx, query)
}

func (s *RecommendationService) keywordMatch(ctx context.Context, rules []triggerRule, limit int) ([]string, error) {
	seen := make(map[string]bool)
	var matched []string
	for _, rule := range rules {
		if !rule.satisfied {
			continue
		}
		for _, keyword := range rule.keywords {
			ids, err := s.serviceRepo.SearchActiveIDsByTitle(ctx, keyword, limit)
			if err != nil {
				return nil, fmt.Errorf("failed to search services by keyword %q: %w", keyword, err)
			}
			for _, id := range ids {
				if !seen[id] {
					seen[id] = true
					matched = append(matched, id)
				}
			}
		}
	}
	return matched, nil
}
