package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/poslugy/marketplace/app/models"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/shopspring/decimal"
)

// In-memory repository fakes. They imitate the gorm implementations'
// contracts: not-found reads return (nil, nil), guarded updates report
// whether they won.

type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) UpdateOnboarding(ctx context.Context, userID string, fields map[string]interface{}) error {
	return nil
}

func (f *fakeUserRepo) MarkQuestionnaireCompleted(ctx context.Context, userID string) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	user.QuestionnaireCompleted = true
	return nil
}

func (f *fakeUserRepo) DebitBalanceIfSufficient(ctx context.Context, userID string, amount decimal.Decimal) (bool, error) {
	user, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	if user.Balance.LessThan(amount) {
		return false, nil
	}
	user.Balance = user.Balance.Sub(amount)
	return true, nil
}

func (f *fakeUserRepo) CreditBalance(ctx context.Context, userID string, amount decimal.Decimal) error {
	user, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("user %s not found", userID)
	}
	user.Balance = user.Balance.Add(amount)
	return nil
}

type fakeActionRepo struct {
	actions []models.Action
}

func (f *fakeActionRepo) Create(ctx context.Context, action *models.Action) error {
	f.actions = append(f.actions, *action)
	return nil
}

func (f *fakeActionRepo) ListForTarget(ctx context.Context, target models.EntityRef) ([]models.Action, error) {
	var out []models.Action
	for _, a := range f.actions {
		if a.Target == target {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActionRepo) LatestViews(ctx context.Context, userID string, kind models.EntityKind, limit int) ([]models.Action, error) {
	var out []models.Action
	for _, a := range f.actions {
		if a.UserID == userID && a.Target.Kind == kind && len(out) < limit {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeActionRepo) verbs() []string {
	var verbs []string
	for _, a := range f.actions {
		verbs = append(verbs, a.Verb)
	}
	return verbs
}

type fakeOrderRepo struct {
	orders map[string]*models.Order
	nextID int
}

func newFakeOrderRepo(orders ...*models.Order) *fakeOrderRepo {
	repo := &fakeOrderRepo{orders: make(map[string]*models.Order)}
	for _, o := range orders {
		repo.orders[o.ID] = o
	}
	return repo
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		f.nextID++
		order.ID = fmt.Sprintf("order-%d", f.nextID)
	}
	f.orders[order.ID] = order
	return nil
}

func (f *fakeOrderRepo) GetByID(ctx context.Context, id string) (*models.Order, error) {
	order, ok := f.orders[id]
	if !ok {
		return nil, nil
	}
	copied := *order
	return &copied, nil
}

func (f *fakeOrderRepo) ListAsCustomer(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.CustomerID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListAsProvider(ctx context.Context, userID string) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.ProviderID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) UpdateStatusGuarded(ctx context.Context, orderID string, from, to models.OrderStatus) (bool, error) {
	order, ok := f.orders[orderID]
	if !ok || order.Status != from {
		return false, nil
	}
	order.Status = to
	order.IsCompleted, order.IsPaid, order.IsCancelled = models.DerivedFlags(to)
	return true, nil
}

type fakeProjectRepo struct {
	projects map[string]*models.Project
}

func newFakeProjectRepo(projects ...*models.Project) *fakeProjectRepo {
	repo := &fakeProjectRepo{projects: make(map[string]*models.Project)}
	for _, p := range projects {
		repo.projects[p.ID] = p
	}
	return repo
}

func (f *fakeProjectRepo) Create(ctx context.Context, project *models.Project) error {
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjectRepo) List(ctx context.Context, filter repositories.ProjectFilter) ([]models.Project, error) {
	var out []models.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeProjectRepo) SetActive(ctx context.Context, projectID string, active bool) error {
	if p, ok := f.projects[projectID]; ok {
		p.IsActive = active
	}
	return nil
}

type fakeOfferRepo struct {
	offers   map[string]*models.Offer
	projects *fakeProjectRepo
	nextID   int
}

func newFakeOfferRepo(projects *fakeProjectRepo, offers ...*models.Offer) *fakeOfferRepo {
	repo := &fakeOfferRepo{offers: make(map[string]*models.Offer), projects: projects}
	for _, o := range offers {
		repo.offers[o.ID] = o
	}
	return repo
}

func (f *fakeOfferRepo) Create(ctx context.Context, offer *models.Offer) error {
	if offer.ID == "" {
		f.nextID++
		offer.ID = fmt.Sprintf("offer-%d", f.nextID)
	}
	f.offers[offer.ID] = offer
	return nil
}

func (f *fakeOfferRepo) GetByID(ctx context.Context, id string) (*models.Offer, error) {
	offer, ok := f.offers[id]
	if !ok {
		return nil, nil
	}
	copied := *offer
	if project, ok := f.projects.projects[offer.ProjectID]; ok {
		copied.Project = *project
	}
	return &copied, nil
}

func (f *fakeOfferRepo) ListForProject(ctx context.Context, projectID string) ([]models.Offer, error) {
	var out []models.Offer
	for _, o := range f.offers {
		if o.ProjectID == projectID {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (f *fakeOfferRepo) HasAccepted(ctx context.Context, projectID string) (bool, error) {
	for _, o := range f.offers {
		if o.ProjectID == projectID && o.Status == models.OfferStatusAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOfferRepo) UpdateStatus(ctx context.Context, offerID, status string, isCancelled bool) error {
	offer, ok := f.offers[offerID]
	if !ok {
		return fmt.Errorf("offer %s not found", offerID)
	}
	offer.Status = status
	offer.IsCancelled = isCancelled
	return nil
}

func (f *fakeOfferRepo) AcceptAndDeclineSiblings(ctx context.Context, offerID, projectID string) error {
	accepted, ok := f.offers[offerID]
	if !ok {
		return fmt.Errorf("offer %s not found", offerID)
	}
	accepted.Status = models.OfferStatusAccepted
	accepted.IsCancelled = false
	for _, o := range f.offers {
		if o.ProjectID == projectID && o.ID != offerID && o.Status == models.OfferStatusCreated {
			o.Status = models.OfferStatusDeclined
			o.IsCancelled = true
		}
	}
	return nil
}

type fakeServiceRepo struct {
	services []models.Service
}

func (f *fakeServiceRepo) Create(ctx context.Context, service *models.Service) error {
	f.services = append(f.services, *service)
	return nil
}

func (f *fakeServiceRepo) GetByID(ctx context.Context, id string) (*models.Service, error) {
	for i := range f.services {
		if f.services[i].ID == id {
			return &f.services[i], nil
		}
	}
	return nil, nil
}

func (f *fakeServiceRepo) Update(ctx context.Context, service *models.Service) error {
	for i := range f.services {
		if f.services[i].ID == service.ID {
			f.services[i] = *service
		}
	}
	return nil
}

func (f *fakeServiceRepo) SetActive(ctx context.Context, serviceID string, active bool) error {
	for i := range f.services {
		if f.services[i].ID == serviceID {
			f.services[i].IsActive = active
		}
	}
	return nil
}

func (f *fakeServiceRepo) List(ctx context.Context, filter repositories.ServiceFilter) ([]models.Service, error) {
	return f.services, nil
}

func (f *fakeServiceRepo) LatestActive(ctx context.Context, limit int) ([]models.Service, error) {
	var out []models.Service
	for _, s := range f.services {
		if s.IsActive && len(out) < limit {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeServiceRepo) SearchActiveIDsByTitle(ctx context.Context, keyword string, limit int) ([]string, error) {
	var ids []string
	for _, s := range f.services {
		if !s.IsActive || len(ids) >= limit {
			continue
		}
		if strings.Contains(strings.ToLower(s.Title), strings.ToLower(keyword)) {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

func (f *fakeServiceRepo) ListActiveFiltered(ctx context.Context, q repositories.RecommendationQuery) ([]models.Service, error) {
	idSet := make(map[string]bool, len(q.IDs))
	for _, id := range q.IDs {
		idSet[id] = true
	}
	categorySet := make(map[string]bool, len(q.CategoryIDs))
	for _, id := range q.CategoryIDs {
		categorySet[id] = true
	}

	var out []models.Service
	for _, s := range f.services {
		if !s.IsActive {
			continue
		}
		if len(idSet) > 0 && !idSet[s.ID] {
			continue
		}
		if len(categorySet) > 0 && !categorySet[s.CategoryID] {
			continue
		}
		if q.MinPrice > 0 && s.Price < q.MinPrice {
			continue
		}
		if q.MaxPrice > 0 && s.Price > q.MaxPrice {
			continue
		}
		if q.Limit > 0 && len(out) >= q.Limit {
			break
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeCategoryRepo struct {
	categories []models.Category
	created    map[string]bool
}

func newFakeCategoryRepo(categories ...models.Category) *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: categories, created: make(map[string]bool)}
}

func categoryKey(title string, parentID *string) string {
	if parentID == nil {
		return title + "|root"
	}
	return title + "|" + *parentID
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) ListWithServices(ctx context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCategoryRepo) FindByID(ctx context.Context, id string) (*models.Category, error) {
	for i := range f.categories {
		if f.categories[i].ID == id {
			return &f.categories[i], nil
		}
	}
	return nil, nil
}

func (f *fakeCategoryRepo) FindIDsByTitleLike(ctx context.Context, keywords []string) ([]string, error) {
	seen := make(map[string]bool)
	var ids []string
	for _, kw := range keywords {
		for _, c := range f.categories {
			if strings.Contains(strings.ToLower(c.Title), strings.ToLower(kw)) && !seen[c.ID] {
				seen[c.ID] = true
				ids = append(ids, c.ID)
			}
		}
	}
	return ids, nil
}

func (f *fakeCategoryRepo) GetOrCreate(ctx context.Context, title string, parentID *string) (*models.Category, bool, error) {
	key := categoryKey(title, parentID)
	for i := range f.categories {
		if categoryKey(f.categories[i].Title, f.categories[i].ParentID) == key {
			return &f.categories[i], false, nil
		}
	}
	category := models.Category{ID: "cat-" + title, Title: title, ParentID: parentID}
	f.categories = append(f.categories, category)
	f.created[key] = true
	return &f.categories[len(f.categories)-1], true, nil
}

func (f *fakeCategoryRepo) UpdateParent(ctx context.Context, categoryID string, parentID *string) error {
	for i := range f.categories {
		if f.categories[i].ID == categoryID {
			f.categories[i].ParentID = parentID
		}
	}
	return nil
}

type fakeProposalRepo struct {
	proposals map[string]*models.CategoryProposal
}

func newFakeProposalRepo(proposals ...*models.CategoryProposal) *fakeProposalRepo {
	repo := &fakeProposalRepo{proposals: make(map[string]*models.CategoryProposal)}
	for _, p := range proposals {
		repo.proposals[p.ID] = p
	}
	return repo
}

func (f *fakeProposalRepo) Create(ctx context.Context, proposal *models.CategoryProposal) error {
	f.proposals[proposal.ID] = proposal
	return nil
}

func (f *fakeProposalRepo) FindByID(ctx context.Context, id string) (*models.CategoryProposal, error) {
	return f.proposals[id], nil
}

func (f *fakeProposalRepo) FindByIDs(ctx context.Context, ids []string) ([]models.CategoryProposal, error) {
	var out []models.CategoryProposal
	for _, id := range ids {
		if p, ok := f.proposals[id]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProposalRepo) List(ctx context.Context, status string) ([]models.CategoryProposal, error) {
	var out []models.CategoryProposal
	for _, p := range f.proposals {
		if p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProposalRepo) UpdateStatus(ctx context.Context, proposalID, status string) error {
	proposal, ok := f.proposals[proposalID]
	if !ok {
		return fmt.Errorf("proposal %s not found", proposalID)
	}
	proposal.Status = status
	return nil
}

type fakeChatRepo struct {
	chats    map[string]*models.Chat
	messages map[string][]models.Message
	nextID   int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*models.Chat),
		messages: make(map[string][]models.Message),
	}
}

func topicKey(topic models.EntityRef) string {
	return string(topic.Kind) + "/" + topic.ID
}

func (f *fakeChatRepo) FindByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error) {
	return f.chats[topicKey(topic)], nil
}

func (f *fakeChatRepo) GetOrCreateByTopic(ctx context.Context, topic models.EntityRef) (*models.Chat, error) {
	key := topicKey(topic)
	if chat, ok := f.chats[key]; ok {
		return chat, nil
	}
	f.nextID++
	chat := &models.Chat{ID: fmt.Sprintf("chat-%d", f.nextID), Topic: topic}
	f.chats[key] = chat
	return chat, nil
}

func (f *fakeChatRepo) AppendMessage(ctx context.Context, chatID string, message *models.Message) error {
	if message.ID == "" {
		f.nextID++
		message.ID = fmt.Sprintf("message-%d", f.nextID)
	}
	message.ChatID = chatID
	f.messages[chatID] = append(f.messages[chatID], *message)
	for _, chat := range f.chats {
		if chat.ID == chatID {
			id := message.ID
			chat.LatestMessageID = &id
		}
	}
	return nil
}

func (f *fakeChatRepo) ListMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	return f.messages[chatID], nil
}

func (f *fakeChatRepo) MarkRead(ctx context.Context, chatID, recipientID string) error {
	msgs := f.messages[chatID]
	for i := range msgs {
		if msgs[i].RecipientID == recipientID {
			msgs[i].IsRead = true
		}
	}
	return nil
}

type fakeQuestionnaireRepo struct {
	questionnaires map[string]*models.Questionnaire
}

func newFakeQuestionnaireRepo() *fakeQuestionnaireRepo {
	return &fakeQuestionnaireRepo{questionnaires: make(map[string]*models.Questionnaire)}
}

func (f *fakeQuestionnaireRepo) FindByUserID(ctx context.Context, userID string) (*models.Questionnaire, error) {
	return f.questionnaires[userID], nil
}

func (f *fakeQuestionnaireRepo) GetOrCreateByUserID(ctx context.Context, userID string) (*models.Questionnaire, error) {
	if q, ok := f.questionnaires[userID]; ok {
		return q, nil
	}
	q := &models.Questionnaire{ID: "dq-" + userID, UserID: userID}
	f.questionnaires[userID] = q
	return q, nil
}

func (f *fakeQuestionnaireRepo) Update(ctx context.Context, questionnaire *models.Questionnaire) error {
	f.questionnaires[questionnaire.UserID] = questionnaire
	return nil
}

type fakeEnqueuer struct {
	enqueued []string
}

func (f *fakeEnqueuer) EnqueueTopUp(ctx context.Context, userID string, amount int, cardNumber string) error {
	f.enqueued = append(f.enqueued, fmt.Sprintf("%s:%d", userID, amount))
	return nil
}
