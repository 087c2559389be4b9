package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/poslugy/marketplace/app/handlers"
	"github.com/poslugy/marketplace/app/handlers/admin"
	"github.com/poslugy/marketplace/app/middlewares"
	"github.com/poslugy/marketplace/app/repositories"
	"github.com/poslugy/marketplace/app/services"
	"github.com/poslugy/marketplace/app/utils/sessions"
	"github.com/unrolled/render"
	"gorm.io/gorm"
)

// NewRouter wires repositories, services and handlers onto the HTTP
// surface. topUps is nil-safe only at wiring time; the top-up endpoint
// requires a running broker connection.
func NewRouter(db *gorm.DB, sessionStore sessions.SessionStore, topUps services.TopUpEnqueuer) *mux.Router {
	rnd := render.New()
	validate := validator.New()

	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	proposalRepo := repositories.NewProposalRepository(db)
	serviceRepo := repositories.NewServiceRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	chatRepo := repositories.NewChatRepository(db)
	actionRepo := repositories.NewActionRepository(db)
	questionnaireRepo := repositories.NewQuestionnaireRepository(db)
	resolver := repositories.DefaultEntityResolver(serviceRepo, projectRepo, orderRepo)

	balanceService := services.NewBalanceService(userRepo)
	orderService := services.NewOrderService(orderRepo, actionRepo, balanceService)
	offerService := services.NewOfferService(offerRepo, projectRepo)
	chatService := services.NewChatService(chatRepo)
	moderationService := services.NewModerationService(proposalRepo, categoryRepo)
	recommendationService := services.NewRecommendationService(serviceRepo, categoryRepo)
	userService := services.NewUserService(userRepo, questionnaireRepo, topUps)

	authHandler := handlers.NewAuthHandler(rnd, userRepo, sessionStore, validate)
	userHandler := handlers.NewUserHandler(rnd, userRepo, actionRepo, userService, recommendationService, sessionStore, validate)
	serviceHandler := handlers.NewServiceHandler(rnd, serviceRepo, categoryRepo, actionRepo, validate)
	projectHandler := handlers.NewProjectHandler(rnd, projectRepo, categoryRepo, actionRepo, offerService, validate)
	orderHandler := handlers.NewOrderHandler(rnd, orderService, chatService, serviceRepo, actionRepo, sessionStore, validate)
	chatHandler := handlers.NewChatHandler(rnd, chatService, resolver, validate)
	categoryHandler := handlers.NewCategoryHandler(rnd, categoryRepo, proposalRepo, validate)
	categoryAdmin := admin.NewCategoryAdminHandler(rnd, proposalRepo, categoryRepo, moderationService, validate)

	router := mux.NewRouter()
	router.Use(middlewares.SessionUserMiddleware(sessionStore, userRepo))

	// Public surface.
	router.HandleFunc("/", serviceHandler.HomeGet).Methods(http.MethodGet)
	router.HandleFunc("/auth/register", authHandler.RegisterPost).Methods(http.MethodPost)
	router.HandleFunc("/auth/login", authHandler.LoginPost).Methods(http.MethodPost)
	router.HandleFunc("/auth/logout", authHandler.LogoutPost).Methods(http.MethodPost)
	router.HandleFunc("/categories", categoryHandler.CategoryListGet).Methods(http.MethodGet)
	router.HandleFunc("/services", serviceHandler.ServiceListGet).Methods(http.MethodGet)
	router.HandleFunc("/services/{serviceID}", serviceHandler.ServiceDetailGet).Methods(http.MethodGet)
	router.HandleFunc("/projects", projectHandler.ProjectListGet).Methods(http.MethodGet)
	router.HandleFunc("/projects/{projectID}", projectHandler.ProjectDetailGet).Methods(http.MethodGet)
	router.HandleFunc("/users/{username}", userHandler.ProfileGet).Methods(http.MethodGet)

	// Authenticated surface.
	authed := router.NewRoute().Subrouter()
	authed.Use(middlewares.RequireAuth(rnd))
	authed.HandleFunc("/me", userHandler.MeGet).Methods(http.MethodGet)
	authed.HandleFunc("/me/profile", userHandler.ProfileUpdatePost).Methods(http.MethodPost)
	authed.HandleFunc("/me/mode", userHandler.SetModePost).Methods(http.MethodPost)
	authed.HandleFunc("/me/onboarding", userHandler.OnboardingPost).Methods(http.MethodPost)
	authed.HandleFunc("/me/questionnaire", userHandler.QuestionnairePost).Methods(http.MethodPost)
	authed.HandleFunc("/me/topup", userHandler.TopUpPost).Methods(http.MethodPost)
	authed.HandleFunc("/me/recommendations", userHandler.RecommendationsGet).Methods(http.MethodGet)

	authed.HandleFunc("/categories/proposals", categoryHandler.CategoryProposePost).Methods(http.MethodPost)

	authed.HandleFunc("/services", serviceHandler.ServiceCreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/services/{serviceID}/active", serviceHandler.ServiceSetActivePost).Methods(http.MethodPost)

	authed.HandleFunc("/projects", projectHandler.ProjectCreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{projectID}/active", projectHandler.ProjectSetActivePost).Methods(http.MethodPost)
	authed.HandleFunc("/projects/{projectID}/offers", projectHandler.OfferListGet).Methods(http.MethodGet)
	authed.HandleFunc("/projects/{projectID}/offers", projectHandler.OfferCreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/offers/{offerID}/status", projectHandler.OfferSetStatusPost).Methods(http.MethodPost)

	authed.HandleFunc("/orders", orderHandler.OrderCreatePost).Methods(http.MethodPost)
	authed.HandleFunc("/orders", orderHandler.OrderListGet).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{orderID}", orderHandler.OrderDetailGet).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{orderID}/status", orderHandler.OrderSetStatusPost).Methods(http.MethodPost)

	authed.HandleFunc("/chats/{kind}/{topicID}/messages", chatHandler.MessagesGet).Methods(http.MethodGet)
	authed.HandleFunc("/chats/{kind}/{topicID}/messages", chatHandler.MessagePost).Methods(http.MethodPost)

	// Moderation surface.
	adminRouter := router.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middlewares.RequireAdmin(rnd))
	adminRouter.HandleFunc("/proposals", categoryAdmin.ProposalListGet).Methods(http.MethodGet)
	adminRouter.HandleFunc("/proposals/approve", categoryAdmin.ProposalApprovePost).Methods(http.MethodPost)
	adminRouter.HandleFunc("/proposals/reject", categoryAdmin.ProposalRejectPost).Methods(http.MethodPost)
	adminRouter.HandleFunc("/categories/{categoryID}/parent", categoryAdmin.CategoryReparentPost).Methods(http.MethodPost)

	return router
}
