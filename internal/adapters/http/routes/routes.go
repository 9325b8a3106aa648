package routes

import (
	"context"

	"forza-loanapp/internal/adapters/http/handlers"
	"forza-loanapp/internal/adapters/http/middleware"
	"forza-loanapp/internal/adapters/persistence/collections"
	"forza-loanapp/internal/adapters/persistence/kvstore"
	"forza-loanapp/internal/config"
	"forza-loanapp/internal/core/endpoints"
	"forza-loanapp/internal/core/navigation"
	"forza-loanapp/internal/core/services"
	"forza-loanapp/internal/core/session"

	"github.com/gofiber/fiber/v2"
)

// Setup wires the stores, services and handlers and mounts all routes
func Setup(app *fiber.App, store *kvstore.Store, cfg *config.Config) error {
	// Persistence and endpoints
	engine := collections.NewEngine(store)
	client := endpoints.NewClient(engine)

	// Session state partitions, rehydrated from their persisted subsets
	authStore := session.NewAuthStore(store)
	formStore := session.NewLoanFormStore(store)
	prefs := session.NewPrefs(store)

	ctx := context.Background()
	if err := authStore.Load(ctx); err != nil {
		return err
	}
	if err := formStore.Load(ctx); err != nil {
		return err
	}

	// Services
	authService := services.NewAuthService(client, authStore)
	loanService := services.NewLoanService(client, authStore, formStore)
	registration := services.NewRegistrationService(authService, loanService, authStore, formStore, prefs)

	// App-shell router
	router := navigation.NewRouter(authStore, formStore, prefs)

	// Handlers
	healthHandler := handlers.NewHealthHandler(store)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(authService, authStore)
	loanHandler := handlers.NewLoanHandler(client, loanService, registration, formStore)
	sessionHandler := handlers.NewSessionHandler(router, prefs)
	adminHandler := handlers.NewAdminHandler(client, loanService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public)
	auth := apiV1.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/find-account", authHandler.FindAccount)

	// Product catalog (public)
	apiV1.Get("/products", loanHandler.Products)

	// Loan wizard (public: the flow starts before an account exists)
	loan := apiV1.Group("/loan")
	loan.Get("/draft", loanHandler.GetDraft)
	loan.Put("/draft", loanHandler.UpdateDraft)
	loan.Post("/draft/next", loanHandler.NextStep)
	loan.Post("/draft/previous", loanHandler.PreviousStep)
	loan.Post("/register-and-apply", loanHandler.RegisterAndApply)

	// Authenticated wizard operations
	loan.Post("/draft/prefill", middleware.AuthMiddleware(cfg), loanHandler.PrefillDraft)
	loan.Post("/submit", middleware.AuthMiddleware(cfg), loanHandler.Submit)

	// Profile routes
	profile := apiV1.Group("/profile")
	profile.Use(middleware.AuthMiddleware(cfg))
	profile.Get("/", userHandler.GetProfile)
	profile.Put("/", userHandler.UpdateProfile)

	// Application and loan listings
	loans := apiV1.Group("/loans")
	loans.Use(middleware.AuthMiddleware(cfg))
	loans.Get("/applications", loanHandler.Applications)
	loans.Get("/applications/:id", loanHandler.ApplicationByID)
	loans.Put("/applications/:id/status", loanHandler.UpdateStatus)
	loans.Get("/details", loanHandler.Loans)
	loans.Get("/details/:id", loanHandler.LoanByID)
	loans.Get("/stats", loanHandler.Stats)

	// App-shell session routes
	sess := apiV1.Group("/session")
	sess.Get("/screen", sessionHandler.GetScreen)
	sess.Post("/navigate", sessionHandler.Navigate)
	sess.Post("/callback/close", sessionHandler.CloseCallback)
	sess.Post("/loan/exit", sessionHandler.ExitLoanProcess)
	sess.Get("/passcode", sessionHandler.PasscodeExists)
	sess.Post("/passcode", sessionHandler.SetPasscode)
	sess.Post("/passcode/verify", sessionHandler.VerifyPasscode)
	sess.Get("/biometrics", sessionHandler.GetBiometrics)
	sess.Post("/biometrics", sessionHandler.SetBiometrics)

	// Dev-only reset and disbursement hook
	admin := apiV1.Group("/admin")
	admin.Use(middleware.DevOnly(cfg))
	admin.Delete("/data", adminHandler.ClearData)
	admin.Post("/applications/:id/disburse", adminHandler.Disburse)

	return nil
}
