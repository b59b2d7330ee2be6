package main

import (
	"log"

	api "lifehub-backend/cmd/api"
	authdomain "lifehub-backend/internal/auth/domain"
	authRepo "lifehub-backend/internal/auth/repository"
	authUsecase "lifehub-backend/internal/auth/usecase"
	connectionDelivery "lifehub-backend/internal/connection/delivery"
	connectiondomain "lifehub-backend/internal/connection/domain"
	connectionRepo "lifehub-backend/internal/connection/repository"
	connectionUsecase "lifehub-backend/internal/connection/usecase"
	emailDelivery "lifehub-backend/internal/email/delivery"
	emaildomain "lifehub-backend/internal/email/domain"
	emailRepo "lifehub-backend/internal/email/repository"
	emailUsecase "lifehub-backend/internal/email/usecase"
	eventDelivery "lifehub-backend/internal/event/delivery"
	eventdomain "lifehub-backend/internal/event/domain"
	eventRepo "lifehub-backend/internal/event/repository"
	eventUsecase "lifehub-backend/internal/event/usecase"
	"lifehub-backend/internal/sync"
	syncDelivery "lifehub-backend/internal/sync/delivery"
	syncRepo "lifehub-backend/internal/sync/repository"
	taskDelivery "lifehub-backend/internal/task/delivery"
	taskdomain "lifehub-backend/internal/task/domain"
	taskRepo "lifehub-backend/internal/task/repository"
	taskUsecase "lifehub-backend/internal/task/usecase"
	"lifehub-backend/pkg/config"
	"lifehub-backend/pkg/database"
	"lifehub-backend/pkg/gcal"
	"lifehub-backend/pkg/gemini"
	"lifehub-backend/pkg/gmail"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate database schemas
	if err := db.AutoMigrate(
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&connectiondomain.Connection{},
		&emaildomain.Email{},
		&emaildomain.Attachment{},
		&eventdomain.Event{},
		&taskdomain.Task{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Initialize repositories (dependency injection)
	userRepository := authRepo.NewUserRepository(db)
	connectionRepository := connectionRepo.NewConnectionRepository(db)
	emailRepository := emailRepo.NewEmailRepository(db)
	eventRepository := eventRepo.NewEventRepository(db)
	taskRepository := taskRepo.NewGormTaskRepository(db)

	// Initialize provider clients
	gmailService := gmail.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	gcalService := gcal.NewService(cfg.GoogleClientID, cfg.GoogleClientSecret)
	geminiService := gemini.NewGeminiService(cfg.GeminiAPIKey)

	// Initialize use cases
	authUsecaseInstance := authUsecase.NewAuthUsecase(userRepository, cfg)
	connectionUsecaseInstance := connectionUsecase.NewConnectionUsecase(connectionRepository, cfg)
	emailUsecaseInstance := emailUsecase.NewEmailUsecase(emailRepository, connectionUsecaseInstance, gmailService, geminiService)
	eventUsecaseInstance := eventUsecase.NewEventUsecase(eventRepository)
	taskUsecaseInstance := taskUsecase.NewTaskUsecase(taskRepository)

	// Initialize the sync engine: remote adapters share the per-call timeout,
	// and all local writes of one pass run inside a single transaction.
	orchestrator := sync.NewOrchestrator(
		connectionUsecaseInstance,
		sync.NewGmailRemote(gmailService, cfg.SyncTimeout),
		sync.NewCalendarRemote(gcalService, cfg.SyncTimeout),
		syncRepo.NewTxRunner(db),
	)

	// Initialize HTTP handlers
	emailHandler := emailDelivery.NewEmailHandler(emailUsecaseInstance)
	eventHandler := eventDelivery.NewEventHandler(eventUsecaseInstance)
	taskHandler := taskDelivery.NewTaskHandler(taskUsecaseInstance)
	connectionHandler := connectionDelivery.NewConnectionHandler(connectionUsecaseInstance)
	syncHandler := syncDelivery.NewSyncHandler(orchestrator)

	handler := api.NewHandler(authUsecaseInstance, emailHandler, eventHandler, taskHandler, connectionHandler, syncHandler)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
