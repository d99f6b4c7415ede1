package bootstrap

import (
	"log"

	"hipaai-chat-be/internal/config"
	"hipaai-chat-be/internal/controller"
	"hipaai-chat-be/internal/pkg/logger"
	"hipaai-chat-be/internal/repository/unitofwork"
	"hipaai-chat-be/internal/service"
	"hipaai-chat-be/pkg/redactor"

	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController controller.IChatController

	// Shared facades
	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Services
	settingsService, err := service.NewSettingsService(uowFactory, cfg.Secrets)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize settings service: %v", err)
	}

	redactorClient := redactor.NewClient(cfg.Upstream.Endpoint, cfg.Upstream.Timeout)

	chatService := service.NewChatService(uowFactory, redactorClient, settingsService)

	// 3. Controllers
	chatController := controller.NewChatController(chatService)

	return &Container{
		ChatController: chatController,
		Logger:         sysLogger,
	}
}
