package bootstrap

import (
	"log"
	"time"

	"ai-studymate-be/internal/config"
	"ai-studymate-be/internal/controller"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/memory"
	"ai-studymate-be/internal/service"
	"ai-studymate-be/pkg/llm/openai"
	"ai-studymate-be/pkg/normalize"
	"ai-studymate-be/pkg/transcript"
	"ai-studymate-be/pkg/vectorstore"
)

type Container struct {
	// Controllers
	MaterialController controller.IMaterialController
	StudyController    controller.IStudyController
	ChatController     controller.IChatController

	Logger logger.ILogger
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. External Clients
	if cfg.Ai.OpenAIAPIKey == "" {
		log.Println("[WARN] OPENAI_API_KEY is not set, study and chat operations will fail")
	}
	llmProvider := openai.NewOpenAIProvider(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL, cfg.Ai.Model)
	storeClient := vectorstore.NewOpenAIClient(cfg.Ai.OpenAIAPIKey, cfg.Ai.OpenAIBaseURL)

	transcriptClient := transcript.NewTimedTextClient()
	if cfg.Transcript.BaseURL != "" {
		transcriptClient.BaseURL = cfg.Transcript.BaseURL
	}

	// 3. Domain Components
	extractor := transcript.NewExtractor(transcriptClient, cfg.Transcript.Languages)
	normalizer := normalize.NewNormalizer(extractor)
	storeManager := vectorstore.NewManager(storeClient)

	// 4. In-Memory Session Storage
	sessionRepo := memory.NewSessionRepository(
		time.Duration(cfg.Session.TTLMinutes)*time.Minute,
		time.Duration(cfg.Session.SweepMinutes)*time.Minute,
	)

	// 5. Services
	materialService := service.NewMaterialService(sessionRepo, normalizer, storeManager, sysLogger)
	studyService := service.NewStudyService(sessionRepo, normalizer, storeManager, llmProvider, sysLogger)
	chatService := service.NewChatService(sessionRepo, normalizer, storeManager, llmProvider, sysLogger)

	// 6. Controllers
	return &Container{
		MaterialController: controller.NewMaterialController(materialService),
		StudyController:    controller.NewStudyController(studyService),
		ChatController:     controller.NewChatController(chatService),
		Logger:             sysLogger,
	}
}
