package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"healthassist/internal/ai"
	"healthassist/internal/config"
	"healthassist/internal/database"
	"healthassist/internal/notify"
)

// Server is the HTTP API.
type Server struct {
	app      *fiber.App
	cfg      *config.Config
	db       *database.DB
	ai       *ai.Client
	notifier *notify.Dispatcher
	logger   *zerolog.Logger
}

// New wires the fiber app. aiClient may be nil, in which case the AI routes
// respond with 503.
func New(cfg *config.Config, db *database.DB, aiClient *ai.Client, notifier *notify.Dispatcher, log *zerolog.Logger) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    8 * 1024 * 1024,
	})

	s := &Server{
		app:      app,
		cfg:      cfg,
		db:       db,
		ai:       aiClient,
		notifier: notifier,
		logger:   log,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	s.app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	s.app.Static("/uploads", s.cfg.Server.UploadDir)

	api := s.app.Group("/api")

	api.Post("/auth/register", s.handleRegister)
	api.Post("/auth/login", s.handleLogin)

	protected := api.Use(s.authMiddleware())

	protected.Get("/dashboard", s.handleDashboard)

	protected.Get("/profile", s.handleGetProfile)
	protected.Put("/profile", s.handleUpdateProfile)
	protected.Post("/profile/photo", s.handleUploadPhoto)
	protected.Post("/profile/password", s.handleChangePassword)
	protected.Delete("/profile", s.handleDeleteAccount)

	protected.Get("/medications", s.handleListMedications)
	protected.Post("/medications", s.handleCreateMedication)
	protected.Put("/medications/:id", s.handleUpdateMedication)
	protected.Delete("/medications/:id", s.handleDeleteMedication)

	protected.Get("/reminders", s.handleListReminders)
	protected.Post("/reminders", s.handleCreateReminder)
	protected.Put("/reminders/:id", s.handleUpdateReminder)
	protected.Delete("/reminders/:id", s.handleDeleteReminder)

	protected.Get("/appointments", s.handleListAppointments)
	protected.Post("/appointments", s.handleCreateAppointment)
	protected.Put("/appointments/:id", s.handleUpdateAppointment)
	protected.Delete("/appointments/:id", s.handleDeleteAppointment)

	protected.Get("/exercise", s.handleListExercise)
	protected.Post("/exercise", s.handleLogExercise)
	protected.Get("/weight", s.handleListWeights)
	protected.Post("/weight", s.handleLogWeight)
	protected.Get("/journal", s.handleListJournal)
	protected.Get("/journal/summary", s.handleMoodSummary)
	protected.Get("/journal/:date", s.handleGetJournalEntry)
	protected.Post("/journal", s.handleSaveJournalEntry)
	protected.Get("/history", s.handleListHistory)

	protected.Get("/chat/:kind", s.handleGetChatHistory)
	protected.Post("/chat/:kind", s.handleChat)
	protected.Delete("/chat/:kind", s.handleClearChat)

	protected.Post("/ai/symptom", s.handleSymptomCheck)
	protected.Post("/ai/health-metrics", s.handleHealthMetrics)
	protected.Post("/ai/bmi", s.handleBMIAdvice)
	protected.Post("/ai/diet-plan", s.handleGenerateDietPlan)
	protected.Get("/ai/diet-plan", s.handleGetDietPlan)
	protected.Post("/ai/health-review", s.handleGenerateHealthReview)
	protected.Get("/ai/health-review", s.handleGetHealthReview)

	protected.Get("/push/vapid-key", s.handleVAPIDKey)
	protected.Post("/push/subscribe", s.handlePushSubscribe)
	protected.Post("/push/unsubscribe", s.handlePushUnsubscribe)
	protected.Post("/push/test", s.handlePushTest)

	protected.Get("/report", s.handleDownloadReport)
	protected.Get("/report/xlsx", s.handleDownloadReportXLSX)

	admin := protected.Group("/admin", s.adminMiddleware())
	admin.Get("/users", s.handleAdminListUsers)
	admin.Post("/users", s.handleAdminCreateUser)
	admin.Get("/users/:id", s.handleAdminViewUser)
	admin.Post("/users/:id/block", s.handleAdminBlockUser)
	admin.Post("/users/:id/unblock", s.handleAdminUnblockUser)
	admin.Post("/users/:id/promote", s.handleAdminPromoteUser)
	admin.Post("/users/:id/demote", s.handleAdminDemoteUser)
	admin.Delete("/users/:id", s.handleAdminDeleteUser)
}

// Listen starts serving on the configured address.
func (s *Server) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Address, s.cfg.Server.Port)
	s.logger.Info().Str("addr", addr).Msg("HTTP API listening")
	return s.app.Listen(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
