package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/contractor-scheduler/internal/audit"
	"github.com/BruksfildServices01/contractor-scheduler/internal/auth"
	"github.com/BruksfildServices01/contractor-scheduler/internal/billing"
	"github.com/BruksfildServices01/contractor-scheduler/internal/config"
	"github.com/BruksfildServices01/contractor-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/contractor-scheduler/internal/handlers"
	"github.com/BruksfildServices01/contractor-scheduler/internal/infra/lock"
	infraRepo "github.com/BruksfildServices01/contractor-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/contractor-scheduler/internal/media"
	"github.com/BruksfildServices01/contractor-scheduler/internal/metrics"
	"github.com/BruksfildServices01/contractor-scheduler/internal/middleware"
	"github.com/BruksfildServices01/contractor-scheduler/internal/notify"
	ucAppointment "github.com/BruksfildServices01/contractor-scheduler/internal/usecase/appointment"
	ucSchedule "github.com/BruksfildServices01/contractor-scheduler/internal/usecase/schedule"
	"github.com/BruksfildServices01/contractor-scheduler/internal/validators"
)

// Dependencies are the process-wide singletons the routes are built on.
// Billing and Avatars are optional.
type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Locker   lock.Locker
	Notifier notify.Dispatcher
	Audit    *audit.Dispatcher
	Billing  billing.Provider
	Avatars  *media.Avatars

	// EmailChecker defaults to a DNS lookup of the e-mail domain.
	EmailChecker validators.EmailChecker
}

func RegisterRoutes(r *gin.Engine, deps Dependencies) {
	cfg := deps.Config

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(gin.Recovery())
	r.Use(deps.Metrics.Middleware())
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)

	userRepo := infraRepo.NewUserGormRepository(deps.DB)
	contractorRepo := infraRepo.NewContractorGormRepository(deps.DB)
	serviceRepo := infraRepo.NewServiceGormRepository(deps.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(deps.DB)
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)
	subscriptionRepo := infraRepo.NewSubscriptionGormRepository(deps.DB)

	engine := availability.NewEngine(scheduleRepo, cfg.FreeWeeklyMinutes)

	// ======================================================
	// USE CASES: SCHEDULES
	// ======================================================
	createScheduleUC := ucSchedule.NewCreateSchedule(scheduleRepo, engine, deps.Locker, deps.Audit, deps.Metrics)
	updateScheduleUC := ucSchedule.NewUpdateSchedule(scheduleRepo, engine, deps.Locker, deps.Audit, deps.Metrics)
	deleteScheduleUC := ucSchedule.NewDeleteSchedule(scheduleRepo, deps.Audit)
	listSchedulesUC := ucSchedule.NewListSchedules(scheduleRepo)

	// ======================================================
	// USE CASES: APPOINTMENTS
	// ======================================================
	createAsClientUC := ucAppointment.NewCreateAsClient(
		appointmentRepo,
		deps.Notifier,
		deps.Audit,
		deps.Metrics,
		deps.Logger,
	)
	createAsContractorUC := ucAppointment.NewCreateAsContractor(appointmentRepo, deps.Audit, deps.Metrics)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, deps.Audit)
	deleteAppointmentUC := ucAppointment.NewDeleteAppointment(appointmentRepo, deps.Audit)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(userRepo, tokens, deps.EmailChecker)
	meHandler := handlers.NewMeHandler(userRepo)
	auditLogsHandler := handlers.NewAuditLogsHandler(deps.DB)
	contractorHandler := handlers.NewContractorHandler(contractorRepo, tokens, deps.Avatars, deps.Audit, cfg.DefaultTimezone)
	serviceHandler := handlers.NewServiceHandler(serviceRepo, deps.Audit)
	feedbackHandler := handlers.NewFeedbackHandler(deps.DB)
	subscriptionHandler := handlers.NewSubscriptionHandler(
		billing.NewService(subscriptionRepo, deps.Billing, deps.Audit),
	)

	scheduleHandler := handlers.NewScheduleHandler(
		createScheduleUC,
		updateScheduleUC,
		deleteScheduleUC,
		listSchedulesUC,
	)

	appointmentHandler := handlers.NewAppointmentHandler(
		createAsClientUC,
		createAsContractorUC,
		updateAppointmentUC,
		deleteAppointmentUC,
		listAppointmentsUC,
	)

	// ======================================================
	// OPERATIONAL
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// AUTHENTICATED
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(tokens, userRepo))
		{
			secured.GET("/me", meHandler.GetMe)
			secured.GET("/me/audit-logs", auditLogsHandler.List)

			secured.GET("/contractors", contractorHandler.List)
			secured.GET("/contractors/:id", contractorHandler.Get)
			secured.POST("/contractors", contractorHandler.Register)
			secured.PUT("/contractors/:id", contractorHandler.Update)
			secured.DELETE("/contractors/:id", contractorHandler.Delete)
			secured.POST("/contractors/:id/avatar", contractorHandler.UploadAvatar)

			secured.GET("/services", serviceHandler.List)
			secured.GET("/services/:id", serviceHandler.Get)
			secured.POST("/services", serviceHandler.Create)
			secured.PUT("/services/:id", serviceHandler.Update)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			// ------------------------------
			// SCHEDULES
			// ------------------------------
			secured.POST("/schedules", scheduleHandler.Create)
			secured.GET("/schedules/contractor/:id", scheduleHandler.ListByContractor)
			secured.GET("/schedules/:id", scheduleHandler.Get)
			secured.PUT("/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/schedules/:id", scheduleHandler.Delete)

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.GET("/appointments", appointmentHandler.List)
			secured.POST("/appointments", appointmentHandler.Create)
			secured.POST("/appointments/contractor", appointmentHandler.CreateAsContractor)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.PUT("/appointments/:id", appointmentHandler.Update)
			secured.DELETE("/appointments/:id", appointmentHandler.Delete)

			secured.GET("/subscription", subscriptionHandler.Get)
			secured.POST("/subscription", subscriptionHandler.Create)
			secured.DELETE("/subscription", subscriptionHandler.Delete)

			secured.POST("/feedback/:contractorId", feedbackHandler.Create)
			secured.GET("/feedback/contractor/:id", feedbackHandler.ListByContractor)
		}
	}
}
