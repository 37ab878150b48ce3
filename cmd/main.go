package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Flagroom/config"
	"github.com/lshigami/Flagroom/database"
	"github.com/lshigami/Flagroom/internal/controller/student"
	"github.com/lshigami/Flagroom/internal/controller/teacher"
	"github.com/lshigami/Flagroom/internal/crypto"
	"github.com/lshigami/Flagroom/internal/logger"
	"github.com/lshigami/Flagroom/internal/middleware"
	"github.com/lshigami/Flagroom/internal/model"
	"github.com/lshigami/Flagroom/internal/repository"
	"github.com/lshigami/Flagroom/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Classroom CTF API
// @version 1.0
// @description API for a classroom Capture-The-Flag exercise: students submit flags, teachers author challenges and review submissions.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
			func(cfg *config.Config) (*crypto.FlagSealer, error) {
				return crypto.NewFlagSealer([]byte(cfg.FlagKey))
			},
		),

		// Repositories Layer
		fx.Provide(
			repository.NewChallengeRepository,
			repository.NewSubmissionRepository,
			repository.NewUserRepository,
		),

		// Services Layer
		fx.Provide(
			func(
				challengeRepo repository.ChallengeRepository,
				submissionRepo repository.SubmissionRepository,
				sealer *crypto.FlagSealer,
				cfg *config.Config,
			) service.FlagService {
				return service.NewFlagService(challengeRepo, submissionRepo, sealer, cfg.BaseURL)
			},
			service.NewChallengeService,
			service.NewSubmissionReviewService,
		),

		// API Controllers Layer
		fx.Provide(
			student.NewStudentController,
			teacher.NewTeacherController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"}, // Be more specific in production
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	userRepo repository.UserRepository,
	studentCtrl *student.StudentController,
	teacherCtrl *teacher.TeacherController,
) {
	authenticate := middleware.Authenticate(cfg.JWTSecret, userRepo)

	api := router.Group("/api/v1")
	{
		// Flag listener: any verified student may submit.
		api.POST("/listener/submit", authenticate, middleware.RequireRoles(model.RoleStudent), studentCtrl.SubmitFlag)

		// Challenge listing for verified students and teachers.
		api.GET("/challenges", authenticate, middleware.RequireRoles(model.RoleStudent, model.RoleTeacher), studentCtrl.GetAllChallenges)

		teacherGroup := api.Group("/teacher", authenticate, middleware.RequireRoles(model.RoleTeacher))
		{
			teacherGroup.POST("/challenges", teacherCtrl.CreateChallenge)
			teacherGroup.GET("/students", teacherCtrl.GetStudents)
			teacherGroup.GET("/submissions/:submission_id", teacherCtrl.GetSubmission)
			teacherGroup.POST("/submissions/:submission_id/accept", teacherCtrl.AcceptSubmission)
		}
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Classroom CTF API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.User{},
		&model.Challenge{},
		&model.Submission{},
		&model.UserChallengeCompletion{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
