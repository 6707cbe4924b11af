package server

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"henryedu.com/henryplatform/internal/config"
	"henryedu.com/henryplatform/internal/middleware"
	"henryedu.com/henryplatform/internal/modules/counter"
	"henryedu.com/henryplatform/internal/modules/search"
	"henryedu.com/henryplatform/pkg/storage"

	assignmentHttp "henryedu.com/henryplatform/internal/modules/assignment/delivery/http"
	assignmentRepo "henryedu.com/henryplatform/internal/modules/assignment/repository"
	assignmentService "henryedu.com/henryplatform/internal/modules/assignment/service"

	assistantHttp "henryedu.com/henryplatform/internal/modules/assistant/delivery/http"
	assistantService "henryedu.com/henryplatform/internal/modules/assistant/service"

	classHttp "henryedu.com/henryplatform/internal/modules/class/delivery/http"
	classRepo "henryedu.com/henryplatform/internal/modules/class/repository"
	classService "henryedu.com/henryplatform/internal/modules/class/service"

	materialHttp "henryedu.com/henryplatform/internal/modules/material/delivery/http"
	materialRepo "henryedu.com/henryplatform/internal/modules/material/repository"
	materialService "henryedu.com/henryplatform/internal/modules/material/service"

	presentationHttp "henryedu.com/henryplatform/internal/modules/presentation/delivery/http"
	presentationRepo "henryedu.com/henryplatform/internal/modules/presentation/repository"
	presentationService "henryedu.com/henryplatform/internal/modules/presentation/service"

	userHttp "henryedu.com/henryplatform/internal/modules/user/delivery/http"
	userRepo "henryedu.com/henryplatform/internal/modules/user/repository"
	userService "henryedu.com/henryplatform/internal/modules/user/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
}

func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Server {
	users := userRepo.NewUserRepository(db)

	fileStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	var meiliClient meilisearch.ServiceManager
	if cfg.MeiliSearchHost != "" {
		host := cfg.MeiliSearchHost
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}
	searchSvc := search.NewSearchService(meiliClient)

	counterSvc := counter.NewCounterService(redisClient)

	classes := classRepo.NewClassRepository(db)
	materials := materialRepo.NewMaterialRepository(db)
	assignments := assignmentRepo.NewAssignmentRepository(db)
	submissions := assignmentRepo.NewSubmissionRepository(db)
	presentations := presentationRepo.NewPresentationRepository(db)

	counterSvc.RegisterFlusher(counter.MaterialDownloads, func(ctx context.Context, id uuid.UUID, delta int) error {
		return materials.AddDownloads(ctx, id, delta)
	})
	counterSvc.RegisterFlusher(counter.PresentationViews, func(ctx context.Context, id uuid.UUID, delta int) error {
		return presentations.AddViews(ctx, id, delta)
	})
	if redisClient != nil {
		go counterSvc.StartSyncWorker(context.Background(), time.Minute)
	}

	authSvc := userService.NewAuthService(users, cfg.JWTSecret, cfg.JWTTTL)
	authHandler := userHttp.NewAuthHandler(authSvc)

	userSvc := userService.NewUserService(users, fileStorage)
	userHandler := userHttp.NewUserHandler(userSvc)

	classSvc := classService.NewClassService(classes, materials, assignments, submissions, users, searchSvc, fileStorage)
	classHandler := classHttp.NewClassHandler(classSvc)

	materialSvc := materialService.NewMaterialService(materials, classes, searchSvc, counterSvc, fileStorage)
	materialHandler := materialHttp.NewMaterialHandler(materialSvc)

	assignmentSvc := assignmentService.NewAssignmentService(assignments, submissions, classes)
	assignmentHandler := assignmentHttp.NewAssignmentHandler(assignmentSvc)

	assistantSvc := assistantService.NewAssistantService(nil, nil, cfg.AssistantDelay)
	assistantHandler := assistantHttp.NewAssistantHandler(assistantSvc, users, redisClient, cfg.AssistantRateLimit)

	presentationSvc := presentationService.NewPresentationService(presentations, assistantSvc, counterSvc, fileStorage)
	presentationHandler := presentationHttp.NewPresentationHandler(presentationSvc)

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	authMiddleware := middleware.NewAuthMiddleware(users, cfg.JWTSecret)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "HENRY Educational Platform API",
			"version": "1.0.0",
			"status":  "running",
		})
	})
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.GET("/demo-accounts", authHandler.DemoAccounts)
	}
	api.GET("/ai/status", assistantHandler.Status)

	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Auth/profile routes
		protected.GET("/auth/verify", authHandler.VerifyToken)
		protected.POST("/auth/change-password", authHandler.ChangePassword)
		protected.GET("/auth/profile", userHandler.GetMyProfile)
		protected.PUT("/auth/profile", userHandler.UpdateMyProfile)
		protected.POST("/auth/avatar", userHandler.UploadAvatar)

		// Admin user management
		adminGroup := protected.Group("/users")
		adminGroup.Use(authMiddleware.RequireAdmin())
		{
			adminGroup.GET("", userHandler.ListUsers)
			adminGroup.GET("/stats", userHandler.Stats)
		}
		protected.GET("/users/:id", userHandler.GetUser)
		protected.PUT("/users/:id", userHandler.UpdateUser)

		// Class routes
		protected.GET("/classes", classHandler.List)
		protected.POST("/classes", classHandler.Create)
		protected.GET("/classes/stats", classHandler.Stats)
		protected.GET("/classes/:id", classHandler.Get)
		protected.PUT("/classes/:id", classHandler.Update)
		protected.DELETE("/classes/:id", classHandler.Delete)
		protected.POST("/classes/:id/enroll", classHandler.Enroll)
		protected.POST("/classes/:id/unenroll", classHandler.Unenroll)

		// Material routes
		protected.GET("/materials", materialHandler.List)
		protected.POST("/materials", materialHandler.Create)
		protected.GET("/materials/types", materialHandler.Types)
		protected.GET("/materials/:id", materialHandler.Get)
		protected.PUT("/materials/:id", materialHandler.Update)
		protected.DELETE("/materials/:id", materialHandler.Delete)
		protected.GET("/materials/:id/download", materialHandler.Download)

		// Assignment routes
		protected.GET("/assignments", assignmentHandler.List)
		protected.POST("/assignments", assignmentHandler.Create)
		protected.GET("/assignments/:id", assignmentHandler.Get)
		protected.PUT("/assignments/:id", assignmentHandler.Update)
		protected.DELETE("/assignments/:id", assignmentHandler.Delete)
		protected.POST("/assignments/:id/submit", assignmentHandler.Submit)
		protected.GET("/assignments/:id/submissions/me", assignmentHandler.MySubmissions)
		protected.POST("/assignments/submissions/:id/grade", assignmentHandler.Grade)

		// Presentation routes
		protected.GET("/presentations", presentationHandler.List)
		protected.POST("/presentations", presentationHandler.Create)
		protected.GET("/presentations/:id", presentationHandler.Get)
		protected.PUT("/presentations/:id", presentationHandler.Update)
		protected.DELETE("/presentations/:id", presentationHandler.Delete)
		protected.POST("/presentations/:id/generate", presentationHandler.Generate)

		// Assistant routes
		protected.POST("/ai/chat", assistantHandler.Chat)
		protected.POST("/ai/generate-presentation", assistantHandler.GeneratePresentation)
		protected.POST("/ai/generate-quiz", assistantHandler.GenerateQuiz)
		protected.POST("/ai/explain-concept", assistantHandler.ExplainConcept)
		protected.POST("/ai/solve-problem", assistantHandler.SolveProblem)
		protected.POST("/ai/study-plan", assistantHandler.StudyPlan)
		protected.POST("/ai/research-assistance", assistantHandler.ResearchAssistance)
		protected.POST("/ai/feedback", assistantHandler.Feedback)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
	}
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	origins := []string{"http://localhost:3000"}
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
