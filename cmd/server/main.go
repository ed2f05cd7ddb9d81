package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	_ "codearena/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"codearena/internal/auth"
	"codearena/internal/cache"
	"codearena/internal/config"
	"codearena/internal/db"
	"codearena/internal/handler"
	"codearena/internal/model"
	"codearena/internal/repository"
	"codearena/internal/router"
	"codearena/internal/service"
)

// @title CodeArena API
// @version 1.0
// @description Coding-question platform with question CRUD, account management, and single-session JWT authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, dropping all tables...")
		tables := []interface{}{
			&model.Question{},
			&model.AllowedDomain{},
			&model.User{},
		}
		for _, table := range tables {
			if err := gormDB.Migrator().DropTable(table); err != nil {
				log.Printf("Warning: Failed to drop table (may not exist): %v", err)
			}
		}
		log.Println("Tables dropped")
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Question{},
		&model.AllowedDomain{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	questionRepo := repository.NewQuestionRepository(gormDB)
	domainRepo := repository.NewAllowedDomainRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	blacklist := auth.NewRedisBlacklist(cacheClient)

	// Services
	sessionService := service.NewSessionService(userRepo, jwtService, blacklist)
	userService := service.NewUserService(userRepo, domainRepo, sessionService)
	authService := service.NewAuthService(userService, sessionService, jwtService)
	questionService := service.NewQuestionService(questionRepo, cacheClient)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, userService)
	userHandler := handler.NewUserHandler(userService, sessionService)
	questionHandler := handler.NewQuestionHandler(questionService)

	router.Register(
		e,
		cfg,
		jwtService,
		blacklist,
		sessionService,
		authHandler,
		userHandler,
		questionHandler,
	)

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := cfg.SwaggerHost
		if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
			host = "http://" + host
		}
		swaggerURL = host + "/swagger/index.html"
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
