package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"codearena/internal/auth"
	"codearena/internal/config"
	"codearena/internal/handler"
	"codearena/internal/model"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	sessions SessionChecker,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	questionHandler *handler.QuestionHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/questions", questionHandler.ListQuestions)
	api.GET("/questions/:id", questionHandler.GetQuestion)

	// Secured routes: echo-jwt checks the signature, SessionGuard rejects
	// blacklisted and superseded tokens and attaches claims.
	secured := api.Group("",
		echojwt.WithConfig(echojwt.Config{
			SigningKey:  []byte(cfg.JWTSecret),
			TokenLookup: "header:" + echo.HeaderAuthorization,
		}),
		SessionGuard(jwtService, blacklist, sessions),
	)

	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/session", authHandler.Session)

	// Admin-only routes
	admin := secured.Group("", RequireRole(model.RoleAdmin))

	admin.POST("/questions", questionHandler.CreateQuestion)
	admin.POST("/questions/bulk", questionHandler.CreateQuestions)
	admin.PUT("/questions/:id", questionHandler.UpdateQuestion)
	admin.DELETE("/questions/:id", questionHandler.DeleteQuestion)

	admin.GET("/users", userHandler.ListUsers)
	admin.GET("/users/:id", userHandler.GetUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
	admin.POST("/users/:id/force-logout", userHandler.ForceLogoutUser)

	admin.POST("/admin/register", userHandler.RegisterAdmin)
	admin.GET("/admin/questions/:id", questionHandler.GetQuestionFull)
	admin.POST("/admin/domains", userHandler.AddDomain)
	admin.GET("/admin/domains", userHandler.ListDomains)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
