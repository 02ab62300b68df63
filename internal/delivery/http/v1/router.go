package v1

import (
	"net/http"
	"time"

	"event-staffing-backend/config"
	"event-staffing-backend/internal/delivery/http/middleware"
	"event-staffing-backend/internal/delivery/http/response"
	"event-staffing-backend/internal/domain"
	"event-staffing-backend/internal/session"
	"event-staffing-backend/internal/usecase"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC         domain.AuthUsecase
	ProfileUC      domain.ProfileUsecase
	CompanyUC      domain.CompanyUsecase
	EventUC        domain.EventUsecase
	JobUC          domain.JobUsecase
	ApplicationUC  domain.ApplicationUsecase
	MessageUC      domain.MessageUsecase
	NotificationUC domain.NotificationUsecase
	RatingUC       domain.RatingUsecase
	PaymentUC      domain.PaymentUsecase
	WalletUC       domain.WalletUsecase
	OverviewUC     domain.OverviewUsecase
	HealthUC       usecase.HealthUsecase

	Auth          domain.AuthClient
	Sessions      *session.Manager
	UploadLimiter UploadLimiter
	Redis         *goredis.Client // nil keeps rate limits in memory
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.Production())) // CORS must be first!
	r.Use(middleware.RequestID())
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.SecurityHeadersMiddleware(cfg.Production()))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(deps.Redis, middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, cfg.RateLimitWindow)))
	r.Use(middleware.CSRFMiddleware(cfg.SessionCookieSecure, "/auth/login", "/auth/register"))
	r.Use(middleware.SessionMiddleware(deps.Sessions, deps.Auth, middleware.SessionConfig{
		RefreshMargin: cfg.SessionRefreshMargin,
		LoadTimeout:   3 * time.Second,
	}))

	r.GET("/health", func(c *gin.Context) {
		report, healthy := deps.HealthUC.Check(c.Request.Context())
		if !healthy {
			response.Error(c, http.StatusServiceUnavailable, "System degraded", report)
			return
		}
		response.Success(c, http.StatusOK, "System operational", report)
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, http.StatusNotFound, "Page not found", gin.H{"path": c.Request.URL.Path})
	})

	public := r.Group("")
	authenticated := r.Group("", middleware.ProtectedRoute(""))
	company := r.Group("", middleware.ProtectedRoute(domain.UserTypeCompany))
	promoter := r.Group("", middleware.ProtectedRoute(domain.UserTypePromoter))

	loginLimited := middleware.RateLimitMiddleware(deps.Redis, middleware.LoginRateLimitConfig(cfg.RateLimitLoginThreshold, cfg.RateLimitWindow))
	NewAuthHandler(public, loginLimited, deps.AuthUC, deps.Sessions, CookieConfig{
		TTL:    cfg.SessionTTL,
		Secure: cfg.SessionCookieSecure,
	})
	NewPageHandler(public, authenticated, deps.OverviewUC, deps.EventUC)

	// any signed-in user
	NewJobHandler(authenticated, deps.JobUC, deps.ApplicationUC)
	NewRatingHandler(authenticated, deps.RatingUC)
	NewProfileHandler(authenticated, deps.ProfileUC, deps.UploadLimiter, deps.Sessions)
	NewMessageHandler(authenticated, deps.MessageUC)
	NewNotificationHandler(authenticated, deps.NotificationUC)

	// company only
	NewManageJobsHandler(company, deps.EventUC, deps.JobUC)
	NewApplicationHandler(company, deps.ApplicationUC)
	NewPaymentHandler(company, deps.PaymentUC)
	NewCompanyProfileHandler(company, deps.CompanyUC, deps.UploadLimiter)

	// promoter only
	NewWalletHandler(promoter, deps.WalletUC, deps.PaymentUC)

	return r
}
