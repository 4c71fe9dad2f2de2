package di

import (
	"github.com/diabify/platform/internal/handler"
	"github.com/diabify/platform/internal/repository"
	"github.com/diabify/platform/internal/service"
	"github.com/diabify/platform/internal/token"
	"github.com/diabify/platform/pkg/config"
	"github.com/diabify/platform/pkg/database"
	"github.com/diabify/platform/pkg/redis"
)

// Container holds all dependencies for the platform server
type Container struct {
	// Infrastructure
	DB    *database.PostgresDB
	Redis *redis.Client

	// Repositories
	UserRepo         repository.UserRepository
	AccessLogRepo    repository.AccessLogRepository
	ProfessionalRepo repository.ProfessionalRepository
	AppointmentRepo  repository.AppointmentRepository
	PaymentRepo      repository.PaymentRepository
	NewsletterRepo   repository.NewsletterRepository

	// Token issuers
	AdminTokens *token.AdminTokens
	UserTokens  *token.UserTokens

	// Publishers
	EventPublisher service.EventPublisher

	// Services
	AuthService        service.AuthService
	AdminService       service.AdminService
	AppointmentService service.AppointmentService
	PaymentService     service.PaymentService
	NewsletterService  service.NewsletterService

	// Handlers
	HealthHandler      *handler.HealthHandler
	AuthHandler        *handler.AuthHandler
	AdminHandler       *handler.AdminHandler
	AppointmentHandler *handler.AppointmentHandler
	WebhookHandler     *handler.WebhookHandler
	NewsletterHandler  *handler.NewsletterHandler
}

// ContainerConfig contains configuration for building the container
type ContainerConfig struct {
	Config         *config.Config
	DB             *database.PostgresDB
	Redis          *redis.Client
	EventPublisher service.EventPublisher
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *ContainerConfig) *Container {
	c := &Container{
		DB:             cfg.DB,
		Redis:          cfg.Redis,
		EventPublisher: cfg.EventPublisher,
	}
	appCfg := cfg.Config

	// Repositories
	pool := c.DB.Pool()
	c.UserRepo = repository.NewPostgresUserRepository(pool)
	c.AccessLogRepo = repository.NewPostgresAccessLogRepository(pool)
	c.ProfessionalRepo = repository.NewPostgresProfessionalRepository(pool)
	c.AppointmentRepo = repository.NewPostgresAppointmentRepository(pool)
	c.PaymentRepo = repository.NewPostgresPaymentRepository(pool)
	c.NewsletterRepo = repository.NewPostgresNewsletterRepository(pool)

	// Token issuers
	c.AdminTokens = token.NewAdminTokens(token.NewRedisStore(c.Redis), appCfg.Admin.SessionTTL)
	c.UserTokens = token.NewUserTokens(appCfg.JWT.Secret, appCfg.JWT.AccessTokenTTL, appCfg.JWT.Issuer)

	// Services
	accessLogger := service.NewAccessLogger(c.AccessLogRepo)
	loginLimiter := service.NewRedisRateLimiter(c.Redis, appCfg.Admin.LoginAttempts, appCfg.Admin.LoginWindow)

	c.AuthService = service.NewAuthService(c.UserRepo, c.UserTokens, &service.AuthServiceConfig{})
	c.AdminService = service.NewAdminService(
		c.UserRepo,
		c.AccessLogRepo,
		c.AdminTokens,
		accessLogger,
		loginLimiter,
		&service.AdminServiceConfig{
			Secret:     appCfg.Admin.Secret,
			AdminEmail: appCfg.Admin.Email,
		},
	)
	c.AppointmentService = service.NewAppointmentService(c.AppointmentRepo, c.ProfessionalRepo, c.EventPublisher)
	c.PaymentService = service.NewPaymentService(c.PaymentRepo, c.AppointmentRepo, appCfg.Webhook.Secret, c.EventPublisher)
	c.NewsletterService = service.NewNewsletterService(c.NewsletterRepo)

	// Handlers
	cookieSecure := appCfg.IsProduction()
	c.HealthHandler = handler.NewHealthHandler(c.DB, c.Redis)
	c.AuthHandler = handler.NewAuthHandler(c.AuthService, cookieSecure)
	c.AdminHandler = handler.NewAdminHandler(c.AdminService, cookieSecure)
	c.AppointmentHandler = handler.NewAppointmentHandler(c.AppointmentService)
	c.WebhookHandler = handler.NewWebhookHandler(c.PaymentService)
	c.NewsletterHandler = handler.NewNewsletterHandler(c.NewsletterService)

	return c
}
