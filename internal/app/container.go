package app

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/guyghost/wakeve-auth/domain"
	"github.com/guyghost/wakeve-auth/internal/config"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/auth"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/cache"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/database"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/notifications"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/oauth"
	"github.com/guyghost/wakeve-auth/internal/infrastructure/repositories"
	"github.com/guyghost/wakeve-auth/internal/metrics"
	"github.com/guyghost/wakeve-auth/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Blacklist   *cache.BlacklistCache
	Registry    *prometheus.Registry
	Metrics     *metrics.Collector

	// Repositories
	UserRepo    domain.UserRepository
	SessionRepo domain.SessionRepository

	// Services
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPSvc          domain.OTPService
	SessionMgr      domain.SessionManager
	AuthSvc         domain.AuthService
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()
	container.initMetrics()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Client.Ping(ctx).Err(); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.SessionRepo = repositories.NewSessionRepository(c.DB)
}

func (c *Container) initMetrics() {
	c.Registry = prometheus.NewRegistry()
	c.Metrics = metrics.NewCollector(c.Registry)
}

func (c *Container) initServices() error {
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.JWTAudience,
		c.Config.AccessTTL,
		c.Config.RefreshTTL,
		c.UserRepo,
	)

	notificationSvc, err := notifications.NewPostmarkService(
		c.Config.PostmarkServerToken,
		c.Config.PostmarkAccountToken,
		c.Config.PostmarkFrom,
	)
	if err != nil {
		return err
	}
	c.NotificationSvc = notificationSvc

	otpConfig := services.OTPConfig{
		Length:       c.Config.OTPLength,
		TTL:          c.Config.OTPTTL,
		MaxAttempts:  c.Config.OTPMaxAttempts,
		ResendWindow: c.Config.OTPResendWindow,
	}
	c.OTPSvc = services.NewOTPService(c.NotificationSvc, c.RedisClient, otpConfig)

	c.Blacklist = cache.NewBlacklistCache(c.Config.BlacklistMaxSize, c.Config.BlacklistTTL)
	c.Blacklist.OnEvict(func(string) { c.Metrics.RecordBlacklistEviction() })
	c.SessionMgr = services.NewSessionManager(c.SessionRepo, c.Blacklist, c.Metrics)

	exchangers := []domain.OAuthExchanger{
		oauth.NewGoogleExchanger(oauth.GoogleConfig{
			ClientID:     c.Config.GoogleOAuth.ClientID,
			ClientSecret: c.Config.GoogleOAuth.ClientSecret,
			RedirectURL:  c.Config.GoogleOAuth.RedirectURL,
		}),
		oauth.NewAppleExchanger(oauth.AppleConfig{
			ClientID:     c.Config.AppleOAuth.ClientID,
			ClientSecret: c.Config.AppleOAuth.ClientSecret,
			RedirectURL:  c.Config.AppleOAuth.RedirectURL,
		}),
	}

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.SessionRepo,
		c.TokenSvc,
		c.OTPSvc,
		exchangers,
		c.Metrics,
	)

	return nil
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
