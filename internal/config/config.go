package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type AppConfig struct {
	Port    int    `yaml:"port"`
	GinMode string `yaml:"gin_mode"`
}

type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	Issuer     string `yaml:"issuer"`
	Audience   string `yaml:"audience"`
	AccessTTL  string `yaml:"access_ttl"`
	RefreshTTL string `yaml:"refresh_ttl"`
}

type OTPConfig struct {
	TTL          string `yaml:"ttl"`
	Length       int    `yaml:"length"`
	MaxAttempts  int    `yaml:"max_attempts"`
	ResendWindow string `yaml:"resend_window"`
}

type OAuthProviderConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
}

type OAuthConfig struct {
	Google OAuthProviderConfig `yaml:"google"`
	Apple  OAuthProviderConfig `yaml:"apple"`
}

type PostmarkConfig struct {
	ServerToken  string `yaml:"server_token"`
	AccountToken string `yaml:"account_token"`
	From         string `yaml:"from"`
}

type BlacklistConfig struct {
	MaxSize int    `yaml:"max_size"`
	TTL     string `yaml:"ttl"`
}

type ClientConfig struct {
	NetworkTimeout string `yaml:"network_timeout"`
}

type ConfigFile struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	JWT       JWTConfig       `yaml:"jwt"`
	OTP       OTPConfig       `yaml:"otp"`
	OAuth     OAuthConfig     `yaml:"oauth"`
	Postmark  PostmarkConfig  `yaml:"postmark"`
	Blacklist BlacklistConfig `yaml:"blacklist"`
	Client    ClientConfig    `yaml:"client"`
}

type Config struct {
	Port    string
	GinMode string

	DSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret   string
	JWTIssuer   string
	JWTAudience string
	AccessTTL   time.Duration
	RefreshTTL  time.Duration

	OTPTTL          time.Duration
	OTPLength       int
	OTPMaxAttempts  int
	OTPResendWindow time.Duration

	GoogleOAuth OAuthProviderConfig
	AppleOAuth  OAuthProviderConfig

	PostmarkServerToken  string
	PostmarkAccountToken string
	PostmarkFrom         string

	BlacklistMaxSize int
	BlacklistTTL     time.Duration

	ClientNetworkTimeout time.Duration
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func Load() (*Config, error) {
	return LoadFrom("config/config.yml")
}

func LoadFrom(path string) (*Config, error) {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	configFile, err := loadConfigFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	accTTL, err := time.ParseDuration(configFile.JWT.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT access TTL: %w", err)
	}
	refTTL, err := time.ParseDuration(configFile.JWT.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT refresh TTL: %w", err)
	}
	otpTTL, err := time.ParseDuration(configFile.OTP.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP TTL: %w", err)
	}
	resWnd, err := time.ParseDuration(configFile.OTP.ResendWindow)
	if err != nil {
		return nil, fmt.Errorf("invalid OTP resend window: %w", err)
	}
	blTTL, err := time.ParseDuration(configFile.Blacklist.TTL)
	if err != nil {
		return nil, fmt.Errorf("invalid blacklist TTL: %w", err)
	}
	netTimeout := 30 * time.Second
	if configFile.Client.NetworkTimeout != "" {
		netTimeout, err = time.ParseDuration(configFile.Client.NetworkTimeout)
		if err != nil {
			return nil, fmt.Errorf("invalid client network timeout: %w", err)
		}
	}

	return &Config{
		Port:    fmt.Sprintf("%d", configFile.App.Port),
		GinMode: configFile.App.GinMode,

		DSN: env("DATABASE_DSN", configFile.Database.DSN),

		RedisAddr:     env("REDIS_ADDR", configFile.Redis.Addr),
		RedisPassword: env("REDIS_PASSWORD", configFile.Redis.Password),
		RedisDB:       configFile.Redis.DB,

		JWTSecret:   env("JWT_SECRET", configFile.JWT.Secret),
		JWTIssuer:   configFile.JWT.Issuer,
		JWTAudience: configFile.JWT.Audience,
		AccessTTL:   accTTL,
		RefreshTTL:  refTTL,

		OTPTTL:          otpTTL,
		OTPLength:       configFile.OTP.Length,
		OTPMaxAttempts:  configFile.OTP.MaxAttempts,
		OTPResendWindow: resWnd,

		GoogleOAuth: OAuthProviderConfig{
			ClientID:     env("GOOGLE_CLIENT_ID", configFile.OAuth.Google.ClientID),
			ClientSecret: env("GOOGLE_CLIENT_SECRET", configFile.OAuth.Google.ClientSecret),
			RedirectURL:  configFile.OAuth.Google.RedirectURL,
		},
		AppleOAuth: OAuthProviderConfig{
			ClientID:     env("APPLE_CLIENT_ID", configFile.OAuth.Apple.ClientID),
			ClientSecret: env("APPLE_CLIENT_SECRET", configFile.OAuth.Apple.ClientSecret),
			RedirectURL:  configFile.OAuth.Apple.RedirectURL,
		},

		PostmarkServerToken:  env("POSTMARK_SERVER_TOKEN", configFile.Postmark.ServerToken),
		PostmarkAccountToken: env("POSTMARK_ACCOUNT_TOKEN", configFile.Postmark.AccountToken),
		PostmarkFrom:         configFile.Postmark.From,

		BlacklistMaxSize: configFile.Blacklist.MaxSize,
		BlacklistTTL:     blTTL,

		ClientNetworkTimeout: netTimeout,
	}, nil
}

func loadConfigFile(path string) (*ConfigFile, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(bytes, &config); err != nil {
		return nil, fmt.Errorf("could not parse config yaml: %w", err)
	}

	return &config, nil
}
