package services

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/guyghost/wakeve-auth/domain"
)

// OTPServiceImpl implements domain.OTPService using Redis persistence.
// Codes are stored bcrypt-hashed so a Redis dump never exposes a live code.
type OTPServiceImpl struct {
	notificationSvc domain.NotificationService
	redisClient     *redis.Client
	config          OTPConfig
}

type OTPConfig struct {
	Length       int
	TTL          time.Duration
	MaxAttempts  int
	ResendWindow time.Duration
}

func DefaultOTPConfig() OTPConfig {
	return OTPConfig{
		Length:       6,
		TTL:          5 * time.Minute,
		MaxAttempts:  3,
		ResendWindow: 60 * time.Second,
	}
}

// NewOTPService creates a new Redis-based OTP service.
func NewOTPService(notificationSvc domain.NotificationService, redisClient *redis.Client, config OTPConfig) domain.OTPService {
	return &OTPServiceImpl{
		notificationSvc: notificationSvc,
		redisClient:     redisClient,
		config:          config,
	}
}

func otpKey(email string) string      { return fmt.Sprintf("otp:%s", email) }
func attemptsKey(email string) string { return fmt.Sprintf("otp:att:%s", email) }
func resendKey(email string) string   { return fmt.Sprintf("otp:res:%s", email) }

// Generate implements domain.OTPService with Redis persistence.
func (s *OTPServiceImpl) Generate(ctx context.Context, email string) (*domain.OTPChallenge, error) {
	// Check resend throttle
	if canResend, waitTime, _ := s.CanResend(ctx, email); !canResend {
		return nil, fmt.Errorf("%w: wait %d seconds before requesting a new code", domain.ErrOTPResendLimit, waitTime)
	}

	code, err := s.generateSecureCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate OTP code: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash OTP code: %w", err)
	}

	// Store hashed OTP in Redis with TTL
	if err := s.redisClient.Set(ctx, otpKey(email), string(hash), s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to store OTP in Redis: %w", err)
	}

	// Initialize attempts counter
	if err := s.redisClient.Set(ctx, attemptsKey(email), 0, s.config.TTL).Err(); err != nil {
		return nil, fmt.Errorf("failed to initialize attempts counter: %w", err)
	}

	// Set resend throttle
	if err := s.redisClient.Set(ctx, resendKey(email), 1, s.config.ResendWindow).Err(); err != nil {
		return nil, fmt.Errorf("failed to set resend throttle: %w", err)
	}

	subject := "Your verification code"
	body := fmt.Sprintf("Your verification code is: %s. Valid for %d minutes.", code, int(s.config.TTL.Minutes()))
	if err := s.notificationSvc.SendEmail(email, subject, body); err != nil {
		// Clean up Redis entries if delivery fails
		s.redisClient.Del(ctx, otpKey(email), attemptsKey(email), resendKey(email))
		return nil, fmt.Errorf("failed to send OTP email: %w", err)
	}

	return &domain.OTPChallenge{
		Email:     email,
		ExpiresAt: time.Now().Add(s.config.TTL),
		Attempts:  0,
	}, nil
}

// Verify implements domain.OTPService with Redis persistence. An expired
// challenge is reported as expired even when the attempt budget is also
// exhausted.
func (s *OTPServiceImpl) Verify(ctx context.Context, email, code string) (bool, int, error) {
	storedHash, err := s.redisClient.Get(ctx, otpKey(email)).Result()
	if err == redis.Nil {
		return false, 0, domain.ErrOTPExpired
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to get OTP from Redis: %w", err)
	}

	// Increment attempts counter atomically
	attempts, err := s.redisClient.Incr(ctx, attemptsKey(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to increment attempts: %w", err)
	}

	if attempts > int64(s.config.MaxAttempts) {
		s.redisClient.Del(ctx, otpKey(email), attemptsKey(email))
		return false, 0, domain.ErrOTPMaxAttempts
	}

	remaining := s.config.MaxAttempts - int(attempts)

	if bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(code)) != nil {
		if remaining <= 0 {
			// Final attempt burned the challenge.
			s.redisClient.Del(ctx, otpKey(email), attemptsKey(email))
		}
		return false, remaining, domain.ErrOTPInvalid
	}

	// Success - clean up Redis entries
	s.redisClient.Del(ctx, otpKey(email), attemptsKey(email))

	return true, remaining, nil
}

// CanResend implements domain.OTPService with Redis-based throttling.
func (s *OTPServiceImpl) CanResend(ctx context.Context, email string) (bool, int64, error) {
	ttl, err := s.redisClient.TTL(ctx, resendKey(email)).Result()
	if err != nil {
		return false, 0, fmt.Errorf("failed to check resend TTL: %w", err)
	}

	// If TTL <= 0, key doesn't exist or has expired - can resend
	if ttl <= 0 {
		return true, 0, nil
	}

	return false, int64(ttl.Seconds()), nil
}

// generateSecureCode generates a cryptographically secure numeric code.
func (s *OTPServiceImpl) generateSecureCode() (string, error) {
	digits := make([]byte, s.config.Length)

	for i := 0; i < s.config.Length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + num.Int64())
	}

	return string(digits), nil
}
