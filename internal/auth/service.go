package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "mindcare-session||"
	tokensSetKey     = "mindcare-sessions"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotLoggedIn        = errors.New("not logged in")
)

type UserAccount struct {
	ID           string
	Username     string
	PasswordHash string
}

type credentialsRepo interface {
	GetByUsername(ctx context.Context, username string) (*UserAccount, error)
}

// Service keeps login sessions in redis, mapping a random token to the
// user ID it was issued for.
type Service struct {
	credentials credentialsRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	credentials credentialsRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		credentials:    credentials,
		redisClient:    redisClient,
		ttl:            ttl,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, username, password string) (string, error) {
	user, err := as.credentials.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if !pkg.CheckPasswordHash(password, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	sessionVal := fmt.Sprintf("%s||%d", user.ID, time.Now().Unix())
	if err := as.redisClient.Set(ctx, sessionKey, sessionVal, as.ttl).Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) error {
	sessionKey := sessionKeyPrefix + token
	res, err := as.redisClient.Del(ctx, sessionKey).Result()
	if err != nil {
		return err
	}
	if res == 0 {
		return ErrNotLoggedIn
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return err
	}

	return nil
}

// ScanAndClean will run through all known tokens and drop the ones
// whose session key expired in the meantime.
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	var cleaned int
	for _, token := range cmd.Val() {
		sessionKey := sessionKeyPrefix + token
		err := as.redisClient.Get(ctx, sessionKey).Err()
		if err == nil {
			continue
		}
		if !errors.Is(err, redis.Nil) {
			log.Errorf("auth service, scan and clean, get session: %s", err)
			continue
		}
		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("auth service, scan and clean, remove token: %s", err)
			continue
		}
		cleaned++
	}

	if cleaned > 0 {
		log.Debugf("auth service, scan and clean: removed %d stale sessions", cleaned)
	}
}

func parseSessionValue(val string) (userID string, createdAt time.Time, err error) {
	parts := strings.Split(val, "||")
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("malformed session value: %s", val)
	}
	var createdAtUnix int64
	if _, err := fmt.Sscanf(parts[1], "%d", &createdAtUnix); err != nil {
		return "", time.Time{}, fmt.Errorf("malformed session timestamp: %w", err)
	}
	return parts[0], time.Unix(createdAtUnix, 0), nil
}
