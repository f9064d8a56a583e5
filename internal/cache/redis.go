package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/uppa/uppa_core/internal/models"
)

var (
	client     *redis.Client
	clientOnce sync.Once
	clientErr  error
)

// Config holds Redis configuration
type Config struct {
	Host       string
	Port       int
	Password   string
	DB         int
	RankingTTL time.Duration
	SessionTTL time.Duration
	MutexTTL   time.Duration
}

// LoadConfigFromEnv loads Redis configuration from environment variables
func LoadConfigFromEnv() *Config {
	port, _ := strconv.Atoi(getEnv("REDIS_PORT", "6379"))
	db, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	rankingTTL, _ := time.ParseDuration(getEnv("CACHE_RANKING_TTL", "30s"))
	sessionTTL, _ := time.ParseDuration(getEnv("CACHE_SESSION_TTL", "24h"))
	mutexTTL, _ := time.ParseDuration(getEnv("CACHE_MUTEX_TTL", "5s"))

	return &Config{
		Host:       getEnv("REDIS_HOST", "localhost"),
		Port:       port,
		Password:   getEnv("REDIS_PASSWORD", ""),
		DB:         db,
		RankingTTL: rankingTTL,
		SessionTTL: sessionTTL,
		MutexTTL:   mutexTTL,
	}
}

// GetClient returns the global Redis client (singleton pattern)
func GetClient() (*redis.Client, error) {
	clientOnce.Do(func() {
		config := LoadConfigFromEnv()

		opts := &redis.Options{
			Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
			Password:     config.Password,
			DB:           config.DB,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			PoolSize:     10,
			MinIdleConns: 2,
		}

		// Enable TLS if configured (required for Upstash)
		if getEnv("REDIS_TLS_ENABLED", "false") == "true" {
			opts.TLSConfig = &tls.Config{
				MinVersion: tls.VersionTLS12,
			}
		}

		client = redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Ping(ctx).Err(); err != nil {
			clientErr = fmt.Errorf("failed to connect to Redis: %w", err)
			return
		}
	})

	return client, clientErr
}

// Close closes the Redis client
func Close() {
	if client != nil {
		client.Close()
	}
}

// RankingKey generates the cache key for a session's provider ranking
func RankingKey(sessionToken string) string {
	return fmt.Sprintf("ranking:%s", sessionToken)
}

// SessionKey generates the key mapping a token to its session record
func SessionKey(token string) string {
	return fmt.Sprintf("session:%s", token)
}

// LockKey generates a mutex lock key
func LockKey(key string) string {
	return fmt.Sprintf("lock:%s", key)
}

// SessionRecord is what survives in Redis across API instances: enough
// to re-associate a bearer token with its user.
type SessionRecord struct {
	Token     string `json:"token"`
	UserName  string `json:"user_name"`
	CreatedAt int64  `json:"created_at"`
}

// StoreSession persists a session record under its token
func StoreSession(ctx context.Context, rec SessionRecord, ttl time.Duration) error {
	client, err := GetClient()
	if err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return client.Set(ctx, SessionKey(rec.Token), data, ttl).Err()
}

// GetSession retrieves a session record, nil on cache miss
func GetSession(ctx context.Context, token string) (*SessionRecord, error) {
	client, err := GetClient()
	if err != nil {
		return nil, err
	}

	data, err := client.Get(ctx, SessionKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}

	return &rec, nil
}

// DeleteSession removes a session record
func DeleteSession(ctx context.Context, token string) error {
	client, err := GetClient()
	if err != nil {
		return err
	}

	return client.Del(ctx, SessionKey(token)).Err()
}

// GetRanking retrieves a cached ranking snapshot, nil on cache miss
func GetRanking(ctx context.Context, key string) ([]models.MicromobilityService, error) {
	client, err := GetClient()
	if err != nil {
		return nil, err
	}

	data, err := client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}

	var ranking []models.MicromobilityService
	if err := json.Unmarshal(data, &ranking); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached ranking: %w", err)
	}

	return ranking, nil
}

// SetRanking caches a ranking snapshot
func SetRanking(ctx context.Context, key string, ranking []models.MicromobilityService, ttl time.Duration) error {
	client, err := GetClient()
	if err != nil {
		return err
	}

	data, err := json.Marshal(ranking)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking: %w", err)
	}

	return client.Set(ctx, key, data, ttl).Err()
}

// AcquireLock attempts to acquire a distributed lock
// Returns true if lock was acquired, false if already locked
func AcquireLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	client, err := GetClient()
	if err != nil {
		return false, err
	}

	ok, err := client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseLock releases a distributed lock
func ReleaseLock(ctx context.Context, key string) error {
	client, err := GetClient()
	if err != nil {
		return err
	}

	return client.Del(ctx, key).Err()
}

// WaitForRanking waits for a ranking rebuild lock to be released and
// then retrieves the cached result. This avoids a thundering herd when
// many clients ask for the ranking at once.
func WaitForRanking(ctx context.Context, rankingKey string, maxWait time.Duration) ([]models.MicromobilityService, error) {
	client, err := GetClient()
	if err != nil {
		return nil, err
	}

	lockKey := LockKey(rankingKey)
	deadline := time.Now().Add(maxWait)

	for time.Now().Before(deadline) {
		exists, err := client.Exists(ctx, lockKey).Result()
		if err != nil {
			return nil, err
		}

		if exists == 0 {
			return GetRanking(ctx, rankingKey)
		}

		time.Sleep(100 * time.Millisecond)
	}

	return nil, fmt.Errorf("timeout waiting for lock")
}

// HealthCheck performs a health check on the Redis connection
func HealthCheck(ctx context.Context) error {
	client, err := GetClient()
	if err != nil {
		return fmt.Errorf("Redis client not initialized: %w", err)
	}

	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("Redis ping failed: %w", err)
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
