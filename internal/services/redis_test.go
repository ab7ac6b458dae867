package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Mutu-s/MonFair-sub001/internal/config"
	"github.com/Mutu-s/MonFair-sub001/internal/services"
)

func setupTestRedis(t *testing.T) *services.RedisService {
	t.Helper()

	cfg := &config.Config{
		RedisURL:  "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
		ReportTTL: time.Minute,
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	redisService, err := services.NewRedisService(ctx, cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { redisService.Close() })

	return redisService
}

func TestRedisReportStore(t *testing.T) {
	redisService := setupTestRedis(t)
	ctx := context.Background()

	const kind = "dice"
	gameID := uint64(987654321)
	defer redisService.DeleteReport(ctx, kind, gameID)

	if _, err := redisService.GetReport(ctx, kind, gameID); !errors.Is(err, services.ErrReportNotFound) {
		t.Fatalf("Expected ErrReportNotFound before save, got %v", err)
	}

	if err := redisService.SaveReport(ctx, "Dice", gameID, "report body"); err != nil {
		t.Fatalf("Failed to save report: %v", err)
	}

	got, err := redisService.GetReport(ctx, kind, gameID)
	if err != nil {
		t.Fatalf("Failed to get report: %v", err)
	}
	if got != "report body" {
		t.Errorf("Report mismatch: got %q", got)
	}

	ids, err := redisService.ListReports(ctx, kind, 10)
	if err != nil {
		t.Fatalf("Failed to list reports: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == gameID {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected %d in report index %v", gameID, ids)
	}
}

func TestRedisRateLimit(t *testing.T) {
	redisService := setupTestRedis(t)
	ctx := context.Background()

	subject := "test:" + uuid.NewString()

	for i := 0; i < 3; i++ {
		allowed, err := redisService.CheckRateLimit(ctx, subject, "verify", 3, time.Minute)
		if err != nil {
			t.Fatalf("Failed to check rate limit: %v", err)
		}
		if !allowed {
			t.Fatalf("Request %d should be allowed", i+1)
		}
	}

	allowed, err := redisService.CheckRateLimit(ctx, subject, "verify", 3, time.Minute)
	if err != nil {
		t.Fatalf("Failed to check rate limit: %v", err)
	}
	if allowed {
		t.Error("Fourth request should be rate limited")
	}
}

func TestRedisRateLimitRestoresMissingWindow(t *testing.T) {
	redisService := setupTestRedis(t)
	ctx := context.Background()

	raw := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer raw.Close()

	subject := "test:" + uuid.NewString()
	key := fmt.Sprintf(services.KeyRateLimit, subject, "verify")
	defer raw.Del(ctx, key)

	// a counter whose EXPIRE never landed
	if err := raw.Set(ctx, key, 1, 0).Err(); err != nil {
		t.Fatalf("Failed to seed counter: %v", err)
	}

	if _, err := redisService.CheckRateLimit(ctx, subject, "verify", 3, time.Minute); err != nil {
		t.Fatalf("Failed to check rate limit: %v", err)
	}

	ttl, err := raw.TTL(ctx, key).Result()
	if err != nil {
		t.Fatalf("Failed to read ttl: %v", err)
	}
	if ttl <= 0 || ttl > time.Minute {
		t.Errorf("Expected counter to expire within a minute, got ttl %v", ttl)
	}
}
