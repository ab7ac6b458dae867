package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Mutu-s/MonFair-sub001/internal/config"
)

var ErrReportNotFound = errors.New("report not found")

// ReportStore archives rendered verification reports for download.
type ReportStore interface {
	SaveReport(ctx context.Context, kind string, gameID uint64, report string) error
	GetReport(ctx context.Context, kind string, gameID uint64) (string, error)
	ListReports(ctx context.Context, kind string, limit int64) ([]uint64, error)
	DeleteReport(ctx context.Context, kind string, gameID uint64) error
}

type RateLimiter interface {
	CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error)
}

type RedisService struct {
	client    *redis.Client
	reportTTL time.Duration
}

func NewRedisService(ctx context.Context, cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	ttl := cfg.ReportTTL
	if ttl <= 0 {
		ttl = DefaultReportTTL
	}

	return &RedisService{
		client:    client,
		reportTTL: ttl,
	}, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

func (s *RedisService) SaveReport(ctx context.Context, kind string, gameID uint64, report string) error {
	kind = strings.ToLower(kind)
	key := fmt.Sprintf(KeyReport, kind, gameID)

	if err := s.client.Set(ctx, key, report, s.reportTTL).Err(); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	indexKey := fmt.Sprintf(KeyReportIndex, kind)
	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, indexKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: strconv.FormatUint(gameID, 10),
	})
	// Keep only the most recent reports per kind
	pipe.ZRemRangeByRank(ctx, indexKey, 0, -(MaxIndexedReports + 1))
	pipe.Expire(ctx, indexKey, s.reportTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to index report: %w", err)
	}

	return nil
}

func (s *RedisService) GetReport(ctx context.Context, kind string, gameID uint64) (string, error) {
	key := fmt.Sprintf(KeyReport, strings.ToLower(kind), gameID)

	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrReportNotFound
		}
		return "", fmt.Errorf("failed to get report: %w", err)
	}

	return data, nil
}

// ListReports returns the ids of the most recently archived reports of a kind.
func (s *RedisService) ListReports(ctx context.Context, kind string, limit int64) ([]uint64, error) {
	if limit <= 0 || limit > MaxIndexedReports {
		limit = 50
	}

	indexKey := fmt.Sprintf(KeyReportIndex, strings.ToLower(kind))
	members, err := s.client.ZRevRange(ctx, indexKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	ids := make([]uint64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// DeleteReport drops an archived report and its index entry. Deleting a
// missing report returns ErrReportNotFound.
func (s *RedisService) DeleteReport(ctx context.Context, kind string, gameID uint64) error {
	kind = strings.ToLower(kind)
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, fmt.Sprintf(KeyReport, kind, gameID))
	pipe.ZRem(ctx, fmt.Sprintf(KeyReportIndex, kind), strconv.FormatUint(gameID, 10))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	if del.Val() == 0 {
		return ErrReportNotFound
	}
	return nil
}

// CheckRateLimit counts one call in the current window. A counter left
// without a TTL, for example after a failed EXPIRE, gets one here so a
// caller is never limited for good.
func (s *RedisService) CheckRateLimit(ctx context.Context, subject, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, subject, action)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	// TTL reports -1 for a key with no expiry
	if ttl.Val() < 0 {
		if err := s.client.Expire(ctx, key, window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}

	return incr.Val() <= int64(limit), nil
}
