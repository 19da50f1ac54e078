package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sort"
	"strings"
	"time"

	"cohort-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

var client *redis.Client

// Init initializes the Redis connection. Failure is non-fatal: the engine
// degrades to computing every breakdown.
func Init() error {
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis"
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Enabled reports whether a redis client survived Init.
func Enabled() bool {
	return client != nil
}

func Ping(ctx context.Context) error {
	if client == nil {
		return redis.ErrClosed
	}
	return client.Ping(ctx).Err()
}

// BreakdownKey derives a stable cache key from everything the breakdown
// computation depends on. Identical inputs produce identical breakdowns, so
// the hash is safe to serve from cache.
func BreakdownKey(req *models.EngineRequest) string {
	h := sha256.New()
	h.Write([]byte(req.CohortID))
	h.Write([]byte{'|'})
	h.Write([]byte(req.StudentID))
	h.Write([]byte{'|'})
	h.Write([]byte(req.PaymentPlan))
	h.Write([]byte{'|'})
	h.Write([]byte(req.ScholarshipID))
	if req.ScholarshipData != nil {
		raw, _ := json.Marshal(req.ScholarshipData)
		h.Write(raw)
	}
	h.Write([]byte{'|'})
	raw, _ := json.Marshal(req.AdditionalDiscountPercentage)
	h.Write(raw)

	// Map iteration order is random; hash custom dates in sorted key order.
	if len(req.CustomDates) > 0 {
		keys := make([]string, 0, len(req.CustomDates))
		for k := range req.CustomDates {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var sb strings.Builder
		for _, k := range keys {
			sb.WriteString(k)
			sb.WriteByte('=')
			sb.WriteString(req.CustomDates[k])
			sb.WriteByte(';')
		}
		h.Write([]byte(sb.String()))
	}

	return "breakdown:" + hex.EncodeToString(h.Sum(nil))[:40]
}

// GetBreakdown returns a cached breakdown if present.
func GetBreakdown(ctx context.Context, key string) (*models.Breakdown, bool) {
	if client == nil {
		return nil, false
	}
	raw, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var b models.Breakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, false
	}
	return &b, true
}

// PutBreakdown caches a computed breakdown for the given TTL.
func PutBreakdown(ctx context.Context, key string, b *models.Breakdown, ttl time.Duration) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return
	}
	client.Set(ctx, key, raw, ttl)
}
