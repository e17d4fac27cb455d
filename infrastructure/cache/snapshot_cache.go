package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
	"github.com/vfg2006/mruda-api/internal/config"
	"github.com/vfg2006/mruda-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const latestSnapshotKey = "mruda:analysis:latest"

// cachedSnapshot existe porque ResultJSON não é serializado no snapshot
type cachedSnapshot struct {
	ID             int64     `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	SchemaVersion  string    `json:"schema_version"`
	DateRangeStart string    `json:"date_range_start"`
	DateRangeEnd   string    `json:"date_range_end"`
	Result         []byte    `json:"result"`
}

// SnapshotCache guarda o snapshot mais recente no Redis
type SnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSnapshotCache conecta ao Redis. Retorna nil, nil quando o endereço não está configurado.
func NewSnapshotCache(ctx context.Context, cfg config.Redis) (*SnapshotCache, error) {
	if cfg.Addr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("falha ao conectar no redis: %w", err)
	}

	return NewSnapshotCacheWithClient(client, cfg.SnapshotTTL), nil
}

func NewSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{client: client, ttl: ttl}
}

func (c *SnapshotCache) GetLatest(ctx context.Context) (*domain.AnalysisSnapshot, error) {
	val, err := c.client.Get(ctx, latestSnapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var cached cachedSnapshot
	if err := json.Unmarshal([]byte(val), &cached); err != nil {
		return nil, fmt.Errorf("snapshot em cache inválido: %w", err)
	}

	return &domain.AnalysisSnapshot{
		ID:             cached.ID,
		CreatedAt:      cached.CreatedAt,
		SchemaVersion:  cached.SchemaVersion,
		DateRangeStart: cached.DateRangeStart,
		DateRangeEnd:   cached.DateRangeEnd,
		ResultJSON:     cached.Result,
	}, nil
}

func (c *SnapshotCache) SetLatest(ctx context.Context, snapshot *domain.AnalysisSnapshot) error {
	payload, err := encodeSnapshot(snapshot)
	if err != nil {
		return err
	}

	if err := c.client.Set(ctx, latestSnapshotKey, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}

func (c *SnapshotCache) Close() error {
	return c.client.Close()
}

func encodeSnapshot(snapshot *domain.AnalysisSnapshot) (string, error) {
	payload, err := json.Marshal(cachedSnapshot{
		ID:             snapshot.ID,
		CreatedAt:      snapshot.CreatedAt,
		SchemaVersion:  snapshot.SchemaVersion,
		DateRangeStart: snapshot.DateRangeStart,
		DateRangeEnd:   snapshot.DateRangeEnd,
		Result:         snapshot.ResultJSON,
	})
	if err != nil {
		return "", fmt.Errorf("falha ao serializar snapshot: %w", err)
	}
	return string(payload), nil
}
