package slots

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

const (
	keyPrefix = "slots:"
	scanBatch = 200
)

// Cache кэш превью слотов в Redis
// nil-кэш или кэш без клиента ничего не делает
type Cache struct {
	redis *redis.Client
	ttl   time.Duration
}

// NewCache создает кэш слотов
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{redis: client, ttl: ttl}
}

// Key ключ кэша для (дата, мастер, длительность)
func Key(date time.Time, professionalID *int64, durationMinutes int) string {
	prof := "any"
	if professionalID != nil {
		prof = fmt.Sprintf("%d", *professionalID)
	}
	return fmt.Sprintf("%s%s:%s:%d", keyPrefix, date.Format(domain.DateFormat), prof, durationMinutes)
}

func (c *Cache) enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

// Get возвращает превью дня из кэша, false при промахе
func (c *Cache) Get(ctx context.Context, key string) (domain.DayPreview, bool) {
	var preview domain.DayPreview
	if !c.enabled() {
		return preview, false
	}

	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return preview, false
	}
	if err := json.Unmarshal(val, &preview); err != nil {
		return preview, false
	}
	return preview, true
}

// Set сохраняет превью дня (окно вместе со слотами)
func (c *Cache) Set(ctx context.Context, key string, preview domain.DayPreview) error {
	if !c.enabled() {
		return nil
	}

	data, err := json.Marshal(preview)
	if err != nil {
		return fmt.Errorf("slots cache: marshal: %w", err)
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("slots cache: set %s: %w", key, err)
	}
	return nil
}

// InvalidateDate удаляет все записи на дату
func (c *Cache) InvalidateDate(ctx context.Context, date time.Time) error {
	return c.deleteByPattern(ctx, keyPrefix+date.Format(domain.DateFormat)+":*")
}

// InvalidateAll удаляет весь кэш слотов (после изменения расписания)
func (c *Cache) InvalidateAll(ctx context.Context) error {
	return c.deleteByPattern(ctx, keyPrefix+"*")
}

func (c *Cache) deleteByPattern(ctx context.Context, pattern string) error {
	if !c.enabled() {
		return nil
	}

	var cursor uint64
	for {
		keys, next, err := c.redis.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return fmt.Errorf("slots cache: scan %s: %w", pattern, err)
		}
		if len(keys) > 0 {
			if err := c.redis.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("slots cache: del: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
