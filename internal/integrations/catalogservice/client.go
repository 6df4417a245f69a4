package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// Client клиент для работы с каталогом услуг и мастеров
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// UseRedisCache включает кэширование ответов каталога в Redis
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// GetServices получает услуги по id
// Если каких-то услуг нет в каталоге, возвращает *MissingServicesError
func (c *Client) GetServices(ctx context.Context, ids []int64) ([]domain.Service, error) {
	found := make(map[int64]Service, len(ids))
	missing := make([]int64, 0, len(ids))

	// 1. Берем из кэша то, что есть
	for _, id := range ids {
		var s Service
		if c.readCache(ctx, serviceCacheKey(id), &s) {
			found[id] = s
			continue
		}
		missing = append(missing, id)
	}

	// 2. Остальное запрашиваем одним запросом
	if len(missing) > 0 {
		parts := make([]string, 0, len(missing))
		for _, id := range missing {
			parts = append(parts, strconv.FormatInt(id, 10))
		}
		endpoint := fmt.Sprintf("%s/internal/services?ids=%s", c.baseURL, url.QueryEscape(strings.Join(parts, ",")))

		var resp ServicesResponse
		if err := c.doGet(ctx, endpoint, &resp, nil); err != nil {
			c.log.Error("CatalogService: failed to fetch services ids=%v: %v", missing, err)
			return nil, err
		}

		for _, s := range resp.Services {
			found[s.ID] = s
			c.writeCache(ctx, serviceCacheKey(s.ID), s)
		}
	}

	// 3. Собираем результат в порядке запроса
	result := make([]domain.Service, 0, len(ids))
	var notFound []int64
	for _, id := range ids {
		s, ok := found[id]
		if !ok {
			notFound = append(notFound, id)
			continue
		}
		result = append(result, s.ToDomain())
	}

	if len(notFound) > 0 {
		c.log.Warn("CatalogService: services not found ids=%v", notFound)
		return nil, &MissingServicesError{IDs: notFound}
	}

	return result, nil
}

// GetProfessional получает мастера по id
func (c *Client) GetProfessional(ctx context.Context, id int64) (*domain.Professional, error) {
	var p Professional
	if c.readCache(ctx, professionalCacheKey(id), &p) {
		professional := p.ToDomain()
		return &professional, nil
	}

	endpoint := fmt.Sprintf("%s/internal/professionals/%d", c.baseURL, id)
	if err := c.doGet(ctx, endpoint, &p, ErrProfessionalNotFound); err != nil {
		return nil, err
	}

	c.writeCache(ctx, professionalCacheKey(id), p)

	professional := p.ToDomain()
	return &professional, nil
}

func serviceCacheKey(id int64) string {
	return fmt.Sprintf("catalog:service:%d", id)
}

func professionalCacheKey(id int64) string {
	return fmt.Sprintf("catalog:professional:%d", id)
}

func (c *Client) readCache(ctx context.Context, key string, out interface{}) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(val, out) == nil
}

func (c *Client) writeCache(ctx context.Context, key string, val interface{}) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.cacheTTL).Err(); err != nil {
		c.log.Warn("CatalogService: failed to cache %s: %v", key, err)
	}
}

// doGet выполняет GET запрос; notFound возвращается на 404, если задан
func (c *Client) doGet(ctx context.Context, endpoint string, out interface{}, notFound error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound && notFound != nil:
		return notFound
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
