package labels

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/puzpuzpuz/xsync/v3"
	"github.com/sony/gobreaker/v2"
)

var (
	// 错误：熔断器打开
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// 错误：名称服务中没有该教室
	ErrNotFound = errors.New("label not found")
)

// 名称服务客户端配置，零值使用默认值
type HTTPConfig struct {
	// 如 http://names.local/api
	BaseURL string
	// 单次请求超时，默认2s
	Timeout time.Duration
	// 失败重试次数，默认2
	MaxRetries uint64
	// 首次重试间隔，默认50ms
	InitialInterval time.Duration
	// 熔断打开后进入半开状态的时间，默认30s
	BreakerTimeout time.Duration
}

func (c *HTTPConfig) setDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 2 * time.Second
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 2
	}
	if c.InitialInterval == 0 {
		c.InitialInterval = 50 * time.Millisecond
	}
	if c.BreakerTimeout == 0 {
		c.BreakerTimeout = 30 * time.Second
	}
}

// 通过 GET {base}/floors/{floor}/classrooms/{id} 查询名称，响应为 {"name": "..."}
// 查询成功的名称会被缓存
type HTTPLookup struct {
	config  HTTPConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[string]
	cache   *xsync.MapOf[key, string]
}

type labelResponse struct {
	Name string `json:"name"`
}

func NewHTTPLookup(cfg HTTPConfig) *HTTPLookup {
	cfg.setDefaults()
	return &HTTPLookup{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
			Name:        "labels",
			MaxRequests: 1,
			Timeout:     cfg.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
			},
			// 404不计入失败
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, ErrNotFound)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Warnf("circuit breaker %s: %s -> %s", name, from, to)
			},
		}),
		cache: xsync.NewMapOf[key, string](),
	}
}

func (l *HTTPLookup) Label(ctx context.Context, floor string, classroom int) string {
	name, err := l.Fetch(ctx, floor, classroom)
	if err != nil {
		log.Debugf("label of %s/%d unavailable: %v", floor, classroom, err)
		return Fallback(floor, classroom)
	}
	return name
}

// 查询名称服务，临时错误按指数退避重试
func (l *HTTPLookup) Fetch(ctx context.Context, floor string, classroom int) (string, error) {
	k := key{floor, classroom}
	if name, ok := l.cache.Load(k); ok {
		return name, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = l.config.InitialInterval
	bo.MaxElapsedTime = 0
	policy := backoff.WithContext(backoff.WithMaxRetries(bo, l.config.MaxRetries), ctx)

	var name string
	err := backoff.Retry(func() error {
		var err error
		name, err = l.breaker.Execute(func() (string, error) {
			return l.get(ctx, floor, classroom)
		})
		switch {
		case err == nil:
			return nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			return backoff.Permanent(ErrCircuitOpen)
		case errors.Is(err, ErrNotFound):
			return backoff.Permanent(err)
		default:
			return err
		}
	}, policy)
	if err != nil {
		return "", err
	}
	l.cache.Store(k, name)
	return name, nil
}

func (l *HTTPLookup) get(ctx context.Context, floor string, classroom int) (string, error) {
	u := fmt.Sprintf("%s/floors/%s/classrooms/%s",
		l.config.BaseURL, url.PathEscape(floor), strconv.Itoa(classroom))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", ErrNotFound
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("name service: %s", resp.Status)
	}
	var body labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decode label: %w", err)
	}
	if body.Name == "" {
		return "", ErrNotFound
	}
	return body.Name, nil
}

// 熔断器当前状态
func (l *HTTPLookup) CircuitBreakerState() gobreaker.State {
	return l.breaker.State()
}
