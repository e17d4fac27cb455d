package metaclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	metadomain "github.com/vfg2006/mruda-api/infrastructure/integrator/meta/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type page[T any] struct {
	Data   []T               `json:"data"`
	Paging metadomain.Paging `json:"paging"`
}

func (c *MetaClient) endpointURL(endpoint string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	if params.Get("access_token") == "" {
		params.Set("access_token", c.cfg.AccessToken)
	}
	return fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.cfg.URL, "/"), strings.TrimLeft(endpoint, "/"), params.Encode())
}

// withToken acrescenta o access_token quando o link de paginação não o traz
func (c *MetaClient) withToken(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("link de paginação inválido: %w", err)
	}

	query := parsed.Query()
	if query.Get("access_token") == "" {
		query.Set("access_token", c.cfg.AccessToken)
		parsed.RawQuery = query.Encode()
	}

	return parsed.String(), nil
}

// get executa um GET com rate limit, circuit breaker e retentativas com backoff exponencial
func (c *MetaClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		result, err := c.breaker.Execute(func() (interface{}, error) {
			return c.do(ctx, rawURL)
		})
		if err == nil {
			return result.([]byte), nil
		}

		lastErr = err
		if !retryable(ctx, err) || attempt == c.cfg.MaxRetries {
			break
		}

		wait := c.cfg.RetryBaseDelay * time.Duration(1<<(attempt-1))
		logrus.WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait.String(),
			"error":   err.Error(),
		}).Warn("meta: falha transitória, tentando novamente")

		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

func (c *MetaClient) do(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("erro ao ler resposta da meta: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &metadomain.APIError{StatusCode: resp.StatusCode}
		var errResp metadomain.ErrorResponse
		if json.Unmarshal(body, &errResp) == nil {
			apiErr.Details = errResp.Error
		}
		return nil, apiErr
	}

	return body, nil
}

// paginate segue paging.next até o fim ou até o limite de páginas
func paginate[T any](ctx context.Context, c *MetaClient, firstURL string) ([]T, error) {
	var all []T
	next := firstURL

	for pages := 0; next != "" && pages < c.cfg.MaxPages; pages++ {
		body, err := c.get(ctx, next)
		if err != nil {
			return nil, err
		}

		var p page[T]
		if err := json.Unmarshal(body, &p); err != nil {
			return nil, fmt.Errorf("resposta da meta inválida: %w", err)
		}
		all = append(all, p.Data...)

		next = ""
		if p.Paging.Next != "" {
			next, err = c.withToken(p.Paging.Next)
			if err != nil {
				return nil, err
			}
		}
	}

	if next != "" {
		logrus.WithField("max_pages", c.cfg.MaxPages).Warn("meta: limite de páginas atingido, resultado truncado")
	}

	return all, nil
}

func asAPIError(err error) (*metadomain.APIError, bool) {
	var apiErr *metadomain.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// retryable: 429 e 5xx da API ou falhas de transporte. Circuito aberto e
// cancelamento do contexto encerram na hora.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	if apiErr, ok := asAPIError(err); ok {
		return apiErr.Retryable()
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	return true
}
