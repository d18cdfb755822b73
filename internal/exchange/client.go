// Package exchange — клиент сервиса курсов api.exchangerate.host.
// Все запросы идут на endpoints /convert и /list; результаты конвертации
// кэшируются (см. Cache), чтобы не превышать лимит запросов API.
package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Виды ошибок сервиса курсов.
const (
	KindRequestFailed   = "request_failed"   // сеть, таймаут
	KindInvalidResponse = "invalid_response" // тело не разобралось как JSON
	KindAPIError        = "api_error"        // провайдер вернул success=false
)

// Error — структурированная ошибка сервиса курсов. Поле Info содержит сырой
// текст провайдера и предназначено только для логов, не для пользователя.
type Error struct {
	Kind string
	Code string
	Info string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("exchange: %s (code %s): %s", e.Kind, e.Code, e.Info)
	}
	return fmt.Sprintf("exchange: %s: %s", e.Kind, e.Info)
}

// Подстроки, по которым в тексте ошибки провайдера распознаётся превышение
// лимита запросов.
var limitMarkers = []string{"limit", "rate", "exceeded", "limitation", "maximum"}

// IsRateLimited сообщает, похожа ли ошибка на превышение лимита запросов API.
func IsRateLimited(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	info := strings.ToLower(e.Info)
	for _, m := range limitMarkers {
		if strings.Contains(info, m) {
			return true
		}
	}
	return false
}

// Client ходит в api.exchangerate.host. Таймаут запроса фиксированный:
// недоступность сервиса и таймаут обрабатываются одинаково (request_failed).
type Client struct {
	baseURL   string
	accessKey string
	http      *http.Client
}

// NewClient создает клиент сервиса курсов.
func NewClient(baseURL, accessKey string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type apiErrorBody struct {
	Code json.Number `json:"code"`
	Info string      `json:"info"`
}

type convertResponse struct {
	Success bool `json:"success"`
	Query   struct {
		From   string  `json:"from"`
		To     string  `json:"to"`
		Amount float64 `json:"amount"`
	} `json:"query"`
	Result float64       `json:"result"`
	Error  *apiErrorBody `json:"error"`
	Info   string        `json:"info"`
}

// Convert конвертирует amount из from в to через endpoint /convert.
// Возвращает результат в валюте to либо *Error.
func (c *Client) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	q := url.Values{}
	q.Set("access_key", c.accessKey)
	q.Set("from", strings.ToUpper(from))
	q.Set("to", strings.ToUpper(to))
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))

	var resp convertResponse
	if err := c.get(ctx, "/convert", q, &resp); err != nil {
		return 0, err
	}
	if !resp.Success {
		return 0, apiError(resp.Error, resp.Info)
	}
	return resp.Result, nil
}

type listResponse struct {
	Success    bool              `json:"success"`
	Currencies map[string]string `json:"currencies"`
	Error      *apiErrorBody     `json:"error"`
	Info       string            `json:"info"`
}

// Currencies возвращает список поддерживаемых валют (код → название) через
// endpoint /list.
func (c *Client) Currencies(ctx context.Context) (map[string]string, error) {
	q := url.Values{}
	q.Set("access_key", c.accessKey)

	var resp listResponse
	if err := c.get(ctx, "/list", q, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, apiError(resp.Error, resp.Info)
	}
	return resp.Currencies, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return &Error{Kind: KindRequestFailed, Info: err.Error()}
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindRequestFailed, Info: "не удалось связаться с API: " + err.Error()}
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &Error{Kind: KindInvalidResponse, Info: err.Error()}
	}
	return nil
}

func apiError(body *apiErrorBody, info string) *Error {
	e := &Error{Kind: KindAPIError, Code: "?", Info: "Неизвестная ошибка API."}
	if body != nil {
		if body.Code != "" {
			e.Code = body.Code.String()
		}
		if body.Info != "" {
			e.Info = body.Info
		}
	} else if info != "" {
		e.Info = info
	}
	return e
}
