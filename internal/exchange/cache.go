package exchange

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"
)

// TTL кэша курсов: в этом окне повторные конвертации по той же паре не ходят
// в сеть, а масштабируют закэшированную котировку на запрошенную сумму.
const cacheTTL = 300 * time.Second

// Converter — способность конвертировать сумму между валютами.
type Converter interface {
	Convert(ctx context.Context, from, to string, amount float64) (float64, error)
}

type pairKey struct {
	from, to string
}

type cacheEntry struct {
	principal float64 // сумма, для которой была получена котировка
	result    float64 // результат котировки
	at        time.Time
}

// Cache — кэширующая обёртка над Converter. Ключ — только валютная пара:
// расчёт на произвольную сумму опирается на линейность курса провайдера.
// Протухшие записи не выметаются, а лениво перезаписываются при следующем
// обращении к той же паре.
type Cache struct {
	remote Converter
	ttl    time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[pairKey]cacheEntry
}

// NewCache создает кэш поверх удалённого конвертера со стандартным TTL.
func NewCache(remote Converter) *Cache {
	return &Cache{
		remote:  remote,
		ttl:     cacheTTL,
		now:     time.Now,
		entries: make(map[pairKey]cacheEntry),
	}
}

// Convert возвращает сумму amount валюты from в валюте to. Попадание в кэш в
// пределах TTL не делает сетевой вызов; промах или протухание — один вызов,
// успешный ответ перезаписывает запись пары, ошибка не кэшируется.
func (c *Cache) Convert(ctx context.Context, from, to string, amount float64) (float64, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)
	key := pairKey{from: from, to: to}

	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && c.now().Sub(entry.at) < c.ttl {
		// Страховка от деления на околонулевую закэшированную сумму.
		rate := entry.result / math.Max(entry.principal, 1e-9)
		c.mu.Unlock()
		return amount * rate, nil
	}
	c.mu.Unlock()

	result, err := c.remote.Convert(ctx, from, to, amount)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{principal: amount, result: result, at: c.now()}
	c.mu.Unlock()
	return result, nil
}
