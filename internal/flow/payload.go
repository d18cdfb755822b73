package flow

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// errBadPayload — payload состояния не разобрался: сессия считается
// повреждённой/устаревшей, диалог сбрасывается в начало.
var errBadPayload = errors.New("повреждённый payload состояния")

// pairDraft — прогресс создания поездки до выбора курса:
// валютная пара и будущее название (страна назначения).
// В хранилище кодируется как "home|dest|name".
type pairDraft struct {
	Home string
	Dest string
	Name string
}

func (p pairDraft) encode() string {
	return strings.Join([]string{p.Home, p.Dest, p.Name}, "|")
}

func parsePairDraft(payload string) (pairDraft, error) {
	parts := strings.SplitN(payload, "|", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return pairDraft{}, errBadPayload
	}
	p := pairDraft{Home: parts[0], Dest: parts[1], Name: parts[1]}
	if len(parts) > 2 && strings.TrimSpace(parts[2]) != "" {
		p.Name = strings.TrimSpace(parts[2])
	}
	return p, nil
}

// rateDraft — прогресс создания поездки после фиксации курса.
// В хранилище кодируется как "home|dest|rate|name"; rate — домашняя валюта
// за 1 единицу валюты поездки.
type rateDraft struct {
	Home string
	Dest string
	Rate decimal.Decimal
	Name string
}

func (p rateDraft) encode() string {
	return strings.Join([]string{p.Home, p.Dest, p.Rate.String(), p.Name}, "|")
}

func parseRateDraft(payload string) (rateDraft, error) {
	parts := strings.SplitN(payload, "|", 4)
	if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
		return rateDraft{}, errBadPayload
	}
	rate, err := decimal.NewFromString(parts[2])
	if err != nil || rate.LessThanOrEqual(decimal.Zero) {
		return rateDraft{}, errBadPayload
	}
	p := rateDraft{Home: parts[0], Dest: parts[1], Rate: rate, Name: parts[1]}
	if len(parts) > 3 && strings.TrimSpace(parts[3]) != "" {
		p.Name = strings.TrimSpace(parts[3])
	}
	return p, nil
}

// Число с точкой или запятой, как вводят пользователи.
var numberRe = regexp.MustCompile(`^-?\d+\.?\d*$`)

// parseAmount разбирает пользовательский ввод числа. Второй результат false,
// если текст не число.
func parseAmount(text string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(text), ",", ".")
	if !numberRe.MatchString(s) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(strings.TrimSuffix(s, "."))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

var hundred = decimal.NewFromInt(100)

// encodeAmount переводит сумму в целые «копейки» (×100) для callback-данных:
// целое число переживает round-trip через транспорт без локалезависимых
// разделителей.
func encodeAmount(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// decodeAmount — обратное преобразование из целых «копеек».
func decodeAmount(v int64) decimal.Decimal {
	return decimal.NewFromInt(v).Div(hundred)
}

func parseID(data, prefix string) (int, bool) {
	id, err := strconv.Atoi(strings.TrimPrefix(data, prefix))
	if err != nil {
		return 0, false
	}
	return id, true
}
