// Package geo — справочник «страна → код валюты» для диалога создания поездки.
package geo

import "strings"

// Названия принимаются по-русски и по-английски, без учёта регистра.
var countryCurrencies = map[string]string{
	"россия":         "RUB",
	"russia":         "RUB",
	"сша":            "USD",
	"америка":        "USD",
	"usa":            "USD",
	"united states":  "USD",
	"китай":          "CNY",
	"china":          "CNY",
	"таиланд":        "THB",
	"тайланд":        "THB",
	"thailand":       "THB",
	"турция":         "TRY",
	"turkey":         "TRY",
	"япония":         "JPY",
	"japan":          "JPY",
	"индия":          "INR",
	"india":          "INR",
	"вьетнам":        "VND",
	"vietnam":        "VND",
	"индонезия":      "IDR",
	"indonesia":      "IDR",
	"оаэ":            "AED",
	"эмираты":        "AED",
	"uae":            "AED",
	"египет":         "EGP",
	"egypt":          "EGP",
	"грузия":         "GEL",
	"georgia":        "GEL",
	"армения":        "AMD",
	"armenia":        "AMD",
	"казахстан":      "KZT",
	"kazakhstan":     "KZT",
	"узбекистан":     "UZS",
	"uzbekistan":     "UZS",
	"киргизия":       "KGS",
	"кыргызстан":     "KGS",
	"беларусь":       "BYN",
	"белоруссия":     "BYN",
	"belarus":        "BYN",
	"германия":       "EUR",
	"germany":        "EUR",
	"франция":        "EUR",
	"france":         "EUR",
	"италия":         "EUR",
	"italy":          "EUR",
	"испания":        "EUR",
	"spain":          "EUR",
	"греция":         "EUR",
	"greece":         "EUR",
	"великобритания": "GBP",
	"англия":         "GBP",
	"uk":             "GBP",
	"united kingdom": "GBP",
	"швейцария":      "CHF",
	"switzerland":    "CHF",
	"чехия":          "CZK",
	"czech republic": "CZK",
	"польша":         "PLN",
	"poland":         "PLN",
	"венгрия":        "HUF",
	"hungary":        "HUF",
	"сербия":         "RSD",
	"serbia":         "RSD",
	"бразилия":       "BRL",
	"brazil":         "BRL",
	"мексика":        "MXN",
	"mexico":         "MXN",
	"аргентина":      "ARS",
	"argentina":      "ARS",
	"южная корея":    "KRW",
	"корея":          "KRW",
	"south korea":    "KRW",
	"сингапур":       "SGD",
	"singapore":      "SGD",
	"малайзия":       "MYR",
	"malaysia":       "MYR",
	"шри-ланка":      "LKR",
	"шри ланка":      "LKR",
	"sri lanka":      "LKR",
	"израиль":        "ILS",
	"israel":         "ILS",
	"канада":         "CAD",
	"canada":         "CAD",
	"австралия":      "AUD",
	"australia":      "AUD",
	"марокко":        "MAD",
	"morocco":        "MAD",
	"тунис":          "TND",
	"tunisia":        "TND",
}

// Resolve возвращает код валюты по названию страны. Второй результат false,
// если страна не распознана.
func Resolve(country string) (string, bool) {
	code, ok := countryCurrencies[strings.ToLower(strings.TrimSpace(country))]
	return code, ok
}
