package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Ramsey-B/clover/pkg/refdata"
)

// PriceInfo is the outcome of parsing a raw price field. Known distinguishes
// a confirmed price (including confirmed free) from "a consultar" style text
// where the source simply does not state one.
type PriceInfo struct {
	Amount   float64
	IsFree   bool
	Known    bool
	Currency string
}

// currencyMarkers are checked longest-first so "R$" wins over "$".
var currencyMarkers = []struct {
	marker string
	code   string
}{
	{"r$", "BRL"},
	{"us$", "USD"},
	{"u$s", "USD"},
	{"ars", "ARS"},
	{"usd", "USD"},
	{"eur", "EUR"},
	{"brl", "BRL"},
	{"mxn", "MXN"},
	{"gbp", "GBP"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"$", ""}, // ambiguous across sources; currency left to the source default
}

var priceNumberRe = regexp.MustCompile(`\d[\d.,]*`)

// ParsePrice parses raw price text defensively. Free keywords win over any
// numeric noise also present in the text; ambiguous non-numeric text yields an
// unknown (not free) price; total failure yields (0, not free, unknown).
// It never errors.
func ParsePrice(text string, tables *refdata.Tables) PriceInfo {
	lowered := strings.ToLower(strings.TrimSpace(text))
	if lowered == "" {
		return PriceInfo{}
	}

	for _, kw := range tables.FreeKeywords {
		if strings.Contains(lowered, kw) {
			return PriceInfo{Amount: 0, IsFree: true, Known: true}
		}
	}

	for _, kw := range tables.UnknownPriceKeywords {
		if strings.Contains(lowered, kw) {
			return PriceInfo{Amount: 0, IsFree: false, Known: false}
		}
	}

	currency := ""
	for _, cm := range currencyMarkers {
		if strings.Contains(lowered, cm.marker) {
			currency = cm.code
			break
		}
	}

	match := priceNumberRe.FindString(lowered)
	if match == "" {
		return PriceInfo{}
	}

	amount, ok := parseLocaleNumber(match)
	if !ok || amount < 0 {
		return PriceInfo{}
	}

	return PriceInfo{
		Amount:   amount,
		IsFree:   amount == 0,
		Known:    true,
		Currency: currency,
	}
}

// parseLocaleNumber normalizes decimal/thousand separators before parsing.
// "1.234,56" and "1,234.56" both yield 1234.56.
func parseLocaleNumber(s string) (float64, bool) {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		// Both present: the rightmost separator is the decimal point.
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		// Comma only: decimal comma when followed by 1-2 digits, otherwise a
		// thousands separator.
		if strings.Count(s, ",") == 1 && len(s)-lastComma-1 <= 2 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastDot >= 0:
		// Dot only: a single dot followed by exactly 3 digits is a thousands
		// separator in the es/pt locales most sources use ("1.500").
		if strings.Count(s, ".") == 1 && len(s)-lastDot-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ".") > 1 {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
