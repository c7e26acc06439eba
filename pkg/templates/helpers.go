package templates

import (
	"strconv"
	"strings"
	"text/template"

	"github.com/dustin/go-humanize"
)

// FuncMap returns the helpers available to every prompt template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"lower":   strings.ToLower,
		"upper":   strings.ToUpper,
		"trim":    strings.TrimSpace,
		"amount":  Amount,
		"default": defaultValue,
	}
}

// Amount groups the leading number of a free-form amount ("25000 INR" -> "25,000 INR").
// Input without a leading number is returned trimmed and unchanged.
func Amount(raw string) string {
	raw = strings.TrimSpace(raw)
	number, rest, _ := strings.Cut(raw, " ")
	clean := strings.ReplaceAll(number, ",", "")

	if n, err := strconv.ParseInt(clean, 10, 64); err == nil {
		return joinAmount(humanize.Comma(n), rest)
	}
	if f, err := strconv.ParseFloat(clean, 64); err == nil {
		return joinAmount(humanize.Commaf(f), rest)
	}
	return raw
}

func joinAmount(number, rest string) string {
	if rest == "" {
		return number
	}
	return number + " " + rest
}

// defaultValue is used as {{ .Goals | default "not specified" }}.
func defaultValue(fallback string, value string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
