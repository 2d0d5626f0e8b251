package common

import (
	"go/token"
	"strings"
	"unicode"
)

// ExportedName turns an identifier such as "max_conns" or "maxConns" into an
// exported Go identifier ("MaxConns"). Well-known initialisms keep their case
// ("base_url" -> "BaseURL").
func ExportedName(s string) string {
	var sb strings.Builder

	for _, tok := range Tokenize(s) {
		upper := strings.ToUpper(tok)
		if initialisms[upper] {
			sb.WriteString(upper)

			continue
		}

		runes := []rune(tok)
		runes[0] = unicode.ToUpper(runes[0])
		sb.WriteString(string(runes))
	}

	out := sb.String()
	if out == "" || !token.IsIdentifier(out) {
		return "X" + out
	}

	return out
}

// SnakeCase converts an identifier to lower snake case ("NewHTTPServer" -> "new_http_server").
func SnakeCase(s string) string {
	toks := Tokenize(s)
	for i, t := range toks {
		toks[i] = strings.ToLower(t)
	}

	return strings.Join(toks, "_")
}

// Tokenize splits an identifier on separators and CamelCase boundaries.
//   - "OrderID" -> ["Order", "ID"]
//   - "max_conns" -> ["max", "conns"]
//   - "XMLParser" -> ["XML", "Parser"]
func Tokenize(s string) []string {
	var (
		tokens  []string
		current []rune
	)

	runes := []rune(s)
	flush := func() {
		if len(current) > 0 {
			tokens = append(tokens, string(current))
			current = current[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()

			continue
		}

		if i > 0 && len(current) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			if !unicode.IsUpper(prev) || nextLower {
				flush()
			}
		}

		current = append(current, r)
	}

	flush()

	return tokens
}

var initialisms = map[string]bool{
	"API": true, "DNS": true, "HTTP": true, "HTTPS": true, "ID": true,
	"IP": true, "JSON": true, "SQL": true, "TCP": true, "TLS": true,
	"TTL": true, "UDP": true, "UI": true, "URI": true, "URL": true,
	"UUID": true, "XML": true, "YAML": true,
}
