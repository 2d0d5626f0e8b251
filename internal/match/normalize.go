package match

import (
	"strings"

	"configen/internal/common"
)

// NormalizeIdent normalizes an identifier for fuzzy matching:
// "NewHTTPServer", "new_http_server" and "newHttpServer" all become
// "newhttpserver".
func NormalizeIdent(s string) string {
	return strings.ToLower(strings.Join(common.Tokenize(s), ""))
}
