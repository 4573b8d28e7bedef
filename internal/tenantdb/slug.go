package tenantdb

import (
	"strings"
	"unicode"
)

// Slug derives the tenant identifier from a tenant's display name: every
// non-alphanumeric rune is dropped and the rest upper-cased. The result is
// stable for the lifetime of the tenant and doubles as the physical
// database name suffix.
func Slug(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}
