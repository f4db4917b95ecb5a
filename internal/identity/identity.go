// Package identity derives the lookup key used by the access policy table.
package identity

import "strings"

// KeyFromEmail returns the local part of email (before the first '@'), trimmed and lowercased.
// Empty input gives an empty key.
func KeyFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return strings.ToLower(strings.TrimSpace(local))
}
