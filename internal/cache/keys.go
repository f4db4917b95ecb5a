package cache

import (
	"strconv"
	"strings"
)

// FiltersKey identifies a caller's dropdown values. Callers with the same role and identity
// see the same values, so both are part of the key.
func FiltersKey(role, email string, useBoth bool) string {
	return "filters:v1:role=" + strings.ToLower(strings.TrimSpace(role)) +
		":email=" + strings.ToLower(strings.TrimSpace(email)) +
		":both=" + strconv.FormatBool(useBoth)
}

const UIOptionsKey = "ui-options:v1"
