package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RespondSuccessWithETag writes the success envelope around a pre-encoded JSON document and
// answers 304 when the client already holds the same version.
func RespondSuccessWithETag(ctx *gin.Context, raw []byte) {
	etag := etagFor(raw)

	ctx.Header("ETag", etag)
	ctx.Header("Cache-Control", "no-cache")

	if ifNoneMatchMatches(ctx.GetHeader("If-None-Match"), etag) {
		ctx.Status(http.StatusNotModified)
		return
	}

	body := make([]byte, 0, len(raw)+32)
	body = append(body, `{"status":"success","data":`...)
	body = append(body, raw...)
	body = append(body, '}')

	ctx.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func etagFor(raw []byte) string {
	sum := sha256.Sum256(raw)
	return `"` + hex.EncodeToString(sum[:16]) + `"`
}

func ifNoneMatchMatches(headerValue, currentETag string) bool {
	headerValue = strings.TrimSpace(headerValue)
	if headerValue == "" || currentETag == "" {
		return false
	}

	if headerValue == "*" {
		return true
	}

	for _, part := range strings.Split(headerValue, ",") {
		// weak validators compare equal here
		v := strings.TrimPrefix(strings.TrimSpace(part), "W/")
		if v == currentETag {
			return true
		}
	}

	return false
}
