package middlewares

import (
	"net/http"
	"os"
	"strconv"
)

// defaultBodyLimit leaves room for the 32 MiB document cap plus the rest of
// the multipart form.
const defaultBodyLimit = 33 << 20

// BodySizeLimit caps how much request body a client may send. Without it,
// ParseMultipartForm only bounds memory use and an oversized upload streams
// to temp files unchecked.
func BodySizeLimit(next http.Handler) http.Handler {
	limit := int64(defaultBodyLimit)
	if v := os.Getenv("MAX_BODY_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			limit = n
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}
