package jsonutil

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryBool reads a boolean filter from the query string. Absent or
// unparseable values return nil so the filter is not applied.
func QueryBool(r *http.Request, key string) *bool {
	v := strings.TrimSpace(r.URL.Query().Get(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// QueryInt reads a positive integer from the query string, falling back to
// def when it is absent or invalid.
func QueryInt(r *http.Request, key string, def int64) int64 {
	n, err := strconv.ParseInt(r.URL.Query().Get(key), 10, 64)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
