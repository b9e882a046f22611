package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// parseID reads the {id} path value.
func parseID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid record id %q", ErrBadRequest, raw)
	}
	return id, nil
}

// sanitizeInput removes control characters (except tab/newline/CR) and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
