package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
)

// decodeJSON reads a JSON body into dst. Unknown fields are ignored.
func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Debug("request body decode error", "path", r.URL.Path, "error", err)
		return fmt.Errorf("%w: malformed JSON body", common.ErrInvalidPayload)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON that accepts an empty body.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	slog.Debug("request body decode error", "path", r.URL.Path, "error", err)
	return fmt.Errorf("%w: malformed JSON body", common.ErrInvalidPayload)
}

// queryInt reads an optional paging parameter. Missing, malformed and
// non-positive values come back as 0 so the defaults apply.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(name)))
	if err != nil || v < 1 {
		return 0
	}
	return v
}
