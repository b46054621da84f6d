package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Rakhulsr/go-storeadmin/app/helpers"
	"github.com/Rakhulsr/go-storeadmin/app/repositories"
	"github.com/Rakhulsr/go-storeadmin/app/services"
	"github.com/gorilla/mux"
	"github.com/unrolled/render"
)

const maxJSONBody = 1 << 20

type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidCredentials), errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrAccessDenied), errors.Is(err, services.ErrAccountDisabled):
		return http.StatusForbidden
	case errors.Is(err, services.ErrInvalidTransition), errors.Is(err, services.ErrDuplicateReview):
		return http.StatusConflict
	case errors.Is(err, services.ErrStorageUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err as {success:false,...}. Unexpected errors are logged
// and reported with a generic message.
func WriteError(rnd *render.Render, w http.ResponseWriter, err error) {
	writeErrorStatus(rnd, w, StatusFor(err), err)
}

func writeErrorStatus(rnd *render.Render, w http.ResponseWriter, status int, err error) {
	body := ErrorResponse{Success: false, Error: err.Error()}

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Error = "Invalid input."
		body.Fields = verr.Fields
	case status == http.StatusInternalServerError:
		log.Printf("handlers: unexpected error: %v", err)
		body.Error = "Internal server error."
	}
	_ = rnd.JSON(w, status, body)
}

func badRequest(field, message string) error {
	return services.NewValidationError(map[string]string{field: message})
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return badRequest("body", "Request body is required.")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("body", "Request body is required.")
		}
		return badRequest("body", fmt.Sprintf("Malformed JSON: %v", err))
	}
	return nil
}

func pathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: %s %q", services.ErrNotFound, name, raw)
	}
	return uint(id), nil
}

func queryBool(q url.Values, key string) *bool {
	raw := strings.ToLower(strings.TrimSpace(q.Get(key)))
	switch raw {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	}
	return nil
}

func queryUint(q url.Values, key string) *uint {
	n, err := strconv.ParseUint(q.Get(key), 10, 64)
	if err != nil || n == 0 {
		return nil
	}
	v := uint(n)
	return &v
}

// listRequest extracts search, ordering and the page window of a list call.
func listRequest(r *http.Request, pageSize int) (repositories.ListParams, helpers.PageRequest) {
	q := r.URL.Query()
	page := helpers.ParsePageRequest(q, pageSize)
	return repositories.ListParams{
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Limit:    page.Size,
		Offset:   page.Offset(),
	}, page
}

func requestURL(r *http.Request) *url.URL {
	u := *r.URL
	u.Host = r.Host
	if u.Scheme == "" {
		u.Scheme = "http"
		if r.TLS != nil {
			u.Scheme = "https"
		}
	}
	return &u
}

func writePage[T any](rnd *render.Render, w http.ResponseWriter, r *http.Request, page helpers.PageRequest, total int64, results []T) {
	if page.OutOfRange(total) {
		WriteError(rnd, w, fmt.Errorf("%w: invalid page", services.ErrNotFound))
		return
	}
	_ = rnd.JSON(w, http.StatusOK, helpers.NewPage(requestURL(r), page, total, results))
}
