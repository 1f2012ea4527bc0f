package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/erazemk/popis/internal/inventory"
)

// maxBodySize bounds JSON request bodies.
const maxBodySize = 1 << 20

var errEmptyBody = errors.New("request body is empty")

type errorBody struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, errorBody{Error: message})
}

// decodeJSON decodes a JSON request body into target. Unknown fields and
// trailing data are rejected.
func decodeJSON(w http.ResponseWriter, r *http.Request, target any) error {
	defer r.Body.Close()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return errEmptyBody
		case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("request body is not valid JSON")
		case errors.As(err, &typeErr):
			return fmt.Errorf("field %q has the wrong type", typeErr.Field)
		case errors.As(err, &maxErr):
			return errors.New("request body is too large")
		default:
			// DisallowUnknownFields reports `json: unknown field "x"`.
			return fmt.Errorf("invalid request body: %s", trimJSONPrefix(err.Error()))
		}
	}
	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

func trimJSONPrefix(s string) string {
	const prefix = "json: "
	if len(s) > len(prefix) && s[:len(prefix)] == prefix {
		return s[len(prefix):]
	}
	return s
}

// errorWriter translates controller errors into responses.
type errorWriter struct {
	log *zap.SugaredLogger
	dev bool
}

// write maps err onto the error taxonomy: validation 400, conflict 409,
// not found or wrong state 404, anything else 500. Internal detail is only
// exposed in development mode.
func (e *errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	var ve *inventory.ValidationError
	switch {
	case errors.As(err, &ve):
		jsonResponse(w, http.StatusBadRequest, errorBody{Error: ve.Error(), Field: ve.Field})
	case errors.Is(err, inventory.ErrConflict):
		jsonResponse(w, http.StatusConflict, errorBody{Error: messageOf(err)})
	case errors.Is(err, inventory.ErrNotFound):
		jsonResponse(w, http.StatusNotFound, errorBody{Error: messageOf(err)})
	default:
		e.log.Errorw("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err,
		)
		body := errorBody{Error: "internal server error"}
		if e.dev {
			body.Detail = err.Error()
		}
		jsonResponse(w, http.StatusInternalServerError, body)
	}
}

func messageOf(err error) string {
	var ie *inventory.Error
	if errors.As(err, &ie) {
		return ie.Msg
	}
	return err.Error()
}

// badRequest writes a 400 for malformed input that never reached the controller.
func badRequest(w http.ResponseWriter, err error) {
	jsonError(w, http.StatusBadRequest, err.Error())
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// queryInt parses an optional positive integer query parameter. Absent
// parameters yield zero.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, &inventory.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return n, nil
}
