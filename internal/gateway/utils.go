package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"wayne-chat/pkg/api"
)

type codedError struct {
	err     error
	code    int
	message string
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

// CodedError attaches an HTTP status and the user facing message sent in the
// error body. The wrapped error is sent as the details.
func CodedError(code int, message string, err error) error {
	return &codedError{err: err, code: code, message: message}
}

func CodedErrorf(code int, format string, args ...any) error {
	err := fmt.Errorf(format, args...)
	return &codedError{err: err, code: code, message: err.Error()}
}

func ParseRequest[T any](r *http.Request) (T, error) {
	var data T
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		slog.Error("error parsing request body", "error", err)
		return data, CodedErrorf(http.StatusBadRequest, "unable to parse request body")
	}
	return data, nil
}

func RestHandler(handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			body := api.ErrorResponse{Error: err.Error()}
			code := http.StatusInternalServerError

			var cerr *codedError
			if errors.As(err, &cerr) {
				code = cerr.code
				body = api.ErrorResponse{Error: cerr.message}
				if cerr.message != cerr.err.Error() {
					body.Details = cerr.err.Error()
				}
			} else {
				slog.Error("recieved non coded error from endpoint", "error", err)
			}
			if code == http.StatusInternalServerError {
				slog.Error("internal server error received in endpoint", "error", err)
			}

			WriteJsonResponse(w, code, body)
			return
		}

		if res == nil {
			res = struct{}{}
		}

		WriteJsonResponse(w, http.StatusOK, res)
	}
}

func WriteJsonResponse(w http.ResponseWriter, code int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(payload); err != nil {
		slog.Error("error writing response body", "error", err)
	}
}
