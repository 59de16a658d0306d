package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
)

// MaxBodyBytes caps every JSON request body.
const MaxBodyBytes = 1 << 20

var ErrEmptyBody = errors.New("empty request body")

// JSON writes data as the response body with the given status. A nil data
// writes only the header.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("write response: %v", err)
	}
}

type envelope struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// JSONError writes {"error": msg}.
func JSONError(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, envelope{Error: msg})
}

// JSONMessage writes {"message": msg}.
func JSONMessage(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, envelope{Message: msg})
}

// DecodeJSON reads exactly one JSON object from the request into v. Unknown
// fields, trailing data and bodies over MaxBodyBytes are rejected. On failure
// the 400 response is already written and the caller only needs to return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, true)
}

// DecodeJSONLoose is DecodeJSON without the unknown-field check, for
// protocols whose clients add fields of their own (GraphQL "extensions").
func DecodeJSONLoose(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, false)
}

func decode(w http.ResponseWriter, r *http.Request, v any, strict bool) error {
	if r.Body == nil || r.Body == http.NoBody {
		JSONError(w, http.StatusBadRequest, ErrEmptyBody.Error())
		return ErrEmptyBody
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}

	err := dec.Decode(v)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after JSON object")
	}
	if err == nil {
		return nil
	}

	JSONError(w, http.StatusBadRequest, decodeMessage(err))
	return err
}

func decodeMessage(err error) string {
	var tooLarge *http.MaxBytesError
	var syntax *json.SyntaxError
	var typ *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return ErrEmptyBody.Error()
	case errors.As(err, &tooLarge):
		return fmt.Sprintf("request body must not exceed %d bytes", tooLarge.Limit)
	case errors.As(err, &syntax):
		return fmt.Sprintf("invalid JSON at offset %d", syntax.Offset)
	case errors.As(err, &typ) && typ.Field != "":
		return fmt.Sprintf("invalid JSON: %s must be a %s", typ.Field, typ.Type)
	default:
		return "invalid JSON: " + err.Error()
	}
}
