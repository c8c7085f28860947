package handler

// REQUEST DECODING:
// Every JSON body goes through decodeJSON before a handler looks at it.
// Structural problems (bad JSON, wrong types, unknown fields, trailing data)
// and missing fields are turned into validation errors here, so handlers only
// ever see a fully populated, typed request struct.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sakif/message-board/internal/apperror"
	"github.com/sakif/message-board/internal/service"
)

const (
	maxBodyBytes = 1 << 20 // 1 MiB

	msgInvalidBody = "Invalid JSON body"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names ("done") instead of Go field names ("Done").
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Flag is a boolean that also accepts the integers 0 and 1, which is how
// clients of this API have always sent the done field.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("done must be 0, 1, true or false, got %s", data)
	}
	return nil
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type messageRequest struct {
	Message string `json:"message" validate:"required"`
	Done    *Flag  `json:"done"    validate:"required"`
}

type doneRequest struct {
	Done *Flag `json:"done" validate:"required"`
}

// decodeJSON reads exactly one JSON object into dst and validates it.
//
// Returns an *apperror.AppError with ErrValidation on any failure:
//   - malformed, mistyped, unknown fields or trailing data → "Invalid JSON body"
//   - a required field missing or empty                   → "Empty JSON fields"
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperror.ValidationFailed("", msgInvalidBody)
	}
	// A second Decode must hit EOF, otherwise the body had more than one value.
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return apperror.ValidationFailed("", msgInvalidBody)
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return apperror.ValidationFailed(verrs[0].Field(), service.MsgEmptyFields)
		}
		return apperror.ValidationFailed("", msgInvalidBody)
	}

	return nil
}

// pathID reads the {id} URL parameter. ok is false when it is not a positive
// integer; callers treat that exactly like an id that matches no row.
func pathID(r *http.Request) (id int64, ok bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
