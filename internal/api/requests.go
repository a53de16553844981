package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"

	"github.com/go-playground/validator/v10"
)

const maxBodyBytes = 1 << 20

// Timestamps are accepted with or without a zone. Zone-less values are UTC.
var timestampLayouts = []string{time.RFC3339, "2006-01-02T15:04:05"}

type bookingRequest struct {
	ItemID int64  `json:"item_id" validate:"required,gt=0"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
}

type userRequest struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"required,email"`
}

type userPatchRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Description string `json:"description" validate:"notblank"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"request_id" validate:"omitempty,gt=0"`
}

type itemPatchRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type commentRequest struct {
	Text string `json:"text" validate:"notblank"`
}

type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &requestValidator{v: v}
}

// decode reads a JSON body into dst and validates it.
func (rv *requestValidator) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return errors.New("invalid JSON body")
	}

	if err := rv.v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s: failed on '%s'", verrs[0].Field(), verrs[0].Tag())
		}
		return err
	}
	return nil
}

func parseTimestamp(field, raw string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(raw)); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: invalid timestamp %q", field, raw)
}

func (s *HTTPServer) userID(r *http.Request) (int64, error) {
	header := s.cfg.API.UserHeader
	raw := strings.TrimSpace(r.Header.Get(header))
	if raw == "" {
		return 0, fmt.Errorf("%s header is required", header)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s header: %q", header, raw)
	}
	return id, nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", raw)
	}
	return id, nil
}

// page reads from/size query parameters, defaulting size to the configured page size.
func (s *HTTPServer) page(r *http.Request) (from, size int, err error) {
	q := r.URL.Query()
	from, size = 0, s.cfg.Booking.DefaultPageSize

	if raw := q.Get("from"); raw != "" {
		if from, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("invalid from: %q", raw)
		}
	}
	if raw := q.Get("size"); raw != "" {
		if size, err = strconv.Atoi(raw); err != nil {
			return 0, 0, fmt.Errorf("invalid size: %q", raw)
		}
	}

	if from < 0 {
		return 0, 0, errors.New("from must not be negative")
	}
	if size <= 0 || size > s.cfg.Booking.MaxPageSize {
		return 0, 0, fmt.Errorf("size must be between 1 and %d", s.cfg.Booking.MaxPageSize)
	}
	return from, size, nil
}

func stateParam(r *http.Request) (models.BookingState, error) {
	return models.ParseBookingState(r.URL.Query().Get("state"))
}
