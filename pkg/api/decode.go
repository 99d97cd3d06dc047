package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxBodyBytes is used when a handler is built without a limit.
const DefaultMaxBodyBytes int64 = 16 << 20

// Decoder reads request bodies and checks required keys.
type Decoder struct {
	maxBytes int64
	validate *validator.Validate
}

// NewDecoder returns a Decoder that rejects bodies over maxBytes.
func NewDecoder(maxBytes int64) *Decoder {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Decoder{maxBytes: maxBytes, validate: v}
}

// Decode reads a JSON body into dst and runs its validate tags. An empty
// body or a literal null decodes to the zero value, so required keys are
// reported missing rather than malformed.
func (d *Decoder) Decode(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return bodyTooLarge(maxErr.Limit, err)
		}
		return malformedBody(err)
	}

	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, dst); err != nil {
			return malformedBody(err)
		}
	}

	return d.check(dst)
}

func (d *Decoder) check(dst interface{}) error {
	if err := d.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return missingParameter(fieldErrs[0].Field())
		}
		return err
	}

	// A key sent as null decodes to the raw literal and passes required.
	rv := reflect.Indirect(reflect.ValueOf(dst))
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if !strings.Contains(rt.Field(i).Tag.Get("validate"), "required") {
			continue
		}
		if raw, ok := rv.Field(i).Interface().(json.RawMessage); ok && isNull(raw) {
			return missingParameter(strings.SplitN(rt.Field(i).Tag.Get("json"), ",", 2)[0])
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
