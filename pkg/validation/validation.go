// Package validation evaluates declarative struct schemas (go-playground
// validator tags) and reduces failures to a single human-readable message.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appErrors "github.com/noah-isme/academic-records-api/pkg/errors"
)

// Rule keys used alongside validator tags for failures detected while decoding.
const (
	RuleType    = "type"
	RuleInteger = "integer"
	RuleUnknown = "unknown"
	RuleSyntax  = "syntax"
)

// Messages maps "field.rule" (or "field.*" as a per-field fallback) to the
// message shown to the caller.
type Messages map[string]string

// Validator wraps a validator engine with a message catalogue.
type Validator struct {
	engine   *validator.Validate
	messages Messages
}

// New builds a Validator whose field names follow json tags.
func New(messages Messages) *Validator {
	engine := validator.New(validator.WithRequiredStructEnabled())
	engine.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// Canonical hyphenated form in either letter case.
	_ = engine.RegisterValidation("uuid", func(fl validator.FieldLevel) bool {
		raw := fl.Field().String()
		if len(raw) != 36 {
			return false
		}
		_, err := uuid.Parse(raw)
		return err == nil
	})
	if messages == nil {
		messages = Messages{}
	}
	return &Validator{engine: engine, messages: messages}
}

// Normalizer is implemented by request types that clean their input (for
// example trimming text) before rules run.
type Normalizer interface {
	Normalize()
}

// Struct normalizes s when it implements Normalizer, validates it and returns
// the first failure as a validation error.
func (v *Validator) Struct(s interface{}) error {
	if n, ok := s.(Normalizer); ok {
		n.Normalize()
	}
	err := v.engine.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return v.fail(fe.Field(), fe.Tag(), fe.Param(), err)
	}
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, appErrors.ErrValidation.Message)
}

// DecodeJSON strictly decodes r into dst and validates it. An empty body is
// treated as an empty object so required-field rules report the first gap.
func (v *Validator) DecodeJSON(r io.Reader, dst interface{}) error {
	if err := v.decode(r, dst); err != nil {
		return err
	}
	return v.Struct(dst)
}

func (v *Validator) decode(r io.Reader, dst interface{}) error {
	if r == nil {
		return nil
	}
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err == nil:
		// A single JSON value only; anything after it is malformed input.
		if _, tokErr := dec.Token(); tokErr != io.EOF {
			return v.fail("", RuleSyntax, "", tokErr)
		}
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return appErrors.Wrap(err, appErrors.ErrPayloadTooLarge.Code, appErrors.ErrPayloadTooLarge.Status, appErrors.ErrPayloadTooLarge.Message)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		rule := RuleType
		if strings.HasPrefix(typeErr.Value, "number") && isIntKind(typeErr.Type) {
			rule = RuleInteger
		}
		return v.fail(typeErr.Field, rule, "", err)
	}
	if field, ok := unknownField(err); ok {
		return v.fail(field, RuleUnknown, "", err)
	}
	return v.fail("", RuleSyntax, "", err)
}

// CoerceInt converts a textual parameter into an int before schema
// validation. Empty input yields nil so "required" rules can report it.
func (v *Validator) CoerceInt(field, raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return &n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, v.fail(field, RuleType, "", nil)
	}
	if f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil, v.fail(field, RuleInteger, "", nil)
	}
	n := int(f)
	return &n, nil
}

func (v *Validator) fail(field, rule, param string, cause error) error {
	msg := v.Message(field, rule, param)
	if cause == nil {
		return appErrors.Clone(appErrors.ErrValidation, msg)
	}
	return appErrors.Wrap(cause, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, msg)
}

// Message resolves the catalogue entry for field/rule, falling back to a
// generic English description.
func (v *Validator) Message(field, rule, param string) string {
	if msg, ok := v.messages[field+"."+rule]; ok {
		return msg
	}
	if msg, ok := v.messages[field+".*"]; ok {
		return msg
	}
	if msg, ok := v.messages["*."+rule]; ok {
		return fmt.Sprintf(msg, field)
	}
	return defaultMessage(field, rule, param)
}

func defaultMessage(field, rule, param string) string {
	switch rule {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "uuid", "uuid4":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case RuleType:
		return fmt.Sprintf("%s has an invalid type", field)
	case RuleInteger:
		return fmt.Sprintf("%s must be an integer", field)
	case RuleUnknown:
		return fmt.Sprintf("%s is not allowed", field)
	case RuleSyntax:
		return "request body is not valid JSON"
	default:
		return fmt.Sprintf("%s failed on %s", field, rule)
	}
}

func isIntKind(t reflect.Type) bool {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// encoding/json reports unknown fields only through the message text.
func unknownField(err error) (string, bool) {
	const prefix = "json: unknown field "
	msg := err.Error()
	if !strings.HasPrefix(msg, prefix) {
		return "", false
	}
	return strings.Trim(strings.TrimPrefix(msg, prefix), `"`), true
}
