package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

// Decoded records the fields of an input whose JSON value had the wrong type.
// Those fields are left zero and reported alongside the rule failures.
type Decoded struct {
	mismatched Errors
}

func (d *Decoded) recordMismatch(field, message string) {
	if d.mismatched == nil {
		d.mismatched = Errors{}
	}
	d.mismatched[field] = []string{message}
}

func (d *Decoded) mismatches() Errors {
	return d.mismatched
}

type mismatchRecorder interface {
	recordMismatch(field, message string)
}

type mismatchCarrier interface {
	mismatches() Errors
}

// DecodeJSON fills the struct pointed to by dst from a JSON object one field at
// a time. An empty body decodes as an empty object. A field holding a value of
// the wrong type is recorded on dst when it embeds Decoded; any other decode
// failure, or a body that is not an object, is returned.
func DecodeJSON(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return err
	}

	target := reflect.ValueOf(dst)
	if target.Kind() != reflect.Pointer || target.Elem().Kind() != reflect.Struct {
		return errors.New("decode target must be a pointer to a struct")
	}
	target = target.Elem()
	recorder, _ := dst.(mismatchRecorder)

	for i := 0; i < target.NumField(); i++ {
		field := target.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		name := jsonName(field)
		if name == "" {
			continue
		}
		value, ok := raw[name]
		if !ok {
			continue
		}

		decoded := reflect.New(field.Type)
		if err := json.Unmarshal(value, decoded.Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) && recorder != nil {
				recorder.recordMismatch(name, TypeMismatch(name, kind(field.Type)))
				continue
			}
			return err
		}
		target.Field(i).Set(decoded.Elem())
	}
	return nil
}

// kind names the JSON type a Go field expects.
func kind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return t.Kind().String()
	}
}
