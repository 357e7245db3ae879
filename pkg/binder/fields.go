package binder

import (
	"fmt"
	"mime"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// structTarget unwraps v into the struct the binders write into.
func structTarget(v any, bindErr error) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, fmt.Errorf("%w: target must be a non-nil pointer", bindErr)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("%w: target must be a pointer to struct, got %s", bindErr, rv.Kind())
	}
	return rv, nil
}

// walkTagged calls fn for every settable field carrying tag. With
// untagged set, fields without the tag are visited under their lowercased
// Go name. A tag of "-" always hides the field.
func walkTagged(rv reflect.Value, tag string, untagged bool, fn func(key string, sf reflect.StructField, fv reflect.Value) error) error {
	rt := rv.Type()
	for i := range rt.NumField() {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		raw, ok := sf.Tag.Lookup(tag)
		key, _, _ := strings.Cut(raw, ",")
		switch {
		case key == "-":
			continue
		case !ok || key == "":
			if !untagged {
				continue
			}
			key = strings.ToLower(sf.Name)
		}

		if err := fn(key, sf, rv.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

// bindValues fills the fields tagged with tag from lookup. Missing or
// empty values leave the field untouched.
func bindValues(rv reflect.Value, tag string, untagged bool, lookup func(key string) []string, bindErr error) error {
	return walkTagged(rv, tag, untagged, func(key string, sf reflect.StructField, fv reflect.Value) error {
		raw := lookup(key)
		if len(raw) == 0 {
			return nil
		}
		if err := assign(fv, raw); err != nil {
			return fmt.Errorf("%w: field %s: %w", bindErr, sf.Name, err)
		}
		return nil
	})
}

// assign stores raw into fv. Slices take every value, splitting on
// commas; pointers are allocated; anything else takes the first value.
func assign(fv reflect.Value, raw []string) error {
	switch fv.Kind() {
	case reflect.Pointer:
		elem := reflect.New(fv.Type().Elem())
		if err := assign(elem.Elem(), raw); err != nil {
			return err
		}
		fv.Set(elem)
		return nil

	case reflect.Slice:
		var items []string
		for _, r := range raw {
			for part := range strings.SplitSeq(r, ",") {
				if part = strings.TrimSpace(part); part != "" {
					items = append(items, part)
				}
			}
		}
		out := reflect.MakeSlice(fv.Type(), len(items), len(items))
		for i, item := range items {
			if err := parseScalar(out.Index(i), item); err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
		}
		fv.Set(out)
		return nil

	default:
		return parseScalar(fv, raw[0])
	}
}

func parseScalar(fv reflect.Value, s string) error {
	switch fv.Kind() {
	case reflect.String:
		fv.SetString(s)

	case reflect.Bool:
		switch strings.ToLower(s) {
		case "1", "true", "on", "yes":
			fv.SetBool(true)
		case "0", "false", "off", "no", "":
			fv.SetBool(false)
		default:
			return fmt.Errorf("invalid boolean %q", s)
		}

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		fv.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid unsigned integer %q", s)
		}
		fv.SetUint(n)

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, fv.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid number %q", s)
		}
		fv.SetFloat(f)

	default:
		return fmt.Errorf("unsupported kind %s", fv.Kind())
	}
	return nil
}

// mediaType returns the request's media type without parameters.
func mediaType(r *http.Request) (string, map[string]string, error) {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, ErrMissingContentType
	}
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil {
		mt, _, _ = strings.Cut(ct, ";")
		return strings.ToLower(strings.TrimSpace(mt)), nil, err
	}
	return mt, params, nil
}
