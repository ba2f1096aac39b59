package apicontract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Gobd/apicontract/transform"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	// ErrFieldRequired is reported for a missing required property.
	ErrFieldRequired = validation.NewError("validation_required", "required")
	// ErrUnknownField is reported for extra properties of strict objects.
	ErrUnknownField = validation.NewError("validation_unknown_field", "unknown field")
	// ErrTypeMismatch is reported when a value has the wrong base type.
	ErrTypeMismatch = validation.NewError("validation_type", "expected {{.want}} got {{.got}}")
)

type options struct {
	strict    bool
	transform func(string) string
}

// Option changes how [Validate] treats its input.
type Option func(*options)

// StrictUnknown reports unknown properties of every object, not only of
// nodes marked Strict.
func StrictUnknown() Option {
	return func(o *options) { o.strict = true }
}

// WithTransform applies f to every string of the input before validation.
func WithTransform(f func(string) string) Option {
	return func(o *options) { o.transform = f }
}

// Validate checks input against n and returns the normalized value or every
// violation found. Invalid data never panics; a nil schema does.
func Validate(n *Node, input any, opts ...Option) Result {
	if n == nil {
		panic("apicontract: Validate called with nil schema")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.transform != nil {
		input = transform.Strings(input, o.transform)
	}
	v := validator{opts: o}
	out := v.walk(n, "", input)
	if len(v.violations) > 0 {
		return Result{schema: n.name, violations: v.violations}
	}
	return Result{schema: n.name, value: out}
}

// UnmarshalAndValidate decodes JSON from b, then validates it against n.
// Malformed JSON is returned as an error, not as a violation.
func UnmarshalAndValidate(b []byte, n *Node, opts ...Option) (Result, error) {
	return DecodeAndValidate(bytes.NewReader(b), n, opts...)
}

// DecodeAndValidate reads one JSON value from r using a streaming decoder,
// then validates it against n. Use this instead of [UnmarshalAndValidate]
// when reading directly from an [io.Reader] such as an HTTP request body.
func DecodeAndValidate(r io.Reader, n *Node, opts ...Option) (Result, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var in any
	if err := dec.Decode(&in); err != nil {
		return Result{}, fmt.Errorf("decode json: %w", err)
	}
	return Validate(n, in, opts...), nil
}

type validator struct {
	opts       options
	violations []Violation
}

func (v *validator) fail(path string, err error) {
	vio := Violation{Path: path, Message: err.Error()}
	var ve validation.Error
	if errors.As(err, &ve) {
		vio.Code = ve.Code()
	}
	v.violations = append(v.violations, vio)
}

func (v *validator) mismatch(path string, n *Node, in any) {
	v.fail(path, ErrTypeMismatch.SetParams(map[string]any{
		"want": wantLabel(n),
		"got":  typeLabel(in),
	}))
}

func (v *validator) rules(rules []Rule, path string, value any) {
	for _, r := range rules {
		if err := r.Validate(value); err != nil {
			v.fail(path, err)
		}
	}
}

func (v *validator) walk(n *Node, path string, in any) any {
	in = indirect(in)
	if in == nil {
		if !n.nullable && n.kind != KindAny {
			v.mismatch(path, n, nil)
		}
		return nil
	}
	if n.coerce {
		in = coerce(n.kind, in)
	}

	var (
		out any
		ok  bool
	)
	switch n.kind {
	case KindObject:
		return v.object(n, path, in)
	case KindArray:
		return v.array(n, path, in)
	case KindRecord:
		return v.record(n, path, in)
	case KindAny:
		out, ok = in, true
	case KindString, KindEnum:
		out, ok = asString(in)
	case KindNumber:
		out, ok = asNumber(in)
	case KindInteger:
		var f float64
		f, ok = asNumber(in)
		ok = ok && f == math.Trunc(f)
		out = f
	case KindBoolean:
		out, ok = asBool(in)
	case KindDate:
		out, ok = asDate(in)
	}
	if !ok {
		v.mismatch(path, n, in)
		return nil
	}
	v.rules(n.rules, path, out)
	return out
}

func (v *validator) object(n *Node, path string, in any) any {
	m, ok := asMap(in)
	if !ok {
		v.mismatch(path, n, in)
		return nil
	}
	out := make(map[string]any, len(n.fields))
	known := make(map[string]struct{}, len(n.fields))
	for _, f := range n.fields {
		known[f.name] = struct{}{}
		fp := joinPath(path, f.name)
		val, present := m[f.name]
		switch {
		case present:
			out[f.name] = v.walk(f.node, fp, val)
		case f.hasDefault:
			out[f.name] = v.walk(f.node, fp, f.def)
		case !f.optional:
			v.fail(fp, ErrFieldRequired)
		}
	}
	if n.strict || v.opts.strict {
		var unknown []string
		for k := range m {
			if _, ok := known[k]; !ok {
				unknown = append(unknown, k)
			}
		}
		sort.Strings(unknown)
		for _, k := range unknown {
			v.fail(joinPath(path, k), ErrUnknownField)
		}
	}
	v.rules(n.rules, path, out)
	return out
}

func (v *validator) array(n *Node, path string, in any) any {
	items, ok := asSlice(in)
	if !ok {
		v.mismatch(path, n, in)
		return nil
	}
	card := slices.DeleteFunc(slices.Clone(n.rules), func(r Rule) bool { return !isCardinality(r) })
	rest := slices.DeleteFunc(slices.Clone(n.rules), isCardinality)

	v.rules(card, path, items)
	out := make([]any, len(items))
	for i := range items {
		out[i] = v.walk(n.elem, path+"["+strconv.Itoa(i)+"]", items[i])
	}
	v.rules(rest, path, out)
	return out
}

func (v *validator) record(n *Node, path string, in any) any {
	m, ok := asMap(in)
	if !ok {
		v.mismatch(path, n, in)
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for _, k := range keys {
		out[k] = v.walk(n.elem, joinPath(path, k), m[k])
	}
	v.rules(n.rules, path, out)
	return out
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// indirect dereferences pointers and interfaces; nil pointers, maps and
// slices become nil.
func indirect(in any) any {
	if in == nil {
		return nil
	}
	rv := reflect.ValueOf(in)
	for {
		switch rv.Kind() {
		case reflect.Ptr, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			rv = rv.Elem()
			continue
		case reflect.Map, reflect.Slice:
			if rv.IsNil() {
				return nil
			}
		}
		return rv.Interface()
	}
}

func coerce(k Kind, in any) any {
	s, ok := in.(string)
	if !ok {
		return in
	}
	switch k {
	case KindNumber, KindInteger:
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return f
		}
	case KindBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b
		}
	}
	return in
}

func asString(in any) (string, bool) {
	if _, isNum := in.(json.Number); isNum {
		return "", false
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func asNumber(in any) (float64, bool) {
	if _, isBool := in.(bool); isBool {
		return 0, false
	}
	f, err := getFloat(in)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func asBool(in any) (bool, bool) {
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Bool {
		return false, false
	}
	return rv.Bool(), true
}

func asDate(in any) (time.Time, bool) {
	switch x := in.(type) {
	case time.Time:
		return x, true
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
			if t, err := time.Parse(layout, x); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func asMap(in any) (map[string]any, bool) {
	if m, ok := in.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

func asSlice(in any) ([]any, bool) {
	if s, ok := in.([]any); ok {
		return s, true
	}
	rv := reflect.ValueOf(in)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

func wantLabel(n *Node) string {
	switch n.kind {
	case KindEnum:
		return "string"
	case KindRecord:
		return "object"
	}
	return n.kind.String()
}

func typeLabel(in any) string {
	switch in.(type) {
	case nil:
		return "null"
	case json.Number:
		return "number"
	case time.Time:
		return "date"
	}
	switch reflect.ValueOf(in).Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	}
	return fmt.Sprintf("%T", in)
}
