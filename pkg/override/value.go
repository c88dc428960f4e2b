package override

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Kind identifies which member of the Value union is populated.
type Kind int

const (
	NullKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	switch k {
	case NullKind:
		return "null"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "string"
	case SequenceKind:
		return "sequence"
	case MappingKind:
		return "mapping"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entry is a single key of a mapping Value.
type Entry struct {
	Key   string
	Value Value
}

// Value is an immutable override value: a scalar, a sequence of values or a mapping of string keys to values.
// The zero Value is null.
type Value struct {
	kind    Kind
	b       bool
	i       int64
	f       float64
	s       string
	items   []Value
	entries []Entry
}

func Null() Value           { return Value{} }
func Bool(b bool) Value     { return Value{kind: BoolKind, b: b} }
func Int(i int64) Value     { return Value{kind: IntKind, i: i} }
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }
func String(s string) Value { return Value{kind: StringKind, s: s} }
func Sequence(items ...Value) Value {
	return Value{kind: SequenceKind, items: append([]Value{}, items...)}
}

// Mapping builds a mapping value. Entries keep the given order; a repeated key replaces the earlier value in place.
func Mapping(entries ...Entry) Value {
	out := make([]Entry, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if i, ok := index[e.Key]; ok {
			out[i].Value = e.Value
			continue
		}
		index[e.Key] = len(out)
		out = append(out, e)
	}
	return Value{kind: MappingKind, entries: out}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == NullKind }

func (v Value) AsBool() (bool, bool)     { return v.b, v.kind == BoolKind }
func (v Value) AsInt() (int64, bool)     { return v.i, v.kind == IntKind }
func (v Value) AsFloat() (float64, bool) { return v.f, v.kind == FloatKind }
func (v Value) AsString() (string, bool) { return v.s, v.kind == StringKind }
func (v Value) Items() []Value           { return append([]Value{}, v.items...) }
func (v Value) Entries() []Entry         { return append([]Entry{}, v.entries...) }
func (v Value) Len() int                 { return len(v.items) + len(v.entries) }

// Get returns the value stored under key in a mapping.
func (v Value) Get(key string) (Value, bool) {
	for _, e := range v.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// String renders the value using override syntax, e.g. 32, relu, [32,64] or {lr:0.1,momentum:0.9}.
func (v Value) String() string {
	var sb strings.Builder
	v.write(&sb, false)
	return sb.String()
}

// Canonical renders the value like String but with mapping keys sorted, so that two values which differ only in
// mapping key order render identically.
func (v Value) Canonical() string {
	var sb strings.Builder
	v.write(&sb, true)
	return sb.String()
}

// Equal reports whether two values are structurally equal. Values are compared by their canonical rendering:
// values that print identically are equal.
func (v Value) Equal(other Value) bool {
	return v.Canonical() == other.Canonical()
}

func (v Value) write(sb *strings.Builder, canonical bool) {
	switch v.kind {
	case NullKind:
		sb.WriteString("null")
	case BoolKind:
		sb.WriteString(strconv.FormatBool(v.b))
	case IntKind:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case FloatKind:
		sb.WriteString(formatFloat(v.f))
	case StringKind:
		sb.WriteString(quoteIfNeeded(v.s))
	case SequenceKind:
		sb.WriteByte('[')
		for i, item := range v.items {
			if i > 0 {
				sb.WriteByte(',')
			}
			item.write(sb, canonical)
		}
		sb.WriteByte(']')
	case MappingKind:
		entries := v.entries
		if canonical {
			entries = append([]Entry{}, v.entries...)
			sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		}
		sb.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(quoteIfNeeded(e.Key))
			sb.WriteByte(':')
			e.Value.write(sb, canonical)
		}
		sb.WriteByte('}')
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

const specialChars = " \t,[]{}()='\":\\"

func quoteIfNeeded(s string) string {
	if s != "" && !strings.ContainsAny(s, specialChars) {
		return s
	}
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		if r == '\'' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteByte('\'')
	return sb.String()
}

// Native converts the value into plain Go values: nil, bool, int64, float64, string, []interface{} and
// map[string]interface{}.
func (v Value) Native() interface{} {
	switch v.kind {
	case BoolKind:
		return v.b
	case IntKind:
		return v.i
	case FloatKind:
		return v.f
	case StringKind:
		return v.s
	case SequenceKind:
		out := make([]interface{}, len(v.items))
		for i, item := range v.items {
			out[i] = item.Native()
		}
		return out
	case MappingKind:
		out := make(map[string]interface{}, len(v.entries))
		for _, e := range v.entries {
			out[e.Key] = e.Value.Native()
		}
		return out
	default:
		return nil
	}
}

// FromNative converts a Go value into a Value. Mappings decoded as yaml.MapSlice keep their key order, other Go
// maps are converted with their keys sorted.
func FromNative(in interface{}) (Value, error) {
	switch t := in.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case int:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case float64:
		return Float(t), nil
	case yaml.MapSlice:
		entries := make([]Entry, 0, len(t))
		for _, item := range t {
			e, err := entryFromNative(item.Key, item.Value)
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, e)
		}
		return Mapping(entries...), nil
	}

	rv := reflect.ValueOf(in)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, errors.Errorf("unsigned value %d overflows int64", u)
		}
		return Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null(), nil
		}
		return FromNative(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		items := make([]Value, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := FromNative(rv.Index(i).Interface())
			if err != nil {
				return Value{}, errors.WithMessagef(err, "index %d", i)
			}
			items[i] = item
		}
		return Value{kind: SequenceKind, items: items}, nil
	case reflect.Map:
		keys := rv.MapKeys()
		entries := make([]Entry, 0, len(keys))
		for _, k := range keys {
			e, err := entryFromNative(k.Interface(), rv.MapIndex(k).Interface())
			if err != nil {
				return Value{}, err
			}
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
		return Mapping(entries...), nil
	}
	return Value{}, errors.Errorf("unsupported override value of type %T", in)
}

func entryFromNative(key interface{}, value interface{}) (Entry, error) {
	var k string
	switch t := key.(type) {
	case string:
		k = t
	case fmt.Stringer:
		k = t.String()
	default:
		k = fmt.Sprintf("%v", key)
	}
	v, err := FromNative(value)
	if err != nil {
		return Entry{}, errors.WithMessagef(err, "key %s", k)
	}
	return Entry{Key: k, Value: v}, nil
}
