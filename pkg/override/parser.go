package override

import (
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// MaxRangeValues bounds the number of values a single range() may expand to.
const MaxRangeValues = 1_000_000

// Axis is one command line override. A plain override (key=value) is an axis with a single value, a sweep
// override (key=a,b,c, key=range(1,4) or key=choice(a,b)) is an axis with one value per choice.
type Axis struct {
	Key    string
	Values []Value
	Sweep  bool
}

// Overrides returns one single-override set per choice of the axis.
func (a Axis) Overrides() []Override {
	out := make([]Override, len(a.Values))
	for i, v := range a.Values {
		out[i] = New(a.Key, v)
	}
	return out
}

// ParseOverrides parses command line arguments of the form key=value into axes, in argument order.
func ParseOverrides(args []string) ([]Axis, error) {
	axes := make([]Axis, 0, len(args))
	for _, arg := range args {
		axis, err := ParseOverride(arg)
		if err != nil {
			return nil, err
		}
		axes = append(axes, axis)
	}
	return axes, nil
}

// ParseOverride parses a single command line override.
func ParseOverride(arg string) (Axis, error) {
	if strings.HasPrefix(arg, "~") && !strings.Contains(arg, "=") {
		key := strings.TrimSpace(arg)
		if key == "~" {
			return Axis{}, errors.Errorf("invalid override %q: missing key", arg)
		}
		return Axis{Key: key, Values: []Value{Null()}}, nil
	}
	idx := strings.Index(arg, "=")
	if idx < 0 {
		return Axis{}, errors.Errorf("invalid override %q: expected key=value", arg)
	}
	key := strings.TrimSpace(arg[:idx])
	if strings.TrimLeft(key, "+~") == "" {
		return Axis{}, errors.Errorf("invalid override %q: missing key", arg)
	}
	raw := strings.TrimSpace(arg[idx+1:])

	if fn, inner, ok := sweepFunction(raw); ok {
		values, err := parseSweepFunction(fn, inner)
		if err != nil {
			return Axis{}, errors.WithMessagef(err, "invalid override %q", arg)
		}
		return Axis{Key: key, Values: values, Sweep: true}, nil
	}

	elements, err := splitTopLevel(raw, ',')
	if err != nil {
		return Axis{}, errors.WithMessagef(err, "invalid override %q", arg)
	}
	values := make([]Value, len(elements))
	for i, e := range elements {
		v, err := ParseValue(e)
		if err != nil {
			return Axis{}, errors.WithMessagef(err, "invalid override %q", arg)
		}
		values[i] = v
	}
	return Axis{Key: key, Values: values, Sweep: len(values) > 1}, nil
}

// ParseValue parses a single override value: a quoted string, a list [a,b], a mapping {k:v} or a scalar.
// Unquoted scalars are typed using YAML scalar resolution restricted to null, booleans, integers and floats.
func ParseValue(raw string) (Value, error) {
	p := &valueParser{in: raw}
	v, err := p.parseElement()
	if err != nil {
		return Value{}, err
	}
	p.skipSpace()
	if p.pos != len(p.in) {
		return Value{}, errors.Errorf("unexpected %q at offset %d", p.in[p.pos:], p.pos)
	}
	return v, nil
}

func sweepFunction(raw string) (string, string, bool) {
	for _, fn := range []string{"range", "choice"} {
		if strings.HasPrefix(raw, fn+"(") && strings.HasSuffix(raw, ")") {
			return fn, raw[len(fn)+1 : len(raw)-1], true
		}
	}
	return "", "", false
}

func parseSweepFunction(fn string, inner string) ([]Value, error) {
	var elements []string
	var err error
	if strings.TrimSpace(inner) != "" {
		if elements, err = splitTopLevel(inner, ','); err != nil {
			return nil, err
		}
	}
	args := make([]Value, len(elements))
	for i, e := range elements {
		if args[i], err = ParseValue(e); err != nil {
			return nil, err
		}
	}
	if fn == "choice" {
		if len(args) == 0 {
			return nil, errors.New("choice() requires at least one value")
		}
		return args, nil
	}
	return expandRange(args)
}

// expandRange expands range(stop), range(start, stop) or range(start, stop, step), stop excluded. Any float
// argument produces float values.
func expandRange(args []Value) ([]Value, error) {
	if len(args) < 1 || len(args) > 3 {
		return nil, errors.Errorf("range() takes 1 to 3 arguments, got %d", len(args))
	}
	nums := make([]float64, len(args))
	allInts := true
	for i, a := range args {
		switch a.Kind() {
		case IntKind:
			n, _ := a.AsInt()
			nums[i] = float64(n)
		case FloatKind:
			nums[i], _ = a.AsFloat()
			allInts = false
		default:
			return nil, errors.Errorf("range() arguments must be numbers, got %s", a)
		}
	}
	start, stop, step := 0.0, nums[0], 1.0
	if len(nums) >= 2 {
		start, stop = nums[0], nums[1]
	}
	if len(nums) == 3 {
		step = nums[2]
	}
	if step == 0 {
		return nil, errors.New("range() step must not be zero")
	}
	n := math.Ceil((stop - start) / step)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, errors.Errorf("range() bounds must be finite, got %v", args)
	}
	if n > MaxRangeValues {
		return nil, errors.Errorf("range() would produce %.0f values, more than the limit of %d", n, MaxRangeValues)
	}
	count := int(n)
	if count < 0 {
		count = 0
	}
	values := make([]Value, 0, count)
	for i := 0; i < count; i++ {
		x := start + float64(i)*step
		if allInts {
			values = append(values, Int(int64(x)))
		} else {
			values = append(values, Float(x))
		}
	}
	return values, nil
}

// splitTopLevel splits s on sep, ignoring separators nested in brackets or quotes.
func splitTopLevel(s string, sep byte) ([]string, error) {
	var parts []string
	depth := 0
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[' || c == '{' || c == '(':
			depth++
		case c == ']' || c == '}' || c == ')':
			depth--
			if depth < 0 {
				return nil, errors.Errorf("unbalanced %q at offset %d", c, i)
			}
		case c == sep && depth == 0:
			parts = append(parts, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, errors.New("unterminated quoted string")
	}
	if depth != 0 {
		return nil, errors.New("unbalanced brackets")
	}
	return append(parts, strings.TrimSpace(s[start:])), nil
}

type valueParser struct {
	in  string
	pos int
}

func (p *valueParser) skipSpace() {
	for p.pos < len(p.in) && (p.in[p.pos] == ' ' || p.in[p.pos] == '\t') {
		p.pos++
	}
}

func (p *valueParser) peek() byte {
	if p.pos >= len(p.in) {
		return 0
	}
	return p.in[p.pos]
}

func (p *valueParser) parseElement() (Value, error) {
	p.skipSpace()
	switch p.peek() {
	case '[':
		return p.parseSequence()
	case '{':
		return p.parseMapping()
	case '\'', '"':
		s, err := p.parseQuoted()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	default:
		return p.parsePrimitive(",]}")
	}
}

func (p *valueParser) parseSequence() (Value, error) {
	p.pos++ // [
	var items []Value
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return Sequence(), nil
	}
	for {
		item, err := p.parseElement()
		if err != nil {
			return Value{}, err
		}
		items = append(items, item)
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return Sequence(items...), nil
		default:
			return Value{}, errors.Errorf("expected ',' or ']' at offset %d", p.pos)
		}
	}
}

func (p *valueParser) parseMapping() (Value, error) {
	p.pos++ // {
	var entries []Entry
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return Mapping(), nil
	}
	for {
		p.skipSpace()
		var key string
		if c := p.peek(); c == '\'' || c == '"' {
			k, err := p.parseQuoted()
			if err != nil {
				return Value{}, err
			}
			key = k
		} else {
			start := p.pos
			for p.pos < len(p.in) && p.in[p.pos] != ':' && p.in[p.pos] != ',' && p.in[p.pos] != '}' {
				p.pos++
			}
			key = strings.TrimSpace(p.in[start:p.pos])
		}
		p.skipSpace()
		if p.peek() != ':' || key == "" {
			return Value{}, errors.Errorf("expected key: value at offset %d", p.pos)
		}
		p.pos++
		value, err := p.parseElement()
		if err != nil {
			return Value{}, err
		}
		entries = append(entries, Entry{Key: key, Value: value})
		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case '}':
			p.pos++
			return Mapping(entries...), nil
		default:
			return Value{}, errors.Errorf("expected ',' or '}' at offset %d", p.pos)
		}
	}
}

func (p *valueParser) parseQuoted() (string, error) {
	quote := p.in[p.pos]
	p.pos++
	var sb strings.Builder
	for p.pos < len(p.in) {
		c := p.in[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.in):
			sb.WriteByte(p.in[p.pos+1])
			p.pos += 2
		case c == quote:
			p.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(c)
			p.pos++
		}
	}
	return "", errors.New("unterminated quoted string")
}

func (p *valueParser) parsePrimitive(stop string) (Value, error) {
	start := p.pos
	for p.pos < len(p.in) && !strings.ContainsRune(stop, rune(p.in[p.pos])) {
		p.pos++
	}
	return typedScalar(strings.TrimSpace(p.in[start:p.pos])), nil
}

// typedScalar resolves an unquoted token. Only null, true/false, integers and floats are recognised, so that
// YAML 1.1 spellings such as yes/on stay strings.
func typedScalar(token string) Value {
	switch strings.ToLower(token) {
	case "null", "~":
		return Null()
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "inf", "+inf":
		return Float(math.Inf(1))
	case "-inf":
		return Float(math.Inf(-1))
	case "nan":
		return Float(math.NaN())
	}
	if token == "" {
		return String("")
	}
	if i, err := strconv.ParseInt(token, 10, 64); err == nil {
		return Int(i)
	}
	var decoded interface{}
	if err := yaml.Unmarshal([]byte(token), &decoded); err == nil {
		switch t := decoded.(type) {
		case int:
			return Int(int64(t))
		case int64:
			return Int(t)
		case float64:
			return Float(t)
		}
	}
	return String(token)
}
