package entrypoint

import (
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/armadaproject/sweeper/pkg/override"
)

const setsAttribute = "sets"

// HCL is an entrypoint evaluating its override sets from an HCL file. The file holds top-level attributes only:
// the sets attribute must evaluate to a list of objects, one per override set, and every other attribute is
// available to expressions as local.<name>.
//
//	layers = range(1, 4)
//	sets = [for n in local.layers : { num_layers = n, optimizer = "adam" }]
//
// Object attributes become overrides in sorted key order.
type HCL struct {
	name string
	path string
}

func NewHCL(name string, path string) *HCL {
	return &HCL{name: name, path: path}
}

func (h *HCL) Name() string {
	return h.name
}

func (h *HCL) Configure() ([]override.Set, error) {
	sets, err := h.evaluate()
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: h.name, Err: err}
	}
	return sets, nil
}

func (h *HCL) evaluate() ([]override.Set, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(h.path)
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to parse HCL file %s", h.path)
	}
	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to decode HCL file %s", h.path)
	}
	setsAttr, ok := attrs[setsAttribute]
	if !ok {
		return nil, errors.Errorf("%s has no %s attribute", h.path, setsAttribute)
	}
	delete(attrs, setsAttribute)

	locals, err := evaluateLocals(attrs)
	if err != nil {
		return nil, errors.WithMessagef(err, "evaluating %s", h.path)
	}
	val, diags := setsAttr.Expr.Value(evalContext(locals))
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "failed to evaluate %s in %s", setsAttribute, h.path)
	}
	return setsFromCty(val)
}

// evaluateLocals evaluates attributes in dependency order. References to attributes that are not yet evaluated
// postpone the evaluation; a pass without progress means a reference cycle.
func evaluateLocals(attrs hcl.Attributes) (map[string]cty.Value, error) {
	locals := make(map[string]cty.Value, len(attrs))
	pending := maps.Clone(attrs)
	for len(pending) > 0 {
		progressed := false
		names := maps.Keys(pending)
		slices.Sort(names)
		for _, name := range names {
			attr := pending[name]
			if dependsOnPending(attr.Expr, pending) {
				continue
			}
			val, diags := attr.Expr.Value(evalContext(locals))
			if diags.HasErrors() {
				return nil, errors.Wrapf(diags, "failed to evaluate %s", name)
			}
			locals[name] = val
			delete(pending, name)
			progressed = true
		}
		if !progressed {
			names := maps.Keys(pending)
			slices.Sort(names)
			return nil, errors.Errorf("reference cycle between %v", names)
		}
	}
	return locals, nil
}

func dependsOnPending(expr hcl.Expression, pending hcl.Attributes) bool {
	for _, traversal := range expr.Variables() {
		if traversal.RootName() != "local" || len(traversal) < 2 {
			continue
		}
		if attr, ok := traversal[1].(hcl.TraverseAttr); ok {
			if _, isPending := pending[attr.Name]; isPending {
				return true
			}
		}
	}
	return false
}

func evalContext(locals map[string]cty.Value) *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"local": cty.ObjectVal(locals)},
		Functions: functions,
	}
}

var functions = map[string]function.Function{
	"concat":     stdlib.ConcatFunc,
	"flatten":    stdlib.FlattenFunc,
	"format":     stdlib.FormatFunc,
	"keys":       stdlib.KeysFunc,
	"length":     stdlib.LengthFunc,
	"lower":      stdlib.LowerFunc,
	"max":        stdlib.MaxFunc,
	"merge":      stdlib.MergeFunc,
	"min":        stdlib.MinFunc,
	"range":      stdlib.RangeFunc,
	"setproduct": stdlib.SetProductFunc,
	"tolist":     stdlib.MakeToFunc(cty.List(cty.DynamicPseudoType)),
	"upper":      stdlib.UpperFunc,
	"values":     stdlib.ValuesFunc,
}

func setsFromCty(val cty.Value) ([]override.Set, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, errors.Errorf("%s must be a list of objects", setsAttribute)
	}
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() && !ty.IsSetType() {
		return nil, errors.Errorf("%s must be a list of objects, got %s", setsAttribute, ty.FriendlyName())
	}
	sets := make([]override.Set, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, element := it.Element()
		set, err := setFromCty(element)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s[%d]", setsAttribute, len(sets))
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func setFromCty(val cty.Value) (override.Set, error) {
	ty := val.Type()
	if val.IsNull() || (!ty.IsObjectType() && !ty.IsMapType()) {
		return nil, errors.Errorf("expected an object, got %s", ty.FriendlyName())
	}
	set := make(override.Set, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		key, element := it.Element()
		v, err := valueFromCty(element)
		if err != nil {
			return nil, errors.WithMessagef(err, "override %s", key.AsString())
		}
		set = append(set, override.New(key.AsString(), v))
	}
	return set, nil
}

func valueFromCty(val cty.Value) (override.Value, error) {
	if !val.IsWhollyKnown() {
		return override.Value{}, errors.New("value is not known")
	}
	if val.IsNull() {
		return override.Null(), nil
	}
	ty := val.Type()
	switch {
	case ty == cty.String:
		return override.String(val.AsString()), nil
	case ty == cty.Bool:
		return override.Bool(val.True()), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, accuracy := bf.Int64(); accuracy == big.Exact {
				return override.Int(i), nil
			}
		}
		f, _ := bf.Float64()
		return override.Float(f), nil
	case ty.IsListType() || ty.IsTupleType() || ty.IsSetType():
		items := make([]override.Value, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, element := it.Element()
			v, err := valueFromCty(element)
			if err != nil {
				return override.Value{}, err
			}
			items = append(items, v)
		}
		return override.Sequence(items...), nil
	case ty.IsObjectType() || ty.IsMapType():
		entries := make([]override.Entry, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, element := it.Element()
			v, err := valueFromCty(element)
			if err != nil {
				return override.Value{}, err
			}
			entries = append(entries, override.Entry{Key: key.AsString(), Value: v})
		}
		return override.Mapping(entries...), nil
	default:
		return override.Value{}, errors.Errorf("unsupported value of type %s", ty.FriendlyName())
	}
}
