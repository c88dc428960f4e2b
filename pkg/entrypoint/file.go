package entrypoint

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/armadaproject/sweeper/pkg/override"
)

// File is an entrypoint reading its override sets from a YAML or JSON document. The document is either a list of
// sets or a mapping with a sets key:
//
//	sets:
//	  - num_layers: 1
//	    num_hidden: [32]
//	  - ["num_layers=2", "num_hidden=[32,64]"]
//
// A set is a mapping from key to value, in document order, or a list whose items are key=value strings or
// single-key mappings.
type File struct {
	name string
	path string
}

func NewFile(name string, path string) *File {
	return &File{name: name, path: path}
}

func (f *File) Name() string {
	return f.name
}

func (f *File) Configure() ([]override.Set, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: f.name, Err: errors.WithStack(err)}
	}
	sets, err := DecodeSets(data)
	if err != nil {
		return nil, &ErrEntrypointExecution{Name: f.name, Err: errors.WithMessagef(err, "decoding %s", f.path)}
	}
	return sets, nil
}

type setsDocument struct {
	Sets *[]setNode `yaml:"sets"`
}

type setNode struct {
	set override.Set
}

// DecodeSets decodes override sets from a YAML or JSON document.
func DecodeSets(data []byte) ([]override.Set, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.WithStack(err)
	}

	var nodes []setNode
	switch raw.(type) {
	case []interface{}:
		if err := yaml.Unmarshal(data, &nodes); err != nil {
			return nil, errors.WithStack(err)
		}
	case map[interface{}]interface{}:
		var doc setsDocument
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, errors.WithStack(err)
		}
		if doc.Sets == nil {
			return nil, errors.New("document has no sets")
		}
		nodes = *doc.Sets
	case nil:
		return nil, errors.New("document is empty")
	default:
		return nil, errors.Errorf("expected a list of override sets, got %T", raw)
	}

	sets := make([]override.Set, len(nodes))
	for i, n := range nodes {
		sets[i] = n.set
	}
	return sets, nil
}

func (n *setNode) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	switch p := raw.(type) {
	case nil:
		n.set = override.Set{}
		return nil
	case map[interface{}]interface{}:
		var mapping yaml.MapSlice
		if err := unmarshal(&mapping); err != nil {
			return err
		}
		set, err := setFromMapSlice(mapping)
		if err != nil {
			return err
		}
		n.set = set
		return nil
	case []interface{}:
		set := override.Set{}
		for _, item := range p {
			overrides, err := overridesFromItem(item)
			if err != nil {
				return err
			}
			set = append(set, overrides...)
		}
		n.set = set
		return nil
	default:
		return errors.Errorf("an override set must be a mapping or a list, got %T", raw)
	}
}

func setFromMapSlice(mapping yaml.MapSlice) (override.Set, error) {
	set := make(override.Set, 0, len(mapping))
	for _, item := range mapping {
		key, ok := item.Key.(string)
		if !ok || key == "" {
			return nil, errors.Errorf("override keys must be non-empty strings, got %v", item.Key)
		}
		v, err := override.FromNative(item.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "override %s", key)
		}
		set = append(set, override.New(key, v))
	}
	return set, nil
}

func overridesFromItem(item interface{}) (override.Set, error) {
	switch t := item.(type) {
	case string:
		axis, err := override.ParseOverride(t)
		if err != nil {
			return nil, err
		}
		if len(axis.Values) != 1 {
			return nil, errors.Errorf("override %q must have exactly one value", t)
		}
		return override.Set(axis.Overrides()), nil
	case map[interface{}]interface{}:
		if len(t) != 1 {
			return nil, errors.Errorf("list items must be key=value strings or single-key mappings, got %d keys", len(t))
		}
		mapping := make(yaml.MapSlice, 0, 1)
		for k, v := range t {
			mapping = append(mapping, yaml.MapItem{Key: k, Value: v})
		}
		return setFromMapSlice(mapping)
	default:
		return nil, errors.Errorf("list items must be key=value strings or single-key mappings, got %T", item)
	}
}
