package feedstats

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/xlab/treeprint"
)

var (
	ErrMissingColumn = errors.New("column not found in schema")
	ErrColumnType    = errors.New("column has incompatible type")
)

type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindObject
	KindArray
	KindMixed
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindMixed:
		return "mixed"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func kindOf(v any) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case bool:
		return KindBool
	case float64:
		return KindNumber
	case string:
		return KindString
	case map[string]any:
		return KindObject
	case []any:
		return KindArray
	default:
		return KindMixed
	}
}

// Field is one column of the inferred schema. Object columns carry their
// sub-fields in first-seen order, keys new to the same row sorted by name.
type Field struct {
	Name    string
	Kind    Kind
	NonNull int

	children map[string]*Field
	order    []string
}

func newField(name string) *Field {
	return &Field{Name: name, Kind: KindNull}
}

func (f *Field) Child(name string) *Field {
	if f.children == nil {
		return nil
	}
	return f.children[name]
}

func (f *Field) Children() []*Field {
	out := make([]*Field, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.children[name])
	}
	return out
}

// Lookup resolves a path below f. It returns nil if any step is absent.
func (f *Field) Lookup(p Path) *Field {
	cur := f
	for _, key := range p {
		cur = cur.Child(key)
		if cur == nil {
			return nil
		}
	}
	return cur
}

func (f *Field) child(name string) *Field {
	if c, ok := f.children[name]; ok {
		return c
	}
	if f.children == nil {
		f.children = make(map[string]*Field)
	}
	c := newField(name)
	f.children[name] = c
	f.order = append(f.order, name)
	return c
}

// observe folds one value into the field's kind.
func (f *Field) observe(v any) {
	k := kindOf(v)
	if k != KindNull {
		f.NonNull++
	}
	f.Kind = mergeKind(f.Kind, k)

	if obj, ok := v.(map[string]any); ok {
		for _, key := range slices.Sorted(maps.Keys(obj)) {
			f.child(key).observe(obj[key])
		}
	}
}

func mergeKind(a, b Kind) Kind {
	switch {
	case a == KindNull:
		return b
	case b == KindNull:
		return a
	case a == b:
		return a
	default:
		return KindMixed
	}
}

// InferSchema scans every record (never a sample) and returns the root
// object field.
func InferSchema(records []Record) *Field {
	root := newField("")
	for _, rec := range records {
		root.observe(map[string]any(rec))
	}
	return root
}

// resolve walks a projected path through the schema. A column that is present
// but null in every row cuts the walk short with a nil field: its descendants
// read as null and are not checked further.
func (f *Field) resolve(p Path) (*Field, error) {
	cur := f
	for i, key := range p {
		switch cur.Kind {
		case KindNull:
			return nil, nil
		case KindObject:
		default:
			return nil, fmt.Errorf("%w: %s is %s, expected object", ErrColumnType, p[:i].String(), cur.Kind)
		}

		next := cur.Child(key)
		if next == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, p[:i+1].String())
		}
		cur = next
	}
	return cur, nil
}

// HasColumn reports whether the path exists in the schema.
func (f *Field) HasColumn(p Path) error {
	_, err := f.resolve(p)
	return err
}

// StringColumn is HasColumn for string leaves.
func (f *Field) StringColumn(p Path) error {
	leaf, err := f.resolve(p)
	if err != nil || leaf == nil {
		return err
	}
	switch leaf.Kind {
	case KindNull, KindString:
		return nil
	default:
		return fmt.Errorf("%w: %s is %s, expected string", ErrColumnType, p.String(), leaf.Kind)
	}
}

// Tree renders the schema for humans.
func (f *Field) Tree() treeprint.Tree {
	tree := treeprint.NewWithRoot(fmt.Sprintf("record (%d rows)", f.NonNull))
	for _, c := range f.Children() {
		c.addTo(tree)
	}
	return tree
}

func (f *Field) addTo(tree treeprint.Tree) {
	if len(f.order) == 0 {
		tree.AddMetaNode(f.Kind.String(), fmt.Sprintf("%s (%d non-null)", f.Name, f.NonNull))
		return
	}
	branch := tree.AddMetaBranch(f.Kind.String(), fmt.Sprintf("%s (%d non-null)", f.Name, f.NonNull))
	for _, c := range f.Children() {
		c.addTo(branch)
	}
}
