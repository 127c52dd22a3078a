package feedstats

import (
	"fmt"
	"strings"
)

// Path addresses a nested field inside a record, outermost key first.
type Path []string

// ParsePath splits a dotted path such as "reason.by.displayName".
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("empty field path")
	}
	parts := strings.Split(s, ".")
	for _, p := range parts {
		if p == "" {
			return nil, fmt.Errorf("invalid field path: %q", s)
		}
	}
	return Path(parts), nil
}

// MustParsePath is ParsePath for constant paths; it panics on error.
func MustParsePath(s string) Path {
	p, err := ParsePath(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Extract walks the record along the path. It returns nil when any step is
// missing, null, or not an object.
func (p Path) Extract(rec Record) any {
	var cur any = map[string]any(rec)
	for _, key := range p {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
		if cur == nil {
			return nil
		}
	}
	return cur
}

// ExtractString is Extract for string leaves; non-string values read as nil.
func (p Path) ExtractString(rec Record) *string {
	s, ok := p.Extract(rec).(string)
	if !ok {
		return nil
	}
	return &s
}
