package feedstats

import (
	"cmp"
	"slices"
)

// Columns read from each feedViewPost row. The repost reason sits next to
// post, not inside it.
var (
	ReplyPath    = Path{"reply"}
	ReasonPath   = Path{"reason"}
	AuthorPath   = Path{"post", "author", "displayName"}
	ReposterPath = Path{"reason", "by", "displayName"}
)

// Attribution is the flat projection of one included row.
type Attribution struct {
	Author   *string
	Reposter *string
}

// Effective is the name credited for the row: the reposter when there is
// one, otherwise the post author.
func (a Attribution) Effective() *string {
	if a.Reposter != nil {
		return a.Reposter
	}
	return a.Author
}

// Included reports whether a row counts: anything that is not a plain reply.
// A reply that is also a repost is kept.
func Included(rec Record) bool {
	return ReplyPath.Extract(rec) == nil || ReasonPath.Extract(rec) != nil
}

// CheckSchema verifies every projected column exists in the inferred schema.
func CheckSchema(schema *Field) error {
	for _, p := range []Path{ReplyPath, ReasonPath} {
		if err := schema.HasColumn(p); err != nil {
			return err
		}
	}
	for _, p := range []Path{AuthorPath, ReposterPath} {
		if err := schema.StringColumn(p); err != nil {
			return err
		}
	}
	return nil
}

// Project filters out plain replies and flattens the rest to
// author/reposter pairs.
func Project(ds *Dataset) ([]Attribution, error) {
	if err := CheckSchema(ds.Schema); err != nil {
		return nil, err
	}

	var out []Attribution
	for _, rec := range ds.Records {
		if !Included(rec) {
			continue
		}
		out = append(out, Attribution{
			Author:   AuthorPath.ExtractString(rec),
			Reposter: ReposterPath.ExtractString(rec),
		})
	}
	return out, nil
}

// AuthorCount is one output row. A nil Author groups rows with no display
// name at all.
type AuthorCount struct {
	Author *string `json:"author"`
	Count  int     `json:"count"`
}

func (ac AuthorCount) Name() string {
	if ac.Author == nil {
		return "null"
	}
	return *ac.Author
}

// CountByAuthor groups attributions by effective author and sorts ascending
// by count. Ties break on name, with the null group first.
func CountByAuthor(attrs []Attribution) []AuthorCount {
	counts := make(map[string]int)
	nulls := 0
	for _, a := range attrs {
		name := a.Effective()
		if name == nil {
			nulls++
			continue
		}
		counts[*name]++
	}

	out := make([]AuthorCount, 0, len(counts)+1)
	if nulls > 0 {
		out = append(out, AuthorCount{Count: nulls})
	}
	for name, n := range counts {
		out = append(out, AuthorCount{Author: &name, Count: n})
	}

	slices.SortFunc(out, func(a, b AuthorCount) int {
		if c := cmp.Compare(a.Count, b.Count); c != 0 {
			return c
		}
		switch {
		case a.Author == nil && b.Author == nil:
			return 0
		case a.Author == nil:
			return -1
		case b.Author == nil:
			return 1
		}
		return cmp.Compare(*a.Author, *b.Author)
	})
	return out
}

// Tally runs the whole analysis over a loaded dataset.
func Tally(ds *Dataset) ([]AuthorCount, error) {
	attrs, err := Project(ds)
	if err != nil {
		return nil, err
	}
	return CountByAuthor(attrs), nil
}

// Total sums the counts of a result.
func Total(counts []AuthorCount) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
