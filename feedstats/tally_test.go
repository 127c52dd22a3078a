package feedstats

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRead(t *testing.T, lines ...string) *Dataset {
	t.Helper()
	ds, err := ReadNDJSON(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)
	return ds
}

func names(counts []AuthorCount) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Name()
	}
	return out
}

func TestTallyFixture(t *testing.T) {
	assert := assert.New(t)

	ds, err := LoadFile(nil, "testdata/feed.json")
	require.NoError(t, err)
	assert.Equal(6, ds.Len())

	counts, err := Tally(ds)
	require.NoError(t, err)

	assert.Equal([]string{"Dave 🌊", "Alice", "Carol"}, names(counts))
	assert.Equal([]int{1, 2, 2}, []int{counts[0].Count, counts[1].Count, counts[2].Count})
	assert.Equal(5, Total(counts))
}

func TestTallyRepostCreditsReposter(t *testing.T) {
	assert := assert.New(t)

	ds := mustRead(t, `{"post":{"author":{"displayName":"A"}},"reply":null,"reason":{"by":{"displayName":"B"}}}`)
	counts, err := Tally(ds)
	require.NoError(t, err)

	require.Len(t, counts, 1)
	assert.Equal("B", counts[0].Name())
	assert.Equal(1, counts[0].Count)
}

func TestTallyPlainPostCreditsAuthor(t *testing.T) {
	assert := assert.New(t)

	ds := mustRead(t, `{"post":{"author":{"displayName":"A"}},"reply":null,"reason":null}`)
	counts, err := Tally(ds)
	require.NoError(t, err)

	require.Len(t, counts, 1)
	assert.Equal("A", counts[0].Name())
	assert.Equal(1, counts[0].Count)
}

func TestTallyAllRepliesIsEmpty(t *testing.T) {
	ds := mustRead(t,
		`{"post":{"author":{"displayName":"A"}},"reply":{"parent":{}},"reason":null}`,
		`{"post":{"author":{"displayName":"B"}},"reply":{"parent":{}},"reason":null}`,
	)
	counts, err := Tally(ds)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestTallyReplyThatIsRepostIsKept(t *testing.T) {
	ds := mustRead(t,
		`{"post":{"author":{"displayName":"A"}},"reply":{"parent":{}},"reason":{"by":{"displayName":"B"}}}`,
	)
	counts, err := Tally(ds)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "B", counts[0].Name())
}

func TestTallyEmptyDataset(t *testing.T) {
	ds := mustRead(t, "", "")
	assert.Equal(t, 0, ds.Len())

	counts, err := Tally(ds)
	require.NoError(t, err)
	assert.Empty(t, counts)
}

func TestTallySortOrder(t *testing.T) {
	assert := assert.New(t)

	ds := mustRead(t,
		`{"post":{"author":{"displayName":"zed"}},"reply":null,"reason":null}`,
		`{"post":{"author":{"displayName":"zed"}},"reply":null,"reason":null}`,
		`{"post":{"author":{"displayName":"zed"}},"reply":null,"reason":null}`,
		`{"post":{"author":{"displayName":"amy"}},"reply":null,"reason":null}`,
		`{"post":{"author":{"displayName":"mo"}},"reply":null,"reason":{"by":{"displayName":"amy"}}}`,
		`{"post":{"author":{"displayName":"mo"}},"reply":null,"reason":null}`,
		`{"post":{"author":{}},"reply":null,"reason":null}`,
	)
	counts, err := Tally(ds)
	require.NoError(t, err)

	assert.Equal([]string{"null", "mo", "amy", "zed"}, names(counts))
	assert.Nil(counts[0].Author)
	for i := 1; i < len(counts); i++ {
		assert.LessOrEqual(counts[i-1].Count, counts[i].Count)
	}
}

func TestTallySchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		err   error
		path  string
	}{
		{
			name:  "no reason column anywhere",
			lines: []string{`{"post":{"author":{"displayName":"A"}},"reply":null}`},
			err:   ErrMissingColumn,
			path:  "reason",
		},
		{
			name:  "no reply column anywhere",
			lines: []string{`{"post":{"author":{"displayName":"A"}},"reason":null}`},
			err:   ErrMissingColumn,
			path:  "reply",
		},
		{
			name:  "no post column",
			lines: []string{`{"reply":null,"reason":null}`},
			err:   ErrMissingColumn,
			path:  "post",
		},
		{
			name:  "repost without by",
			lines: []string{`{"post":{"author":{"displayName":"A"}},"reply":null,"reason":{"indexedAt":"x"}}`},
			err:   ErrMissingColumn,
			path:  "reason.by",
		},
		{
			name: "display name never seen",
			lines: []string{
				`{"post":{"author":{"handle":"a.test"}},"reply":null,"reason":null}`,
			},
			err:  ErrMissingColumn,
			path: "post.author.displayName",
		},
		{
			name: "numeric display name",
			lines: []string{
				`{"post":{"author":{"displayName":"A"}},"reply":null,"reason":null}`,
				`{"post":{"author":{"displayName":7}},"reply":null,"reason":null}`,
			},
			err:  ErrColumnType,
			path: "post.author.displayName",
		},
		{
			name:  "author is a string",
			lines: []string{`{"post":{"author":"A"},"reply":null,"reason":null}`},
			err:   ErrColumnType,
			path:  "post.author",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ds := mustRead(t, tc.lines...)
			_, err := Tally(ds)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.err)
			assert.Contains(t, err.Error(), tc.path)
		})
	}
}

func TestTallyNullColumnsAreNotMissing(t *testing.T) {
	// reason is null everywhere, so reason.by is never looked for
	ds := mustRead(t,
		`{"post":{"author":{"displayName":"A"}},"reply":null,"reason":null}`,
		`{"post":{"author":{"displayName":"A"}},"reply":{"parent":{}},"reason":null}`,
	)
	counts, err := Tally(ds)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].Count)
}

func TestAttributionEffective(t *testing.T) {
	assert := assert.New(t)

	a, b := "A", "B"
	assert.Equal(&b, Attribution{Author: &a, Reposter: &b}.Effective())
	assert.Equal(&a, Attribution{Author: &a}.Effective())
	assert.Nil(Attribution{}.Effective())
}
