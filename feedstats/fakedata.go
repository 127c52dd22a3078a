package feedstats

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"
)

// The shapes below follow app.bsky.feed.defs#feedViewPost as emitted by
// `gosky bsky get-feed --raw`, trimmed to what an export usually carries.
// reply and reason are written as explicit nulls.

type fakeProfile struct {
	Did         string  `json:"did"`
	Handle      string  `json:"handle"`
	DisplayName *string `json:"displayName,omitempty"`
}

type fakePostRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type fakePostView struct {
	Uri         string         `json:"uri"`
	Cid         string         `json:"cid"`
	Author      fakeProfile    `json:"author"`
	Record      fakePostRecord `json:"record"`
	IndexedAt   string         `json:"indexedAt"`
	LikeCount   int            `json:"likeCount"`
	RepostCount int            `json:"repostCount"`
}

type fakeReasonRepost struct {
	Type      string      `json:"$type"`
	By        fakeProfile `json:"by"`
	IndexedAt string      `json:"indexedAt"`
}

type fakeReplyRef struct {
	Parent fakePostView `json:"parent"`
	Root   fakePostView `json:"root"`
}

type fakeFeedViewPost struct {
	Post   fakePostView      `json:"post"`
	Reply  *fakeReplyRef     `json:"reply"`
	Reason *fakeReasonRepost `json:"reason"`
}

// FakeFeedOptions controls the shape of a generated export.
type FakeFeedOptions struct {
	Posts   int
	Authors int
	// fraction of rows that are reposts, and of rows that are replies;
	// the two are drawn independently so reply reposts occur too
	RepostRate float64
	ReplyRate  float64
	// fraction of profiles with no displayName
	AnonymousRate float64
	Seed          int64
}

// DefaultFakeFeedOptions mirrors the flag defaults of the fake command.
func DefaultFakeFeedOptions() FakeFeedOptions {
	return FakeFeedOptions{
		Posts:      200,
		Authors:    12,
		RepostRate: 0.2,
		ReplyRate:  0.3,
		Seed:       1,
	}
}

// WriteFakeFeed writes opts.Posts synthetic feed rows as NDJSON.
func WriteFakeFeed(w io.Writer, opts FakeFeedOptions) error {
	if opts.Posts < 0 {
		return fmt.Errorf("invalid post count: %d", opts.Posts)
	}
	if opts.Authors < 1 {
		return fmt.Errorf("need at least one author, got %d", opts.Authors)
	}

	faker := gofakeit.New(opts.Seed)
	profiles := make([]fakeProfile, opts.Authors)
	for i := range profiles {
		profiles[i] = fakeAuthor(faker, i, opts.AnonymousRate)
	}

	base := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	enc := json.NewEncoder(w)
	for i := 0; i < opts.Posts; i++ {
		ts := base.Add(time.Duration(i) * time.Minute)
		row := fakeFeedViewPost{
			Post: fakePost(faker, profiles[faker.Number(0, len(profiles)-1)], ts),
		}
		if faker.Float64() < opts.ReplyRate {
			parent := fakePost(faker, profiles[faker.Number(0, len(profiles)-1)], ts.Add(-time.Hour))
			row.Reply = &fakeReplyRef{Parent: parent, Root: parent}
		}
		if faker.Float64() < opts.RepostRate {
			row.Reason = &fakeReasonRepost{
				Type:      "app.bsky.feed.defs#reasonRepost",
				By:        profiles[faker.Number(0, len(profiles)-1)],
				IndexedAt: ts.Format(time.RFC3339),
			}
		}
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

func fakeAuthor(faker *gofakeit.Faker, index int, anonymousRate float64) fakeProfile {
	prefix := strings.ToLower(faker.Username())
	if len(prefix) > 10 {
		prefix = prefix[0:10]
	}
	p := fakeProfile{
		Did:    fmt.Sprintf("did:plc:%s", strings.ToLower(faker.LetterN(24))),
		Handle: fmt.Sprintf("%s-%d.test", prefix, index),
	}
	if faker.Float64() >= anonymousRate {
		// suffix keeps names unique even when the faker repeats itself
		name := fmt.Sprintf("%s %d", faker.Name(), index)
		p.DisplayName = &name
	}
	return p
}

func fakePost(faker *gofakeit.Faker, author fakeProfile, ts time.Time) fakePostView {
	rkey := strings.ToLower(faker.LetterN(13))
	return fakePostView{
		Uri:    fmt.Sprintf("at://%s/app.bsky.feed.post/%s", author.Did, rkey),
		Cid:    "bafyrei" + strings.ToLower(faker.LetterN(52)),
		Author: author,
		Record: fakePostRecord{
			Type:      "app.bsky.feed.post",
			Text:      faker.Sentence(10),
			CreatedAt: ts.Format(time.RFC3339),
		},
		IndexedAt:   ts.Format(time.RFC3339),
		LikeCount:   faker.Number(0, 50),
		RepostCount: faker.Number(0, 10),
	}
}
