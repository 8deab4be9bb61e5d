package query

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/dukex/newsroom/pkg/models"
)

// TestProperty06_SearchIsIdempotent verifies that searching twice with the same query
// yields identical results and never touches the collection.
func TestProperty06_SearchIsIdempotent(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 15).Draw(rt, "num_posts")
		posts := make([]*models.Post, 0, n)

		for i := 0; i < n; i++ {
			p := post(fmt.Sprintf("p%d", i),
				rapid.StringMatching(`[A-Za-z ]{0,16}`).Draw(rt, "title"),
				rapid.SampledFrom(models.AllStatuses()).Draw(rt, "status"),
				time.Duration(i)*time.Minute)
			p.Tags = []string{rapid.StringMatching(`[a-z]{0,6}`).Draw(rt, "tag")}
			posts = append(posts, p)
		}

		q := rapid.StringMatching(`[A-Za-z]{0,3}`).Draw(rt, "query")

		first := ids(Search(posts, q))
		second := ids(Search(posts, q))
		again := ids(Search(Search(posts, q), q))

		if fmt.Sprint(first) != fmt.Sprint(second) || fmt.Sprint(first) != fmt.Sprint(again) {
			rt.Fatalf("search is not idempotent: %v vs %v vs %v", first, second, again)
		}

		for i, p := range posts {
			if p.ID != fmt.Sprintf("p%d", i) {
				rt.Fatalf("collection reordered at %d", i)
			}
		}
	})
}
