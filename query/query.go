// Package query persists search queries and serves ranked suggestions for
// partial input.
package query

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/where"
)

type record struct {
	Rank  int    `json:"rank"`
	Query string `json:"query"`
}

var cacher = gache.New[map[string]*record](
	&gache.Options{
		Path:       where.Queries(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// matches memoizes per-prefix suggestion lists for the process lifetime.
var matches = make(map[string][]*record)

func sanitize(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}

// Remember stores a search query or bumps the rank of an already known one.
func Remember(q string, weight int) error {
	q = sanitize(q)
	if q == "" {
		return nil
	}

	cached, expired, err := cacher.Get()
	if expired || err != nil || cached == nil {
		cached = make(map[string]*record)
	}

	if known, ok := cached[q]; ok {
		known.Rank += weight
	} else {
		cached[q] = &record{Rank: weight, Query: q}
	}

	return cacher.Set(cached)
}

// Suggest returns the best historical suggestion for a partial query.
func Suggest(q string) mo.Option[string] {
	suggestions := SuggestMany(q)
	if len(suggestions) == 0 {
		return mo.None[string]()
	}
	return mo.Some(suggestions[0])
}

// SuggestMany returns every historical query fuzzily matching the partial
// input, most popular first. Disabled entirely by search.show_query_suggestions.
func SuggestMany(q string) []string {
	if !viper.GetBool(key.SearchShowQuerySuggestions) {
		return []string{}
	}

	q = sanitize(q)

	records, ok := matches[q]
	if !ok {
		cached, expired, err := cacher.Get()
		if err != nil || expired || cached == nil {
			return []string{}
		}

		for _, known := range cached {
			if fuzzy.Match(q, known.Query) {
				records = append(records, known)
			}
		}

		slices.SortFunc(records, func(a, b *record) int {
			return b.Rank - a.Rank
		})

		matches[q] = records
	}

	return lo.Map(records, func(r *record, _ int) string {
		return r.Query
	})
}
