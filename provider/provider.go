// Package provider assembles the built-in adapter registries.
package provider

import (
	"github.com/samber/lo"
	"golang.org/x/exp/slices"

	"github.com/yomikata-app/yomikata/provider/animefire"
	"github.com/yomikata-app/yomikata/provider/mangadex"
	"github.com/yomikata-app/yomikata/provider/mangafire"
	"github.com/yomikata-app/yomikata/source"
)

// Manga returns the built-in manga adapters keyed by descriptor id.
func Manga() map[string]source.Source {
	return registry(mangadex.New(), mangafire.New())
}

// Anime returns the built-in anime adapters keyed by descriptor id.
func Anime() map[string]source.Source {
	return registry(animefire.New())
}

func registry(adapters ...source.Source) map[string]source.Source {
	return lo.SliceToMap(adapters, func(s source.Source) (string, source.Source) {
		return s.Descriptor().ID, s
	})
}

// Descriptors lists every built-in descriptor sorted by id.
func Descriptors() []source.Descriptor {
	var descriptors []source.Descriptor
	for _, registry := range []map[string]source.Source{Manga(), Anime()} {
		for _, adapter := range registry {
			descriptors = append(descriptors, adapter.Descriptor())
		}
	}

	slices.SortFunc(descriptors, func(a, b source.Descriptor) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return descriptors
}
