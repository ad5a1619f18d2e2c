// Package downloader aggregates every registered content source behind one
// routing surface.
//
// Built-in manga adapters, built-in anime adapters, and host-managed
// extensions are consulted in that order; the registries are disjoint, so a
// name resolves to at most one adapter. There are no retries and no fallback
// between sources: a provider failure propagates unchanged, and a name that
// resolves nowhere fails with an UnknownSourceError rather than silently
// doing nothing.
package downloader

import (
	"strings"
	"time"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/extension"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/memo"
	"github.com/yomikata-app/yomikata/source"
)

// suggestionMaxDistance bounds how far a "did you mean" candidate may be.
const suggestionMaxDistance = 5

// defaultChaptersTTL guards against a zero or negative downloader.chapters_ttl,
// which would otherwise turn the time-expiring caches into never-expiring ones.
const defaultChaptersTTL = 590 * time.Second

// chaptersTTL resolves the expiry for the time-based caches: an explicit
// option wins, then the configured downloader.chapters_ttl, and anything
// non-positive falls back to the default.
func chaptersTTL(configured time.Duration) time.Duration {
	ttl := configured
	if ttl == 0 {
		ttl = time.Duration(viper.GetInt64(key.DownloaderChaptersTTL)) * time.Second
	}
	if ttl <= 0 {
		ttl = defaultChaptersTTL
	}
	return ttl
}

// Options configures a Manager. Registries are injected explicitly; the
// Manager never discovers adapters on its own.
type Options struct {
	Manga      map[string]source.Source
	Anime      map[string]source.Source
	Extensions *extension.Client

	// ChaptersTTL overrides the configured freshness window for chapter,
	// episode, language, and search listings. Zero means use the config key.
	ChaptersTTL time.Duration
}

// Manager routes operations to the adapter owning a source name and memoizes
// the results that are worth keeping.
type Manager struct {
	manga      map[string]source.Source
	anime      map[string]source.Source
	extensions *extension.Client

	searches  *memo.Cache[[]source.Favorite]
	chapters  *memo.Cache[[]source.Chapter]
	episodes  *memo.Cache[[]source.Episode]
	languages *memo.Cache[[]source.Language]

	// Page image and stream URL lists are immutable once fetched, so they
	// live in identity caches for the process lifetime.
	images  *memo.Cache[[]string]
	streams *memo.Cache[[]string]
}

func New(options Options) *Manager {
	ttl := chaptersTTL(options.ChaptersTTL)

	return &Manager{
		manga:      options.Manga,
		anime:      options.Anime,
		extensions: options.Extensions,
		searches:   memo.New[[]source.Favorite](ttl),
		chapters:   memo.New[[]source.Chapter](ttl),
		episodes:   memo.New[[]source.Episode](ttl),
		languages:  memo.New[[]source.Language](ttl),
		images:     memo.New[[]string](0),
		streams:    memo.New[[]string](0),
	}
}

// Resolve finds the adapter owning a source name: manga registry first, then
// anime, then the extension client.
func (m *Manager) Resolve(name string) (source.Source, error) {
	lookup := strings.ToLower(strings.TrimSpace(name))

	if adapter, ok := m.manga[lookup]; ok {
		return adapter, nil
	}
	if adapter, ok := m.anime[lookup]; ok {
		return adapter, nil
	}
	if m.extensions != nil {
		if adapter, ok := m.extensions.Resolve(name); ok {
			return adapter, nil
		}
	}

	return nil, &source.UnknownSourceError{Name: name, Suggestion: m.suggest(lookup)}
}

// Names lists every resolvable source name: built-in ids plus installed
// extension ids.
func (m *Manager) Names() []string {
	names := append(lo.Keys(m.manga), lo.Keys(m.anime)...)
	if m.extensions != nil {
		for _, info := range m.extensions.Installed() {
			names = append(names, info.ID)
		}
	}
	return names
}

func (m *Manager) suggest(name string) string {
	names := m.Names()
	if len(names) == 0 {
		return ""
	}

	closest := lo.MinBy(names, func(a string, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	if levenshtein.Distance(name, closest) > suggestionMaxDistance {
		return ""
	}
	return closest
}

// Search queries one source. Results are memoized on (query, source); the
// query text is normalized inside the key derivation only.
func (m *Manager) Search(query, sourceName string) ([]source.Favorite, error) {
	if strings.TrimSpace(query) == "" {
		return nil, source.ErrEmptyQuery
	}

	adapter, err := m.Resolve(sourceName)
	if err != nil {
		return nil, err
	}

	// The query is the only argument that tolerates case folding; ids stay as-is.
	cacheKey := memo.Key(strings.ToLower(query), adapter.Descriptor().ID)
	return m.searches.Do(cacheKey, func() ([]source.Favorite, error) {
		return adapter.Search(query)
	})
}

// Chapters lists a favorite's chapters in its language, served from the
// time-expiring cache while fresh.
func (m *Manager) Chapters(favorite source.Favorite, language string) ([]source.Chapter, error) {
	adapter, err := m.Resolve(favorite.Source)
	if err != nil {
		return nil, err
	}

	cacheKey := memo.Key(adapter.Descriptor().ID, favorite.SourceID, language, "chapters")
	return m.chapters.Do(cacheKey, func() ([]source.Chapter, error) {
		return adapter.Chapters(favorite.SourceID, language)
	})
}

// ChapterImages lists a chapter's page URLs from the identity cache.
func (m *Manager) ChapterImages(chapter source.Chapter) ([]string, error) {
	adapter, err := m.Resolve(chapter.Source)
	if err != nil {
		return nil, err
	}

	cacheKey := memo.Key(adapter.Descriptor().ID, chapter.ID, "images")
	return m.images.Do(cacheKey, func() ([]string, error) {
		return adapter.ChapterImages(chapter.ID)
	})
}

// Languages lists the localization variants a favorite's source offers.
func (m *Manager) Languages(favorite source.Favorite) ([]source.Language, error) {
	adapter, err := m.Resolve(favorite.Source)
	if err != nil {
		return nil, err
	}

	cacheKey := memo.Key(adapter.Descriptor().ID, favorite.SourceID, "languages")
	return m.languages.Do(cacheKey, func() ([]source.Language, error) {
		return adapter.Languages(favorite.SourceID)
	})
}

// Episodes lists an anime's episodes, served from the time-expiring cache.
func (m *Manager) Episodes(sourceID, sourceName string) ([]source.Episode, error) {
	adapter, err := m.Resolve(sourceName)
	if err != nil {
		return nil, err
	}

	cacheKey := memo.Key(adapter.Descriptor().ID, sourceID, "episodes")
	return m.episodes.Do(cacheKey, func() ([]source.Episode, error) {
		return adapter.Episodes(sourceID)
	})
}

// EpisodeURLs lists an episode's stream URLs from the identity cache.
func (m *Manager) EpisodeURLs(episodeID, sourceName string) ([]string, error) {
	adapter, err := m.Resolve(sourceName)
	if err != nil {
		return nil, err
	}

	cacheKey := memo.Key(adapter.Descriptor().ID, episodeID, "streams")
	return m.streams.Do(cacheKey, func() ([]string, error) {
		return adapter.EpisodeURLs(episodeID)
	})
}

// FlushCaches drops every memoized result.
func (m *Manager) FlushCaches() {
	for _, cache := range []interface{ Flush() }{
		m.searches, m.chapters, m.episodes, m.languages, m.images, m.streams,
	} {
		cache.Flush()
	}
}
