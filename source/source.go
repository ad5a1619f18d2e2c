// Package source defines the domain models and the adapter contract for content providers.
//
// A Source normalizes one concrete provider - a compiled-in scraper, a REST API,
// or a host-managed extension - into a fixed operation set. Concrete adapters
// implement the subset of operations their Descriptor capabilities declare;
// the rest return ErrNotSupported wrapped in a ProviderError.
package source

// Source is the uniform contract every content provider adapter satisfies.
type Source interface {
	// Descriptor returns the immutable identity and capability flags of the provider.
	Descriptor() Descriptor

	// Search executes a query against the provider to discover matching favorites.
	// Entries that fail to parse are dropped, never returned partially.
	Search(query string) ([]Favorite, error)

	// Chapters retrieves the chapter list for a provider-native id, ascending by
	// numeric-aware chapter number. The language is ignored by single-language providers.
	Chapters(sourceID, language string) ([]Chapter, error)

	// ChapterImages retrieves the page image URLs of a chapter in page order.
	ChapterImages(chapterID string) ([]string, error)

	// Languages reports the localization variants a multi-language provider
	// exposes for a provider-native id.
	Languages(sourceID string) ([]Language, error)

	// Episodes retrieves the episode list of an anime-flavored provider.
	Episodes(sourceID string) ([]Episode, error)

	// EpisodeURLs retrieves the stream URLs of an episode.
	EpisodeURLs(episodeID string) ([]string, error)
}

// Capabilities declares which optional operations a provider implements.
type Capabilities struct {
	Search        bool `json:"search"`
	Chapters      bool `json:"getChapters"`
	ChapterImages bool `json:"getChapterImages"`
	Episodes      bool `json:"getEpisodes"`
	EpisodeURLs   bool `json:"getEpisodeUrls"`
	Languages     bool `json:"isMultiLanguage"`
}

// Descriptor is the immutable identity of a registered provider. One per source.
type Descriptor struct {
	ID            string       `json:"id"`
	Name          string       `json:"displayName"`
	BaseURL       string       `json:"baseUrl"`
	MultiLanguage bool         `json:"isMultiLanguage"`
	Capabilities  Capabilities `json:"capabilities"`
}

func (d Descriptor) String() string {
	return d.Name
}

// Unsupported is a mixin returning ErrNotSupported for every optional operation.
// Adapters embed it and override the operations they actually implement.
type Unsupported struct{}

func (Unsupported) Search(string) ([]Favorite, error) {
	return nil, ErrNotSupported
}

func (Unsupported) Chapters(string, string) ([]Chapter, error) {
	return nil, ErrNotSupported
}

func (Unsupported) ChapterImages(string) ([]string, error) {
	return nil, ErrNotSupported
}

func (Unsupported) Languages(string) ([]Language, error) {
	return nil, ErrNotSupported
}

func (Unsupported) Episodes(string) ([]Episode, error) {
	return nil, ErrNotSupported
}

func (Unsupported) EpisodeURLs(string) ([]string, error) {
	return nil, ErrNotSupported
}
