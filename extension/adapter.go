// Package extension manages the lifecycle of dynamically loaded provider extensions.
package extension

import "github.com/yomikata-app/yomikata/source"

// Adapter exposes one extension as a source.Source, indistinguishable from a
// built-in adapter. The zero-value ensure-loaded behavior of the client makes
// a cold extension load transparently on first use.
type Adapter struct {
	client *Client
	id     string
}

// Adapter returns the source-contract view of an installed extension.
func (c *Client) Adapter(id string) *Adapter {
	return &Adapter{client: c, id: id}
}

// Resolve finds an installed extension by id or display name and returns its
// adapter. Resolution consults only the local registry; callers refresh first
// when staleness matters.
func (c *Client) Resolve(name string) (*Adapter, bool) {
	if _, ok := c.registry[name]; ok {
		return c.Adapter(name), true
	}
	for id, rec := range c.registry {
		if rec.info.Name == name {
			return c.Adapter(id), true
		}
	}
	return nil, false
}

func (a *Adapter) Descriptor() source.Descriptor {
	info, ok := a.client.Get(a.id)
	if !ok {
		return source.Descriptor{ID: a.id, Name: a.id}
	}
	return info.Descriptor()
}

func (a *Adapter) Search(query string) ([]source.Favorite, error) {
	return a.client.Search(a.id, query)
}

func (a *Adapter) Chapters(sourceID, language string) ([]source.Chapter, error) {
	return a.client.Chapters(a.id, sourceID, language)
}

func (a *Adapter) ChapterImages(chapterID string) ([]string, error) {
	return a.client.ChapterImages(a.id, chapterID)
}

func (a *Adapter) Languages(sourceID string) ([]source.Language, error) {
	return a.client.Languages(a.id, sourceID)
}

func (a *Adapter) Episodes(sourceID string) ([]source.Episode, error) {
	return a.client.Episodes(a.id, sourceID)
}

func (a *Adapter) EpisodeURLs(episodeID string) ([]string, error) {
	return a.client.EpisodeURLs(a.id, episodeID)
}
