// Package extension manages the lifecycle of dynamically loaded provider extensions.
package extension

import "github.com/yomikata-app/yomikata/source"

// Info is the runtime-reported descriptor of an extension. The source of truth
// lives in the execution host; the client mirrors it locally for display and
// routing decisions.
type Info struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Version     string              `json:"version"`
	Description string              `json:"description,omitempty"`
	Author      string              `json:"author,omitempty"`
	NSFW        bool                `json:"nsfw"`
	Language    string              `json:"language,omitempty"`
	Kind        source.Kind         `json:"type"`
	BaseURL     string              `json:"baseUrl,omitempty"`
	Exports     source.Capabilities `json:"exports"`
	Installed   bool                `json:"installed"`
	Loaded      bool                `json:"loaded"`
}

// Descriptor projects the info into the uniform source identity.
func (i Info) Descriptor() source.Descriptor {
	return source.Descriptor{
		ID:            i.ID,
		Name:          i.Name,
		BaseURL:       i.BaseURL,
		MultiLanguage: i.Exports.Languages,
		Capabilities:  i.Exports,
	}
}

// Host is the execution environment that installs, initializes, and invokes
// sandboxed extensions. The client never assumes anything about the host's
// internals beyond this boundary; the shipped implementation runs Lua scripts,
// but any capability-reporting runtime satisfies it.
type Host interface {
	// ListInstalled enumerates every installed extension with current load state.
	ListInstalled() ([]Info, error)

	// GetInfo reports a single extension. Returns a NotFoundError for unknown ids.
	GetInfo(id string) (Info, error)

	// InstallFromFile validates and registers an extension package from a
	// script and manifest on disk.
	InstallFromFile(scriptPath, manifestPath string) (Info, error)

	// Uninstall removes a registration entirely.
	Uninstall(id string) error

	// Load initializes an installed extension for invocation.
	Load(id string) (Info, error)

	// Unload tears down a loaded extension. Unloading an id that is not
	// loaded is not an error.
	Unload(id string) error

	// Invocation operations. Each requires the extension to be loaded.
	Search(id, query string) ([]source.Favorite, error)
	Chapters(id, sourceID, language string) ([]source.Chapter, error)
	ChapterImages(id, chapterID string) ([]string, error)
	Languages(id, sourceID string) ([]source.Language, error)
	Episodes(id, sourceID string) ([]source.Episode, error)
	EpisodeURLs(id, episodeID string) ([]string, error)
}
