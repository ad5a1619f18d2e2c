// Package source defines the domain models and the adapter contract for content providers.
package source

import "github.com/yomikata-app/yomikata/util"

// Kind classifies the content type of a favorite.
type Kind string

const (
	Manga Kind = "manga"
	Comic Kind = "comic"
	Anime Kind = "anime"
)

// Favorite represents a tracked content item tied to exactly one source.
// The numeric ID is assigned by the local library store; SourceID is the
// provider-native identifier used for further fetches.
type Favorite struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	FolderName  string  `json:"folderName"`
	Link        string  `json:"link"`
	Cover       string  `json:"cover"`
	Source      string  `json:"source"`
	SourceID    string  `json:"sourceId"`
	Kind        Kind    `json:"type,omitempty"`
	ExtraName   string  `json:"extraName,omitempty"`
	Author      string  `json:"author,omitempty"`
	Description string  `json:"description,omitempty"`
	Status      string  `json:"status,omitempty"`
	Grade       float64 `json:"grade,omitempty"`
	TitleColor  string  `json:"titleColor,omitempty"`
	CardColor   string  `json:"cardColor,omitempty"`
}

func (f *Favorite) String() string {
	return f.Name
}

// Dirname returns a filesystem-safe directory name for the favorite.
func (f *Favorite) Dirname() string {
	if f.FolderName != "" {
		return util.SanitizeFilename(f.FolderName)
	}
	return util.SanitizeFilename(f.Name)
}
