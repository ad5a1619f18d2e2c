// Package mangadex implements the MangaDex REST adapter.
package mangadex

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/yomikata-app/yomikata/network"
	"github.com/yomikata-app/yomikata/source"
)

const (
	siteURL = "https://mangadex.org"
	apiURL  = "https://api.mangadex.org"

	// feedPageSize is the maximum page size the feed endpoint accepts.
	feedPageSize = 500

	searchLimit = 20
)

// MangaDex is a multi-language manga adapter over the public MangaDex API.
type MangaDex struct {
	source.Unsupported

	site   string
	api    string
	client *http.Client
}

func New() *MangaDex {
	return &MangaDex{
		site:   siteURL,
		api:    apiURL,
		client: network.Client,
	}
}

func (m *MangaDex) Descriptor() source.Descriptor {
	return source.Descriptor{
		ID:            "mangadex",
		Name:          "MangaDex",
		BaseURL:       m.site,
		MultiLanguage: true,
		Capabilities: source.Capabilities{
			Search:        true,
			Chapters:      true,
			ChapterImages: true,
			Languages:     true,
		},
	}
}

func (m *MangaDex) get(path string, v any) error {
	req, err := http.NewRequest(http.MethodGet, m.api+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d for %s", resp.StatusCode, path)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

type relationship struct {
	Type       string `json:"type"`
	Attributes struct {
		FileName string `json:"fileName"`
		Name     string `json:"name"`
	} `json:"attributes"`
}

type manga struct {
	ID         string `json:"id"`
	Attributes struct {
		Title       map[string]string   `json:"title"`
		AltTitles   []map[string]string `json:"altTitles"`
		Description map[string]string   `json:"description"`
		Status      string              `json:"status"`

		AvailableTranslatedLanguages []string `json:"availableTranslatedLanguages"`
	} `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

func (m manga) title() string {
	if title, ok := m.Attributes.Title["en"]; ok && title != "" {
		return title
	}
	for _, title := range m.Attributes.Title {
		if title != "" {
			return title
		}
	}
	return ""
}

func (m manga) altTitle() string {
	for _, alt := range m.Attributes.AltTitles {
		for _, title := range alt {
			if title != "" {
				return title
			}
		}
	}
	return ""
}

func (m manga) coverFile() string {
	for _, rel := range m.Relationships {
		if rel.Type == "cover_art" {
			return rel.Attributes.FileName
		}
	}
	return ""
}

func (m *MangaDex) Search(query string) ([]source.Favorite, error) {
	path := fmt.Sprintf(
		"/manga?includes[]=cover_art&order[relevance]=desc&contentRating[]=safe&contentRating[]=suggestive&contentRating[]=erotica&title=%s&limit=%d",
		url.QueryEscape(query), searchLimit,
	)

	var response struct {
		Data []manga `json:"data"`
	}
	if err := m.get(path, &response); err != nil {
		return nil, source.WrapProvider("mangadex", "search", err)
	}

	var favorites []source.Favorite
	for _, entry := range response.Data {
		title := entry.title()
		if entry.ID == "" || title == "" {
			continue
		}

		favorites = append(favorites, source.Favorite{
			Name:        title,
			FolderName:  url.PathEscape(title),
			SourceID:    entry.ID,
			Source:      "mangadex",
			Kind:        source.Manga,
			Link:        fmt.Sprintf("%s/title/%s", m.site, entry.ID),
			Cover:       fmt.Sprintf("%s/covers/%s/%s", m.site, entry.ID, entry.coverFile()),
			ExtraName:   entry.altTitle(),
			Description: entry.Attributes.Description["en"],
			Status:      entry.Attributes.Status,
		})
	}

	return favorites, nil
}

func (m *MangaDex) Languages(sourceID string) ([]source.Language, error) {
	var response struct {
		Data manga `json:"data"`
	}
	if err := m.get("/manga/"+url.PathEscape(sourceID), &response); err != nil {
		return nil, source.WrapProvider("mangadex", "languages", err)
	}

	var languages []source.Language
	for _, code := range response.Data.Attributes.AvailableTranslatedLanguages {
		if code == "" {
			continue
		}
		languages = append(languages, source.Language{
			ID:    code,
			Label: source.LanguageLabel(code),
		})
	}

	return languages, nil
}

type chapter struct {
	ID         string `json:"id"`
	Attributes struct {
		Title    string `json:"title"`
		Chapter  string `json:"chapter"`
		Language string `json:"translatedLanguage"`
	} `json:"attributes"`
	Relationships []relationship `json:"relationships"`
}

func (c chapter) scan() string {
	for _, rel := range c.Relationships {
		if rel.Type == "scanlation_group" {
			return rel.Attributes.Name
		}
	}
	return ""
}

// Chapters walks the paginated feed endpoint until the reported total is
// reached, then returns the accumulated list ascending.
func (m *MangaDex) Chapters(sourceID, language string) ([]source.Chapter, error) {
	if language == "" {
		language = "en"
	}

	var chapters []source.Chapter
	for offset := 0; ; offset += feedPageSize {
		path := fmt.Sprintf(
			"/manga/%s/feed?limit=%d&translatedLanguage[]=%s&includes[]=scanlation_group&order[chapter]=desc&includeExternalUrl=0&offset=%d",
			url.PathEscape(sourceID), feedPageSize, url.QueryEscape(language), offset,
		)

		var response struct {
			Data  []chapter `json:"data"`
			Total int       `json:"total"`
		}
		if err := m.get(path, &response); err != nil {
			return nil, source.WrapProvider("mangadex", "chapters", err)
		}

		if len(response.Data) == 0 {
			break
		}

		for _, entry := range response.Data {
			if entry.ID == "" {
				continue
			}

			number := entry.Attributes.Chapter
			if number == "" {
				number = entry.Attributes.Title
			}
			if number == "" {
				number = entry.ID
			}

			chapters = append(chapters, source.Chapter{
				Number:   number,
				Title:    entry.Attributes.Title,
				ID:       entry.ID,
				Source:   "mangadex",
				Language: language,
				Scan:     entry.scan(),
			})
		}

		if len(chapters) >= response.Total {
			break
		}
	}

	source.SortChapters(chapters)
	return chapters, nil
}

func (m *MangaDex) ChapterImages(chapterID string) ([]string, error) {
	var response struct {
		BaseURL string `json:"baseUrl"`
		Chapter struct {
			Hash string   `json:"hash"`
			Data []string `json:"data"`
		} `json:"chapter"`
	}
	if err := m.get("/at-home/server/"+url.PathEscape(chapterID)+"?forcePort443=false", &response); err != nil {
		return nil, source.WrapProvider("mangadex", "chapterImages", err)
	}

	images := make([]string, 0, len(response.Chapter.Data))
	for _, file := range response.Chapter.Data {
		images = append(images, fmt.Sprintf("%s/data/%s/%s", response.BaseURL, response.Chapter.Hash, file))
	}

	return images, nil
}
