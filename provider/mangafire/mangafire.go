// Package mangafire implements the MangaFire scraping adapter.
//
// MangaFire sits behind an anti-bot front that rejects the default Go TLS
// fingerprint, so every request goes through the browser-impersonating
// client. Search and chapter listings come from the site's ajax endpoints,
// which return HTML fragments wrapped in JSON.
package mangafire

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yomikata-app/yomikata/network"
	"github.com/yomikata-app/yomikata/source"
)

const baseURL = "https://mangafire.to"

// MangaFire is a multi-language manga adapter scraping mangafire.to.
type MangaFire struct {
	source.Unsupported

	base string

	// fetch performs a GET and returns the response body. Swappable in tests.
	fetch func(url string) (string, error)
}

func New() *MangaFire {
	return &MangaFire{
		base: baseURL,
		fetch: func(url string) (string, error) {
			return network.TLSGet(url, nil)
		},
	}
}

func (m *MangaFire) Descriptor() source.Descriptor {
	return source.Descriptor{
		ID:            "mangafire",
		Name:          "MangaFire",
		BaseURL:       m.base,
		MultiLanguage: true,
		Capabilities: source.Capabilities{
			Search:        true,
			Chapters:      true,
			ChapterImages: true,
			Languages:     true,
		},
	}
}

func (m *MangaFire) getJSON(path string, v any) error {
	body, err := m.fetch(m.base + path)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(body), v)
}

func parseHTML(fragment string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(fragment))
}

func (m *MangaFire) Search(query string) ([]source.Favorite, error) {
	var response struct {
		Result struct {
			Count int    `json:"count"`
			HTML  string `json:"html"`
		} `json:"result"`
	}
	if err := m.getJSON("/ajax/manga/search?keyword="+url.QueryEscape(query), &response); err != nil {
		return nil, source.WrapProvider("mangafire", "search", err)
	}

	if response.Result.Count == 0 {
		return nil, nil
	}

	document, err := parseHTML(response.Result.HTML)
	if err != nil {
		return nil, source.WrapProvider("mangafire", "search", err)
	}

	var favorites []source.Favorite
	document.Find("a").EachWithBreak(func(i int, a *goquery.Selection) bool {
		if i >= response.Result.Count {
			return false
		}

		name := strings.TrimSpace(a.Find("h6").Text())
		link := strings.TrimPrefix(a.AttrOr("href", ""), "/manga/")
		if name == "" || link == "" {
			return true
		}

		// The trailing ".xxxx" segment of the slug is the site-internal id;
		// the folder name is the slug without it.
		folder := link
		if dot := strings.LastIndex(link, "."); dot > 0 {
			folder = link[:dot]
		}

		cover := strings.Replace(a.Find("img").AttrOr("src", ""), "@100", "", 1)

		favorites = append(favorites, source.Favorite{
			Name:       name,
			FolderName: folder,
			SourceID:   link,
			Source:     "mangafire",
			Kind:       source.Manga,
			Link:       fmt.Sprintf("%s/manga/%s", m.base, link),
			Cover:      cover,
		})
		return true
	})

	return favorites, nil
}

func (m *MangaFire) Languages(sourceID string) ([]source.Language, error) {
	body, err := m.fetch(m.base + "/manga/" + url.PathEscape(sourceID))
	if err != nil {
		return nil, source.WrapProvider("mangafire", "languages", err)
	}

	document, err := parseHTML(body)
	if err != nil {
		return nil, source.WrapProvider("mangafire", "languages", err)
	}

	var languages []source.Language
	document.Find("div.dropdown-menu").First().Find("a").Each(func(_ int, a *goquery.Selection) {
		code := strings.ToLower(a.AttrOr("data-code", ""))
		if code == "" {
			return
		}

		label := a.AttrOr("data-title", "")
		if label == "" {
			label = source.LanguageLabel(code)
		}

		languages = append(languages, source.Language{ID: code, Label: label})
	})

	return languages, nil
}

func (m *MangaFire) Chapters(sourceID, language string) ([]source.Chapter, error) {
	if language == "" {
		language = "en"
	}
	language = strings.ToLower(language)

	dot := strings.LastIndex(sourceID, ".")
	if dot < 0 || dot == len(sourceID)-1 {
		return nil, source.WrapProvider("mangafire", "chapters",
			fmt.Errorf("malformed source id %q, expected slug.id", sourceID))
	}
	internalID := sourceID[dot+1:]

	var response struct {
		Result struct {
			HTML string `json:"html"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/ajax/read/%s/chapter/%s", internalID, language)
	if err := m.getJSON(path, &response); err != nil {
		return nil, source.WrapProvider("mangafire", "chapters", err)
	}

	document, err := parseHTML(strings.ReplaceAll(response.Result.HTML, `\`, ""))
	if err != nil {
		return nil, source.WrapProvider("mangafire", "chapters", err)
	}

	var chapters []source.Chapter
	document.Find("li").Each(func(_ int, li *goquery.Selection) {
		a := li.Find("a").First()
		number := a.AttrOr("data-number", "")
		id := a.AttrOr("data-id", "")
		if number == "" || id == "" {
			return
		}

		chapters = append(chapters, source.Chapter{
			Number:   number,
			Title:    a.AttrOr("title", ""),
			ID:       id,
			Source:   "mangafire",
			Language: language,
		})
	})

	source.SortChapters(chapters)
	return chapters, nil
}

func (m *MangaFire) ChapterImages(chapterID string) ([]string, error) {
	var response struct {
		Result struct {
			Images [][]any `json:"images"`
		} `json:"result"`
	}
	if err := m.getJSON("/ajax/read/chapter/"+url.PathEscape(chapterID), &response); err != nil {
		return nil, source.WrapProvider("mangafire", "chapterImages", err)
	}

	var images []string
	for _, page := range response.Result.Images {
		if len(page) == 0 {
			continue
		}
		img, ok := page[0].(string)
		if !ok || img == "" {
			continue
		}

		img = strings.ReplaceAll(img, `\`, "")
		// mfcdn1 frequently serves truncated files; its mirror does not.
		images = append(images, strings.Replace(img, "mfcdn1", "mfcdn2", 1))
	}

	return images, nil
}
