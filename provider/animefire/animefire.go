// Package animefire implements the AnimeFire scraping adapter for anime
// episodes and stream URLs.
package animefire

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yomikata-app/yomikata/network"
	"github.com/yomikata-app/yomikata/source"
)

const baseURL = "https://animefire.plus"

var episodeNumber = regexp.MustCompile(`\d+(\.\d+)?`)

// AnimeFire is an anime adapter scraping animefire.plus.
type AnimeFire struct {
	source.Unsupported

	base string

	// fetch performs a GET and returns the response body. Swappable in tests.
	fetch func(url string) (string, error)
}

func New() *AnimeFire {
	return &AnimeFire{
		base: baseURL,
		fetch: func(url string) (string, error) {
			return network.TLSGet(url, nil)
		},
	}
}

func (a *AnimeFire) Descriptor() source.Descriptor {
	return source.Descriptor{
		ID:      "animefire",
		Name:    "AnimeFire",
		BaseURL: a.base,
		Capabilities: source.Capabilities{
			Search:      true,
			Episodes:    true,
			EpisodeURLs: true,
		},
	}
}

func (a *AnimeFire) document(path string) (*goquery.Document, error) {
	body, err := a.fetch(a.base + path)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

func (a *AnimeFire) Search(query string) ([]source.Favorite, error) {
	slug := strings.ReplaceAll(strings.TrimSpace(strings.ToLower(query)), " ", "-")

	document, err := a.document("/pesquisar/" + url.PathEscape(slug))
	if err != nil {
		return nil, source.WrapProvider("animefire", "search", err)
	}

	var favorites []source.Favorite
	document.Find("div.divCardUltimosEps a").Each(func(_ int, card *goquery.Selection) {
		name := strings.TrimSpace(card.Find("h3.animeTitle").Text())
		href := card.AttrOr("href", "")
		if name == "" || href == "" {
			return
		}

		id := strings.TrimPrefix(strings.TrimPrefix(href, a.base), "/animes/")

		favorites = append(favorites, source.Favorite{
			Name:       name,
			FolderName: id,
			SourceID:   id,
			Source:     "animefire",
			Kind:       source.Anime,
			Link:       fmt.Sprintf("%s/animes/%s", a.base, id),
			Cover:      card.Find("img").AttrOr("data-src", card.Find("img").AttrOr("src", "")),
		})
	})

	return favorites, nil
}

func (a *AnimeFire) Episodes(sourceID string) ([]source.Episode, error) {
	document, err := a.document("/animes/" + url.PathEscape(sourceID))
	if err != nil {
		return nil, source.WrapProvider("animefire", "episodes", err)
	}

	var episodes []source.Episode
	document.Find("div.div_video_list a").Each(func(_ int, link *goquery.Selection) {
		title := strings.TrimSpace(link.Text())
		href := link.AttrOr("href", "")
		if title == "" || href == "" {
			return
		}

		matches := episodeNumber.FindAllString(title, -1)
		if len(matches) == 0 {
			return
		}

		episodes = append(episodes, source.Episode{
			// The episode number is the last numeric run in the label,
			// "Temporada 2 Episódio 5" names episode 5.
			Number: matches[len(matches)-1],
			Title:  title,
			ID:     strings.TrimPrefix(href, a.base),
			Source: "animefire",
		})
	})

	source.SortEpisodes(episodes)
	return episodes, nil
}

func (a *AnimeFire) EpisodeURLs(episodeID string) ([]string, error) {
	path := strings.Replace(episodeID, "/animes/", "/video/", 1)

	body, err := a.fetch(a.base + path)
	if err != nil {
		return nil, source.WrapProvider("animefire", "episodeUrls", err)
	}

	var response struct {
		Data []struct {
			Src   string `json:"src"`
			Label string `json:"label"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &response); err != nil {
		return nil, source.WrapProvider("animefire", "episodeUrls", err)
	}

	var urls []string
	for _, variant := range response.Data {
		if variant.Src == "" {
			continue
		}
		urls = append(urls, variant.Src)
	}

	return urls, nil
}
