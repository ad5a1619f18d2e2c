package mangadex

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomikata-app/yomikata/network"
	"github.com/yomikata-app/yomikata/source"
)

func testServer(handler http.HandlerFunc) (*MangaDex, *httptest.Server) {
	server := httptest.NewServer(handler)
	adapter := &MangaDex{
		site:   "https://mangadex.org",
		api:    server.URL,
		client: network.Client,
	}
	return adapter, server
}

func TestSearch(t *testing.T) {
	Convey("Given a search response with covers and alt titles", t, func() {
		adapter, server := testServer(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"data": [
					{
						"id": "abc-123",
						"attributes": {
							"title": {"en": "Berserk"},
							"altTitles": [{"ja": "ベルセルク"}],
							"description": {"en": "Dark fantasy."},
							"status": "ongoing"
						},
						"relationships": [
							{"type": "author", "attributes": {"name": "Kentaro Miura"}},
							{"type": "cover_art", "attributes": {"fileName": "cover.jpg"}}
						]
					},
					{"id": "", "attributes": {"title": {"en": "Dropped"}}}
				]
			}`)
		})
		defer server.Close()

		Convey("Search normalizes entries and drops invalid ones", func() {
			favorites, err := adapter.Search("berserk")
			So(err, ShouldBeNil)
			So(favorites, ShouldHaveLength, 1)

			favorite := favorites[0]
			So(favorite.Name, ShouldEqual, "Berserk")
			So(favorite.SourceID, ShouldEqual, "abc-123")
			So(favorite.Source, ShouldEqual, "mangadex")
			So(favorite.Kind, ShouldEqual, source.Manga)
			So(favorite.Link, ShouldEqual, "https://mangadex.org/title/abc-123")
			So(favorite.Cover, ShouldEqual, "https://mangadex.org/covers/abc-123/cover.jpg")
			So(favorite.ExtraName, ShouldEqual, "ベルセルク")
			So(favorite.Description, ShouldEqual, "Dark fantasy.")
		})
	})

	Convey("A failing endpoint surfaces as a provider error", t, func() {
		adapter, server := testServer(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})
		defer server.Close()

		_, err := adapter.Search("berserk")
		So(err, ShouldNotBeNil)

		var providerErr *source.ProviderError
		So(errors.As(err, &providerErr), ShouldBeTrue)
		So(providerErr.Source, ShouldEqual, "mangadex")
		So(providerErr.Op, ShouldEqual, "search")
	})
}

func TestLanguages(t *testing.T) {
	Convey("Languages maps codes onto labels", t, func() {
		adapter, server := testServer(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"data": {
					"id": "abc-123",
					"attributes": {"availableTranslatedLanguages": ["en", "pt-br", "xx"]}
				}
			}`)
		})
		defer server.Close()

		languages, err := adapter.Languages("abc-123")
		So(err, ShouldBeNil)
		So(languages, ShouldResemble, []source.Language{
			{ID: "en", Label: "English"},
			{ID: "pt-br", Label: "Português (Brasil)"},
			{ID: "xx", Label: "xx"},
		})
	})
}

func TestChapters(t *testing.T) {
	Convey("Chapters pages through the feed and sorts ascending", t, func() {
		adapter, server := testServer(func(w http.ResponseWriter, r *http.Request) {
			offset := r.URL.Query().Get("offset")
			if offset == "0" {
				fmt.Fprint(w, `{
					"total": 3,
					"data": [
						{"id": "ch-10", "attributes": {"chapter": "10", "translatedLanguage": "en"},
						 "relationships": [{"type": "scanlation_group", "attributes": {"name": "GoodScans"}}]},
						{"id": "ch-9", "attributes": {"chapter": "9", "title": "Resolve", "translatedLanguage": "en"}}
					]
				}`)
				return
			}
			fmt.Fprint(w, `{
				"total": 3,
				"data": [{"id": "ch-10-5", "attributes": {"chapter": "10.5", "translatedLanguage": "en"}}]
			}`)
		})
		defer server.Close()

		chapters, err := adapter.Chapters("abc-123", "")
		So(err, ShouldBeNil)
		So(chapters, ShouldHaveLength, 3)
		So(chapters[0].Number, ShouldEqual, "9")
		So(chapters[1].Number, ShouldEqual, "10")
		So(chapters[2].Number, ShouldEqual, "10.5")
		So(chapters[0].Title, ShouldEqual, "Resolve")
		So(chapters[0].Language, ShouldEqual, "en")
		So(chapters[1].Scan, ShouldEqual, "GoodScans")
	})
}

func TestChapterImages(t *testing.T) {
	Convey("ChapterImages assembles page URLs in order", t, func() {
		adapter, server := testServer(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"baseUrl": "https://uploads.mangadex.org",
				"chapter": {"hash": "deadbeef", "data": ["1.png", "2.png"]}
			}`)
		})
		defer server.Close()

		images, err := adapter.ChapterImages("ch-1")
		So(err, ShouldBeNil)
		So(images, ShouldResemble, []string{
			"https://uploads.mangadex.org/data/deadbeef/1.png",
			"https://uploads.mangadex.org/data/deadbeef/2.png",
		})
	})
}
