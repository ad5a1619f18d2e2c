package mangafire

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomikata-app/yomikata/source"
)

func fixtureAdapter(pages map[string]string) *MangaFire {
	return &MangaFire{
		base: "https://mangafire.to",
		fetch: func(url string) (string, error) {
			body, ok := pages[url]
			if !ok {
				return "", errors.New("unexpected url " + url)
			}
			return body, nil
		},
	}
}

func TestSearch(t *testing.T) {
	Convey("Given an ajax search response", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://mangafire.to/ajax/manga/search?keyword=berserk": `{
				"result": {
					"count": 2,
					"html": "<a href=\"/manga/berserk.vv41m\"><img src=\"https://cdn.test/berserk@100.jpg\"><h6>Berserk</h6></a><a href=\"/manga/berserk-gaiden.xx99z\"><img src=\"https://cdn.test/gaiden.jpg\"><h6>Berserk Gaiden</h6></a><a href=\"/manga/overflow.zz\"><h6>Overflow</h6></a>"
				}
			}`,
		})

		favorites, err := adapter.Search("berserk")
		So(err, ShouldBeNil)
		So(favorites, ShouldHaveLength, 2)

		So(favorites[0].Name, ShouldEqual, "Berserk")
		So(favorites[0].SourceID, ShouldEqual, "berserk.vv41m")
		So(favorites[0].FolderName, ShouldEqual, "berserk")
		So(favorites[0].Link, ShouldEqual, "https://mangafire.to/manga/berserk.vv41m")
		So(favorites[0].Cover, ShouldEqual, "https://cdn.test/berserk.jpg")
		So(favorites[0].Kind, ShouldEqual, source.Manga)
		So(favorites[1].Name, ShouldEqual, "Berserk Gaiden")
	})

	Convey("A zero-count response yields no favorites", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://mangafire.to/ajax/manga/search?keyword=nothing": `{"result": {"count": 0, "html": ""}}`,
		})

		favorites, err := adapter.Search("nothing")
		So(err, ShouldBeNil)
		So(favorites, ShouldBeEmpty)
	})
}

func TestLanguages(t *testing.T) {
	Convey("Languages come from the reader dropdown", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://mangafire.to/manga/berserk.vv41m": `<html><body>
				<div class="dropdown-menu">
					<a data-code="EN" data-title="English">English</a>
					<a data-code="pt-br">Português</a>
					<a href="#">no code</a>
				</div>
			</body></html>`,
		})

		languages, err := adapter.Languages("berserk.vv41m")
		So(err, ShouldBeNil)
		So(languages, ShouldResemble, []source.Language{
			{ID: "en", Label: "English"},
			{ID: "pt-br", Label: "Português (Brasil)"},
		})
	})
}

func TestChapters(t *testing.T) {
	Convey("Chapters parse from the escaped HTML fragment and sort ascending", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://mangafire.to/ajax/read/vv41m/chapter/en": `{
				"result": {
					"html": "<ul><li><a data-number=\"10\" data-id=\"9001\" title=\"Chapter 10\"></a></li><li><a data-number=\"2\" data-id=\"9000\" title=\"Chapter 2\"></a></li><li><a></a></li></ul>"
				}
			}`,
		})

		chapters, err := adapter.Chapters("berserk.vv41m", "EN")
		So(err, ShouldBeNil)
		So(chapters, ShouldHaveLength, 2)
		So(chapters[0].Number, ShouldEqual, "2")
		So(chapters[0].ID, ShouldEqual, "9000")
		So(chapters[0].Language, ShouldEqual, "en")
		So(chapters[1].Number, ShouldEqual, "10")
	})

	Convey("A source id without the internal segment fails", t, func() {
		adapter := fixtureAdapter(nil)

		_, err := adapter.Chapters("berserk", "en")
		So(err, ShouldNotBeNil)

		var providerErr *source.ProviderError
		So(errors.As(err, &providerErr), ShouldBeTrue)
	})
}

func TestChapterImages(t *testing.T) {
	Convey("ChapterImages unwraps the nested page arrays", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://mangafire.to/ajax/read/chapter/9000": `{
				"result": {
					"images": [
						["https://mfcdn1.test/p1.png", 0, 0],
						["https://mfcdn1.test/p2.png", 0, 0],
						[]
					]
				}
			}`,
		})

		images, err := adapter.ChapterImages("9000")
		So(err, ShouldBeNil)
		So(images, ShouldResemble, []string{
			"https://mfcdn2.test/p1.png",
			"https://mfcdn2.test/p2.png",
		})
	})
}
