package animefire

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomikata-app/yomikata/source"
)

func fixtureAdapter(pages map[string]string) *AnimeFire {
	return &AnimeFire{
		base: "https://animefire.plus",
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
	Convey("Search parses the result cards", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://animefire.plus/pesquisar/frieren": `<html><body>
				<div class="divCardUltimosEps">
					<a href="/animes/frieren-todos-os-episodios">
						<img data-src="https://cdn.test/frieren.webp">
						<h3 class="animeTitle">Frieren</h3>
					</a>
					<a href="/animes/frieren-filme"><h3 class="animeTitle"></h3></a>
				</div>
			</body></html>`,
		})

		favorites, err := adapter.Search("Frieren")
		So(err, ShouldBeNil)
		So(favorites, ShouldHaveLength, 1)
		So(favorites[0].Name, ShouldEqual, "Frieren")
		So(favorites[0].SourceID, ShouldEqual, "frieren-todos-os-episodios")
		So(favorites[0].Kind, ShouldEqual, source.Anime)
		So(favorites[0].Cover, ShouldEqual, "https://cdn.test/frieren.webp")
	})
}

func TestEpisodes(t *testing.T) {
	Convey("Episodes parse their number from the label and sort ascending", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://animefire.plus/animes/frieren-todos-os-episodios": `<html><body>
				<div class="div_video_list">
					<a href="/animes/frieren/10">Episódio 10</a>
					<a href="/animes/frieren/2">Episódio 2</a>
					<a href="/animes/frieren/extra">Making of</a>
				</div>
			</body></html>`,
		})

		episodes, err := adapter.Episodes("frieren-todos-os-episodios")
		So(err, ShouldBeNil)
		So(episodes, ShouldHaveLength, 2)
		So(episodes[0].Number, ShouldEqual, "2")
		So(episodes[0].ID, ShouldEqual, "/animes/frieren/2")
		So(episodes[0].Source, ShouldEqual, "animefire")
		So(episodes[1].Number, ShouldEqual, "10")
	})
}

func TestEpisodeURLs(t *testing.T) {
	Convey("EpisodeURLs reads the quality variants from the video endpoint", t, func() {
		adapter := fixtureAdapter(map[string]string{
			"https://animefire.plus/video/frieren/2": `{
				"data": [
					{"src": "https://stream.test/frieren-2-720.mp4", "label": "720p"},
					{"src": "https://stream.test/frieren-2-1080.mp4", "label": "1080p"},
					{"src": "", "label": "broken"}
				]
			}`,
		})

		urls, err := adapter.EpisodeURLs("/animes/frieren/2")
		So(err, ShouldBeNil)
		So(urls, ShouldResemble, []string{
			"https://stream.test/frieren-2-720.mp4",
			"https://stream.test/frieren-2-1080.mp4",
		})
	})

	Convey("A fetch failure surfaces as a provider error", t, func() {
		adapter := fixtureAdapter(nil)

		_, err := adapter.EpisodeURLs("/animes/frieren/2")
		So(source.IsUnknownSource(err), ShouldBeFalse)

		var providerErr *source.ProviderError
		So(errors.As(err, &providerErr), ShouldBeTrue)
		So(providerErr.Source, ShouldEqual, "animefire")
	})
}
