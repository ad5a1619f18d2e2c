package library

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/source"
)

func init() {
	filesystem.SetMemMapFs()
}

func reset() {
	filesystem.SetMemMapFs()
}

func testFavorite(name, sourceID string) source.Favorite {
	return source.Favorite{
		Name:     name,
		Source:   "mangadex",
		SourceID: sourceID,
		Kind:     source.Manga,
	}
}

func TestFavorites(t *testing.T) {
	Convey("Given an empty library", t, func() {
		reset()

		Convey("It lists no favorites", func() {
			favorites, err := Favorites()
			So(err, ShouldBeNil)
			So(favorites, ShouldBeEmpty)
		})

		Convey("Adding assigns increasing ids and a folder name", func() {
			first, err := Add(testFavorite("Berserk", "brk"))
			So(err, ShouldBeNil)
			So(first.ID, ShouldEqual, 1)
			So(first.FolderName, ShouldNotBeEmpty)

			second, err := Add(testFavorite("Vagabond", "vgb"))
			So(err, ShouldBeNil)
			So(second.ID, ShouldEqual, 2)

			Convey("And the list comes back sorted by name", func() {
				favorites, err := Favorites()
				So(err, ShouldBeNil)
				So(favorites, ShouldHaveLength, 2)
				So(favorites[0].Name, ShouldEqual, "Berserk")
				So(favorites[1].Name, ShouldEqual, "Vagabond")
			})

			Convey("Re-adding the same source entry returns the stored favorite", func() {
				again, err := Add(testFavorite("Berserk (duplicate)", "brk"))
				So(err, ShouldBeNil)
				So(again.ID, ShouldEqual, first.ID)
				So(again.Name, ShouldEqual, "Berserk")

				favorites, err := Favorites()
				So(err, ShouldBeNil)
				So(favorites, ShouldHaveLength, 2)
			})

			Convey("Get and Find locate stored favorites", func() {
				got, found, err := Get(first.ID)
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.Name, ShouldEqual, "Berserk")

				_, found, err = Get(99)
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)

				got, found, err = Find("mangadex", "vgb")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(got.Name, ShouldEqual, "Vagabond")
			})

			Convey("Update overwrites editable fields", func() {
				first.Grade = 9.5
				first.TitleColor = "#ff0000"
				So(Update(first), ShouldBeNil)

				got, _, err := Get(first.ID)
				So(err, ShouldBeNil)
				So(got.Grade, ShouldEqual, 9.5)
				So(got.TitleColor, ShouldEqual, "#ff0000")
			})
		})
	})
}

func TestReadMarkers(t *testing.T) {
	Convey("Given a saved favorite and a chapter", t, func() {
		reset()
		viper.Set(key.LibrarySaveOnRead, false)

		favorite, err := Add(testFavorite("Berserk", "brk"))
		So(err, ShouldBeNil)

		chapter := source.Chapter{Number: "1", ID: "ch-1", Source: "mangadex", Language: "en"}

		Convey("Marking a chapter read is idempotent", func() {
			So(MarkRead(favorite, chapter), ShouldBeNil)
			So(MarkRead(favorite, chapter), ShouldBeNil)

			markers, err := ReadMarkers(favorite.ID)
			So(err, ShouldBeNil)
			So(markers, ShouldHaveLength, 1)

			read, err := IsRead(favorite, chapter)
			So(err, ShouldBeNil)
			So(read, ShouldBeTrue)
		})

		Convey("The same chapter in another language is a separate marker", func() {
			So(MarkRead(favorite, chapter), ShouldBeNil)

			ptChapter := chapter
			ptChapter.Language = "pt-br"
			So(MarkRead(favorite, ptChapter), ShouldBeNil)

			markers, err := ReadMarkers(favorite.ID)
			So(err, ShouldBeNil)
			So(markers, ShouldHaveLength, 2)
		})

		Convey("Unmarking removes only that marker", func() {
			So(MarkRead(favorite, chapter), ShouldBeNil)
			So(UnmarkRead(favorite, chapter), ShouldBeNil)

			read, err := IsRead(favorite, chapter)
			So(err, ShouldBeNil)
			So(read, ShouldBeFalse)
		})

		Convey("Removing the favorite cascades to its markers", func() {
			So(MarkRead(favorite, chapter), ShouldBeNil)
			So(Remove(favorite.ID), ShouldBeNil)

			markers, err := ReadMarkers(favorite.ID)
			So(err, ShouldBeNil)
			So(markers, ShouldBeEmpty)

			_, found, err := Get(favorite.ID)
			So(err, ShouldBeNil)
			So(found, ShouldBeFalse)
		})

		Convey("Marking an unsaved favorite fails unless save_on_read is set", func() {
			stranger := testFavorite("Vagabond", "vgb")

			So(MarkRead(stranger, chapter), ShouldNotBeNil)

			viper.Set(key.LibrarySaveOnRead, true)
			So(MarkRead(stranger, chapter), ShouldBeNil)

			_, found, err := Find("mangadex", "vgb")
			So(err, ShouldBeNil)
			So(found, ShouldBeTrue)
		})
	})
}
