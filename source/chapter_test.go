package source

import (
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCompareNumbers(t *testing.T) {
	Convey("CompareNumbers", t, func() {
		Convey("Orders numerically, not lexicographically", func() {
			So(CompareNumbers("9", "10"), ShouldEqual, -1)
			So(CompareNumbers("10", "10.5"), ShouldEqual, -1)
			So(CompareNumbers("10.5", "11"), ShouldEqual, -1)
			So(CompareNumbers("11", "9"), ShouldEqual, 1)
			So(CompareNumbers("10", "10"), ShouldEqual, 0)
		})

		Convey("Unparseable numbers sort after numeric ones", func() {
			So(CompareNumbers("Extra", "3"), ShouldEqual, 1)
			So(CompareNumbers("3", "Extra"), ShouldEqual, -1)
			So(CompareNumbers("Extra", "Oneshot"), ShouldEqual, -1)
		})
	})
}

func TestSortChapters(t *testing.T) {
	Convey("SortChapters", t, func() {
		chapters := []Chapter{
			{Number: "10.5"},
			{Number: "2"},
			{Number: "10"},
			{Number: "9"},
			{Number: "1"},
		}

		SortChapters(chapters)

		numbers := lo.Map(chapters, func(c Chapter, _ int) string { return c.Number })
		So(numbers, ShouldResemble, []string{"1", "2", "9", "10", "10.5"})
	})
}

func TestSortEpisodes(t *testing.T) {
	Convey("SortEpisodes", t, func() {
		episodes := []Episode{
			{Number: "12"},
			{Number: "1.5"},
			{Number: "1"},
		}

		SortEpisodes(episodes)

		numbers := lo.Map(episodes, func(e Episode, _ int) string { return e.Number })
		So(numbers, ShouldResemble, []string{"1", "1.5", "12"})
	})
}

func TestErrors(t *testing.T) {
	Convey("Error taxonomy", t, func() {
		Convey("UnknownSourceError", func() {
			err := &UnknownSourceError{Name: "MangaSee"}
			So(err.Error(), ShouldContainSubstring, "MangaSee")
			So(IsUnknownSource(err), ShouldBeTrue)

			withHint := &UnknownSourceError{Name: "MangaDx", Suggestion: "MangaDex"}
			So(withHint.Error(), ShouldContainSubstring, "did you mean")
		})

		Convey("WrapProvider", func() {
			So(WrapProvider("MangaDex", "search", nil), ShouldBeNil)

			wrapped := WrapProvider("MangaDex", "search", ErrNotSupported)
			So(wrapped.Error(), ShouldContainSubstring, "MangaDex")
			So(wrapped.Error(), ShouldContainSubstring, "search")

			Convey("It does not double-wrap", func() {
				again := WrapProvider("Other", "chapters", wrapped)
				So(again, ShouldEqual, wrapped)
			})

			Convey("It is not an UnknownSourceError", func() {
				So(IsUnknownSource(wrapped), ShouldBeFalse)
			})
		})
	})
}
