package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.SearchShowQuerySuggestions, true)
}

func TestRememberAndSuggest(t *testing.T) {
	Convey("Given a remembered query history", t, func() {
		So(Remember("naruto", 1), ShouldBeNil)
		So(Remember("bleach", 10), ShouldBeNil)
		So(Remember("  BLEACH  ", 1), ShouldBeNil)
		So(Remember("   ", 1), ShouldBeNil)

		matches = make(map[string][]*record)

		Convey("Suggestions rank the more popular query first", func() {
			suggestions := SuggestMany("e")
			So(len(suggestions), ShouldBeGreaterThanOrEqualTo, 2)
			So(suggestions[0], ShouldEqual, "bleach")
		})

		Convey("Suggest returns the top match as an option", func() {
			So(Suggest("ble").MustGet(), ShouldEqual, "bleach")
			So(Suggest("xyzzy").IsAbsent(), ShouldBeTrue)
		})

		Convey("Suggestions can be switched off", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			defer viper.Set(key.SearchShowQuerySuggestions, true)

			So(SuggestMany("ble"), ShouldBeEmpty)
		})
	})
}
