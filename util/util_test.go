package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/yomikata-app/yomikata/filesystem"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("SanitizeFilename", t, func() {
		Convey("Should replace invalid chars", func() {
			So(SanitizeFilename("file:name?.txt"), ShouldEqual, "file_name_.txt")
		})
		Convey("Should collapse underscores", func() {
			So(SanitizeFilename("file__name.txt"), ShouldEqual, "file_name.txt")
		})
		Convey("Should trim separators", func() {
			So(SanitizeFilename("-file-name-"), ShouldEqual, "file-name")
		})
	})
}

func TestQuantify(t *testing.T) {
	Convey("Quantify", t, func() {
		So(Quantify(1, "chapter", "chapters"), ShouldEqual, "1 chapter")
		So(Quantify(2, "chapter", "chapters"), ShouldEqual, "2 chapters")
	})
}

func TestCapitalize(t *testing.T) {
	Convey("Capitalize", t, func() {
		So(Capitalize("hello"), ShouldEqual, "Hello")
		So(Capitalize(""), ShouldEqual, "")
	})
}

func TestMaxMin(t *testing.T) {
	Convey("Max/Min", t, func() {
		So(Max(1, 5, 2), ShouldEqual, 5)
		So(Min(1, 5, 2), ShouldEqual, 1)
	})
}

func TestDelete(t *testing.T) {
	Convey("Delete", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Removes a file", func() {
			So(filesystem.API().WriteFile("/tmp-file", []byte("x"), 0644), ShouldBeNil)
			So(Delete("/tmp-file"), ShouldBeNil)
			exists, _ := filesystem.API().Exists("/tmp-file")
			So(exists, ShouldBeFalse)
		})

		Convey("Removes a directory recursively", func() {
			So(filesystem.API().MkdirAll("/dir/sub", 0755), ShouldBeNil)
			So(Delete("/dir"), ShouldBeNil)
			exists, _ := filesystem.API().Exists("/dir")
			So(exists, ShouldBeFalse)
		})
	})
}
