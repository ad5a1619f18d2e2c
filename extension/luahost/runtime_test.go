package luahost

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"

	"github.com/yomikata-app/yomikata/extension"
	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/source"
)

const testScript = `
function Search(query)
    return {
        { name = "Berserk", id = "brk", cover = "https://covers.test/brk.jpg" },
        { name = "" },
        { name = "Vagabond", id = "vgb" },
    }
end

function Chapters(id, language)
    return {
        { number = "10", id = "ch-10" },
        { number = "2", id = "ch-2", title = "Awakening" },
        { number = "10.5", id = "ch-10-5" },
    }
end

function ChapterImages(id)
    return { "https://pages.test/1.png", "https://pages.test/2.png" }
end
`

func checksumOf(script string) string {
	sum := sha256.Sum256([]byte(script))
	return "sha256:" + hex.EncodeToString(sum[:])
}

func writePackage(t *testing.T, name, script string, manifest extension.Manifest) (scriptPath, manifestPath string) {
	t.Helper()

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatal(err)
	}

	scriptPath = fmt.Sprintf("/packages/%s.lua", name)
	manifestPath = fmt.Sprintf("/packages/%s.json", name)

	if err = filesystem.API().WriteFile(scriptPath, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}
	if err = filesystem.API().WriteFile(manifestPath, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return scriptPath, manifestPath
}

func testManifest(script string) extension.Manifest {
	return extension.Manifest{
		Name:     "Test Source",
		Version:  "1.0.0",
		Kind:     source.Manga,
		Checksum: checksumOf(script),
		Exports: source.Capabilities{
			Search:        true,
			Chapters:      true,
			ChapterImages: true,
		},
	}
}

func setup() *Runtime {
	filesystem.SetMemMapFs()
	viper.Set(key.ExtensionsVerifyChecksum, true)
	viper.Set(key.ExtensionsAllowNSFW, false)
	return New("/extensions")
}

func TestInstall(t *testing.T) {
	Convey("Given a valid extension package", t, func() {
		runtime := setup()
		scriptPath, manifestPath := writePackage(t, "test", testScript, testManifest(testScript))

		Convey("Installing registers it under its canonical id", func() {
			info, err := runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldBeNil)
			So(info.ID, ShouldEqual, "test-source")
			So(info.Installed, ShouldBeTrue)
			So(info.Loaded, ShouldBeFalse)

			infos, err := runtime.ListInstalled()
			So(err, ShouldBeNil)
			So(infos, ShouldHaveLength, 1)
		})

		Convey("Installing the same id twice fails", func() {
			_, err := runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldBeNil)

			_, err = runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldNotBeNil)

			var installErr *extension.InstallError
			So(errors.As(err, &installErr), ShouldBeTrue)
			So(installErr.ID, ShouldEqual, "test-source")
		})

		Convey("A tampered script is rejected", func() {
			manifest := testManifest(testScript)
			manifest.Checksum = checksumOf("something else")
			scriptPath, manifestPath := writePackage(t, "tampered", testScript, manifest)

			_, err := runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldNotBeNil)

			var installErr *extension.InstallError
			So(errors.As(err, &installErr), ShouldBeTrue)
		})

		Convey("An nsfw extension is rejected while the setting is off", func() {
			manifest := testManifest(testScript)
			manifest.NSFW = true
			scriptPath, manifestPath := writePackage(t, "nsfw", testScript, manifest)

			_, err := runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoadAndInvoke(t *testing.T) {
	Convey("Given an installed extension", t, func() {
		runtime := setup()
		scriptPath, manifestPath := writePackage(t, "test", testScript, testManifest(testScript))
		info, err := runtime.InstallFromFile(scriptPath, manifestPath)
		So(err, ShouldBeNil)

		Convey("Loading validates the declared exports and reports loaded", func() {
			loaded, err := runtime.Load(info.ID)
			So(err, ShouldBeNil)
			So(loaded.Loaded, ShouldBeTrue)

			Convey("Search drops invalid entries and keeps the rest", func() {
				favorites, err := runtime.Search(info.ID, "berserk")
				So(err, ShouldBeNil)
				So(favorites, ShouldHaveLength, 2)
				So(favorites[0].Name, ShouldEqual, "Berserk")
				So(favorites[0].SourceID, ShouldEqual, "brk")
				So(favorites[0].Source, ShouldEqual, info.ID)
				So(favorites[0].Kind, ShouldEqual, source.Manga)
			})

			Convey("Chapters come back in numeric-aware ascending order", func() {
				chapters, err := runtime.Chapters(info.ID, "brk", "en")
				So(err, ShouldBeNil)
				So(chapters, ShouldHaveLength, 3)
				So(chapters[0].Number, ShouldEqual, "2")
				So(chapters[1].Number, ShouldEqual, "10")
				So(chapters[2].Number, ShouldEqual, "10.5")
				So(chapters[0].Language, ShouldEqual, "en")
			})

			Convey("ChapterImages preserves page order", func() {
				images, err := runtime.ChapterImages(info.ID, "ch-10")
				So(err, ShouldBeNil)
				So(images, ShouldResemble, []string{
					"https://pages.test/1.png",
					"https://pages.test/2.png",
				})
			})

			Convey("Unloading tears the interpreter down", func() {
				So(runtime.Unload(info.ID), ShouldBeNil)

				_, err := runtime.Search(info.ID, "berserk")
				So(err, ShouldNotBeNil)

				Convey("And a second load works from the bytecode cache", func() {
					_, err := runtime.Load(info.ID)
					So(err, ShouldBeNil)

					favorites, err := runtime.Search(info.ID, "berserk")
					So(err, ShouldBeNil)
					So(favorites, ShouldHaveLength, 2)
				})
			})
		})

		Convey("Loading fails when a declared export is missing", func() {
			manifest := testManifest(testScript)
			manifest.Name = "Broken Source"
			manifest.Exports.Episodes = true
			scriptPath, manifestPath := writePackage(t, "broken", testScript, manifest)
			broken, err := runtime.InstallFromFile(scriptPath, manifestPath)
			So(err, ShouldBeNil)

			_, err = runtime.Load(broken.ID)
			So(err, ShouldNotBeNil)

			var loadErr *extension.LoadError
			So(errors.As(err, &loadErr), ShouldBeTrue)
			So(loadErr.Phase, ShouldEqual, "validate")
		})

		Convey("Loading an unknown id reports not found", func() {
			_, err := runtime.Load("ghost")
			So(extension.IsNotFound(err), ShouldBeTrue)
		})

		Convey("Uninstalling removes the directory", func() {
			So(runtime.Uninstall(info.ID), ShouldBeNil)

			infos, err := runtime.ListInstalled()
			So(err, ShouldBeNil)
			So(infos, ShouldBeEmpty)
		})
	})
}
