package extension

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/yomikata-app/yomikata/source"
)

func validManifest() Manifest {
	return Manifest{
		Name:     "Test Source",
		Version:  "1.0.0",
		Kind:     source.Manga,
		Checksum: "sha256:deadbeef",
		Exports:  source.Capabilities{Search: true},
	}
}

func TestManifestValidate(t *testing.T) {
	Convey("Given manifest validation", t, func() {
		Convey("A well-formed manifest passes", func() {
			So(validManifest().Validate(), ShouldBeNil)
		})

		Convey("Each structural invariant is enforced", func() {
			cases := []struct {
				about  string
				mutate func(m *Manifest)
				want   string
			}{
				{
					about:  "empty name",
					mutate: func(m *Manifest) { m.Name = "" },
					want:   "name cannot be empty",
				},
				{
					about:  "version without dots",
					mutate: func(m *Manifest) { m.Version = "1" },
					want:   "version must be in semver format",
				},
				{
					about:  "unknown kind",
					mutate: func(m *Manifest) { m.Kind = "novel" },
					want:   `invalid type "novel"`,
				},
				{
					about:  "checksum without algorithm prefix",
					mutate: func(m *Manifest) { m.Checksum = "deadbeef" },
					want:   `checksum must start with "sha256:"`,
				},
				{
					about:  "no exported operations",
					mutate: func(m *Manifest) { m.Exports = source.Capabilities{} },
					want:   "at least one operation must be exported",
				},
			}

			for _, tc := range cases {
				Convey("Rejects "+tc.about, func() {
					m := validManifest()
					tc.mutate(&m)
					err := m.Validate()
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldContainSubstring, tc.want)
				})
			}
		})

		Convey("Languages alone does not count as an exported operation", func() {
			m := validManifest()
			m.Exports = source.Capabilities{Languages: true}
			err := m.Validate()
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "at least one operation must be exported")
		})

		Convey("ParseManifest surfaces validation failures", func() {
			_, err := ParseManifest([]byte(`{"name":"Test","version":"1.0.0","type":"manga","checksum":"md5:ff","exports":{"search":true}}`))
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "checksum must start with")
		})
	})
}
