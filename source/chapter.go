// Package source defines the domain models and the adapter contract for content providers.
package source

import (
	"strconv"

	"golang.org/x/exp/slices"
)

// Chapter represents a discrete readable segment of a favorite. Chapters are
// ephemeral: fetched fresh per request and persisted only through read markers.
type Chapter struct {
	// Number is kept as a string since providers use non-integer numbering (e.g. "10.5").
	Number string `json:"number"`
	Title  string `json:"title,omitempty"`
	// ID is the provider-native chapter identifier used for image fetches.
	ID       string `json:"chapterId"`
	Source   string `json:"source"`
	Language string `json:"language,omitempty"`
	// Scan is the scanlation group that released the chapter, when reported.
	Scan string `json:"scan,omitempty"`
}

func (c *Chapter) String() string {
	if c.Title != "" {
		return c.Number + " - " + c.Title
	}
	return c.Number
}

// CompareNumbers orders chapter number strings numerically where possible,
// so "9" < "10" < "10.5", falling back to lexicographic order for
// unparseable numbers. Unparseable numbers sort after numeric ones.
func CompareNumbers(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)

	switch {
	case errA == nil && errB == nil:
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		default:
			return 0
		}
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	}
}

// SortChapters sorts a chapter list ascending by numeric-aware chapter number.
func SortChapters(chapters []Chapter) {
	slices.SortStableFunc(chapters, func(a, b Chapter) int {
		return CompareNumbers(a.Number, b.Number)
	})
}

// SortEpisodes sorts an episode list ascending by numeric-aware episode number.
func SortEpisodes(episodes []Episode) {
	slices.SortStableFunc(episodes, func(a, b Episode) int {
		return CompareNumbers(a.Number, b.Number)
	})
}
