// Package source defines the domain models and the adapter contract for content providers.
package source

// Episode represents a discrete watchable segment of an anime-flavored favorite.
// Mirrors Chapter; numbering is a string for the same non-integer reasons.
type Episode struct {
	Number string `json:"number"`
	Title  string `json:"title,omitempty"`
	// ID is the provider-native episode identifier used for stream URL fetches.
	ID     string `json:"episodeId"`
	Source string `json:"source"`
}

func (e *Episode) String() string {
	if e.Title != "" {
		return e.Number + " - " + e.Title
	}
	return e.Number
}

// Language describes a localization variant a multi-language source exposes.
type Language struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var languageLabels = map[string]string{
	"en":    "English",
	"pt-br": "Português (Brasil)",
	"pt":    "Português",
	"es":    "Español",
	"es-la": "Español (Latinoamérica)",
	"fr":    "Français",
	"de":    "Deutsch",
	"it":    "Italiano",
	"ru":    "Русский",
	"ja":    "日本語",
	"ko":    "한국어",
	"zh":    "中文",
	"zh-hk": "中文 (香港)",
}

// LanguageLabel returns the human readable label for a language code,
// falling back to the code itself for unknown ones.
func LanguageLabel(code string) string {
	if label, ok := languageLabels[code]; ok {
		return label
	}
	return code
}
