// Package constant defines immutable application-level identifiers.
package constant

// Extension Function Identifiers - these constants define the global function signatures an
// extension script may export. The manifest declares which of them the script implements.
const (
	SearchFn        = "Search"
	ChaptersFn      = "Chapters"
	ChapterImagesFn = "ChapterImages"
	LanguagesFn     = "Languages"
	EpisodesFn      = "Episodes"
	EpisodeURLsFn   = "EpisodeUrls"
)

// ManifestFile is the expected manifest filename inside an installed extension directory.
const ManifestFile = "manifest.json"

// ScriptFile is the expected script filename inside an installed extension directory.
const ScriptFile = "main.lua"
