// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Downloader Aggregation - these keys govern source routing and result caching.
const (
	DownloaderChaptersTTL = "downloader.chapters_ttl"
	DownloaderSearchLimit = "downloader.search_limit"
)

// Search Interaction - these keys define the behavior of search discovery.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Extension Runtime - these keys configure the dynamically loaded provider host.
const (
	ExtensionsAutoload       = "extensions.autoload"
	ExtensionsAllowNSFW      = "extensions.allow_nsfw"
	ExtensionsVerifyChecksum = "extensions.verify_checksum"
)

// Library Persistence - these keys configure the favorites and read-marker store.
const (
	LibrarySaveOnRead = "library.save_on_read"
)

// Iconography - these keys manage the visual rendering of CLI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern CLI behavior.
const (
	CliColored = "cli.colored"
)
