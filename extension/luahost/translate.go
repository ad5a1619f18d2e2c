package luahost

import (
	"fmt"
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/yomikata-app/yomikata/source"
)

func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

// getNumberString reads a field that scripts may return as either a Lua number
// or a string, normalized to the string representation used for sorting.
func getNumberString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	switch val.Type() {
	case lua.LTString:
		return val.String()
	case lua.LTNumber:
		return strconv.FormatFloat(float64(val.(lua.LNumber)), 'f', -1, 64)
	default:
		return ""
	}
}

func favoriteFromTable(table *lua.LTable, extensionID string, kind source.Kind) (source.Favorite, error) {
	name := getString(table, "name")
	id := getString(table, "id")
	if id == "" {
		id = getString(table, "url")
	}

	if name == "" || id == "" {
		return source.Favorite{}, fmt.Errorf("entry must have name and id")
	}

	return source.Favorite{
		Name:        name,
		SourceID:    id,
		Source:      extensionID,
		Kind:        kind,
		Link:        getString(table, "url"),
		Cover:       getString(table, "cover"),
		Author:      getString(table, "author"),
		Description: getString(table, "description"),
		Status:      getString(table, "status"),
		ExtraName:   getString(table, "extra_name"),
	}, nil
}

func chapterFromTable(table *lua.LTable, extensionID, language string) (source.Chapter, error) {
	number := getNumberString(table, "number")
	id := getString(table, "id")
	if id == "" {
		id = getString(table, "url")
	}

	if number == "" || id == "" {
		return source.Chapter{}, fmt.Errorf("chapter must have number and id")
	}

	chapter := source.Chapter{
		Number:   number,
		ID:       id,
		Source:   extensionID,
		Title:    getString(table, "title"),
		Scan:     getString(table, "scan"),
		Language: getString(table, "language"),
	}
	if chapter.Language == "" {
		chapter.Language = language
	}
	return chapter, nil
}

func episodeFromTable(table *lua.LTable, extensionID string) (source.Episode, error) {
	number := getNumberString(table, "number")
	id := getString(table, "id")
	if id == "" {
		id = getString(table, "url")
	}

	if number == "" || id == "" {
		return source.Episode{}, fmt.Errorf("episode must have number and id")
	}

	return source.Episode{
		Number: number,
		ID:     id,
		Source: extensionID,
		Title:  getString(table, "title"),
	}, nil
}

func languageFromTable(table *lua.LTable) (source.Language, error) {
	id := getString(table, "id")
	if id == "" {
		return source.Language{}, fmt.Errorf("language must have id")
	}

	label := getString(table, "label")
	if label == "" {
		label = id
	}

	return source.Language{ID: id, Label: label}, nil
}

// eachEntry walks the array part of a result table in index order, handing
// every nested table to fn. Invalid entries are dropped; when nothing parses
// and at least one entry failed, the first failure is reported.
func eachEntry(table *lua.LTable, fn func(*lua.LTable) error) error {
	var errs []error
	parsed := 0

	for i := 1; i <= table.Len(); i++ {
		val := table.RawGetInt(i)
		if val.Type() != lua.LTTable {
			continue
		}

		if err := fn(val.(*lua.LTable)); err != nil {
			errs = append(errs, err)
			continue
		}
		parsed++
	}

	if parsed == 0 && len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func favoritesFromTable(table *lua.LTable, extensionID string, kind source.Kind) ([]source.Favorite, error) {
	var favorites []source.Favorite
	err := eachEntry(table, func(entry *lua.LTable) error {
		favorite, err := favoriteFromTable(entry, extensionID, kind)
		if err != nil {
			return err
		}
		favorites = append(favorites, favorite)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return favorites, nil
}

func chaptersFromTable(table *lua.LTable, extensionID, language string) ([]source.Chapter, error) {
	var chapters []source.Chapter
	err := eachEntry(table, func(entry *lua.LTable) error {
		chapter, err := chapterFromTable(entry, extensionID, language)
		if err != nil {
			return err
		}
		chapters = append(chapters, chapter)
		return nil
	})
	if err != nil {
		return nil, err
	}
	source.SortChapters(chapters)
	return chapters, nil
}

func episodesFromTable(table *lua.LTable, extensionID string) ([]source.Episode, error) {
	var episodes []source.Episode
	err := eachEntry(table, func(entry *lua.LTable) error {
		episode, err := episodeFromTable(entry, extensionID)
		if err != nil {
			return err
		}
		episodes = append(episodes, episode)
		return nil
	})
	if err != nil {
		return nil, err
	}
	source.SortEpisodes(episodes)
	return episodes, nil
}

func languagesFromTable(table *lua.LTable) ([]source.Language, error) {
	var languages []source.Language
	err := eachEntry(table, func(entry *lua.LTable) error {
		language, err := languageFromTable(entry)
		if err != nil {
			return err
		}
		languages = append(languages, language)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return languages, nil
}

func stringsFromTable(table *lua.LTable) ([]string, error) {
	var items []string
	for i := 1; i <= table.Len(); i++ {
		val := table.RawGetInt(i)
		if val.Type() != lua.LTString {
			continue
		}
		items = append(items, val.String())
	}
	return items, nil
}
