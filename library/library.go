// Package library persists the user's favorites and per-chapter read markers.
package library

import (
	"fmt"
	"strconv"

	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/source"
	"github.com/yomikata-app/yomikata/where"
)

// ReadMarker records that one chapter of a favorite was read in a given
// language. Unique per (favorite, chapter, source, language).
type ReadMarker struct {
	ID         int64  `json:"id"`
	FavoriteID int64  `json:"favoriteId"`
	ChapterID  string `json:"chapterId"`
	Source     string `json:"source"`
	Language   string `json:"language,omitempty"`
}

func (m *ReadMarker) encode() string {
	return fmt.Sprintf("%d|%s|%s|%s", m.FavoriteID, m.ChapterID, m.Source, m.Language)
}

// registry is the on-disk shape of the whole library.
type registry struct {
	NextFavoriteID int64                       `json:"nextFavoriteId"`
	NextMarkerID   int64                       `json:"nextMarkerId"`
	Favorites      map[string]*source.Favorite `json:"favorites"`
	Markers        map[string]*ReadMarker      `json:"markers"`
}

// cacher provides the disk-backed store for the library registry.
var cacher = gache.New[*registry](
	&gache.Options{
		Path:       where.Library(),
		FileSystem: &filesystem.GacheFs{},
	},
)

func load() (*registry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return &registry{
			NextFavoriteID: 1,
			NextMarkerID:   1,
			Favorites:      make(map[string]*source.Favorite),
			Markers:        make(map[string]*ReadMarker),
		}, nil
	}
	return cached, nil
}

// Favorites returns every saved favorite sorted by name.
func Favorites() ([]source.Favorite, error) {
	reg, err := load()
	if err != nil {
		return nil, err
	}

	favorites := lo.Map(lo.Values(reg.Favorites), func(f *source.Favorite, _ int) source.Favorite {
		return *f
	})
	slices.SortFunc(favorites, func(a, b source.Favorite) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		default:
			return 0
		}
	})
	return favorites, nil
}

// Get finds a favorite by its library id.
func Get(id int64) (source.Favorite, bool, error) {
	reg, err := load()
	if err != nil {
		return source.Favorite{}, false, err
	}

	favorite, ok := reg.Favorites[strconv.FormatInt(id, 10)]
	if !ok {
		return source.Favorite{}, false, nil
	}
	return *favorite, true, nil
}

// Find locates a favorite by its source and provider-native id.
func Find(sourceName, sourceID string) (source.Favorite, bool, error) {
	reg, err := load()
	if err != nil {
		return source.Favorite{}, false, err
	}

	for _, favorite := range reg.Favorites {
		if favorite.Source == sourceName && favorite.SourceID == sourceID {
			return *favorite, true, nil
		}
	}
	return source.Favorite{}, false, nil
}

// Add stores a new favorite, assigning its library id. Saving the same
// (source, sourceId) pair twice returns the existing entry untouched.
func Add(favorite source.Favorite) (source.Favorite, error) {
	reg, err := load()
	if err != nil {
		return source.Favorite{}, err
	}

	for _, existing := range reg.Favorites {
		if existing.Source == favorite.Source && existing.SourceID == favorite.SourceID {
			return *existing, nil
		}
	}

	favorite.ID = reg.NextFavoriteID
	reg.NextFavoriteID++
	if favorite.FolderName == "" {
		favorite.FolderName = favorite.Dirname()
	}

	reg.Favorites[strconv.FormatInt(favorite.ID, 10)] = &favorite
	if err = cacher.Set(reg); err != nil {
		return source.Favorite{}, err
	}
	return favorite, nil
}

// Update overwrites a stored favorite's editable fields.
func Update(favorite source.Favorite) error {
	reg, err := load()
	if err != nil {
		return err
	}

	id := strconv.FormatInt(favorite.ID, 10)
	if _, ok := reg.Favorites[id]; !ok {
		return fmt.Errorf("favorite %d is not in the library", favorite.ID)
	}

	reg.Favorites[id] = &favorite
	return cacher.Set(reg)
}

// Remove deletes a favorite and every read marker referencing it.
func Remove(id int64) error {
	reg, err := load()
	if err != nil {
		return err
	}

	if _, ok := reg.Favorites[strconv.FormatInt(id, 10)]; !ok {
		return fmt.Errorf("favorite %d is not in the library", id)
	}

	delete(reg.Favorites, strconv.FormatInt(id, 10))
	for encoded, marker := range reg.Markers {
		if marker.FavoriteID == id {
			delete(reg.Markers, encoded)
		}
	}

	return cacher.Set(reg)
}

// MarkRead records a chapter as read for a favorite. Re-marking the same
// chapter is a no-op. When the favorite is not saved yet and
// library.save_on_read is enabled, it is added first.
func MarkRead(favorite source.Favorite, chapter source.Chapter) error {
	if favorite.ID == 0 {
		saved, found, err := Find(favorite.Source, favorite.SourceID)
		if err != nil {
			return err
		}

		switch {
		case found:
			favorite = saved
		case viper.GetBool(key.LibrarySaveOnRead):
			if favorite, err = Add(favorite); err != nil {
				return err
			}
		default:
			return fmt.Errorf("favorite %q is not in the library", favorite.Name)
		}
	}

	reg, err := load()
	if err != nil {
		return err
	}

	marker := &ReadMarker{
		FavoriteID: favorite.ID,
		ChapterID:  chapter.ID,
		Source:     chapter.Source,
		Language:   chapter.Language,
	}
	if _, exists := reg.Markers[marker.encode()]; exists {
		return nil
	}

	marker.ID = reg.NextMarkerID
	reg.NextMarkerID++
	reg.Markers[marker.encode()] = marker
	return cacher.Set(reg)
}

// UnmarkRead removes the read marker of a chapter, if present.
func UnmarkRead(favorite source.Favorite, chapter source.Chapter) error {
	reg, err := load()
	if err != nil {
		return err
	}

	marker := &ReadMarker{
		FavoriteID: favorite.ID,
		ChapterID:  chapter.ID,
		Source:     chapter.Source,
		Language:   chapter.Language,
	}
	delete(reg.Markers, marker.encode())
	return cacher.Set(reg)
}

// IsRead reports whether a chapter carries a read marker for the favorite.
func IsRead(favorite source.Favorite, chapter source.Chapter) (bool, error) {
	reg, err := load()
	if err != nil {
		return false, err
	}

	marker := &ReadMarker{
		FavoriteID: favorite.ID,
		ChapterID:  chapter.ID,
		Source:     chapter.Source,
		Language:   chapter.Language,
	}
	_, ok := reg.Markers[marker.encode()]
	return ok, nil
}

// ReadMarkers lists every read marker of a favorite.
func ReadMarkers(favoriteID int64) ([]ReadMarker, error) {
	reg, err := load()
	if err != nil {
		return nil, err
	}

	var markers []ReadMarker
	for _, marker := range reg.Markers {
		if marker.FavoriteID == favoriteID {
			markers = append(markers, *marker)
		}
	}

	slices.SortFunc(markers, func(a, b ReadMarker) int {
		return int(a.ID - b.ID)
	})
	return markers, nil
}
