// Package extension manages the lifecycle of dynamically loaded provider extensions.
package extension

import (
	"errors"

	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"

	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/log"
	"github.com/yomikata-app/yomikata/source"
)

// record mirrors one host-side registration in the local registry.
type record struct {
	info   Info
	loaded bool
}

// Client bridges the application and the execution host. It maintains a local
// registry of installed extensions so listing and routing never require a host
// round-trip, and reconciles it wholesale through Refresh.
//
// Registry mutation happens only through Install, Load, Unload, Uninstall and
// Refresh, which the desktop caller invokes sequentially; the registry itself
// is therefore unlocked.
type Client struct {
	host     Host
	registry map[string]*record
}

// NewClient initializes a client over the given host with an empty registry.
// Callers usually follow up with Refresh to mirror the host's installed list.
func NewClient(host Host) *Client {
	return &Client{
		host:     host,
		registry: make(map[string]*record),
	}
}

// Refresh reconciles the local registry with the host's installed list.
// This is the only path that heals divergence between mirror and host.
func (c *Client) Refresh() error {
	infos, err := c.host.ListInstalled()
	if err != nil {
		return err
	}

	registry := make(map[string]*record, len(infos))
	for _, info := range infos {
		registry[info.ID] = &record{info: info, loaded: info.Loaded}
	}
	c.registry = registry
	return nil
}

// Installed returns every locally mirrored extension, sorted by id.
func (c *Client) Installed() []Info {
	infos := lo.Map(lo.Values(c.registry), func(r *record, _ int) Info {
		return r.info
	})
	slices.SortFunc(infos, func(a, b Info) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return infos
}

// Loaded returns the subset of mirrored extensions currently loaded.
func (c *Client) Loaded() []Info {
	return lo.Filter(c.Installed(), func(i Info, _ int) bool { return i.Loaded })
}

// ByKind returns the mirrored extensions of one content kind.
func (c *Client) ByKind(kind source.Kind) []Info {
	return lo.Filter(c.Installed(), func(i Info, _ int) bool { return i.Kind == kind })
}

// Get reports a single mirrored extension.
func (c *Client) Get(id string) (Info, bool) {
	rec, ok := c.registry[id]
	if !ok {
		return Info{}, false
	}
	return rec.info, true
}

// Install validates and registers an extension package from disk.
// Fails with an InstallError when the package is malformed or the declared id
// collides with an existing installation.
func (c *Client) Install(scriptPath, manifestPath string) (Info, error) {
	info, err := c.host.InstallFromFile(scriptPath, manifestPath)
	if err != nil {
		return Info{}, err
	}

	c.registry[info.ID] = &record{info: info, loaded: info.Loaded}
	log.Infof("installed extension %s v%s", info.ID, info.Version)
	return info, nil
}

// Load transitions an installed extension to the loaded state. Idempotent:
// loading an already-loaded extension returns the mirrored info without
// re-invoking the host.
func (c *Client) Load(id string) (Info, error) {
	rec, err := c.resolve(id)
	if err != nil {
		return Info{}, err
	}
	if rec.loaded {
		return rec.info, nil
	}

	info, err := c.host.Load(id)
	if err != nil {
		return Info{}, err
	}

	info.Loaded = true
	rec.info = info
	rec.loaded = true
	log.Infof("loaded extension %s", id)
	return info, nil
}

// Unload transitions a loaded extension back to installed. Safe to call on an
// extension that was never loaded; that case is a no-op.
func (c *Client) Unload(id string) error {
	rec, ok := c.registry[id]
	if !ok || !rec.loaded {
		return nil
	}

	if err := c.host.Unload(id); err != nil {
		return err
	}

	rec.loaded = false
	rec.info.Loaded = false
	log.Infof("unloaded extension %s", id)
	return nil
}

// Uninstall removes a registration entirely, unloading first when necessary.
func (c *Client) Uninstall(id string) error {
	if _, ok := c.registry[id]; !ok {
		return &NotFoundError{ID: id}
	}

	if err := c.Unload(id); err != nil {
		return err
	}
	if err := c.host.Uninstall(id); err != nil {
		return err
	}

	delete(c.registry, id)
	log.Infof("uninstalled extension %s", id)
	return nil
}

// Reload tears an extension down and initializes it again, picking up on-disk
// changes. When the load half fails, the registration survives in the
// installed (unloaded) state; it is never left half-initialized.
func (c *Client) Reload(id string) (Info, error) {
	if _, err := c.resolve(id); err != nil {
		return Info{}, err
	}

	if err := c.Unload(id); err != nil {
		return Info{}, err
	}
	return c.Load(id)
}

// resolve finds an installed record locally, falling back to one host
// reconciliation before reporting the extension as missing.
func (c *Client) resolve(id string) (*record, error) {
	if rec, ok := c.registry[id]; ok {
		return rec, nil
	}

	if err := c.Refresh(); err != nil {
		return nil, &LoadError{ID: id, Phase: "resolve", Err: err}
	}
	if rec, ok := c.registry[id]; ok {
		return rec, nil
	}
	return nil, &NotFoundError{ID: id}
}

// ensureLoaded makes the check-state-then-load transition explicit before an
// invocation, so a plugin-backed call feels identical to a built-in adapter.
// The transparent load is gated by extensions.autoload: with it disabled an
// unloaded extension must be loaded explicitly first.
func (c *Client) ensureLoaded(id string) error {
	rec, err := c.resolve(id)
	if err != nil {
		return err
	}
	if rec.loaded {
		return nil
	}

	if !viper.GetBool(key.ExtensionsAutoload) {
		return &LoadError{
			ID:    id,
			Phase: "autoload",
			Err:   errors.New("extension is not loaded and extensions.autoload is disabled, load it explicitly"),
		}
	}

	_, err = c.Load(id)
	return err
}

// Invocation operations - every one performs ensure-loaded-then-invoke and
// wraps host failures into the provider error taxonomy.

func (c *Client) Search(id, query string) ([]source.Favorite, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	favorites, err := c.host.Search(id, query)
	return favorites, source.WrapProvider(id, "search", err)
}

func (c *Client) Chapters(id, sourceID, language string) ([]source.Chapter, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	chapters, err := c.host.Chapters(id, sourceID, language)
	return chapters, source.WrapProvider(id, "chapters", err)
}

func (c *Client) ChapterImages(id, chapterID string) ([]string, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	images, err := c.host.ChapterImages(id, chapterID)
	return images, source.WrapProvider(id, "chapter images", err)
}

func (c *Client) Languages(id, sourceID string) ([]source.Language, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	languages, err := c.host.Languages(id, sourceID)
	return languages, source.WrapProvider(id, "languages", err)
}

func (c *Client) Episodes(id, sourceID string) ([]source.Episode, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	episodes, err := c.host.Episodes(id, sourceID)
	return episodes, source.WrapProvider(id, "episodes", err)
}

func (c *Client) EpisodeURLs(id, episodeID string) ([]string, error) {
	if err := c.ensureLoaded(id); err != nil {
		return nil, err
	}
	urls, err := c.host.EpisodeURLs(id, episodeID)
	return urls, source.WrapProvider(id, "episode urls", err)
}
