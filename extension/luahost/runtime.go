// Package luahost executes extension scripts on an embedded Lua interpreter.
//
// Each installed extension lives in its own directory under the extensions
// root, holding the script next to its manifest. Loading compiles the script
// (through a shared bytecode cache), validates the exported globals against
// the manifest, and keeps the interpreter state resident until unload.
package luahost

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/spf13/viper"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/yomikata-app/yomikata/constant"
	"github.com/yomikata-app/yomikata/extension"
	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/key"
	"github.com/yomikata-app/yomikata/source"
)

// bytecodeCache stores compiled prototypes keyed by the script's checksum,
// so reinstalling a changed script never replays stale bytecode.
var bytecodeCache sync.Map

type script struct {
	manifest extension.Manifest
	state    *lua.LState
}

// Runtime implements extension.Host on top of gopher-lua.
type Runtime struct {
	dir     string
	scripts map[string]*script
}

// New creates a runtime rooted at the given extensions directory.
func New(dir string) *Runtime {
	return &Runtime{
		dir:     dir,
		scripts: make(map[string]*script),
	}
}

// IDFromName generates the canonical extension identifier for a display name.
func IDFromName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

func (r *Runtime) extensionDir(id string) string {
	return filepath.Join(r.dir, id)
}

func (r *Runtime) readManifest(id string) (extension.Manifest, error) {
	return extension.ReadManifest(filepath.Join(r.extensionDir(id), constant.ManifestFile))
}

func (r *Runtime) info(id string, m extension.Manifest) extension.Info {
	_, loaded := r.scripts[id]
	return extension.Info{
		ID:          id,
		Name:        m.Name,
		Version:     m.Version,
		Description: m.Description,
		Author:      m.Author,
		NSFW:        m.NSFW,
		Language:    m.Language,
		Kind:        m.Kind,
		BaseURL:     m.BaseURL,
		Exports:     m.Exports,
		Installed:   true,
		Loaded:      loaded,
	}
}

// ListInstalled enumerates every extension directory holding a valid manifest.
// Directories with broken manifests are skipped rather than failing the list.
func (r *Runtime) ListInstalled() ([]extension.Info, error) {
	exists, err := filesystem.API().DirExists(r.dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	entries, err := filesystem.API().ReadDir(r.dir)
	if err != nil {
		return nil, err
	}

	var infos []extension.Info
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifest, err := r.readManifest(entry.Name())
		if err != nil {
			continue
		}

		infos = append(infos, r.info(entry.Name(), manifest))
	}

	return infos, nil
}

func (r *Runtime) GetInfo(id string) (extension.Info, error) {
	manifest, err := r.readManifest(id)
	if err != nil {
		return extension.Info{}, &extension.NotFoundError{ID: id}
	}
	return r.info(id, manifest), nil
}

// InstallFromFile validates an extension package and copies it into the
// extensions root under its canonical id.
func (r *Runtime) InstallFromFile(scriptPath, manifestPath string) (extension.Info, error) {
	manifest, err := extension.ReadManifest(manifestPath)
	if err != nil {
		return extension.Info{}, &extension.InstallError{ID: filepath.Base(manifestPath), Err: err}
	}

	id := IDFromName(manifest.Name)

	if installed, err := filesystem.API().DirExists(r.extensionDir(id)); err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	} else if installed {
		return extension.Info{}, &extension.InstallError{
			ID:  id,
			Err: errors.New("an extension with this id is already installed"),
		}
	}

	if manifest.NSFW && !viper.GetBool(key.ExtensionsAllowNSFW) {
		return extension.Info{}, &extension.InstallError{
			ID:  id,
			Err: errors.New("nsfw extensions are disabled, see extensions.allow_nsfw"),
		}
	}

	src, err := filesystem.API().ReadFile(scriptPath)
	if err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	}

	if viper.GetBool(key.ExtensionsVerifyChecksum) {
		if err = manifest.VerifyChecksum(src); err != nil {
			return extension.Info{}, &extension.InstallError{ID: id, Err: err}
		}
	}

	dir := r.extensionDir(id)
	if err = filesystem.API().MkdirAll(dir, 0o755); err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	}

	manifestData, err := filesystem.API().ReadFile(manifestPath)
	if err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	}

	if err = filesystem.API().WriteFile(filepath.Join(dir, constant.ScriptFile), src, 0o644); err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	}
	if err = filesystem.API().WriteFile(filepath.Join(dir, constant.ManifestFile), manifestData, 0o644); err != nil {
		return extension.Info{}, &extension.InstallError{ID: id, Err: err}
	}

	return r.info(id, manifest), nil
}

func (r *Runtime) Uninstall(id string) error {
	exists, err := filesystem.API().DirExists(r.extensionDir(id))
	if err != nil {
		return err
	}
	if !exists {
		return &extension.NotFoundError{ID: id}
	}

	_ = r.Unload(id)
	return filesystem.API().RemoveAll(r.extensionDir(id))
}

// Load initializes the extension's interpreter state: preload the standard
// libraries, inject the TLS-aware HTTP module, execute the script, and verify
// every export the manifest declares resolves to a Lua function.
func (r *Runtime) Load(id string) (extension.Info, error) {
	if _, loaded := r.scripts[id]; loaded {
		manifest, err := r.readManifest(id)
		if err != nil {
			return extension.Info{}, &extension.LoadError{ID: id, Phase: "manifest", Err: err}
		}
		return r.info(id, manifest), nil
	}

	exists, err := filesystem.API().DirExists(r.extensionDir(id))
	if err != nil {
		return extension.Info{}, err
	}
	if !exists {
		return extension.Info{}, &extension.NotFoundError{ID: id}
	}

	manifest, err := r.readManifest(id)
	if err != nil {
		return extension.Info{}, &extension.LoadError{ID: id, Phase: "manifest", Err: err}
	}

	scriptPath := filepath.Join(r.extensionDir(id), constant.ScriptFile)
	src, err := filesystem.API().ReadFile(scriptPath)
	if err != nil {
		return extension.Info{}, &extension.LoadError{ID: id, Phase: "read", Err: err}
	}

	if viper.GetBool(key.ExtensionsVerifyChecksum) {
		if err = manifest.VerifyChecksum(src); err != nil {
			return extension.Info{}, &extension.LoadError{ID: id, Phase: "verify", Err: err}
		}
	}

	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err = compileAndRun(state, scriptPath, src); err != nil {
		state.Close()
		return extension.Info{}, &extension.LoadError{ID: id, Phase: "compile", Err: err}
	}

	for _, fn := range requiredGlobals(manifest.Exports) {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			state.Close()
			return extension.Info{}, &extension.LoadError{
				ID:    id,
				Phase: "validate",
				Err:   fmt.Errorf("function %s is declared in the manifest but not defined", fn),
			}
		}
	}

	r.scripts[id] = &script{manifest: manifest, state: state}
	return r.info(id, manifest), nil
}

func (r *Runtime) Unload(id string) error {
	s, loaded := r.scripts[id]
	if !loaded {
		return nil
	}

	s.state.Close()
	delete(r.scripts, id)
	return nil
}

// requiredGlobals maps the manifest's capability flags to the global function
// names the script must define.
func requiredGlobals(c source.Capabilities) []string {
	var fns []string
	if c.Search {
		fns = append(fns, constant.SearchFn)
	}
	if c.Chapters {
		fns = append(fns, constant.ChaptersFn)
	}
	if c.ChapterImages {
		fns = append(fns, constant.ChapterImagesFn)
	}
	if c.Languages {
		fns = append(fns, constant.LanguagesFn)
	}
	if c.Episodes {
		fns = append(fns, constant.EpisodesFn)
	}
	if c.EpisodeURLs {
		fns = append(fns, constant.EpisodeURLsFn)
	}
	return fns
}

// compileAndRun executes a script within the provided state, reusing a cached
// bytecode prototype when the same script bytes were compiled before.
func compileAndRun(L *lua.LState, scriptPath string, src []byte) error {
	sum := sha256.Sum256(src)
	cacheKey := hex.EncodeToString(sum[:])

	if cached, hit := bytecodeCache.Load(cacheKey); hit {
		L.Push(L.NewFunctionFromProto(cached.(*lua.FunctionProto)))
		return L.PCall(0, lua.MultRet, nil)
	}

	chunk, err := parse.Parse(bytes.NewReader(src), scriptPath)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, scriptPath)
	if err != nil {
		return err
	}

	bytecodeCache.Store(cacheKey, proto)

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func (r *Runtime) loaded(id string) (*script, error) {
	s, ok := r.scripts[id]
	if !ok {
		return nil, &extension.LoadError{ID: id, Phase: "invoke", Err: errors.New("extension is not loaded")}
	}
	return s, nil
}

// call executes a global Lua function safely and checks the return type.
func (s *script) call(fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	err := s.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return nil, err
	}

	retval := s.state.Get(-1)
	s.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s returned %s, expected %s", fn, retval.Type(), retType)
	}

	return retval, nil
}

func (r *Runtime) Search(id, query string) ([]source.Favorite, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.SearchFn, lua.LTTable, lua.LString(query))
	if err != nil {
		return nil, err
	}

	return favoritesFromTable(val.(*lua.LTable), id, s.manifest.Kind)
}

func (r *Runtime) Chapters(id, sourceID, language string) ([]source.Chapter, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.ChaptersFn, lua.LTTable, lua.LString(sourceID), lua.LString(language))
	if err != nil {
		return nil, err
	}

	return chaptersFromTable(val.(*lua.LTable), id, language)
}

func (r *Runtime) ChapterImages(id, chapterID string) ([]string, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.ChapterImagesFn, lua.LTTable, lua.LString(chapterID))
	if err != nil {
		return nil, err
	}

	return stringsFromTable(val.(*lua.LTable))
}

func (r *Runtime) Languages(id, sourceID string) ([]source.Language, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.LanguagesFn, lua.LTTable, lua.LString(sourceID))
	if err != nil {
		return nil, err
	}

	return languagesFromTable(val.(*lua.LTable))
}

func (r *Runtime) Episodes(id, sourceID string) ([]source.Episode, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.EpisodesFn, lua.LTTable, lua.LString(sourceID))
	if err != nil {
		return nil, err
	}

	return episodesFromTable(val.(*lua.LTable), id)
}

func (r *Runtime) EpisodeURLs(id, episodeID string) ([]string, error) {
	s, err := r.loaded(id)
	if err != nil {
		return nil, err
	}

	val, err := s.call(constant.EpisodeURLsFn, lua.LTTable, lua.LString(episodeID))
	if err != nil {
		return nil, err
	}

	return stringsFromTable(val.(*lua.LTable))
}
