// Package extension manages the lifecycle of dynamically loaded provider extensions
// and exposes them under the same adapter contract as built-in sources.
package extension

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yomikata-app/yomikata/filesystem"
	"github.com/yomikata-app/yomikata/source"
)

// Manifest describes an extension package. It ships next to the script as
// manifest.json and is the sole declaration of the extension's identity and
// capability surface.
type Manifest struct {
	Name        string              `json:"name" jsonschema:"required"`
	Version     string              `json:"version" jsonschema:"required,example=1.0.0"`
	Description string              `json:"description"`
	Author      string              `json:"author"`
	NSFW        bool                `json:"nsfw"`
	Language    string              `json:"language"`
	Kind        source.Kind         `json:"type" jsonschema:"required,enum=manga,enum=anime,enum=comic"`
	BaseURL     string              `json:"baseUrl"`
	Checksum    string              `json:"checksum" jsonschema:"required,pattern=^sha256:"`
	Exports     source.Capabilities `json:"exports" jsonschema:"required"`
}

// ParseManifest decodes and validates a manifest from its JSON representation.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("decode manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

// ReadManifest loads and validates a manifest file through the virtualized filesystem.
func ReadManifest(path string) (Manifest, error) {
	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest: %w", err)
	}
	return ParseManifest(data)
}

// Validate checks the structural invariants of the manifest.
func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest: name cannot be empty")
	}
	if !strings.Contains(m.Version, ".") {
		return fmt.Errorf("manifest: version must be in semver format (e.g. 1.0.0)")
	}
	switch m.Kind {
	case source.Manga, source.Anime, source.Comic:
	default:
		return fmt.Errorf("manifest: invalid type %q", m.Kind)
	}
	if !strings.HasPrefix(m.Checksum, "sha256:") {
		return fmt.Errorf("manifest: checksum must start with %q", "sha256:")
	}
	if !m.Exports.Search && !m.Exports.Chapters && !m.Exports.ChapterImages &&
		!m.Exports.Episodes && !m.Exports.EpisodeURLs {
		return fmt.Errorf("manifest: at least one operation must be exported")
	}
	return nil
}

// VerifyChecksum compares the declared checksum against the actual script bytes.
func (m Manifest) VerifyChecksum(script []byte) error {
	expected := strings.TrimPrefix(m.Checksum, "sha256:")
	sum := sha256.Sum256(script)
	actual := hex.EncodeToString(sum[:])
	if actual != expected {
		return fmt.Errorf("manifest: checksum mismatch: expected %s, got %s", expected, actual)
	}
	return nil
}

// Descriptor projects the manifest into the uniform source identity.
func (m Manifest) Descriptor() source.Descriptor {
	return source.Descriptor{
		ID:            m.Name,
		Name:          m.Name,
		BaseURL:       m.BaseURL,
		MultiLanguage: m.Exports.Languages,
		Capabilities:  m.Exports,
	}
}
