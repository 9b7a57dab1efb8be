package cache

import (
	"fmt"
	"slices"
	"strings"
)

// Keyer builds cache keys.
type Keyer interface {
	// ImageKey is the key of a fetched remote bitmap.
	ImageKey(url string) string

	// RenderKey is the key of an encoded render of the scene whose
	// canonical JSON hashes to sceneHash.
	RenderKey(sceneHash string, opts RenderKeyOpts) string
}

// RenderKeyOpts are the inputs besides the scene that change a render.
type RenderKeyOpts struct {
	Format   string   `json:"format"`
	Quality  int      `json:"quality"`
	FontDirs []string `json:"font_dirs,omitempty"`
	Version  string   `json:"version,omitempty"`
}

// DefaultKeyer produces "<kind>:<detail>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ImageKey(url string) string {
	return "image:" + Hash([]byte(url))
}

func (DefaultKeyer) RenderKey(sceneHash string, opts RenderKeyOpts) string {
	dirs := slices.Clone(opts.FontDirs)
	slices.Sort(dirs)
	opts.FontDirs = dirs
	if opts.Format == "jpeg" {
		opts.Format = "jpg"
	}
	return hashKey(fmt.Sprintf("render:%s", strings.ToLower(opts.Format)), sceneHash, opts)
}

var _ Keyer = DefaultKeyer{}
