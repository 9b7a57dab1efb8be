// Package fonts resolves CSS font families to font files.
//
// The Go fonts are built in. Additional TrueType and OpenType files are added
// from directories; their family name and weight come from the font's own
// name table. Families are matched case-insensitively:
//
//	reg := fonts.Default()
//	_ = reg.AddDir("/usr/share/fonts/inter")
//	f := reg.Lookup(`"Inter", sans-serif`, true)
package fonts

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	errs "github.com/matzehuels/canvasrender/pkg/errors"
)

// Built-in family names.
const (
	Go       = "Go"
	GoMedium = "Go Medium"
	GoMono   = "Go Mono"
)

// Font is one resolved face.
type Font struct {
	Family string
	Bold   bool
	Data   []byte
}

type family struct {
	name    string
	regular []byte
	bold    []byte
}

// Registry maps family names to font data. It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*family
	aliases  map[string]string
	dirs     []string
}

// New returns a registry with the Go fonts and the generic aliases
// (sans-serif, serif, system-ui, monospace).
func New() *Registry {
	r := &Registry{families: map[string]*family{}, aliases: map[string]string{}}
	r.Add(Go, goregular.TTF, gobold.TTF)
	r.Add(GoMedium, gomedium.TTF, gobold.TTF)
	r.Add(GoMono, gomono.TTF, gomonobold.TTF)
	for _, a := range []string{"sans-serif", "serif", "system-ui", "ui-sans-serif"} {
		r.aliases[a] = strings.ToLower(Go)
	}
	r.aliases["monospace"] = strings.ToLower(GoMono)
	r.aliases["ui-monospace"] = strings.ToLower(GoMono)
	return r
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns a shared registry holding only the built-in fonts.
// Callers that add directories should use New instead.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = New() })
	return defaultReg
}

// Add registers a family. bold may be nil, in which case bold lookups use
// the regular face.
func (r *Registry) Add(name string, regular, bold []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.add(name, regular, bold)
}

func (r *Registry) add(name string, regular, bold []byte) {
	key := strings.ToLower(name)
	f := r.families[key]
	if f == nil {
		f = &family{name: name}
		r.families[key] = f
	}
	if regular != nil {
		f.regular = regular
	}
	if bold != nil {
		f.bold = bold
	}
}

// AddDir registers every .ttf and .otf file below dir and returns how many
// faces were added. Files that fail to parse are skipped.
func (r *Registry) AddDir(dir string) (int, error) {
	if err := errs.ValidatePath(dir); err != nil {
		return 0, err
	}
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
		default:
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		name, bold, err := Describe(data)
		if err != nil {
			return nil
		}
		r.mu.Lock()
		if bold {
			r.add(name, nil, data)
		} else {
			r.add(name, data, nil)
		}
		r.mu.Unlock()
		n++
		return nil
	})
	if err != nil {
		return n, errs.Wrap(errs.ErrCodeFontLoad, err, "scan font dir %s", dir)
	}
	r.mu.Lock()
	r.dirs = append(r.dirs, dir)
	r.mu.Unlock()
	return n, nil
}

// Dirs returns the directories added with AddDir.
func (r *Registry) Dirs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.dirs)
}

// Families returns the registered family names, sorted.
func (r *Registry) Families() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.families))
	for _, f := range r.families {
		names = append(names, f.name)
	}
	slices.Sort(names)
	return names
}

// Lookup resolves a CSS font-family list. The first registered entry wins;
// generic names map to the Go fonts. ok is false when nothing matched and
// the Go font was substituted.
func (r *Registry) Lookup(families string, bold bool) (Font, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range ParseFamilies(families) {
		key := strings.ToLower(name)
		if a, ok := r.aliases[key]; ok {
			key = a
		}
		if f, ok := r.families[key]; ok {
			return f.face(bold), true
		}
	}
	if f, ok := r.families[strings.ToLower(Go)]; ok {
		return f.face(bold), false
	}
	return Font{Family: Go, Bold: bold, Data: pick(bold, gobold.TTF, goregular.TTF)}, false
}

// face prefers the requested weight and falls back to whichever exists.
func (f *family) face(bold bool) Font {
	if f.bold != nil && (bold || f.regular == nil) {
		return Font{Family: f.name, Bold: true, Data: f.bold}
	}
	return Font{Family: f.name, Data: f.regular}
}

func pick(bold bool, b, r []byte) []byte {
	if bold {
		return b
	}
	return r
}

// ParseFamilies splits a CSS font-family value into unquoted names.
func ParseFamilies(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		name := strings.Trim(strings.TrimSpace(part), `"'`)
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Describe reads the family name and boldness from a font's name table.
func Describe(data []byte) (name string, bold bool, err error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return "", false, errs.Wrap(errs.ErrCodeFontLoad, err, "parse font")
	}
	var buf sfnt.Buffer
	name, err = f.Name(&buf, sfnt.NameIDTypographicFamily)
	if err != nil || name == "" {
		name, err = f.Name(&buf, sfnt.NameIDFamily)
		if err != nil {
			return "", false, errs.Wrap(errs.ErrCodeFontLoad, err, "read font family")
		}
	}
	sub, _ := f.Name(&buf, sfnt.NameIDSubfamily)
	sub = strings.ToLower(sub)
	bold = strings.Contains(sub, "bold") || strings.Contains(sub, "black") || strings.Contains(sub, "heavy")
	return name, bold, nil
}
