// Package disciplines holds the drawing discipline master data, loaded
// from an embedded YAML file at startup.
package disciplines

import (
	"embed"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry manages the known drawing disciplines.
type Registry struct {
	byCode map[string]Discipline
	order  []Discipline
	mu     sync.RWMutex
}

// NewRegistry creates a new discipline registry from the embedded YAML.
func NewRegistry() (*Registry, error) {
	data, err := configFiles.ReadFile("config/disciplines.yaml")
	if err != nil {
		return nil, fmt.Errorf("read disciplines.yaml: %w", err)
	}

	var file disciplineFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unmarshal disciplines.yaml: %w", err)
	}
	if len(file.Disciplines) == 0 {
		return nil, fmt.Errorf("disciplines.yaml contains no disciplines")
	}

	r := &Registry{byCode: make(map[string]Discipline, len(file.Disciplines))}
	for _, d := range file.Disciplines {
		r.byCode[d.Code] = d
		r.order = append(r.order, d)
	}

	return r, nil
}

// Get returns the discipline for a code.
func (r *Registry) Get(code string) (Discipline, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byCode[code]
	return d, ok
}

// Valid reports whether code is a known discipline.
func (r *Registry) Valid(code string) bool {
	_, ok := r.Get(code)
	return ok
}

// List returns all disciplines in YAML order.
func (r *Registry) List() []Discipline {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Discipline, len(r.order))
	copy(out, r.order)
	return out
}

// sheetNumberPattern matches a leading sheet code like "A-101" or "FP102"
// in an uploaded file name.
var sheetNumberPattern = regexp.MustCompile(`^([A-Za-z]{1,2})-?(\d{2,4})`)

// SuggestNumber extracts a sheet-number suggestion from a file name, e.g.
// "A-101 Floor Plan.pdf" -> "A-101". Best-effort UI convenience only; it
// never feeds an invariant. Returns "" when nothing recognizable leads the
// name or the prefix is not a known discipline.
func (r *Registry) SuggestNumber(fileName string) string {
	base := strings.TrimSpace(fileName)
	m := sheetNumberPattern.FindStringSubmatch(base)
	if m == nil {
		return ""
	}

	prefix := strings.ToUpper(m[1])
	if !r.Valid(prefix) {
		return ""
	}

	return fmt.Sprintf("%s-%s", prefix, m[2])
}
