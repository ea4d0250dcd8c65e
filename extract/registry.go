package extract

import "github.com/gogibeta/pageharvest"

// Registry holds the registered evidence extractors. The full set runs once
// against the initial snapshot; the quick subset is cheap enough to re-run
// on every scroll cycle.
type Registry struct {
	full  []pageharvest.Extractor
	quick []pageharvest.Extractor
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an extractor to the full pass only.
func (r *Registry) Register(e pageharvest.Extractor) {
	r.full = append(r.full, e)
}

// RegisterQuick adds an extractor to both the full pass and the per-scroll
// quick pass.
func (r *Registry) RegisterQuick(e pageharvest.Extractor) {
	r.full = append(r.full, e)
	r.quick = append(r.quick, e)
}

// Full returns the extractors for the initial full pass.
func (r *Registry) Full() []pageharvest.Extractor {
	return r.full
}

// Quick returns the extractors re-run on every scroll cycle.
func (r *Registry) Quick() []pageharvest.Extractor {
	return r.quick
}

// Names returns the names of all registered extractors, full pass order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.full))
	for _, e := range r.full {
		names = append(names, e.Name())
	}
	return names
}
