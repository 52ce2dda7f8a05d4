package model

import (
	"fmt"
	"sync"

	"github.com/masterkanin/sports-predictor/internal/models"
)

// Registry holds the primary model and optional ensemble per sport. It is
// owned by the pipeline and constructed once at startup; there is no ambient
// global model state.
type Registry struct {
	mu        sync.RWMutex
	primaries map[models.Sport]Model
	ensembles map[models.Sport]*Ensemble
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{
		primaries: make(map[models.Sport]Model),
		ensembles: make(map[models.Sport]*Ensemble),
	}
}

// RegisterPrimary installs the primary model for a sport.
func (r *Registry) RegisterPrimary(sport models.Sport, m Model) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.primaries[sport] = m
}

// RegisterEnsemble installs the model ensemble for a sport.
func (r *Registry) RegisterEnsemble(sport models.Sport, e *Ensemble) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensembles[sport] = e
}

// Primary returns the primary model for a sport.
func (r *Registry) Primary(sport models.Sport) (Model, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.primaries[sport]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoModelForSport, sport)
	}
	return m, nil
}

// EnsembleFor returns the ensemble for a sport, or nil when none is
// registered. A missing ensemble is an expected configuration state, not an
// error.
func (r *Registry) EnsembleFor(sport models.Sport) *Ensemble {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ensembles[sport]
}

// Sports returns every sport with a registered primary model.
func (r *Registry) Sports() []models.Sport {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var sports []models.Sport
	for _, s := range models.Sports {
		if _, ok := r.primaries[s]; ok {
			sports = append(sports, s)
		}
	}
	return sports
}
