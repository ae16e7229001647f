package services

import (
	"sync"
	"time"

	"golang.org/x/text/language"

	"github.com/danielgonzalesarce/holocron/internal/domain/entities"
)

// LoadFailedMessage is the single user-facing message shown when a load fails.
const LoadFailedMessage = "failed to load characters, please try again"

// State is the complete view state of the catalog.
// Visible is always Derive(All, Criteria) and is never edited directly.
type State struct {
	All        []entities.Entity
	Visible    []entities.Entity
	Criteria   entities.Criteria
	Loading    bool
	Err        string
	SnapshotID string
	LoadedAt   time.Time
}

// Loaded reports whether any load has completed.
func (s State) Loaded() bool {
	return s.SnapshotID != ""
}

// Event is a state transition input.
type Event interface {
	isEvent()
}

// LoadStarted marks the beginning of a load.
type LoadStarted struct{}

// LoadSucceeded replaces the entity set with a completed snapshot.
type LoadSucceeded struct {
	Snapshot *entities.Snapshot
}

// LoadFailed ends a load without touching previously loaded data.
type LoadFailed struct {
	Err error
}

// CriteriaChanged replaces the filter criteria.
type CriteriaChanged struct {
	Criteria entities.Criteria
}

// CriteriaCleared resets every filter.
type CriteriaCleared struct{}

func (LoadStarted) isEvent()     {}
func (LoadSucceeded) isEvent()   {}
func (LoadFailed) isEvent()      {}
func (CriteriaChanged) isEvent() {}
func (CriteriaCleared) isEvent() {}

// Reduce applies ev to s and returns the new state. It does not mutate s.
func Reduce(s State, ev Event, opts ...DeriveOption) State {
	switch ev := ev.(type) {
	case LoadStarted:
		s.Loading = true
		s.Err = ""
		return s

	case LoadSucceeded:
		s.Loading = false
		s.Err = ""
		if ev.Snapshot == nil {
			return s
		}
		s.All = ev.Snapshot.Entities
		s.SnapshotID = ev.Snapshot.ID
		s.LoadedAt = ev.Snapshot.LoadedAt
		s.Visible = Derive(s.All, s.Criteria, opts...)
		return s

	case LoadFailed:
		// Prior All and Visible stay in place.
		s.Loading = false
		s.Err = LoadFailedMessage
		return s

	case CriteriaChanged:
		s.Criteria = ev.Criteria
		s.Visible = Derive(s.All, s.Criteria, opts...)
		return s

	case CriteriaCleared:
		s.Criteria = entities.Criteria{}
		s.Visible = Derive(s.All, s.Criteria, opts...)
		return s

	default:
		return s
	}
}

// Catalog owns the catalog state and serializes every transition.
type Catalog struct {
	mu     sync.Mutex
	state  State
	locale language.Tag
}

// NewCatalog creates an empty catalog ordering names by locale.
func NewCatalog(locale language.Tag) *Catalog {
	return &Catalog{
		locale: locale,
		state:  State{Visible: []entities.Entity{}},
	}
}

// Dispatch applies ev and returns the resulting state.
func (c *Catalog) Dispatch(ev Event) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Reduce(c.state, ev, WithLocale(c.locale))
	return c.state
}

// BeginLoad dispatches LoadStarted unless a load is already running.
// It returns false when the load was rejected.
func (c *Catalog) BeginLoad() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Loading {
		return false
	}
	c.state = Reduce(c.state, LoadStarted{}, WithLocale(c.locale))
	return true
}

// State returns the current state.
func (c *Catalog) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
