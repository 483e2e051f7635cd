package valueset

import (
	"strings"
	"sync"

	"github.com/ValentinKolb/dSync/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("valueset")

type poolImpl struct {
	mu           sync.Mutex
	sets         []ValueSet        // configuration order
	reservations map[string]string // caller -> set name
	owners       map[string]string // set name -> caller
}

// NewPool creates a pool from the given sets. The order of sets is the order in
// which Reserve considers them. Data keys are lower-cased.
func NewPool(sets []ValueSet) IValueSetPool {
	p := &poolImpl{
		sets:         make([]ValueSet, 0, len(sets)),
		reservations: make(map[string]string),
		owners:       make(map[string]string),
	}
	for _, set := range sets {
		p.sets = append(p.sets, normalize(set))
	}
	return p
}

// --------------------------------------------------------------------------
// Interface Methods (docu see valueset.IValueSetPool)
// --------------------------------------------------------------------------

func (p *poolImpl) Reserve(caller string, tags ...string) (string, map[string]string, error) {
	if caller == "" {
		return "", nil, store.NewError(store.RetCInvalidOperation, "caller id must not be empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.sets) == 0 {
		return "", nil, store.NewError(store.RetCNotConfigured, "no value sets configured, start the coordinator with a resource file")
	}
	if name, ok := p.reservations[caller]; ok {
		return "", nil, store.Errorf(store.RetCAlreadyReserved, "value set %q already reserved by caller, release it first", name)
	}

	matched := false
	for _, set := range p.sets {
		if !set.HasTags(tags...) {
			continue
		}
		matched = true
		if _, taken := p.owners[set.Name]; taken {
			continue
		}

		p.reservations[caller] = set.Name
		p.owners[set.Name] = caller
		Logger.Debugf("value set %q reserved by %s", set.Name, caller)
		return set.Name, set.Values(), nil
	}

	if !matched {
		return "", nil, store.Errorf(store.RetCNoMatch, "no value set matching tags [%s] exists", strings.Join(tags, ", "))
	}

	// all matching sets are busy, try later
	return "", nil, nil
}

func (p *poolImpl) Release(caller string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.releaseLocked(caller)
	return nil
}

func (p *poolImpl) Disable(name, caller string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.indexLocked(name)
	if idx < 0 {
		return store.Errorf(store.RetCUnknownValueSet, "value set %q does not exist", name)
	}

	p.releaseLocked(caller)

	// the set may be reserved by someone else, that reservation dies with it
	if owner, ok := p.owners[name]; ok {
		delete(p.reservations, owner)
		delete(p.owners, name)
	}

	p.sets = append(p.sets[:idx], p.sets[idx+1:]...)
	Logger.Infof("value set %q disabled by %s", name, caller)
	return nil
}

func (p *poolImpl) Get(caller, key string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	name, ok := p.reservations[caller]
	if !ok {
		return "", store.NewError(store.RetCNotReserved, "no value set reserved for caller")
	}

	idx := p.indexLocked(name)
	if idx < 0 {
		return "", store.NewError(store.RetCNotReserved, "no value set reserved for caller")
	}

	set := p.sets[idx]
	key = strings.ToLower(key)
	if key == TagsKey {
		return strings.Join(set.Tags, ","), nil
	}
	value, ok := set.Data[key]
	if !ok {
		return "", store.Errorf(store.RetCKeyNotFound, "value set %q has no key %q", name, key)
	}
	return value, nil
}

func (p *poolImpl) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, len(p.sets))
	for i, set := range p.sets {
		names[i] = set.Name
	}
	return names
}

func (p *poolImpl) Owner(name string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.owners[name]
}

// --------------------------------------------------------------------------
// Helper Methods (p.mu must be held)
// --------------------------------------------------------------------------

func (p *poolImpl) releaseLocked(caller string) {
	if name, ok := p.reservations[caller]; ok {
		delete(p.reservations, caller)
		delete(p.owners, name)
		Logger.Debugf("value set %q released by %s", name, caller)
	}
}

func (p *poolImpl) indexLocked(name string) int {
	for i, set := range p.sets {
		if set.Name == name {
			return i
		}
	}
	return -1
}
