package tenant

import (
	"sync"

	"github.com/evilsocket/islazy/log"
)

// State is the tenant lifecycle state
type State int

const (
	NoTenant State = iota
	TenantActive
)

func (s State) String() string {
	if s == TenantActive {
		return "tenant_active"
	}
	return "no_tenant"
}

// BaseURLSetter is the one mutator the tenant context calls on the API client
type BaseURLSetter interface {
	SetBaseURL(baseURL string)
}

// NamespaceSwitcher switches the active storage namespace
type NamespaceSwitcher interface {
	SwitchNamespace(namespace string)
}

// ChangeFunc observes state transitions. identity is nil in NoTenant.
type ChangeFunc func(state State, identity *Identity)

// Context owns the API base URL and the storage namespace as one unit.
// Apply and Reset are the only ways to change either.
type Context struct {
	api              BaseURLSetter
	store            NamespaceSwitcher
	defaultBaseURL   string
	defaultNamespace string

	mu        sync.Mutex
	active    *Identity
	observers []ChangeFunc
}

// NewContext creates a context in the NoTenant state and points the client
// and store at their defaults.
func NewContext(api BaseURLSetter, store NamespaceSwitcher, defaultBaseURL, defaultNamespace string) *Context {
	c := &Context{
		api:              api,
		store:            store,
		defaultBaseURL:   defaultBaseURL,
		defaultNamespace: defaultNamespace,
	}
	c.api.SetBaseURL(defaultBaseURL)
	c.store.SwitchNamespace(defaultNamespace)
	return c
}

// OnChange registers an observer called after every transition
func (c *Context) OnChange(fn ChangeFunc) {
	c.mu.Lock()
	c.observers = append(c.observers, fn)
	c.mu.Unlock()
}

// Apply makes id the active tenant. The identity is validated first; on
// error neither the base URL nor the namespace is touched.
func (c *Context) Apply(id Identity) error {
	if err := id.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	c.api.SetBaseURL(id.APIBaseURL)
	c.store.SwitchNamespace(id.TenantSlug)
	applied := id
	c.active = &applied
	observers := c.observers
	c.mu.Unlock()

	log.Info("🏢 tenant %s active, api %s", id.TenantSlug, id.APIBaseURL)
	notify(observers, TenantActive, &applied)
	return nil
}

// Reset returns to NoTenant, pointing the client and store back at defaults
func (c *Context) Reset() {
	c.mu.Lock()
	c.api.SetBaseURL(c.defaultBaseURL)
	c.store.SwitchNamespace(c.defaultNamespace)
	previous := c.active
	c.active = nil
	observers := c.observers
	c.mu.Unlock()

	if previous != nil {
		log.Info("🚪 tenant %s released", previous.TenantSlug)
	}
	notify(observers, NoTenant, nil)
}

// Active returns the active identity
func (c *Context) Active() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return Identity{}, false
	}
	return *c.active, true
}

// State returns the current lifecycle state
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return NoTenant
	}
	return TenantActive
}

func notify(observers []ChangeFunc, state State, id *Identity) {
	for _, fn := range observers {
		var copied *Identity
		if id != nil {
			v := *id
			copied = &v
		}
		fn(state, copied)
	}
}
