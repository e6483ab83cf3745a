package proxy

import (
	"os"
	"sort"
	"sync"
)

// Environment is a mutable set of environment variables
type Environment interface {
	Lookup(key string) (string, bool)
	Set(key, value string) error
	Unset(key string) error
}

// ProcessEnv is the environment of the running process
type ProcessEnv struct{}

// Lookup returns the value of key in the process environment
func (ProcessEnv) Lookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// Set sets key in the process environment
func (ProcessEnv) Set(key, value string) error {
	return os.Setenv(key, value)
}

// Unset removes key from the process environment
func (ProcessEnv) Unset(key string) error {
	return os.Unsetenv(key)
}

// Overlay is a private environment for one external process. It never touches
// the process environment; callers pass Environ() to exec.Cmd.Env instead.
type Overlay struct {
	mu   sync.RWMutex
	vars map[string]string
}

// NewOverlay creates an empty overlay
func NewOverlay() *Overlay {
	return &Overlay{vars: make(map[string]string)}
}

// Lookup returns the overlay value of key
func (o *Overlay) Lookup(key string) (string, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	v, ok := o.vars[key]
	return v, ok
}

// Set sets key in the overlay
func (o *Overlay) Set(key, value string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.vars[key] = value
	return nil
}

// Unset removes key from the overlay
func (o *Overlay) Unset(key string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.vars, key)
	return nil
}

// Len returns the number of variables in the overlay
func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.vars)
}

// Environ returns the overlay as sorted KEY=value entries
func (o *Overlay) Environ() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	out := make([]string, 0, len(o.vars))
	for k, v := range o.vars {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
