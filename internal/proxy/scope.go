package proxy

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ytget/markitdown-app/internal/model"
)

// Variables exported while a proxy scope is active
const (
	EnvHTTPProxy     = "HTTP_PROXY"
	EnvHTTPSProxy    = "HTTPS_PROXY"
	EnvHTTPSVerify   = "PYTHONHTTPSVERIFY"
	EnvWarnings      = "PYTHONWARNINGS"
	HTTPSVerifyOff   = "0"
	InsecureWarnings = "ignore:Unverified HTTPS request"
)

// Keys lists every variable a scope may set
var Keys = []string{EnvHTTPProxy, EnvHTTPSProxy, EnvHTTPSVerify, EnvWarnings}

type previous struct {
	value   string
	existed bool
}

// Scope holds the variables set by Apply until Release is called
type Scope struct {
	env   Environment
	saved map[string]previous
	order []string
	once  sync.Once
}

// Apply exports cfg into env. A disabled or incomplete config sets nothing.
// The returned scope must be released on every exit path, usually with defer.
func Apply(env Environment, cfg model.ProxyConfig) (*Scope, error) {
	s := &Scope{env: env, saved: make(map[string]previous)}
	if !cfg.Usable() {
		return s, nil
	}

	proxyURL := cfg.String()
	vars := [][2]string{
		{EnvHTTPProxy, proxyURL},
		{EnvHTTPSProxy, proxyURL},
	}
	if cfg.SkipTLSVerify {
		vars = append(vars,
			[2]string{EnvHTTPSVerify, HTTPSVerifyOff},
			[2]string{EnvWarnings, InsecureWarnings},
		)
	}

	for _, kv := range vars {
		if err := s.set(kv[0], kv[1]); err != nil {
			releaseErr := s.Release()
			return nil, errors.Join(fmt.Errorf("failed to export %s: %w", kv[0], err), releaseErr)
		}
	}
	return s, nil
}

// set records the prior value of key before overwriting it
func (s *Scope) set(key, value string) error {
	if _, seen := s.saved[key]; !seen {
		v, ok := s.env.Lookup(key)
		s.saved[key] = previous{value: v, existed: ok}
		s.order = append(s.order, key)
	}
	return s.env.Set(key, value)
}

// Exported returns the keys set by this scope in the order they were applied
func (s *Scope) Exported() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Release restores every variable set by Apply to its prior state.
// Subsequent calls are no-ops.
func (s *Scope) Release() error {
	if s == nil {
		return nil
	}
	var errs []error
	s.once.Do(func() {
		for i := len(s.order) - 1; i >= 0; i-- {
			key := s.order[i]
			prev := s.saved[key]
			var err error
			if prev.existed {
				err = s.env.Set(key, prev.value)
			} else {
				err = s.env.Unset(key)
			}
			if err != nil {
				errs = append(errs, fmt.Errorf("failed to restore %s: %w", key, err))
			}
		}
	})
	return errors.Join(errs...)
}
