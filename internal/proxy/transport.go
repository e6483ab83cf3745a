package proxy

import (
	"context"
	"crypto/tls"
	"net/http"
	"sync"

	"github.com/ytget/markitdown-app/internal/model"
)

// Transport returns a clone of http.DefaultTransport configured with cfg.
// A disabled config yields a transport without any proxy, ignoring HTTP_PROXY.
func Transport(cfg model.ProxyConfig) *http.Transport {
	base := http.DefaultTransport.(*http.Transport).Clone()

	if u := cfg.URL(); u != nil {
		base.Proxy = http.ProxyURL(u)
	} else {
		base.Proxy = nil
	}

	if cfg.Usable() && cfg.SkipTLSVerify {
		if base.TLSClientConfig == nil {
			base.TLSClientConfig = &tls.Config{}
		}
		base.TLSClientConfig.InsecureSkipVerify = true
	}

	return base
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying cfg for Switch
func NewContext(ctx context.Context, cfg model.ProxyConfig) context.Context {
	return context.WithValue(ctx, contextKey{}, cfg)
}

// FromContext returns the proxy config stored by NewContext
func FromContext(ctx context.Context) (model.ProxyConfig, bool) {
	cfg, ok := ctx.Value(contextKey{}).(model.ProxyConfig)
	return cfg, ok
}

// Switch is a RoundTripper that sends each request through the transport
// built for the proxy config carried by the request context. Requests without
// a config go direct.
type Switch struct {
	mu         sync.Mutex
	transports map[model.ProxyConfig]*http.Transport
}

// NewSwitch creates an empty Switch
func NewSwitch() *Switch {
	return &Switch{transports: make(map[model.ProxyConfig]*http.Transport)}
}

// RoundTrip implements http.RoundTripper
func (s *Switch) RoundTrip(req *http.Request) (*http.Response, error) {
	cfg, _ := FromContext(req.Context())
	return s.transport(cfg).RoundTrip(req)
}

func (s *Switch) transport(cfg model.ProxyConfig) *http.Transport {
	if !cfg.Usable() {
		cfg = model.ProxyConfig{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tr, ok := s.transports[cfg]
	if !ok {
		tr = Transport(cfg)
		s.transports[cfg] = tr
	}
	return tr
}

// CloseIdleConnections closes idle connections of every transport
func (s *Switch) CloseIdleConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tr := range s.transports {
		tr.CloseIdleConnections()
	}
}
