package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/markitdown-app/internal/convert"
	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/proxy"
)

// recorder collects callback invocations in order
type recorder struct {
	mu       sync.Mutex
	events   []string
	results  []model.ConversionResult
	failures []model.ConversionFailure
	finished []model.ConversionJob
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnComplete: func(res model.ConversionResult) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, "complete")
			r.results = append(r.results, res)
		},
		OnError: func(f model.ConversionFailure) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, "error")
			r.failures = append(r.failures, f)
		},
		OnFinished: func(j model.ConversionJob) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.events = append(r.events, "finished")
			r.finished = append(r.finished, j)
		},
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func markdown(text string) convert.ConverterFunc {
	return func(_ context.Context, source string, _ convert.Options) (*model.ConversionResult, error) {
		return &model.ConversionResult{Markdown: text, Source: source}, nil
	}
}

// blocking returns a converter that waits for release before returning
func blocking(release <-chan struct{}, started chan<- struct{}) convert.ConverterFunc {
	return func(_ context.Context, source string, _ convert.Options) (*model.ConversionResult, error) {
		close(started)
		<-release
		return &model.ConversionResult{Markdown: "late", Source: source}, nil
	}
}

func usableProxy() model.ProxyConfig {
	return model.ProxyConfig{Enabled: true, Host: "proxy.local", Port: "3128", SkipTLSVerify: true}
}

func TestSubmit_Completes(t *testing.T) {
	rec := &recorder{}
	s := NewService(markdown("# Title"))
	s.SetCallbacks(rec.callbacks())

	job, err := s.Submit(model.ConversionRequest{Source: "  /tmp/a.pdf  "})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(job.ID, "job-"), "job id %q", job.ID)
	assert.Equal(t, "/tmp/a.pdf", job.Source)
	assert.Equal(t, model.JobStatusRunning, job.Status)

	s.Wait()

	assert.Equal(t, []string{"complete", "finished"}, rec.snapshot())
	require.Len(t, rec.results, 1)
	assert.Equal(t, "# Title", rec.results[0].Markdown)
	assert.Equal(t, model.JobStatusCompleted, rec.finished[0].Status)
	assert.Equal(t, job.ID, rec.finished[0].ID)
	assert.False(t, s.Active())
}

func TestSubmit_BusyWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := NewService(blocking(release, started))

	_, err := s.Submit(model.ConversionRequest{Source: "a.pdf"})
	require.NoError(t, err)
	<-started

	assert.True(t, s.Active())
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "a.pdf", current.Source)

	_, err = s.Submit(model.ConversionRequest{Source: "b.pdf"})
	assert.ErrorIs(t, err, ErrBusy)

	close(release)
	s.Wait()

	// Idle again, a new job is accepted
	_, err = s.Submit(model.ConversionRequest{Source: "b.pdf"})
	require.NoError(t, err)
	s.Wait()
}

func TestSubmit_EmptySource(t *testing.T) {
	s := NewService(markdown("x"))
	_, err := s.Submit(model.ConversionRequest{Source: "   "})
	assert.ErrorIs(t, err, ErrEmptySource)
	assert.False(t, s.Active())
}

func TestSubmit_Failure(t *testing.T) {
	rec := &recorder{}
	convErr := &convert.ConversionError{
		Source: "bad.xyz",
		Err:    errors.New("exit status 1"),
		Stderr: "Traceback (most recent call last):\nUnsupportedFormatException",
	}
	s := NewService(convert.ConverterFunc(func(context.Context, string, convert.Options) (*model.ConversionResult, error) {
		return nil, convErr
	}))
	s.SetCallbacks(rec.callbacks())

	_, err := s.Submit(model.ConversionRequest{Source: "bad.xyz"})
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, []string{"error", "finished"}, rec.snapshot())
	failure := rec.failures[0]
	assert.Equal(t, "bad.xyz", failure.Source)
	assert.Contains(t, failure.Message, "UnsupportedFormatException")
	assert.Contains(t, failure.Detail, "Traceback")
	assert.Equal(t, model.JobStatusFailed, rec.finished[0].Status)
	assert.Equal(t, failure.Message, rec.finished[0].LastError)
}

func TestSubmit_NilResult(t *testing.T) {
	rec := &recorder{}
	s := NewService(convert.ConverterFunc(func(context.Context, string, convert.Options) (*model.ConversionResult, error) {
		return nil, nil
	}))
	s.SetCallbacks(rec.callbacks())

	_, err := s.Submit(model.ConversionRequest{Source: "a"})
	require.NoError(t, err)
	s.Wait()
	assert.Equal(t, []string{"error", "finished"}, rec.snapshot())
}

func TestSubmit_PanicIsRecovered(t *testing.T) {
	rec := &recorder{}
	overlay := proxy.NewOverlay()
	s := NewService(
		convert.ConverterFunc(func(context.Context, string, convert.Options) (*model.ConversionResult, error) {
			panic("boom")
		}),
		WithEnvironment(func() proxy.Environment { return overlay }),
	)
	s.SetCallbacks(rec.callbacks())

	_, err := s.Submit(model.ConversionRequest{Source: "a.pdf", Proxy: usableProxy()})
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, []string{"error", "finished"}, rec.snapshot())
	assert.Contains(t, rec.failures[0].Message, "boom")
	assert.Contains(t, rec.failures[0].Detail, "goroutine")
	assert.Zero(t, overlay.Len(), "proxy scope released after panic")
	assert.False(t, s.Active())
}

func TestSubmit_ProxyScope(t *testing.T) {
	overlay := proxy.NewOverlay()
	var seen convert.Options
	var releasedBeforeDelivery bool

	s := NewService(
		convert.ConverterFunc(func(_ context.Context, source string, opts convert.Options) (*model.ConversionResult, error) {
			seen = opts
			return &model.ConversionResult{Markdown: "ok"}, nil
		}),
		WithEnvironment(func() proxy.Environment { return overlay }),
	)
	s.SetCallbacks(Callbacks{
		OnComplete: func(res model.ConversionResult) {
			releasedBeforeDelivery = overlay.Len() == 0
			assert.Equal(t, "a.pdf", res.Source, "source filled in from the request")
		},
	})

	req := model.ConversionRequest{
		Source:             "a.pdf",
		EnablePlugins:      true,
		Proxy:              usableProxy(),
		TranscriptLanguage: "en",
		IncludeTranscript:  true,
	}
	_, err := s.Submit(req)
	require.NoError(t, err)
	s.Wait()

	assert.True(t, seen.EnablePlugins)
	assert.True(t, seen.IncludeTranscript)
	assert.Equal(t, []string{"en"}, seen.TranscriptLanguages)
	assert.Equal(t, usableProxy(), seen.Proxy)
	assert.Contains(t, seen.Env, "HTTP_PROXY=http://proxy.local:3128")
	assert.Contains(t, seen.Env, "HTTPS_PROXY=http://proxy.local:3128")
	assert.Contains(t, seen.Env, "PYTHONHTTPSVERIFY=0")
	assert.True(t, releasedBeforeDelivery)
}

func TestSubmit_ProcessEnvironmentRestored(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://previous:1")

	var during string
	s := NewService(
		convert.ConverterFunc(func(context.Context, string, convert.Options) (*model.ConversionResult, error) {
			during, _ = proxy.ProcessEnv{}.Lookup("HTTP_PROXY")
			return &model.ConversionResult{Markdown: "ok"}, nil
		}),
		WithEnvironment(func() proxy.Environment { return proxy.ProcessEnv{} }),
	)

	_, err := s.Submit(model.ConversionRequest{Source: "a.pdf", Proxy: usableProxy()})
	require.NoError(t, err)
	s.Wait()

	assert.Equal(t, "http://proxy.local:3128", during)
	after, _ := proxy.ProcessEnv{}.Lookup("HTTP_PROXY")
	assert.Equal(t, "http://previous:1", after)
}

func TestCancel_SuppressesDelivery(t *testing.T) {
	rec := &recorder{}
	release := make(chan struct{})
	started := make(chan struct{})
	s := NewService(blocking(release, started))
	s.SetCallbacks(rec.callbacks())

	_, err := s.Submit(model.ConversionRequest{Source: "a.pdf"})
	require.NoError(t, err)
	<-started

	s.Cancel()
	current, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, model.JobStatusCancelled, current.Status)

	close(release)
	s.Wait()

	assert.Equal(t, []string{"finished"}, rec.snapshot())
	assert.Equal(t, model.JobStatusCancelled, rec.finished[0].Status)
	assert.False(t, s.Active())
}

func TestCancel_Idle(t *testing.T) {
	s := NewService(markdown("x"))
	s.Cancel()
	s.Wait()
	assert.False(t, s.Active())
}

func TestDispatcher(t *testing.T) {
	var dispatched int
	done := make(chan struct{})
	s := NewService(markdown("x"), WithDispatcher(func(f func()) {
		dispatched++
		f()
		close(done)
	}))

	_, err := s.Submit(model.ConversionRequest{Source: "a"})
	require.NoError(t, err)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("callbacks were not dispatched")
	}
	s.Wait()
	assert.Equal(t, 1, dispatched)
}

func TestGenerateJobID(t *testing.T) {
	a, err := generateJobID()
	require.NoError(t, err)
	b, err := generateJobID()
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, jobIDPrefix))
	assert.Less(t, a, b, "ids are time ordered")
}

func TestSubmit_BusyUntilCallbacksDelivered(t *testing.T) {
	var (
		mu     sync.Mutex
		queued []func()
	)
	ready := make(chan struct{}, 1)
	rec := &recorder{}
	s := NewService(markdown("x"), WithDispatcher(func(f func()) {
		mu.Lock()
		queued = append(queued, f)
		mu.Unlock()
		ready <- struct{}{}
	}))
	s.SetCallbacks(rec.callbacks())

	_, err := s.Submit(model.ConversionRequest{Source: "a.pdf"})
	require.NoError(t, err)

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("callbacks were not dispatched")
	}

	// Converted but not yet delivered
	assert.True(t, s.Active())
	_, err = s.Submit(model.ConversionRequest{Source: "b.pdf"})
	assert.ErrorIs(t, err, ErrBusy)
	assert.Empty(t, rec.snapshot())

	mu.Lock()
	deliver := queued[0]
	mu.Unlock()
	deliver()
	s.Wait()

	assert.Equal(t, []string{"complete", "finished"}, rec.snapshot())
	assert.False(t, s.Active())
	_, err = s.Submit(model.ConversionRequest{Source: "b.pdf"})
	require.NoError(t, err)

	<-ready
	mu.Lock()
	deliver = queued[1]
	mu.Unlock()
	deliver()
	s.Wait()
}
