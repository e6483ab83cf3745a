package job

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ytget/markitdown-app/internal/convert"
	"github.com/ytget/markitdown-app/internal/model"
	"github.com/ytget/markitdown-app/internal/proxy"
)

// ErrBusy is returned by Submit while a job is running
var ErrBusy = errors.New("a conversion is already running")

// ErrEmptySource is returned by Submit for a blank source
var ErrEmptySource = errors.New("source is empty")

const jobIDPrefix = "job-"

// environer is implemented by environments handed to external processes
type environer interface {
	Environ() []string
}

// Service is the single in-flight conversion runner
type Service struct {
	converter convert.Converter
	newEnv    func() proxy.Environment
	dispatch  Dispatcher
	logger    zerolog.Logger

	mu        sync.RWMutex
	current   *model.ConversionJob
	cancelled bool
	callbacks Callbacks
	wg        sync.WaitGroup
}

// Option configures a Service
type Option func(*Service)

// WithDispatcher delivers callbacks through d
func WithDispatcher(d Dispatcher) Option {
	return func(s *Service) {
		if d != nil {
			s.dispatch = d
		}
	}
}

// WithEnvironment applies the proxy scope to the environments returned by
// newEnv. The default is a fresh proxy.Overlay per job.
func WithEnvironment(newEnv func() proxy.Environment) Option {
	return func(s *Service) {
		if newEnv != nil {
			s.newEnv = newEnv
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService creates a runner around converter
func NewService(converter convert.Converter, opts ...Option) *Service {
	s := &Service{
		converter: converter,
		newEnv:    func() proxy.Environment { return proxy.NewOverlay() },
		dispatch:  func(f func()) { f() },
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetCallbacks sets the outcome callbacks
func (s *Service) SetCallbacks(callbacks Callbacks) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callbacks = callbacks
}

// Submit starts a job for req, or returns ErrBusy if one is running
func (s *Service) Submit(req model.ConversionRequest) (*model.ConversionJob, error) {
	req.Source = strings.TrimSpace(req.Source)
	if req.Source == "" {
		return nil, ErrEmptySource
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		return nil, ErrBusy
	}

	if req.ID == "" {
		id, err := generateJobID()
		if err != nil {
			return nil, err
		}
		req.ID = id
	}
	if req.SubmittedAt.IsZero() {
		req.SubmittedAt = time.Now()
	}

	job := &model.ConversionJob{
		ID:        req.ID,
		Source:    req.Source,
		Status:    model.JobStatusRunning,
		StartedAt: req.SubmittedAt,
	}
	s.current = job
	s.cancelled = false

	s.wg.Add(1)
	go s.run(req, job)

	snapshot := *job
	return &snapshot, nil
}

// Current returns a snapshot of the running job
func (s *Service) Current() (model.ConversionJob, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.ConversionJob{}, false
	}
	return *s.current, true
}

// Active reports whether a job is running
func (s *Service) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

// Cancel marks the running job cancelled
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.cancelled = true
		s.current.Status = model.JobStatusCancelled
	}
}

// Wait blocks until the running job has finished and its callbacks have
// been delivered
func (s *Service) Wait() {
	s.wg.Wait()
}

// run executes the job on its own goroutine. The job stays current until its
// callbacks have been delivered through the dispatcher.
func (s *Service) run(req model.ConversionRequest, job *model.ConversionJob) {
	log := s.logger.With().Str("job_id", req.ID).Logger()
	log.Debug().
		Str("source", req.Source).
		Bool("plugins", req.EnablePlugins).
		Str("proxy", req.Proxy.Redacted()).
		Strs("languages", req.TranscriptLanguages()).
		Msg("Starting conversion")

	result, failure := s.convert(req, log)

	s.mu.Lock()
	cancelled := s.cancelled
	callbacks := s.callbacks
	switch {
	case cancelled:
		job.Status = model.JobStatusCancelled
	case failure != nil:
		job.Status = model.JobStatusFailed
		job.LastError = failure.Message
	default:
		job.Status = model.JobStatusCompleted
	}
	job.FinishedAt = time.Now()
	finished := *job
	s.mu.Unlock()

	log.Debug().
		Str("status", finished.Status.String()).
		Dur("duration", finished.Duration()).
		Msg("Conversion finished")

	s.dispatch(func() {
		defer s.finish(job)

		if !cancelled {
			if failure != nil {
				if callbacks.OnError != nil {
					callbacks.OnError(*failure)
				}
			} else if callbacks.OnComplete != nil {
				callbacks.OnComplete(*result)
			}
		}
		if callbacks.OnFinished != nil {
			callbacks.OnFinished(finished)
		}
	})
}

// finish clears the current job once its callbacks are delivered
func (s *Service) finish(job *model.ConversionJob) {
	s.mu.Lock()
	if s.current == job {
		s.current = nil
	}
	s.mu.Unlock()
	s.wg.Done()
}

// convert applies the proxy scope, runs the converter and releases the scope
// on every exit path, including panics
func (s *Service) convert(req model.ConversionRequest, log zerolog.Logger) (result *model.ConversionResult, failure *model.ConversionFailure) {
	env := s.newEnv()
	scope, err := proxy.Apply(env, req.Proxy)
	if err != nil {
		return nil, newFailure(req.Source, fmt.Errorf("applying proxy settings: %w", err), "")
	}
	defer func() {
		if err := scope.Release(); err != nil {
			log.Warn().Err(err).Msg("Failed to restore proxy environment")
		}
	}()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Converter panicked")
			result = nil
			failure = newFailure(req.Source, fmt.Errorf("converter panicked: %v", r), string(debug.Stack()))
		}
	}()

	opts := convert.Options{
		EnablePlugins:       req.EnablePlugins,
		TranscriptLanguages: req.TranscriptLanguages(),
		IncludeTranscript:   req.IncludeTranscript,
		Proxy:               req.Proxy,
	}
	if e, ok := env.(environer); ok {
		opts.Env = e.Environ()
	}

	res, err := s.converter.Convert(context.Background(), req.Source, opts)
	if err != nil {
		log.Warn().Err(err).Msg("Conversion failed")
		return nil, newFailure(req.Source, err, "")
	}
	if res == nil {
		return nil, newFailure(req.Source, convert.ErrEmptyOutput, "")
	}
	if res.Source == "" {
		res.Source = req.Source
	}
	return res, nil
}

// newFailure builds the failure report: the error chain, the stderr of an
// external tool and an optional stack
func newFailure(source string, err error, stack string) *model.ConversionFailure {
	var detail strings.Builder

	var convErr *convert.ConversionError
	if errors.As(err, &convErr) {
		detail.WriteString(convErr.Detail())
	} else {
		for e := err; e != nil; e = errors.Unwrap(e) {
			detail.WriteString(e.Error())
			detail.WriteString("\n")
		}
	}
	if stack != "" {
		detail.WriteString("\n")
		detail.WriteString(stack)
	}

	return &model.ConversionFailure{
		Source:  source,
		Message: err.Error(),
		Detail:  strings.TrimRight(detail.String(), "\n"),
	}
}

// generateJobID generates a unique, time-ordered job ID
func generateJobID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating job id: %w", err)
	}
	return jobIDPrefix + id.String(), nil
}
