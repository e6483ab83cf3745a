package job

import (
	"github.com/ytget/markitdown-app/internal/model"
)

// Runner defines the interface for the conversion job runner.
type Runner interface {
	SetCallbacks(Callbacks)
	Submit(req model.ConversionRequest) (*model.ConversionJob, error)
	Current() (model.ConversionJob, bool)
	Active() bool

	// Cancel suppresses delivery of the running job's outcome. The
	// converter call itself keeps running until it returns.
	Cancel()

	// Wait blocks until the running job, if any, has finished
	Wait()
}

// Callbacks receive job outcomes. Exactly one of OnComplete and OnError is
// called per job unless it was cancelled; OnFinished is always called last.
type Callbacks struct {
	OnComplete func(model.ConversionResult)
	OnError    func(model.ConversionFailure)
	OnFinished func(model.ConversionJob)
}

// Dispatcher runs a callback on the caller's preferred goroutine,
// e.g. fyne.Do for the UI thread
type Dispatcher func(func())
