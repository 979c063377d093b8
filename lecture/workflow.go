package lecture

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"andary/asset"
	"andary/credential"
	"andary/gemini"
	"andary/i18n"
	"andary/logger"
)

// DefaultPollInterval is the wait before each job status check
const DefaultPollInterval = 5 * time.Second

var (
	ErrNoAssets          = errors.New("add at least one file first")
	ErrBusy              = errors.New("a lecture is already being generated")
	ErrNotIdle           = errors.New("files can only change before generation starts")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrPollLimit         = errors.New("video generation did not finish in time")
)

// Generator is the part of the Gemini adapter the workflow needs
type Generator interface {
	GenerateVideoLecture(ctx context.Context, assets []asset.Asset, lang i18n.Language) (*gemini.JobHandle, string, error)
	CheckJobStatus(ctx context.Context, job *gemini.JobHandle) (*gemini.JobHandle, error)
	FetchResultMedia(ctx context.Context, locator string) ([]byte, error)
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the default Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// EventKind distinguishes observer events
type EventKind int

const (
	EventStateChanged EventKind = iota
	EventPoll
)

// Event is delivered to the observer on every state change and poll
type Event struct {
	Kind  EventKind
	State State
	// Attempt is the 1-based status check number for EventPoll
	Attempt int
	Done    bool
	At      time.Time
}

// Workflow owns the asset list and the job state of one lecture. Reads are
// safe while Run is executing on another goroutine.
type Workflow struct {
	mu     sync.Mutex
	gen    Generator
	keys   credential.Selector
	assets *asset.List
	state  State

	interval time.Duration
	maxPolls int
	lang     i18n.Language
	log      *logger.Logger
	sleep    Sleeper
	observer func(Event)
}

// Option configures a Workflow
type Option func(*Workflow)

func WithPollInterval(d time.Duration) Option {
	return func(w *Workflow) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithMaxPolls bounds the number of status checks. 0 means unbounded.
func WithMaxPolls(n int) Option {
	return func(w *Workflow) {
		if n >= 0 {
			w.maxPolls = n
		}
	}
}

func WithLanguage(lang i18n.Language) Option {
	return func(w *Workflow) {
		w.lang = lang
	}
}

func WithLogger(l *logger.Logger) Option {
	return func(w *Workflow) {
		if l != nil {
			w.log = l
		}
	}
}

// WithSleeper replaces the wait between status checks
func WithSleeper(s Sleeper) Option {
	return func(w *Workflow) {
		if s != nil {
			w.sleep = s
		}
	}
}

// WithObserver registers fn for state changes and poll attempts. fn is
// called from the goroutine running the workflow.
func WithObserver(fn func(Event)) Option {
	return func(w *Workflow) {
		w.observer = fn
	}
}

func New(gen Generator, keys credential.Selector, opts ...Option) *Workflow {
	w := &Workflow{
		gen:      gen,
		keys:     keys,
		assets:   asset.NewList(asset.MaxLectureAssets),
		state:    Idle{},
		interval: DefaultPollInterval,
		lang:     i18n.DefaultLanguage,
		log:      logger.Nop(),
		sleep:    SleepContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Assets returns the staged assets in order
func (w *Workflow) Assets() []asset.Asset {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.assets.Items()
}

func (w *Workflow) SetLanguage(lang i18n.Language) {
	w.mu.Lock()
	w.lang = lang
	w.mu.Unlock()
}

// AddAssets stages assets. Exceeding the cap returns *asset.ValidationError
// and stages nothing.
func (w *Workflow) AddAssets(assets ...asset.Asset) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.state.(Idle); !ok {
		return ErrNotIdle
	}
	return w.assets.Add(assets...)
}

// RemoveAsset unstages an asset and reports whether it was staged
func (w *Workflow) RemoveAsset(id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.state.(Idle); !ok {
		return false
	}
	return w.assets.Remove(id)
}

// Start moves an idle workflow with at least one asset to Processing. The
// caller must then call Run.
func (w *Workflow) Start() error {
	w.mu.Lock()
	switch w.state.(type) {
	case Idle:
	case Processing, Generating:
		w.mu.Unlock()
		return ErrBusy
	default:
		w.mu.Unlock()
		return fmt.Errorf("%w: start from %s", ErrInvalidTransition, w.state.Status())
	}
	if w.assets.Len() == 0 {
		w.mu.Unlock()
		return ErrNoAssets
	}
	w.state = Processing{}
	w.mu.Unlock()

	w.emit(Event{Kind: EventStateChanged, State: Processing{}})
	return nil
}

// Generate starts a run and blocks until it reaches Completed or Failed
func (w *Workflow) Generate(ctx context.Context) (State, error) {
	if err := w.Start(); err != nil {
		return w.State(), err
	}
	return w.Run(ctx), nil
}

// Run executes a started workflow to a terminal state. Cancelling ctx ends
// it promptly in Failed.
func (w *Workflow) Run(ctx context.Context) State {
	w.mu.Lock()
	if _, ok := w.state.(Processing); !ok {
		s := w.state
		w.mu.Unlock()
		return s
	}
	assets := w.assets.Items()
	lang := w.lang
	w.mu.Unlock()

	if !w.keys.HasSelectedKey() {
		w.log.Info("no API key selected, opening key selection")
		if err := w.keys.OpenSelectKey(ctx); err != nil {
			w.log.Warn("key selection failed", "error", err)
		}
	}

	job, analysis, err := w.gen.GenerateVideoLecture(ctx, assets, lang)
	if err != nil {
		return w.fail(ctx, err)
	}
	if job == nil {
		return w.fail(ctx, errors.New("no job handle returned"))
	}
	w.log.Info("video job accepted", "job", job.Name, "done", job.Done)
	w.setState(Generating{Analysis: analysis, Job: job.Name})

	polls := 0
	for !job.Done {
		if w.maxPolls > 0 && polls >= w.maxPolls {
			return w.fail(ctx, ErrPollLimit)
		}
		if err := w.sleep(ctx, w.interval); err != nil {
			return w.fail(ctx, err)
		}

		next, err := w.gen.CheckJobStatus(ctx, job)
		if err != nil {
			return w.fail(ctx, err)
		}
		if next == nil {
			return w.fail(ctx, errors.New("no job handle returned"))
		}
		job = next
		polls++

		w.log.Debug("job polled", "job", job.Name, "attempt", polls, "done", job.Done)
		w.mu.Lock()
		w.state = Generating{Analysis: analysis, Job: job.Name, Polls: polls}
		w.mu.Unlock()
		w.emit(Event{Kind: EventPoll, State: w.State(), Attempt: polls, Done: job.Done})
	}

	if job.VideoURI == "" {
		w.log.Warn("video job finished without a result", "job", job.Name, "reason", job.FailureReason)
		return w.setState(Failed{Message: i18n.For(lang).GenerationFailed})
	}

	media, err := w.gen.FetchResultMedia(ctx, job.VideoURI)
	if err != nil {
		return w.fail(ctx, err)
	}

	w.log.Info("lecture completed", "job", job.Name, "bytes", len(media), "polls", polls)
	return w.setState(Completed{VideoURI: job.VideoURI, Analysis: analysis, Media: media})
}

// Reset returns a completed workflow to Idle and discards its assets
func (w *Workflow) Reset() error {
	w.mu.Lock()
	if _, ok := w.state.(Completed); !ok {
		s := w.state.Status()
		w.mu.Unlock()
		return fmt.Errorf("%w: reset from %s", ErrInvalidTransition, s)
	}
	w.assets.Clear()
	w.state = Idle{}
	w.mu.Unlock()

	w.emit(Event{Kind: EventStateChanged, State: Idle{}})
	return nil
}

// Retry returns a failed workflow to Idle and keeps its assets
func (w *Workflow) Retry() error {
	w.mu.Lock()
	if _, ok := w.state.(Failed); !ok {
		s := w.state.Status()
		w.mu.Unlock()
		return fmt.Errorf("%w: retry from %s", ErrInvalidTransition, s)
	}
	w.state = Idle{}
	w.mu.Unlock()

	w.emit(Event{Kind: EventStateChanged, State: Idle{}})
	return nil
}

func (w *Workflow) fail(ctx context.Context, err error) State {
	w.mu.Lock()
	tr := i18n.For(w.lang)
	w.mu.Unlock()

	// Message is shown to the user; the provider's text stays in Err
	f := Failed{Message: tr.UnexpectedError, Err: err}
	var remote *gemini.RemoteServiceError
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil:
		f.Message = tr.Cancelled
	case errors.Is(err, ErrPollLimit):
		f.Message = tr.GenerationFailed
	case gemini.IsCredentialError(err):
		f.Message = tr.KeyRejected
		f.CredentialIssue = true
		w.log.Warn("credential rejected, asking for a new key", "error", err)
		if serr := w.keys.OpenSelectKey(ctx); serr != nil {
			w.log.Warn("key selection failed", "error", serr)
		}
	case errors.As(err, &remote):
		f.Message = tr.ServiceError
	}

	w.log.Error("lecture failed", "error", err)
	return w.setState(f)
}

func (w *Workflow) setState(s State) State {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.emit(Event{Kind: EventStateChanged, State: s})
	return s
}

func (w *Workflow) emit(e Event) {
	if w.observer == nil {
		return
	}
	e.At = time.Now()
	w.observer(e)
}
