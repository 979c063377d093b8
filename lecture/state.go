// Package lecture drives the asset-to-video-lecture workflow: analysis,
// asynchronous video generation, polling and download.
package lecture

// Status names a workflow state
type Status int

const (
	StatusIdle Status = iota
	StatusProcessing
	StatusGenerating
	StatusCompleted
	StatusError
)

// String returns a human-readable status description
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusProcessing:
		return "processing"
	case StatusGenerating:
		return "generating"
	case StatusCompleted:
		return "completed"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is one of Idle, Processing, Generating, Completed or Failed. The set
// is closed: only this package can add variants.
type State interface {
	Status() Status
	isState()
}

// Idle accepts asset changes and waits for the user to start
type Idle struct{}

// Processing is the analysis call and video job submission
type Processing struct{}

// Generating waits on the video job
type Generating struct {
	Analysis string
	// Job is the provider's name for the video job
	Job string
	// Polls counts completed status checks
	Polls int
}

// Completed holds the finished lecture
type Completed struct {
	VideoURI string
	Analysis string
	Media    []byte
}

// Failed holds a user-facing message
type Failed struct {
	Message string
	Err     error
	// CredentialIssue is set when the key was rejected and the user was
	// asked to choose another
	CredentialIssue bool
}

func (Idle) Status() Status       { return StatusIdle }
func (Processing) Status() Status { return StatusProcessing }
func (Generating) Status() Status { return StatusGenerating }
func (Completed) Status() Status  { return StatusCompleted }
func (Failed) Status() Status     { return StatusError }

func (Idle) isState()       {}
func (Processing) isState() {}
func (Generating) isState() {}
func (Completed) isState()  {}
func (Failed) isState()     {}

// IsTerminal reports whether s ends a run
func IsTerminal(s State) bool {
	switch s.(type) {
	case Completed, Failed:
		return true
	default:
		return false
	}
}
