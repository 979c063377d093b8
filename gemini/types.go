package gemini

import (
	"context"

	"google.golang.org/genai"
)

const (
	DefaultChatModel    = "gemini-3-flash-preview"
	DefaultLectureModel = "gemini-3-pro-preview"
	DefaultVideoModel   = "veo-3.1-generate-preview"

	// Fixed video generation parameters
	VideoResolution  = "720p"
	VideoAspectRatio = "16:9"
	VideoCount       = 1

	// MaxReferenceImages is the number of images forwarded to the video model
	MaxReferenceImages = 3
)

// Models names the provider models used for each operation
type Models struct {
	Chat    string
	Lecture string
	Video   string
}

// DefaultModels returns the models used when none are configured
func DefaultModels() Models {
	return Models{
		Chat:    DefaultChatModel,
		Lecture: DefaultLectureModel,
		Video:   DefaultVideoModel,
	}
}

// Role is the author of a conversation turn
type Role string

const (
	RoleUser  Role = genai.RoleUser
	RoleModel Role = genai.RoleModel
)

// Turn is one prior message forwarded as conversation history
type Turn struct {
	Role Role
	Text string
}

// KeySource supplies the API key. It is consulted on every call so a key
// changed mid-session is picked up by the next request.
type KeySource interface {
	APIKey(ctx context.Context) (string, error)
}

// StaticKey is a KeySource that always returns the same key
type StaticKey string

func (k StaticKey) APIKey(ctx context.Context) (string, error) {
	return string(k), nil
}

// JobHandle tracks a long-running video generation job
type JobHandle struct {
	// Name is the provider's operation name
	Name string

	Done bool

	// VideoURI locates the finished video. Empty until done, and may stay
	// empty when the job finished without output.
	VideoURI string

	// FailureReason holds the provider's error message for a failed job
	FailureReason string

	op *genai.GenerateVideosOperation
}

func handleFromOperation(op *genai.GenerateVideosOperation) *JobHandle {
	h := &JobHandle{
		Name: op.Name,
		Done: op.Done,
		op:   op,
	}
	if op.Response != nil && len(op.Response.GeneratedVideos) > 0 {
		if v := op.Response.GeneratedVideos[0]; v != nil && v.Video != nil {
			h.VideoURI = v.Video.URI
		}
	}
	if op.Error != nil {
		if msg, ok := op.Error["message"].(string); ok {
			h.FailureReason = msg
		}
	}
	if h.Done && h.VideoURI == "" && h.FailureReason == "" &&
		op.Response != nil && len(op.Response.RAIMediaFilteredReasons) > 0 {
		h.FailureReason = op.Response.RAIMediaFilteredReasons[0]
	}
	return h
}

func (h *JobHandle) operation() *genai.GenerateVideosOperation {
	if h.op != nil {
		return h.op
	}
	return &genai.GenerateVideosOperation{Name: h.Name}
}
