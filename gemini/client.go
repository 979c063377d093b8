package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/genai"

	"andary/asset"
	"andary/i18n"
	"andary/logger"
)

const (
	// DefaultTimeout for API requests
	DefaultTimeout = 5 * time.Minute
)

// Client adapts the tutor's operations to the Gemini API. It keeps no
// provider connection: each call resolves the key and builds a fresh
// genai client.
type Client struct {
	keys       KeySource
	baseURL    string
	httpClient *http.Client
	debug      bool
	log        *logger.Logger
	models     Models
}

// ClientOption configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL (for testing)
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		parsed, err := url.Parse(baseURL)
		if err != nil {
			return
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return
		}
		if parsed.Host == "" {
			return
		}
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the HTTP client timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDebug enables debug logging
func WithDebug(debug bool) ClientOption {
	return func(c *Client) {
		c.debug = debug
	}
}

func WithLogger(l *logger.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithModels overrides the model names. Empty fields keep their defaults.
func WithModels(m Models) ClientOption {
	return func(c *Client) {
		if m.Chat != "" {
			c.models.Chat = m.Chat
		}
		if m.Lecture != "" {
			c.models.Lecture = m.Lecture
		}
		if m.Video != "" {
			c.models.Video = m.Video
		}
	}
}

// NewClient creates a Gemini adapter that reads its key from keys
func NewClient(keys KeySource, opts ...ClientOption) (*Client, error) {
	if keys == nil {
		return nil, fmt.Errorf("key source is required")
	}

	c := &Client{
		keys: keys,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log:    logger.Nop(),
		models: DefaultModels(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Models returns the models the client calls
func (c *Client) Models() Models {
	return c.models
}

// apiKey resolves the current key. A missing key is a credential failure.
func (c *Client) apiKey(ctx context.Context, op string) (string, error) {
	key, err := c.keys.APIKey(ctx)
	if err != nil {
		return "", &RemoteServiceError{Op: op, Err: &CredentialError{Err: err}}
	}
	if strings.TrimSpace(key) == "" {
		return "", &RemoteServiceError{Op: op, Err: &CredentialError{}}
	}
	return key, nil
}

func (c *Client) provider(ctx context.Context, op string) (*genai.Client, error) {
	key, err := c.apiKey(ctx, op)
	if err != nil {
		return nil, err
	}

	cc := &genai.ClientConfig{
		APIKey:     key,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cc.HTTPOptions.BaseURL = c.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, wrap(op, err)
	}
	return client, nil
}

// Chat sends a message with its prior history and returns the model's reply
func (c *Client) Chat(ctx context.Context, message string, history []Turn, instruction string) (string, error) {
	const op = "chat"

	client, err := c.provider(ctx, op)
	if err != nil {
		return "", err
	}

	start := time.Now()
	c.log.Debug("chat request", "model", c.models.Chat, "history", len(history))
	if c.debug {
		c.log.Debug("chat prompt", "preview", preview(message, 200))
	}

	resp, err := client.Models.GenerateContent(ctx, c.models.Chat, historyContents(history, message),
		&genai.GenerateContentConfig{SystemInstruction: systemInstruction(instruction)})
	if err != nil {
		c.log.Warn("chat failed", "model", c.models.Chat, "error", err)
		return "", wrap(op, err)
	}

	text := resp.Text()
	c.log.Debug("chat response", "model", c.models.Chat, "chars", len(text), "latency", time.Since(start))
	if strings.TrimSpace(text) == "" {
		return "", wrap(op, ErrEmptyResponse)
	}
	return text, nil
}

// AnalyzeFile sends one base64 payload with an instruction and asks for the
// answer in lang.
func (c *Client) AnalyzeFile(ctx context.Context, payload, mimeType, prompt string, lang i18n.Language) (string, error) {
	const op = "analyze file"

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", &RemoteServiceError{Op: op, Err: fmt.Errorf("invalid payload: %w", err)}
	}

	client, err := c.provider(ctx, op)
	if err != nil {
		return "", err
	}

	content := genai.NewContentFromParts([]*genai.Part{
		genai.NewPartFromBytes(raw, mimeType),
		genai.NewPartFromText(WithLanguageDirective(prompt, lang)),
	}, genai.RoleUser)

	c.log.Debug("analyze request", "model", c.models.Chat, "mime", mimeType, "size", len(raw), "lang", string(lang))

	resp, err := client.Models.GenerateContent(ctx, c.models.Chat, []*genai.Content{content}, nil)
	if err != nil {
		c.log.Warn("analyze failed", "model", c.models.Chat, "error", err)
		return "", wrap(op, err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", wrap(op, ErrEmptyResponse)
	}
	return text, nil
}

// GenerateVideoLecture analyzes 1 to 3 assets into a lecture script, then
// starts a video job driven by the script's visual prompt. It returns as soon
// as the job is accepted.
func (c *Client) GenerateVideoLecture(ctx context.Context, assets []asset.Asset, lang i18n.Language) (*JobHandle, string, error) {
	const op = "generate video lecture"

	if len(assets) == 0 {
		return nil, "", ErrNoAssets
	}
	if len(assets) > asset.MaxLectureAssets {
		return nil, "", &asset.ValidationError{Count: len(assets), Max: asset.MaxLectureAssets}
	}

	parts := make([]*genai.Part, 0, len(assets)+1)
	for _, a := range assets {
		raw, err := a.Bytes()
		if err != nil {
			return nil, "", &RemoteServiceError{Op: op, Err: err}
		}
		parts = append(parts, genai.NewPartFromBytes(raw, a.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(LectureInstruction))

	refs, err := referenceImages(assets)
	if err != nil {
		return nil, "", &RemoteServiceError{Op: op, Err: err}
	}

	client, err := c.provider(ctx, op)
	if err != nil {
		return nil, "", err
	}

	c.log.Info("lecture analysis started", "model", c.models.Lecture, "assets", len(assets), "lang", string(lang))

	resp, err := client.Models.GenerateContent(ctx, c.models.Lecture,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, nil)
	if err != nil {
		c.log.Warn("lecture analysis failed", "model", c.models.Lecture, "error", err)
		return nil, "", wrap(op, err)
	}

	analysis := resp.Text()
	visualPrompt := ExtractVisualPrompt(analysis)

	cfg := &genai.GenerateVideosConfig{
		NumberOfVideos: VideoCount,
		Resolution:     VideoResolution,
		AspectRatio:    VideoAspectRatio,
	}
	if len(refs) > 0 {
		cfg.ReferenceImages = refs
	}

	c.log.Info("video job submitted", "model", c.models.Video, "references", len(refs), "prompt_chars", len(visualPrompt))

	operation, err := client.Models.GenerateVideos(ctx, c.models.Video, visualPrompt, nil, cfg)
	if err != nil {
		c.log.Warn("video submission failed", "model", c.models.Video, "error", err)
		return nil, "", wrap(op, err)
	}

	return handleFromOperation(operation), analysis, nil
}

// CheckJobStatus refreshes a video job
func (c *Client) CheckJobStatus(ctx context.Context, job *JobHandle) (*JobHandle, error) {
	const op = "check job status"

	if job == nil || job.Name == "" {
		return nil, &RemoteServiceError{Op: op, Err: fmt.Errorf("job handle has no name")}
	}

	client, err := c.provider(ctx, op)
	if err != nil {
		return nil, err
	}

	operation, err := client.Operations.GetVideosOperation(ctx, job.operation(), nil)
	if err != nil {
		return nil, wrap(op, err)
	}

	h := handleFromOperation(operation)
	c.log.Debug("job status", "job", h.Name, "done", h.Done, "failure", h.FailureReason)
	return h, nil
}

// FetchResultMedia downloads a finished video. The key is passed as the key
// query parameter, which the media endpoint requires.
func (c *Client) FetchResultMedia(ctx context.Context, locator string) ([]byte, error) {
	const op = "fetch result media"

	u, err := url.Parse(locator)
	if err != nil || u.Scheme == "" {
		return nil, &RemoteServiceError{Op: op, Err: fmt.Errorf("invalid media locator %q", logger.RedactURL(locator))}
	}

	key, err := c.apiKey(ctx, op)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", key)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &RemoteServiceError{Op: op, Err: err}
	}

	c.log.Debug("downloading media", "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, wrap(op, ctx.Err())
		}
		return nil, wrap(op, fmt.Errorf("request failed: %s", logger.RedactURL(err.Error())))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, wrap(op, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, wrap(op, fmt.Errorf("failed to read media: %w", err))
	}
	return data, nil
}

// GetAPIKeyHelp returns help text for setting up the API key
func GetAPIKeyHelp() string {
	return `Andary uses the Google Gemini API, so you need an API key.

1. Go to https://aistudio.google.com/apikey
2. Sign in with your Google account
3. Click "Create API key"
4. Copy the API key
5. Set the environment variable:

   export GEMINI_API_KEY="your-api-key"

Or create a .env file with:
   GEMINI_API_KEY=your-api-key

Video lectures use Veo, which requires a key from a paid Cloud project.
Billing: https://ai.google.dev/gemini-api/docs/billing`
}
