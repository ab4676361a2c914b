package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"vidnotes/internal/generator"
	"vidnotes/internal/logging"
	"vidnotes/internal/mediajob"
	"vidnotes/internal/services"
)

type filesAPI interface {
	UploadFile(ctx context.Context, name string, r io.Reader, opts *genai.UploadFileOptions) (*genai.File, error)
	GetFile(ctx context.Context, name string) (*genai.File, error)
	DeleteFile(ctx context.Context, name string) error
}

type contentAPI interface {
	GenerateContent(ctx context.Context, model string, params generator.Params, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// Client implements mediajob.Service and generator.Model over the Gemini API.
type Client struct {
	files   filesAPI
	content contentAPI
	model   string
	closer  io.Closer
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logging.NewComponentLogger(logger, "gemini")
		}
	}
}

// New dials the Gemini API with apiKey and uses model for generation.
func New(ctx context.Context, apiKey, model string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new client", "api key is empty", nil)
	}
	sdk, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "gemini", "new client", "create genai client", err)
	}
	c := newWithAPI(sdk, sdkContent{client: sdk}, model, opts...)
	c.closer = sdk
	return c, nil
}

func newWithAPI(files filesAPI, content contentAPI, model string, opts ...Option) *Client {
	c := &Client{
		files:   files,
		content: content,
		model:   strings.TrimSpace(model),
		logger:  logging.NewComponentLogger(nil, "gemini"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if c == nil || c.closer == nil {
		return nil
	}
	return c.closer.Close()
}

// Submit uploads localPath to the Files API.
func (c *Client) Submit(ctx context.Context, localPath, displayName, mimeType string) (mediajob.Job, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return mediajob.Job{}, fmt.Errorf("open upload source: %w", err)
	}
	defer file.Close()

	uploaded, err := c.files.UploadFile(ctx, "", file, &genai.UploadFileOptions{
		DisplayName: displayName,
		MIMEType:    mimeType,
	})
	if err != nil {
		return mediajob.Job{}, fmt.Errorf("upload file: %w", err)
	}
	job := toJob(uploaded)
	if job.MIMEType == "" {
		job.MIMEType = mimeType
	}
	if job.DisplayName == "" {
		job.DisplayName = displayName
	}
	c.logger.Debug("file uploaded",
		logging.Handle(job.Handle),
		logging.String("state", string(job.State)),
	)
	return job, nil
}

// Status fetches the current state of a file.
func (c *Client) Status(ctx context.Context, handle string) (mediajob.Job, error) {
	file, err := c.files.GetFile(ctx, handle)
	if err != nil {
		return mediajob.Job{}, fmt.Errorf("get file %s: %w", handle, err)
	}
	return toJob(file), nil
}

// Delete removes a file from the Files API.
func (c *Client) Delete(ctx context.Context, handle string) error {
	if err := c.files.DeleteFile(ctx, handle); err != nil {
		return fmt.Errorf("delete file %s: %w", handle, err)
	}
	return nil
}

// Generate sends prompt plus a reference to the uploaded media.
func (c *Client) Generate(ctx context.Context, prompt string, job mediajob.Job, params generator.Params) (generator.Response, error) {
	resp, err := c.content.GenerateContent(ctx, c.model, params,
		genai.Text(prompt),
		genai.FileData{MIMEType: job.MIMEType, URI: job.URI},
	)
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return fromBlocked(blocked), nil
		}
		return generator.Response{}, err
	}
	return toResponse(resp), nil
}

type sdkContent struct {
	client *genai.Client
}

func (s sdkContent) GenerateContent(ctx context.Context, model string, params generator.Params, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	m := s.client.GenerativeModel(model)
	applyParams(&m.GenerationConfig, params)
	return m.GenerateContent(ctx, parts...)
}

// applyParams copies the configured sampling values onto cfg. Unset values keep
// the model defaults.
func applyParams(cfg *genai.GenerationConfig, params generator.Params) {
	if params.Temperature != nil {
		cfg.SetTemperature(float32(*params.Temperature))
	}
	if params.TopP != nil {
		cfg.SetTopP(float32(*params.TopP))
	}
	if params.MaxOutputTokens > 0 {
		cfg.SetMaxOutputTokens(int32(params.MaxOutputTokens))
	}
}
