package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/educonnect/internal/metrics"
	"github.com/noah-isme/educonnect/internal/models"
	appErrors "github.com/noah-isme/educonnect/pkg/errors"
	"github.com/noah-isme/educonnect/pkg/middleware/requestid"
)

const maxErrorBody = 64 << 10

// TokenSource yields the current bearer token. It is consulted on every
// authenticated call so a token rotated by another process is used immediately.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config configures the backend connection.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues single request/response calls against the EduConnect backend.
// There is no retry and no circuit breaking; callers surface failures.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	metrics *metrics.MetricsService
	logger  *zap.Logger
}

// New constructs a Client. httpClient may be nil.
func New(cfg Config, httpClient *http.Client, tokens TokenSource, metricsSvc *metrics.MetricsService, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		metrics: metricsSvc,
		logger:  logger,
	}
}

type formField struct {
	name  string
	value string
}

type multipartBody struct {
	fields []formField
	files  map[string]*models.Attachment
}

type call struct {
	method   string
	path     string
	endpoint string
	auth     bool
	json     interface{}
	form     *multipartBody
}

func (c *Client) do(ctx context.Context, cl call, out interface{}) error {
	body, contentType, err := encodeBody(cl)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode request")
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := requestid.NewID()
	req.Header.Set(requestid.HeaderKey, reqID)

	if cl.auth {
		token, err := c.currentToken(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.metrics.ObserveAPICall(cl.method, cl.endpoint, 0, time.Since(start))
		c.logger.Warn("api call failed", zap.String("endpoint", cl.endpoint), zap.String("request_id", reqID), zap.Error(err))
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close() //nolint:errcheck
	c.metrics.ObserveAPICall(cl.method, cl.endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := errorFromResponse(resp)
		c.logger.Info("api call rejected",
			zap.String("endpoint", cl.endpoint),
			zap.Int("status", resp.StatusCode),
			zap.String("request_id", reqID),
			zap.String("message", apiErr.Message))
		return apiErr
	}

	c.logger.Debug("api call", zap.String("endpoint", cl.endpoint), zap.Int("status", resp.StatusCode), zap.Duration("latency", time.Since(start)))

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrBackend.Code, resp.StatusCode, "unexpected response from server")
	}
	return nil
}

func (c *Client) currentToken(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", appErrors.ErrUnauthenticated
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read session")
	}
	if token == "" {
		return "", appErrors.ErrUnauthenticated
	}
	return token, nil
}

// errorFromResponse extracts {message} or {error} from the body, falling back
// to the generic message for the status class.
func errorFromResponse(resp *http.Response) *appErrors.Error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body models.MessageResponse
	message := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		message = strings.TrimSpace(body.Message)
		if message == "" {
			message = strings.TrimSpace(body.Error)
		}
	}
	return appErrors.FromStatus(resp.StatusCode, message)
}

func encodeBody(cl call) (io.Reader, string, error) {
	switch {
	case cl.form != nil:
		buf := &bytes.Buffer{}
		w := multipart.NewWriter(buf)
		for _, f := range cl.form.fields {
			if err := w.WriteField(f.name, f.value); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", f.name, err)
			}
		}
		for field, file := range cl.form.files {
			if file == nil || file.Content == nil {
				continue
			}
			part, err := w.CreateFormFile(field, file.FileName)
			if err != nil {
				return nil, "", fmt.Errorf("create file part %s: %w", field, err)
			}
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", fmt.Errorf("copy file part %s: %w", field, err)
			}
		}
		if err := w.Close(); err != nil {
			return nil, "", fmt.Errorf("close multipart body: %w", err)
		}
		return buf, w.FormDataContentType(), nil
	case cl.json != nil:
		payload, err := json.Marshal(cl.json)
		if err != nil {
			return nil, "", err
		}
		return bytes.NewReader(payload), "application/json", nil
	default:
		return nil, "", nil
	}
}
