package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/agentdesk/internal/client/models"
	"github.com/dmitrijs2005/agentdesk/internal/logging"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader correlates client and server logs.
	RequestIDHeader = "X-Request-Id"

	// AvatarField is the multipart field the upload endpoint reads.
	AvatarField = "avatar"

	maxErrorBody = 64 << 10
)

// HTTPClient talks to the agent API over HTTP/JSON. Credentials come from a
// HeaderSource on every auth-required call; the client keeps none itself.
type HTTPClient struct {
	baseURL        *url.URL
	http           *http.Client
	auth           HeaderSource
	log            logging.Logger
	onUnauthorized func(ctx context.Context)
}

type Option func(*HTTPClient)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.http = hc }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// WithUnauthorizedHook registers fn to run when an auth-required call is
// answered with 401.
func WithUnauthorizedHook(fn func(ctx context.Context)) Option {
	return func(c *HTTPClient) { c.onUnauthorized = fn }
}

func NewHTTPClient(baseURL string, auth HeaderSource, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{
		baseURL: u,
		http:    &http.Client{Timeout: 30 * time.Second},
		auth:    auth,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With("component", "api")
	return c, nil
}

func (c *HTTPClient) SignIn(ctx context.Context, req models.SignInRequest) (string, error) {
	var out models.SignInResponse
	if err := c.doJSON(ctx, opSignIn, []string{"sessions"}, req, &out); err != nil {
		return "", err
	}
	if out.Token == "" {
		return "", &APIError{Op: opSignIn.name, Status: http.StatusOK, Message: opSignIn.fallback}
	}
	return out.Token, nil
}

func (c *HTTPClient) SignUp(ctx context.Context, req models.SignUpRequest) error {
	return c.doJSON(ctx, opSignUp, []string{"users"}, req, nil)
}

func (c *HTTPClient) CurrentUser(ctx context.Context) (*models.User, error) {
	var out models.CurrentUserResponse
	if err := c.doJSON(ctx, opCurrentUser, []string{"me"}, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, AvatarField, quoteEscaper.Replace(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return "", fmt.Errorf("create multipart part: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart body: %w", err)
	}

	var out models.AvatarResponse
	if err := c.do(ctx, opUploadAvatar, []string{"users", "avatar"}, &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.AvatarURL, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, req models.ChangePasswordRequest) (string, error) {
	var out models.MessageResponse
	if err := c.doJSON(ctx, opChangePassword, []string{"users", "password"}, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) CreateRoom(ctx context.Context, req models.CreateRoomRequest) (*models.CreateRoomResponse, error) {
	var out models.CreateRoomResponse
	if err := c.doJSON(ctx, opCreateRoom, []string{"rooms"}, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListRooms(ctx context.Context) ([]models.Room, error) {
	var out []models.Room
	if err := c.doJSON(ctx, opListRooms, []string{"rooms"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) RoomQuestions(ctx context.Context, roomID string) ([]models.Question, error) {
	var out []models.Question
	if err := c.doJSON(ctx, opRoomQuestions, []string{"rooms", url.PathEscape(roomID), "questions"}, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *HTTPClient) doJSON(ctx context.Context, op operation, path []string, in, out any) error {
	if in == nil {
		return c.do(ctx, op, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op.name, err)
	}
	return c.do(ctx, op, path, bytes.NewReader(b), "application/json", out)
}

func (c *HTTPClient) do(ctx context.Context, op operation, path []string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, op.method, c.baseURL.JoinPath(path...).String(), body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op.name, err)
	}

	if op.auth && c.auth != nil {
		for k, vs := range c.auth.AuthHeader(ctx) {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(RequestIDHeader, reqID)

	log := c.log.With("op", op.name, "request_id", reqID)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		return &APIError{Op: op.name, Message: op.fallback, cause: err}
	}
	defer resp.Body.Close()

	log.Debug(ctx, "response", "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Op: op.name, Status: resp.StatusCode, Message: errorMessage(resp.Body, op.fallback)}
		if resp.StatusCode == http.StatusUnauthorized && op.auth && c.onUnauthorized != nil {
			log.Info(ctx, "credential rejected by server")
			c.onUnauthorized(ctx)
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%s: empty response body", op.name)
		}
		return fmt.Errorf("%s: decode response: %w", op.name, err)
	}
	return nil
}

// errorMessage extracts {message} from an error body, best effort.
func errorMessage(body io.Reader, fallback string) string {
	b, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil {
		return fallback
	}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &payload) != nil || strings.TrimSpace(payload.Message) == "" {
		return fallback
	}
	return payload.Message
}
