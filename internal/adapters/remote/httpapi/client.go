package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"github.com/bnema/devicepool-cli/internal/domain"
	"github.com/bnema/devicepool-cli/internal/ports"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	maxResponseBytes = 1 << 20
	userAgent        = "dp/cli"
	defaultTimeout   = 30 * time.Second
)

// TokenSource yields the bearer token for authenticated calls. An empty
// token means no session is stored.
type TokenSource interface {
	Get(ctx context.Context) (string, error)
}

// Client talks to the remote job-execution service. Apart from SubmitTask it
// never returns errors: failures are logged and mapped to fallback values.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
}

var _ ports.RemoteService = (*Client)(nil)

func NewClient(baseURL string, httpClient *http.Client, tokens TokenSource) (*Client, error) {
	baseURL = strings.TrimSuffix(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("remote service base url is empty")
	}
	if tokens == nil {
		return nil, errors.New("remote service token source is nil")
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{baseURL: baseURL, httpClient: httpClient, tokens: tokens}, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) Login(ctx context.Context, username, password string) ports.LoginResult {
	body, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return ports.LoginResult{Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		log.Warn().Err(err).Msg("build login request failed")
		return ports.LoginResult{Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	status, payload, err := c.do(req)
	if err != nil {
		log.Warn().Err(err).Msg("login request failed")
		return ports.LoginResult{Message: "Network error: " + err.Error()}
	}

	var parsed loginResponse
	decodeErr := json.Unmarshal(payload, &parsed)
	if !isSuccess(status) {
		message := strings.TrimSpace(parsed.Message)
		if message == "" {
			message = "Login failed"
		}
		log.Warn().Int("status", status).Str("message", message).Msg("login rejected")
		return ports.LoginResult{Message: message}
	}
	if decodeErr != nil {
		log.Warn().Err(decodeErr).Msg("decode login response failed")
		return ports.LoginResult{Message: "Login failed"}
	}

	return ports.LoginResult{Success: parsed.Success, Token: parsed.Token, Message: parsed.Message}
}

func (c *Client) ValidateToken(ctx context.Context) ports.TokenValidation {
	token, err := c.tokens.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("read session token failed")
		return ports.TokenValidation{}
	}
	if token == "" {
		return ports.TokenValidation{}
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodGet, "/auth/validate", nil, token)
	if err != nil {
		log.Warn().Err(err).Msg("build validate request failed")
		return ports.TokenValidation{}
	}

	status, _, err := c.do(req)
	if err != nil {
		log.Warn().Err(err).Msg("token validation failed")
		return ports.TokenValidation{}
	}

	return ports.TokenValidation{Valid: isSuccess(status)}
}

func (c *Client) GetStatus(ctx context.Context) domain.PoolStatus {
	var status domain.PoolStatus
	if err := c.getJSON(ctx, "/status", &status); err != nil {
		log.Warn().Err(err).Msg("fetch pool status failed")
		return domain.PoolStatus{}
	}

	return status
}

func (c *Client) GetTasks(ctx context.Context) []domain.Task {
	var tasks []domain.Task
	if err := c.getJSON(ctx, "/tasks", &tasks); err != nil {
		log.Warn().Err(err).Msg("fetch tasks failed")
		return []domain.Task{}
	}
	if tasks == nil {
		return []domain.Task{}
	}

	return tasks
}

func (c *Client) SubmitTask(ctx context.Context, code string, file *domain.FileInput) (domain.Task, error) {
	body, contentType, err := encodeSubmission(code, file)
	if err != nil {
		return domain.Task{}, err
	}

	req, err := c.newAuthorizedRequest(ctx, http.MethodPost, "/tasks", body, "")
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "build submit task request")
	}
	req.Header.Set("Content-Type", contentType)

	status, payload, err := c.do(req)
	if err != nil {
		return domain.Task{}, errors.Wrap(err, "submit task")
	}
	if !isSuccess(status) {
		return domain.Task{}, submitError(status, payload)
	}

	var task domain.Task
	if err := json.Unmarshal(payload, &task); err != nil {
		return domain.Task{}, errors.Wrap(err, "decode submitted task")
	}

	return task, nil
}

func encodeSubmission(code string, file *domain.FileInput) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if code != "" {
		if err := writer.WriteField("code", code); err != nil {
			return nil, "", errors.Wrap(err, "encode code field")
		}
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, file.Name))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)

		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", errors.Wrap(err, "create file part")
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", errors.Wrapf(err, "read file %s", file.Name)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "close multipart body")
	}

	return body, writer.FormDataContentType(), nil
}

func submitError(status int, payload []byte) error {
	var parsed errorResponse
	if err := json.Unmarshal(payload, &parsed); err == nil {
		if message := strings.TrimSpace(parsed.Message); message != "" {
			return errors.New(message)
		}
		if message := strings.TrimSpace(parsed.Error); message != "" {
			return errors.New(message)
		}
	}

	return errors.Errorf("Failed to submit task (status %d)", status)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := c.newAuthorizedRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return errors.Wrapf(err, "build request %s", path)
	}

	status, payload, err := c.do(req)
	if err != nil {
		return errors.Wrapf(err, "call %s", path)
	}
	if !isSuccess(status) {
		return errors.Errorf("request %s %s failed: status=%d body=%s", req.Method, path, status, strings.TrimSpace(string(payload)))
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.Wrapf(err, "decode %s response", path)
	}

	return nil
}

// newAuthorizedRequest attaches the bearer token. When token is empty it is
// read from the token source at call time; no header is set without one.
func (c *Client) newAuthorizedRequest(ctx context.Context, method, path string, body io.Reader, token string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	if token == "" {
		token, err = c.tokens.Get(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "read session token")
		}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (int, []byte, error) {
	log.Debug().Str("method", req.Method).Str("path", req.URL.Path).Msg("remote request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, errors.Wrap(err, "read response")
	}

	return resp.StatusCode, payload, nil
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
