package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrStoreNotFound means the external service no longer resolves the store.
var ErrStoreNotFound = errors.New("vector store not found")

// StoreMetadata is what the service reports about an existing store.
type StoreMetadata struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	FileCount int    `json:"file_count"`
}

// Client is the indexing/search capability: create a store, upload a file,
// attach it and block until indexed, resolve a store, tear one down.
type Client interface {
	CreateStore(ctx context.Context, name string) (string, error)
	UploadFile(ctx context.Context, data []byte, filename, purpose string) (string, error)
	AttachAndIndex(ctx context.Context, storeId, fileId string) error
	Retrieve(ctx context.Context, storeId string) (*StoreMetadata, error)
	DeleteStore(ctx context.Context, storeId string) error
}

const defaultBaseURL = "https://api.openai.com/v1"

// OpenAIClient talks to the OpenAI files + vector-stores endpoints.
type OpenAIClient struct {
	APIKey  string
	BaseURL string
	Client  *http.Client

	// Indexing poll: fixed short backoff, bounded attempts.
	PollInterval time.Duration
	MaxPolls     int
}

var _ Client = &OpenAIClient{}

func NewOpenAIClient(apiKey, baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &OpenAIClient{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout: 60 * time.Second,
		},
		PollInterval: 2 * time.Second,
		MaxPolls:     60,
	}
}

// --- Wire payloads (internal to this package) ---

type createStoreRequest struct {
	Name string `json:"name"`
}

type storeResponse struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	FileCounts struct {
		Total int `json:"total"`
	} `json:"file_counts"`
}

type fileResponse struct {
	Id string `json:"id"`
}

type attachRequest struct {
	FileId string `json:"file_id"`
}

type storeFileResponse struct {
	Id        string `json:"id"`
	Status    string `json:"status"` // in_progress | completed | failed | cancelled
	LastError *struct {
		Message string `json:"message"`
	} `json:"last_error"`
}

func (c *OpenAIClient) CreateStore(ctx context.Context, name string) (string, error) {
	body, err := c.doJSON(ctx, "POST", "/vector_stores", createStoreRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}

	var resp storeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal create response: %w", err)
	}
	if resp.Id == "" {
		return "", fmt.Errorf("create vector store: empty id in response")
	}
	return resp.Id, nil
}

func (c *OpenAIClient) UploadFile(ctx context.Context, data []byte, filename, purpose string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("purpose", purpose); err != nil {
		return "", fmt.Errorf("write purpose field: %w", err)
	}
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(data); err != nil {
		return "", fmt.Errorf("write file payload: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/files", &buf)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	body, err := c.send(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}

	var resp fileResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshal upload response: %w", err)
	}
	if resp.Id == "" {
		return "", fmt.Errorf("upload file: empty id in response")
	}
	return resp.Id, nil
}

// AttachAndIndex attaches the file to the store and blocks until the service
// reports indexing finished. The wait is a bounded poll with a fixed short
// backoff, not a busy spin.
func (c *OpenAIClient) AttachAndIndex(ctx context.Context, storeId, fileId string) error {
	path := "/vector_stores/" + storeId + "/files"
	if _, err := c.doJSON(ctx, "POST", path, attachRequest{FileId: fileId}); err != nil {
		return fmt.Errorf("attach file to store: %w", err)
	}

	statusPath := path + "/" + fileId
	for attempt := 0; attempt < c.MaxPolls; attempt++ {
		body, err := c.doJSON(ctx, "GET", statusPath, nil)
		if err != nil {
			return fmt.Errorf("poll indexing status: %w", err)
		}

		var resp storeFileResponse
		if err := json.Unmarshal(body, &resp); err != nil {
			return fmt.Errorf("unmarshal status response: %w", err)
		}

		switch resp.Status {
		case "completed":
			return nil
		case "failed", "cancelled":
			reason := resp.Status
			if resp.LastError != nil {
				reason = resp.LastError.Message
			}
			return fmt.Errorf("indexing %s: %s", resp.Status, reason)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
	return fmt.Errorf("indexing did not complete within %d polls", c.MaxPolls)
}

func (c *OpenAIClient) Retrieve(ctx context.Context, storeId string) (*StoreMetadata, error) {
	body, err := c.doJSON(ctx, "GET", "/vector_stores/"+storeId, nil)
	if err != nil {
		return nil, err
	}

	var resp storeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal retrieve response: %w", err)
	}
	return &StoreMetadata{
		Id:        resp.Id,
		Name:      resp.Name,
		Status:    resp.Status,
		FileCount: resp.FileCounts.Total,
	}, nil
}

func (c *OpenAIClient) DeleteStore(ctx context.Context, storeId string) error {
	if _, err := c.doJSON(ctx, "DELETE", "/vector_stores/"+storeId, nil); err != nil {
		return fmt.Errorf("delete vector store: %w", err)
	}
	return nil
}

func (c *OpenAIClient) doJSON(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	return c.send(req)
}

func (c *OpenAIClient) send(req *http.Request) ([]byte, error) {
	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrStoreNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	return body, nil
}
