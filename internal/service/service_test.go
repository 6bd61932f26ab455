package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ai-studymate-be/internal/repository/memory"
	"ai-studymate-be/pkg/llm"
	"ai-studymate-be/pkg/normalize"
	"ai-studymate-be/pkg/vectorstore"
)

// --- shared fakes ---

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error {
	return nil
}

type fakeLLM struct {
	reply     string
	err       error
	chatCalls [][]llm.Message
	genCalls  []string
	lastOpts  llm.Options
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Options{}
	for _, o := range options {
		o(&opts)
	}
	f.lastOpts = opts
	f.chatCalls = append(f.chatCalls, history)
	return f.reply, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	opts := llm.Options{}
	for _, o := range options {
		o(&opts)
	}
	f.lastOpts = opts
	f.genCalls = append(f.genCalls, prompt)
	return f.reply, f.err
}

var _ llm.LLMProvider = &fakeLLM{}

type fakeStoreClient struct {
	nextId      int
	known       map[string]bool
	createCalls int
	deleteCalls []string
	deleteErr   error
	createErr   error
}

func newFakeStoreClient() *fakeStoreClient {
	return &fakeStoreClient{known: map[string]bool{}}
}

func (f *fakeStoreClient) CreateStore(ctx context.Context, name string) (string, error) {
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextId++
	id := fmt.Sprintf("vs_%d", f.nextId)
	f.known[id] = true
	return id, nil
}

func (f *fakeStoreClient) UploadFile(ctx context.Context, data []byte, filename, purpose string) (string, error) {
	return "file_1", nil
}

func (f *fakeStoreClient) AttachAndIndex(ctx context.Context, storeId, fileId string) error {
	return nil
}

func (f *fakeStoreClient) Retrieve(ctx context.Context, storeId string) (*vectorstore.StoreMetadata, error) {
	if !f.known[storeId] {
		return nil, vectorstore.ErrStoreNotFound
	}
	return &vectorstore.StoreMetadata{Id: storeId, Status: "completed"}, nil
}

func (f *fakeStoreClient) DeleteStore(ctx context.Context, storeId string) error {
	f.deleteCalls = append(f.deleteCalls, storeId)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.known, storeId)
	return nil
}

var _ vectorstore.Client = &fakeStoreClient{}

type stubExtractor struct {
	text string
	err  error
}

func (s *stubExtractor) Extract(ctx context.Context, url string) (string, error) {
	return s.text, s.err
}

// --- fixture wiring ---

type fixture struct {
	repo        *memory.SessionRepository
	llm         *fakeLLM
	storeClient *fakeStoreClient
	normalizer  *normalize.Normalizer
	manager     *vectorstore.Manager
}

func newFixture(extractor normalize.TranscriptExtractor) *fixture {
	if extractor == nil {
		extractor = &stubExtractor{err: errors.New("no extractor configured")}
	}
	client := newFakeStoreClient()
	return &fixture{
		repo:        memory.NewSessionRepository(time.Hour, time.Hour),
		llm:         &fakeLLM{reply: "generated output"},
		storeClient: client,
		normalizer:  normalize.NewNormalizer(extractor),
		manager:     vectorstore.NewManager(client),
	}
}

func (f *fixture) materialService() IMaterialService {
	return NewMaterialService(f.repo, f.normalizer, f.manager, nopLogger{})
}

func (f *fixture) studyService() IStudyService {
	return NewStudyService(f.repo, f.normalizer, f.manager, f.llm, nopLogger{})
}

func (f *fixture) chatService() IChatService {
	return NewChatService(f.repo, f.normalizer, f.manager, f.llm, nopLogger{})
}
