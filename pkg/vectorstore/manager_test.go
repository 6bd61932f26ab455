package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/store"
)

type fakeStoreClient struct {
	createCalls   int
	retrieveCalls int
	uploads       []string
	attached      map[string]string
	deleted       []string

	createErr   error
	uploadErr   error
	retrieveErr error
	attachErr   error

	known map[string]bool // store ids the service resolves
}

func newFakeStoreClient() *fakeStoreClient {
	return &fakeStoreClient{
		attached: make(map[string]string),
		known:    make(map[string]bool),
	}
}

func (f *fakeStoreClient) CreateStore(ctx context.Context, name string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createCalls++
	id := fmt.Sprintf("vs_%d", f.createCalls)
	f.known[id] = true
	return id, nil
}

func (f *fakeStoreClient) UploadFile(ctx context.Context, data []byte, filename, purpose string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	f.uploads = append(f.uploads, filename)
	return fmt.Sprintf("file_%d", len(f.uploads)), nil
}

func (f *fakeStoreClient) AttachAndIndex(ctx context.Context, storeId, fileId string) error {
	if f.attachErr != nil {
		return f.attachErr
	}
	f.attached[storeId] = fileId
	return nil
}

func (f *fakeStoreClient) Retrieve(ctx context.Context, storeId string) (*StoreMetadata, error) {
	f.retrieveCalls++
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	if !f.known[storeId] {
		return nil, ErrStoreNotFound
	}
	return &StoreMetadata{Id: storeId, Status: "completed", FileCount: 1}, nil
}

func (f *fakeStoreClient) DeleteStore(ctx context.Context, storeId string) error {
	f.deleted = append(f.deleted, storeId)
	delete(f.known, storeId)
	return nil
}

func sessionWithMaterial() *store.StudySession {
	sess := store.NewStudySession("sess-1")
	sess.Material = store.NewTextMaterial("lecture content")
	return sess
}

func TestEnsureStoreIdempotent(t *testing.T) {
	client := newFakeStoreClient()
	m := NewManager(client)
	sess := sessionWithMaterial()
	payload := Payload{Data: []byte("lecture content"), Filename: "material.txt"}

	first, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("first EnsureStore() error = %v", err)
	}
	if first != "vs_1" {
		t.Errorf("first store id = %q, want vs_1", first)
	}

	second, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("second EnsureStore() error = %v", err)
	}
	if second != first {
		t.Errorf("second store id = %q, want %q", second, first)
	}
	if client.createCalls != 1 {
		t.Errorf("createCalls = %d, want 1 (second call must validate, not create)", client.createCalls)
	}
	if client.retrieveCalls != 1 {
		t.Errorf("retrieveCalls = %d, want 1 fast-path validation", client.retrieveCalls)
	}
}

func TestEnsureStoreRecreatesStaleHandle(t *testing.T) {
	client := newFakeStoreClient()
	m := NewManager(client)
	sess := sessionWithMaterial()
	payload := Payload{Data: []byte("x"), Filename: "material.txt"}

	first, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("EnsureStore() error = %v", err)
	}

	// Simulate external deletion: the handle no longer resolves.
	delete(client.known, first)

	second, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("EnsureStore() after stale handle error = %v", err)
	}
	if second == first {
		t.Error("expected a fresh store id after the old one vanished")
	}
	if sess.StoreHandle == nil || sess.StoreHandle.StoreId != second {
		t.Error("session handle not swapped to the new store")
	}
}

func TestEnsureStoreMaterialChangeForcesNewStore(t *testing.T) {
	client := newFakeStoreClient()
	m := NewManager(client)
	sess := sessionWithMaterial()
	payload := Payload{Data: []byte("x"), Filename: "material.txt"}

	first, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("EnsureStore() error = %v", err)
	}

	sess.ReplaceMaterial(store.NewTextMaterial("different lecture"))

	second, err := m.EnsureStore(context.Background(), sess, payload)
	if err != nil {
		t.Fatalf("EnsureStore() error = %v", err)
	}
	if second == first {
		t.Error("material replacement must not reuse the old store")
	}
}

func TestEnsureStoreCreationFailureIsTerminal(t *testing.T) {
	client := newFakeStoreClient()
	client.createErr = errors.New("quota exceeded")
	m := NewManager(client)
	sess := sessionWithMaterial()

	_, err := m.EnsureStore(context.Background(), sess, Payload{Data: []byte("x"), Filename: "material.txt"})
	if !apperror.IsKind(err, apperror.KindStoreCreation) {
		t.Fatalf("EnsureStore() error = %v, want store creation error", err)
	}
	if sess.StoreHandle != nil {
		t.Error("failed creation must not leave a handle behind")
	}
}

func TestEnsureStoreUploadFailureDiscardsStore(t *testing.T) {
	client := newFakeStoreClient()
	client.uploadErr = errors.New("upload rejected")
	m := NewManager(client)
	sess := sessionWithMaterial()

	_, err := m.EnsureStore(context.Background(), sess, Payload{Data: []byte("x"), Filename: "material.txt"})
	if !apperror.IsKind(err, apperror.KindStoreCreation) {
		t.Fatalf("EnsureStore() error = %v, want store creation error", err)
	}
	if sess.StoreHandle != nil {
		t.Error("failed upload must not leave a handle behind")
	}
	// The half-built store has no handle pointing at it, so it must be deleted.
	if len(client.deleted) != 1 || client.deleted[0] != "vs_1" {
		t.Errorf("deleted = %v, want [vs_1]", client.deleted)
	}
}

func TestEnsureStoreIndexFailureIsTerminal(t *testing.T) {
	client := newFakeStoreClient()
	client.attachErr = errors.New("indexing failed")
	m := NewManager(client)
	sess := sessionWithMaterial()

	_, err := m.EnsureStore(context.Background(), sess, Payload{Data: []byte("x"), Filename: "material.txt"})
	if !apperror.IsKind(err, apperror.KindStoreCreation) {
		t.Fatalf("EnsureStore() error = %v, want store creation error", err)
	}
	if sess.StoreHandle != nil {
		t.Error("failed indexing must not leave a handle behind")
	}
	if len(client.deleted) != 1 || client.deleted[0] != "vs_1" {
		t.Errorf("deleted = %v, want [vs_1]", client.deleted)
	}
}

func TestEnsureStoreRecreationFailureKeepsValidationContext(t *testing.T) {
	client := newFakeStoreClient()
	m := NewManager(client)
	sess := sessionWithMaterial()
	payload := Payload{Data: []byte("x"), Filename: "material.txt"}

	if _, err := m.EnsureStore(context.Background(), sess, payload); err != nil {
		t.Fatalf("EnsureStore() error = %v", err)
	}

	// Validation breaks for a reason other than a missing store, and the
	// recreation attempt fails too. The final error must carry both causes.
	client.retrieveErr = errors.New("backend unavailable")
	client.createErr = errors.New("quota exceeded")

	_, err := m.EnsureStore(context.Background(), sess, payload)
	if !apperror.IsKind(err, apperror.KindStoreCreation) {
		t.Fatalf("EnsureStore() error = %v, want store creation error", err)
	}
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("EnsureStore() error = %T, want *apperror.AppError", err)
	}
	detail := appErr.DetailString()
	if !strings.Contains(detail, "recreation after failed validation") {
		t.Errorf("detail = %q, want the failed validation noted", detail)
	}
	if !strings.Contains(detail, "quota exceeded") {
		t.Errorf("detail = %q, want the creation cause preserved", detail)
	}
	if sess.StoreHandle != nil {
		t.Error("failed recreation must not leave a handle behind")
	}
}

func TestTeardownDeletesStore(t *testing.T) {
	client := newFakeStoreClient()
	m := NewManager(client)
	sess := sessionWithMaterial()

	id, err := m.EnsureStore(context.Background(), sess, Payload{Data: []byte("x"), Filename: "material.txt"})
	if err != nil {
		t.Fatalf("EnsureStore() error = %v", err)
	}

	if err := m.Teardown(context.Background(), sess.StoreHandle); err != nil {
		t.Fatalf("Teardown() error = %v", err)
	}
	if len(client.deleted) != 1 || client.deleted[0] != id {
		t.Errorf("deleted = %v, want [%s]", client.deleted, id)
	}

	// Teardown of a nil handle is a no-op.
	if err := m.Teardown(context.Background(), nil); err != nil {
		t.Fatalf("Teardown(nil) error = %v", err)
	}
}
