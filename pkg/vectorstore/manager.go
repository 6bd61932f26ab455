package vectorstore

import (
	"context"
	"errors"
	"time"

	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/store"
)

// Payload is the single document uploaded into a knowledge store: the
// material's original binary blob, or its normalized text encoded as bytes.
type Payload struct {
	Data     []byte
	Filename string
}

// Manager owns the create-once/reuse-if-valid lifecycle of the per-session
// knowledge store. Callers must hold the session lock across EnsureStore so
// the handle swap has no window where two handles claim validity.
type Manager struct {
	client Client
}

func NewManager(client Client) *Manager {
	return &Manager{client: client}
}

// EnsureStore returns the id of a valid knowledge store backing the
// session's current material. Fast path: an existing handle for the same
// material that still resolves, one external call. Otherwise a store is
// created, the payload uploaded and indexed, and the handle replaced.
//
// Idempotent: unchanged material plus a still-valid handle never creates a
// second store.
func (m *Manager) EnsureStore(ctx context.Context, sess *store.StudySession, payload Payload) (string, error) {
	material := sess.Material
	if material == nil {
		return "", apperror.InputValidation("no material has been uploaded yet")
	}

	if handle := sess.StoreHandle; handle != nil && handle.MaterialId == material.Id {
		meta, err := m.client.Retrieve(ctx, handle.StoreId)
		if err == nil && meta.Id == handle.StoreId {
			return handle.StoreId, nil
		}
		if err != nil && !errors.Is(err, ErrStoreNotFound) {
			// Lookup itself failed; recreation below is the one automatic
			// recovery attempt for this action.
			sess.StoreHandle = nil
			return m.create(ctx, sess, payload, apperror.StoreValidation(err))
		}
		// Stale handle: the service no longer resolves it.
		sess.StoreHandle = nil
		return m.create(ctx, sess, payload, nil)
	}

	return m.create(ctx, sess, payload, nil)
}

// create provisions a new store and swaps the session handle. validationErr
// carries the reason a previous handle was abandoned: if creation fails
// after a failed validation, that second failure is what the caller sees as
// terminal.
func (m *Manager) create(ctx context.Context, sess *store.StudySession, payload Payload, validationErr error) (string, error) {
	material := sess.Material

	storeId, err := m.client.CreateStore(ctx, "studymate-"+material.Id.String())
	if err != nil {
		return "", m.creationFailure(err, validationErr)
	}

	fileId, err := m.client.UploadFile(ctx, payload.Data, payload.Filename, "assistants")
	if err != nil {
		m.discard(ctx, storeId)
		return "", m.creationFailure(err, validationErr)
	}

	if err := m.client.AttachAndIndex(ctx, storeId, fileId); err != nil {
		m.discard(ctx, storeId)
		return "", m.creationFailure(err, validationErr)
	}

	sess.StoreHandle = &store.StoreHandle{
		StoreId:    storeId,
		MaterialId: material.Id,
		CreatedAt:  time.Now(),
	}
	return storeId, nil
}

// discard deletes a store that was created but never handed to the session,
// so a failed upload or indexing step does not orphan the external resource.
// Best-effort: the creation error is what the caller sees either way.
func (m *Manager) discard(ctx context.Context, storeId string) {
	_ = m.client.DeleteStore(ctx, storeId)
}

func (m *Manager) creationFailure(err, validationErr error) error {
	if validationErr != nil {
		return apperror.Wrapf(apperror.StoreCreation(err), "recreation after failed validation: %v", validationErr)
	}
	return apperror.StoreCreation(err)
}

// Teardown deletes the store behind a handle best-effort. The external
// resource would otherwise leak past the session's lifetime.
func (m *Manager) Teardown(ctx context.Context, handle *store.StoreHandle) error {
	if handle == nil {
		return nil
	}
	if err := m.client.DeleteStore(ctx, handle.StoreId); err != nil && !errors.Is(err, ErrStoreNotFound) {
		return err
	}
	return nil
}
