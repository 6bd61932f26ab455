package store

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaterialKind tags the payload variant of an ingested material.
type MaterialKind string

const (
	KindText        MaterialKind = "text"
	KindVideoLink   MaterialKind = "video_link"
	KindDocument    MaterialKind = "document"
	KindUnsupported MaterialKind = "unsupported"
)

// Material is the user-supplied lecture content. The kind decides which
// payload fields are populated: text and video_link carry Text, document
// carries Data + Filename. Use the constructors so kind and payload agree.
type Material struct {
	Id        uuid.UUID    `json:"id"`
	Kind      MaterialKind `json:"kind"`
	Text      string       `json:"text,omitempty"`
	Data      []byte       `json:"-"`
	Filename  string       `json:"filename,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

func NewTextMaterial(content string) *Material {
	return &Material{
		Id:        uuid.New(),
		Kind:      KindText,
		Text:      content,
		CreatedAt: time.Now(),
	}
}

func NewVideoLinkMaterial(url string) *Material {
	return &Material{
		Id:        uuid.New(),
		Kind:      KindVideoLink,
		Text:      url,
		CreatedAt: time.Now(),
	}
}

func NewDocumentMaterial(filename string, data []byte) *Material {
	return &Material{
		Id:        uuid.New(),
		Kind:      KindDocument,
		Data:      data,
		Filename:  filename,
		CreatedAt: time.Now(),
	}
}

// StoreHandle references the external searchable index built over a material.
// A handle is only trusted while the external service still resolves it.
type StoreHandle struct {
	StoreId    string    `json:"store_id"`
	MaterialId uuid.UUID `json:"material_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// Artifact kinds kept on the session for download.
const (
	ArtifactNotes = "notes"
	ArtifactQuiz  = "quiz"
)

// StudySession is the in-memory state of one logical user session: the
// current material, the knowledge-store handle over it, the tutoring
// conversation, and the latest generated artifacts.
//
// Single-writer discipline: callers must hold Mu for the whole pipeline run
// that reads or mutates the session (submit material, chat turn, quiz).
type StudySession struct {
	Id        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Material    *Material    `json:"material"`
	StoreHandle *StoreHandle `json:"store_handle"`

	Conversation Conversation `json:"conversation"`

	// Latest generated artifacts by kind (notes, quiz), raw model output.
	Artifacts map[string]string `json:"artifacts"`

	Mu sync.Mutex `json:"-"`
}

func NewStudySession(id string) *StudySession {
	return &StudySession{
		Id:        id,
		CreatedAt: time.Now(),
		Artifacts: make(map[string]string),
	}
}

// ReplaceMaterial swaps in new material wholesale and drops state derived
// from the previous one. Returns the stale store handle, if any, so the
// caller can tear the external resource down best-effort.
func (s *StudySession) ReplaceMaterial(m *Material) *StoreHandle {
	stale := s.StoreHandle
	s.Material = m
	s.StoreHandle = nil
	s.Conversation.Reset()
	s.Artifacts = make(map[string]string)
	return stale
}
