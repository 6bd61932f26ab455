package service

import (
	"context"
	"strings"

	"ai-studymate-be/internal/dto"
	"ai-studymate-be/internal/pkg/logger"
	"ai-studymate-be/internal/repository/memory"
	"ai-studymate-be/pkg/apperror"
	"ai-studymate-be/pkg/normalize"
	"ai-studymate-be/pkg/store"
	"ai-studymate-be/pkg/vectorstore"
)

type IMaterialService interface {
	IngestText(ctx context.Context, sessionId string, req *dto.IngestTextRequest) (*dto.IngestMaterialResponse, error)
	IngestVideo(ctx context.Context, sessionId string, req *dto.IngestVideoRequest) (*dto.IngestMaterialResponse, error)
	IngestDocument(ctx context.Context, sessionId string, filename string, data []byte) (*dto.IngestMaterialResponse, error)
	Status(ctx context.Context, sessionId string) (*dto.MaterialStatusResponse, error)
}

type materialService struct {
	sessionRepo  *memory.SessionRepository
	normalizer   *normalize.Normalizer
	storeManager *vectorstore.Manager
	logger       logger.ILogger
}

func NewMaterialService(
	sessionRepo *memory.SessionRepository,
	normalizer *normalize.Normalizer,
	storeManager *vectorstore.Manager,
	log logger.ILogger,
) IMaterialService {
	return &materialService{
		sessionRepo:  sessionRepo,
		normalizer:   normalizer,
		storeManager: storeManager,
		logger:       log,
	}
}

func (s *materialService) IngestText(ctx context.Context, sessionId string, req *dto.IngestTextRequest) (*dto.IngestMaterialResponse, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperror.InputValidation("the pasted text is empty")
	}
	return s.replace(ctx, sessionId, store.NewTextMaterial(req.Text))
}

func (s *materialService) IngestVideo(ctx context.Context, sessionId string, req *dto.IngestVideoRequest) (*dto.IngestMaterialResponse, error) {
	material := store.NewVideoLinkMaterial(req.Url)

	// Fetch the transcript up front so a video without captions is rejected
	// at submission time, not on the first study action.
	if _, err := s.normalizer.Normalize(ctx, material); err != nil {
		return nil, err
	}

	return s.replace(ctx, sessionId, material)
}

func (s *materialService) IngestDocument(ctx context.Context, sessionId string, filename string, data []byte) (*dto.IngestMaterialResponse, error) {
	if len(data) == 0 {
		return nil, apperror.InputValidation("the uploaded file is empty")
	}
	material := store.NewDocumentMaterial(filename, data)

	// Same eager check as video: a file with no readable text fails here.
	if _, err := s.normalizer.Normalize(ctx, material); err != nil {
		return nil, err
	}

	return s.replace(ctx, sessionId, material)
}

// replace swaps the session material and tears down the knowledge store of
// the previous one. Teardown is best-effort: a delete failure is logged and
// the ingest still succeeds.
func (s *materialService) replace(ctx context.Context, sessionId string, material *store.Material) (*dto.IngestMaterialResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	stale := sess.ReplaceMaterial(material)
	if stale != nil {
		if err := s.storeManager.Teardown(ctx, stale); err != nil {
			s.logger.Warn("MaterialService", "failed to delete stale knowledge store", map[string]interface{}{
				"session_id": sessionId,
				"store_id":   stale.StoreId,
				"error":      err.Error(),
			})
		}
	}

	s.logger.Info("MaterialService", "material replaced", map[string]interface{}{
		"session_id":  sessionId,
		"material_id": material.Id,
		"kind":        string(material.Kind),
	})

	return &dto.IngestMaterialResponse{
		SessionId:  sessionId,
		MaterialId: material.Id,
		Kind:       string(material.Kind),
		Filename:   material.Filename,
		CreatedAt:  material.CreatedAt,
	}, nil
}

func (s *materialService) Status(ctx context.Context, sessionId string) (*dto.MaterialStatusResponse, error) {
	sess := s.sessionRepo.GetOrCreate(sessionId)
	sess.Mu.Lock()
	defer sess.Mu.Unlock()

	res := &dto.MaterialStatusResponse{
		HasStore: sess.StoreHandle != nil,
	}
	if m := sess.Material; m != nil {
		res.HasMaterial = true
		res.MaterialId = &m.Id
		res.Kind = string(m.Kind)
		res.Filename = m.Filename
		res.UploadedAt = &m.CreatedAt
	}
	return res, nil
}
