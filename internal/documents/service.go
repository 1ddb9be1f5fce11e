package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"docflow-backend/internal/extraction"
	"docflow-backend/internal/projects"
	"docflow-backend/internal/shared/metrics"
	"docflow-backend/internal/shared/storage/object"
	"docflow-backend/internal/shared/telemetry"
	"docflow-backend/internal/shared/util"
)

// ProjectSource resolves a project the caller owns. Implemented by the
// projects repo.
type ProjectSource interface {
	GetByOwner(ctx context.Context, ownerID, projectID string) (projects.Project, error)
}

type Service struct {
	repo       Repo
	projects   ProjectSource
	store      object.Store
	maxBytes   int64
	staleAfter time.Duration
	now        func() time.Time
}

func NewService(repo Repo, projectSource ProjectSource, store object.Store, maxBytes int64, staleAfter time.Duration) *Service {
	return &Service{
		repo:       repo,
		projects:   projectSource,
		store:      store,
		maxBytes:   maxBytes,
		staleAfter: staleAfter,
		now:        time.Now,
	}
}

// UploadInput carries one incoming file. DeclaredMimeType is whatever the
// client claimed in the multipart part, possibly empty.
type UploadInput struct {
	Filename         string
	DeclaredMimeType string
	Size             int64
	Body             io.Reader
}

// Upload stores the blob and records the document as uploaded. The blob
// goes first; if the record insert then fails the blob is removed so no
// orphan is left behind.
func (s *Service) Upload(ctx context.Context, userID, projectID string, in UploadInput) (Document, error) {
	project, err := s.projects.GetByOwner(ctx, userID, projectID)
	if err != nil {
		return Document{}, err
	}
	if in.Size > s.maxBytes {
		return Document{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	if in.Size == 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	name, err := util.SanitizeFileName(in.Filename)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}

	mimeType := resolveMimeType(in.DeclaredMimeType, name)
	storageKey := fmt.Sprintf("%s/%s-%s", projectID, uuid.NewString(), name)

	written, err := s.store.Put(ctx, storageKey, mimeType, io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("store blob: %w", err)
	}
	if written > s.maxBytes {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("document.upload.blob_orphaned", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	if written == 0 {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("document.upload.blob_orphaned", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	now := s.now().UTC()
	d := Document{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		OrgID:      project.OrgID,
		OwnerID:    userID,
		Name:       name,
		MimeType:   mimeType,
		FileFormat: extraction.FileFormat(name),
		SizeBytes:  written,
		StorageKey: storageKey,
		Status:     StatusUploaded,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		if delErr := s.store.Delete(ctx, storageKey); delErr != nil {
			telemetry.Warn("document.upload.blob_orphaned", map[string]any{
				"storage_key": storageKey,
				"error":       delErr.Error(),
			})
		}
		return Document{}, fmt.Errorf("create document record: %w", err)
	}

	metrics.IncUploads()
	telemetry.Info("document.uploaded", map[string]any{
		"document_id": d.ID,
		"project_id":  projectID,
		"size_bytes":  written,
		"mime_type":   mimeType,
	})
	return d, nil
}

// Extract runs the pipeline for one document: claim it as processing,
// read the blob, compute the result and persist the terminal status. The
// claim is exclusive per document; a concurrent request gets ErrConflict
// unless the previous claim has gone stale.
func (s *Service) Extract(ctx context.Context, userID, documentID string) (Document, error) {
	d, err := s.repo.GetByOwner(ctx, userID, documentID)
	if err != nil {
		return Document{}, err
	}

	start := s.now()
	now := start.UTC()
	if err := s.repo.MarkProcessing(ctx, documentID, now, now.Add(-s.staleAfter)); err != nil {
		if errors.Is(err, ErrConflict) {
			metrics.IncExtractionConflict()
		}
		return Document{}, err
	}
	metrics.IncExtractionStarted()
	s.logTransition(documentID, d.Status, StatusProcessing)

	result, err := s.runExtraction(ctx, d)
	if err != nil {
		finishedAt := s.now().UTC()
		if failErr := s.repo.MarkFailed(ctx, documentID, finishedAt); failErr != nil {
			telemetry.Error("document.extract.mark_failed", map[string]any{
				"document_id": documentID,
				"error":       failErr.Error(),
			})
		}
		metrics.IncExtractionFailed()
		s.logTransition(documentID, StatusProcessing, StatusFailed)
		return Document{}, fmt.Errorf("%w: %s", ErrExtractionFailed, err.Error())
	}

	finishedAt := s.now().UTC()
	uploadedAt := d.CreatedAt
	result.Metadata.UploadedAt = &uploadedAt
	result.Metadata.ExtractedAt = &finishedAt

	if err := s.repo.MarkExtracted(ctx, documentID, result, finishedAt); err != nil {
		return Document{}, fmt.Errorf("persist extraction result: %w", err)
	}
	metrics.IncExtractionCompleted()
	metrics.ObserveExtractionDurationMs(float64(finishedAt.Sub(start)) / float64(time.Millisecond))
	s.logTransition(documentID, StatusProcessing, StatusExtracted)

	return s.repo.GetByOwner(ctx, userID, documentID)
}

func (s *Service) runExtraction(ctx context.Context, d Document) (*extraction.Result, error) {
	blob, err := s.store.Open(ctx, d.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", d.StorageKey, err)
	}
	defer blob.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, blob); err != nil {
		return nil, fmt.Errorf("read blob %s: %w", d.StorageKey, err)
	}

	result := extraction.Extract(buf.Bytes(), d.MimeType, d.Name)
	return &result, nil
}

func (s *Service) List(ctx context.Context, userID, projectID string) ([]Document, error) {
	if _, err := s.projects.GetByOwner(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListByProject(ctx, userID, projectID)
}

func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	return s.repo.GetByOwner(ctx, userID, documentID)
}

// Download returns the document record and a reader over its blob. The
// caller closes the reader.
func (s *Service) Download(ctx context.Context, userID, documentID string) (Document, io.ReadCloser, error) {
	d, err := s.repo.GetByOwner(ctx, userID, documentID)
	if err != nil {
		return Document{}, nil, err
	}
	blob, err := s.store.Open(ctx, d.StorageKey)
	if err != nil {
		return Document{}, nil, fmt.Errorf("open blob %s: %w", d.StorageKey, err)
	}
	return d, blob, nil
}

func (s *Service) Rename(ctx context.Context, userID, documentID, name string) (Document, error) {
	clean, err := util.SanitizeFileName(name)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
	}
	if err := s.repo.Rename(ctx, userID, documentID, clean, s.now().UTC()); err != nil {
		return Document{}, err
	}
	return s.repo.GetByOwner(ctx, userID, documentID)
}

// Delete removes the record first, then the blob best-effort. A missing
// blob is not an error.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	d, err := s.repo.GetByOwner(ctx, userID, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, documentID); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, d.StorageKey); err != nil {
		telemetry.Warn("document.delete.blob_orphaned", map[string]any{
			"document_id": documentID,
			"storage_key": d.StorageKey,
			"error":       err.Error(),
		})
	}
	return nil
}

func (s *Service) logTransition(documentID, from, to string) {
	telemetry.Info("document.status_transition", map[string]any{
		"document_id": documentID,
		"from":        from,
		"to":          to,
	})
}

// resolveMimeType prefers what the client declared, falls back to the
// extension and finally to the generic binary type.
func resolveMimeType(declared, filename string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		// TypeByExtension may append a charset parameter; keep just the type.
		if base, _, err := mime.ParseMediaType(byExt); err == nil {
			return base
		}
		return byExt
	}
	return "application/octet-stream"
}
