package service

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/guardforce-admin/pkg/errors"
	"github.com/noah-isme/guardforce-admin/pkg/export"
)

type exportStorage interface {
	Save(name string, data []byte) (string, error)
	Read(name string) ([]byte, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ExportResult is a rendered export.
type ExportResult struct {
	// FileName is the suggested download name.
	FileName string
	// StoredAs is the uuid name under the export directory.
	StoredAs    string
	ContentType string
	Rows        int
	Body        []byte
}

// ExportService renders container items to CSV or PDF and keeps a copy on disk.
type ExportService struct {
	storage   exportStorage
	renderers map[string]export.Renderer
	cfg       ExportConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. CSV and PDF renderers are used when none are given.
func NewExportService(storage exportStorage, cfg ExportConfig, logger *zap.Logger, renderers ...export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	if len(renderers) == 0 {
		renderers = []export.Renderer{export.NewCSVExporter(), export.NewPDFExporter()}
	}
	byExt := make(map[string]export.Renderer, len(renderers))
	for _, r := range renderers {
		byExt[r.Extension()] = r
	}
	return &ExportService{storage: storage, renderers: byExt, cfg: cfg, logger: logger, now: time.Now}
}

// Export renders items (a slice of entity records) in format.
func (s *ExportService) Export(entity, format string, items interface{}) (*ExportResult, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrUnsupported, "Exports are disabled.")
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrBadRequest, fmt.Sprintf("Unsupported export format %q.", format))
	}

	timestamp := s.now().UTC()
	dataset, err := export.FromRecords(fmt.Sprintf("%s export %s", capitalize(entity), timestamp.Format("2006-01-02 15:04")), items)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build export dataset")
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	result := &ExportResult{
		FileName:    fmt.Sprintf("%s_%s.%s", sanitizeFilename(entity), timestamp.Format("20060102_150405"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Rows:        len(dataset.Rows),
		Body:        body,
	}
	if s.storage != nil {
		stored, err := s.storage.Save(uuid.NewString()+"."+renderer.Extension(), body)
		if err != nil {
			s.logger.Warn("failed to store export", zap.String("entity", entity), zap.Error(err))
		} else {
			result.StoredAs = stored
		}
	}
	s.logger.Info("export rendered", zap.String("entity", entity), zap.String("format", format), zap.Int("rows", result.Rows))
	return result, nil
}

// Open reads a stored export back.
func (s *ExportService) Open(storedAs string) ([]byte, error) {
	if s.storage == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export not found")
	}
	body, err := s.storage.Read(storedAs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export not found")
	}
	return body, nil
}

// ContentTypeFor returns the content type of a stored export name.
func (s *ExportService) ContentTypeFor(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if r, ok := s.renderers[ext]; ok {
		return r.ContentType()
	}
	return "application/octet-stream"
}

// Cleanup removes stored exports older than the configured TTL.
func (s *ExportService) Cleanup() ([]string, error) {
	if s.storage == nil {
		return nil, nil
	}
	return s.storage.CleanupOlderThan(s.cfg.TTL)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "export"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".")
	result := replacer.Replace(strings.ToLower(raw))
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
