// Package backup exports account data to workbooks and JSON documents,
// restores it from uploaded files or stored backups, and records every
// restore as a RestoreRun.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appsync "github.com/simpro/backend/internal/application/sync"
	"github.com/simpro/backend/internal/domain/bulk"
	"github.com/simpro/backend/internal/domain/shared"
	"github.com/simpro/backend/internal/domain/snapshot"
	sheetimport "github.com/simpro/backend/internal/infrastructure/import"
	"github.com/simpro/backend/internal/infrastructure/logger"
	"github.com/simpro/backend/internal/infrastructure/telemetry"
)

// Content types of the export formats
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeJSON = "application/json"
)

// DefaultKeyPrefix is the folder backups are stored under
const DefaultKeyPrefix = "backups"

var (
	// ErrNoRecognizableData is returned when a file yields no SIM types, orders or customers
	ErrNoRecognizableData = shared.NewDomainError("IMPORT_EMPTY", "File contains no recognizable SIM types, orders or customers")

	// ErrInvalidFile is returned when a file is neither a workbook nor a backup document
	ErrInvalidFile = shared.NewDomainError(sheetimport.ErrCodeImportInvalidFile, "File is not a readable workbook or backup document")

	// ErrStorageDisabled is returned by the stored-backup operations when no store is configured
	ErrStorageDisabled = shared.NewDomainError("STORAGE_DISABLED", "Backup storage is not configured")
)

// RestoreMetrics counts finished restore runs
type RestoreMetrics interface {
	RecordRestore(ctx context.Context, accountID uuid.UUID, format, status string, rows int)
}

// ImportResult describes one finished restore
type ImportResult struct {
	Run      *bulk.RestoreRun           `json:"run"`
	Format   sheetimport.Format         `json:"format"`
	Sheets   map[snapshot.Entity]string `json:"sheets"`
	Counts   map[snapshot.Entity]int    `json:"counts"`
	Remapped int                        `json:"remapped"`
	Warnings []sheetimport.CellWarning  `json:"warnings"`
	// WarningCount includes warnings beyond the ones listed
	WarningCount int `json:"warningCount"`
}

// ExportFile is a rendered backup
type ExportFile struct {
	FileName    string
	ContentType string
	Body        []byte
}

// StoredBackup is a backup file uploaded to the store
type StoredBackup struct {
	BackupObject
	DownloadURL string    `json:"downloadUrl,omitempty"`
	ExpiresAt   time.Time `json:"expiresAt,omitempty"`
}

// Service handles exports, imports and stored backups
type Service struct {
	data      snapshot.AccountDataRepository
	runs      bulk.RestoreRunRepository
	store     BackupStore
	notifier  *appsync.Notifier
	metrics   RestoreMetrics
	loc       *time.Location
	keyPrefix string
	urlTTL    time.Duration
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithStore enables stored backups
func WithStore(store BackupStore, keyPrefix string) Option {
	return func(s *Service) {
		s.store = store
		if keyPrefix = strings.Trim(keyPrefix, "/"); keyPrefix != "" {
			s.keyPrefix = keyPrefix
		}
	}
}

// WithRestoreMetrics counts finished restores
func WithRestoreMetrics(m RestoreMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithLocation sets the business time zone used for file names and default dates
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// NewService creates a new backup Service
func NewService(data snapshot.AccountDataRepository, runs bulk.RestoreRunRepository, notifier *appsync.Notifier, opts ...Option) *Service {
	s := &Service{
		data:      data,
		runs:      runs,
		notifier:  notifier,
		loc:       time.UTC,
		keyPrefix: DefaultKeyPrefix,
		urlTTL:    15 * time.Minute,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) today() time.Time {
	return shared.StartOfDay(s.now().In(s.loc))
}

// ExportWorkbook renders the account as a workbook with one sheet per collection
func (s *Service) ExportWorkbook(ctx context.Context, accountID uuid.UUID) (*ExportFile, error) {
	return s.export(ctx, accountID, sheetimport.FormatXLSX)
}

// ExportJSON renders the account as a JSON backup document
func (s *Service) ExportJSON(ctx context.Context, accountID uuid.UUID) (*ExportFile, error) {
	return s.export(ctx, accountID, sheetimport.FormatJSON)
}

func (s *Service) export(ctx context.Context, accountID uuid.UUID, format sheetimport.Format) (*ExportFile, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "backup", "export",
		telemetry.AttrAccountID, accountID,
		telemetry.AttrFormat, string(format),
	)
	defer span.End()

	data, err := s.data.LoadAll(ctx, accountID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("load account data: %w", err)
	}

	var buf bytes.Buffer
	file := &ExportFile{FileName: sheetimport.BackupFileName(s.today())}
	switch format {
	case sheetimport.FormatJSON:
		err = sheetimport.WriteJSON(&buf, data)
		file.FileName = strings.TrimSuffix(file.FileName, ".xlsx") + ".json"
		file.ContentType = ContentTypeJSON
	default:
		err = sheetimport.WriteWorkbook(&buf, data)
		file.ContentType = ContentTypeXLSX
	}
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("render %s backup: %w", format, err)
	}
	file.Body = buf.Bytes()
	return file, nil
}

// Import restores the account from an uploaded workbook or JSON document,
// replacing everything it holds.
func (s *Service) Import(ctx context.Context, accountID uuid.UUID, fileName string, body io.Reader) (*ImportResult, error) {
	content, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	source := bulk.RestoreSourceUpload
	if format, ok := sheetimport.DetectFormat(fileName, content); ok && format == sheetimport.FormatJSON {
		source = bulk.RestoreSourceJSON
	}
	return s.restore(ctx, accountID, source, fileName, content)
}

// Backup renders the account as a workbook and uploads it under the account's folder
func (s *Service) Backup(ctx context.Context, accountID uuid.UUID) (*StoredBackup, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	file, err := s.ExportWorkbook(ctx, accountID)
	if err != nil {
		return nil, err
	}

	key := path.Join(s.accountFolder(accountID), file.FileName)
	if err := s.store.Put(ctx, key, file.Body, file.ContentType); err != nil {
		return nil, fmt.Errorf("upload backup: %w", err)
	}
	logger.L(ctx).Info("Backup uploaded", zap.String("key", key), zap.Int("size", len(file.Body)))

	stored := &StoredBackup{BackupObject: BackupObject{
		Key:          key,
		Size:         int64(len(file.Body)),
		LastModified: s.now(),
	}}
	if url, expires, err := s.store.DownloadURL(ctx, key, s.urlTTL); err == nil {
		stored.DownloadURL, stored.ExpiresAt = url, expires
	}
	return stored, nil
}

// ListBackups returns the account's stored backups, newest first
func (s *Service) ListBackups(ctx context.Context, accountID uuid.UUID) ([]BackupObject, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	return s.store.List(ctx, s.accountFolder(accountID)+"/")
}

// RestoreFromKey restores the account from one of its stored backups.
// Keys outside the account's folder are rejected.
func (s *Service) RestoreFromKey(ctx context.Context, accountID uuid.UUID, key string) (*ImportResult, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}
	if !strings.HasPrefix(key, s.accountFolder(accountID)+"/") || strings.Contains(key, "..") {
		return nil, shared.ErrForbidden
	}
	content, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return s.restore(ctx, accountID, bulk.RestoreSourceS3, path.Base(key), content)
}

// RestoreRuns returns the latest restore runs of the account
func (s *Service) RestoreRuns(ctx context.Context, accountID uuid.UUID, limit int) ([]bulk.RestoreRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.runs.FindRecent(ctx, accountID, limit)
}

func (s *Service) accountFolder(accountID uuid.UUID) string {
	return path.Join(s.keyPrefix, accountID.String())
}

// restore parses, re-keys and validates the file, then replaces the account
// in one transaction. The store is untouched unless every step succeeded.
func (s *Service) restore(ctx context.Context, accountID uuid.UUID, source bulk.RestoreSource, fileName string, content []byte) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "backup", "restore",
		telemetry.AttrAccountID, accountID,
		"source", string(source),
	)
	defer span.End()

	if fileName == "" {
		fileName = "upload"
	}
	run, err := bulk.NewRestoreRun(accountID, source, fileName, int64(len(content)))
	if err != nil {
		return nil, err
	}
	if err := run.StartProcessing(); err != nil {
		return nil, err
	}
	s.saveRun(ctx, run)

	fail := func(format sheetimport.Format, cause error) (*ImportResult, error) {
		telemetry.RecordError(span, cause)
		_ = run.Fail(cause)
		s.saveRun(ctx, run)
		s.recordMetrics(ctx, accountID, format, run)
		return nil, cause
	}

	src, format, err := sheetimport.Read(fileName, bytes.NewReader(content))
	if err != nil {
		if errors.Is(err, sheetimport.ErrInvalidFile) || errors.Is(err, sheetimport.ErrEmptyFile) {
			return fail(format, ErrInvalidFile)
		}
		return fail(format, fmt.Errorf("read %s: %w", fileName, err))
	}

	res := sheetimport.Build(src, shared.FormatDate(s.today()))
	if len(res.Data.SimTypes) == 0 && len(res.Data.Orders) == 0 && len(res.Data.Customers) == 0 {
		return fail(format, ErrNoRecognizableData)
	}

	if err := s.data.ReplaceAll(ctx, accountID, res.Data); err != nil {
		logger.L(ctx).Error("Restore rolled back", zap.String("file", fileName), zap.Error(err))
		return fail(format, fmt.Errorf("replace account data: %w", err))
	}

	counts := res.Data.Counts()
	runCounts := make(map[string]int, len(counts))
	for entity, n := range counts {
		runCounts[string(entity)] = n
	}
	if err := run.Complete(runCounts, res.Remapped); err != nil {
		return nil, err
	}
	s.saveRun(ctx, run)
	s.recordMetrics(ctx, accountID, format, run)
	s.notifier.Reloaded(ctx, accountID)

	telemetry.SetAttributes(span, telemetry.AttrRows, run.TotalRecords())
	logger.L(ctx).Info("Account restored",
		zap.String("file", fileName),
		zap.String("format", string(format)),
		zap.Int("records", run.TotalRecords()),
		zap.Int("remapped", res.Remapped),
		zap.Int("warnings", res.Warnings.Total()),
	)

	return &ImportResult{
		Run:          run,
		Format:       format,
		Sheets:       res.Sheets,
		Counts:       counts,
		Remapped:     res.Remapped,
		Warnings:     res.Warnings.List(),
		WarningCount: res.Warnings.Total(),
	}, nil
}

// saveRun persists the run. The run is an audit record, so a failure to
// save it is logged and does not change the outcome of the restore.
func (s *Service) saveRun(ctx context.Context, run *bulk.RestoreRun) {
	if err := s.runs.Save(ctx, run); err != nil {
		logger.L(ctx).Warn("Failed to save restore run",
			zap.String("run_id", run.ID),
			zap.String("status", string(run.Status)),
			zap.Error(err),
		)
	}
}

func (s *Service) recordMetrics(ctx context.Context, accountID uuid.UUID, format sheetimport.Format, run *bulk.RestoreRun) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRestore(ctx, accountID, string(format), string(run.Status), run.TotalRecords())
}
