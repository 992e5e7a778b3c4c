package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/arch-spatula/jmc/internal/storage"
	"github.com/arch-spatula/jmc/internal/workbook"
	"github.com/arch-spatula/jmc/pkg/logger"
	"github.com/robfig/cron/v3"
)

// Exporter 현재 데이터를 xlsx로 내보낸다
type Exporter interface {
	ExportXLSX(ctx context.Context) ([]byte, error)
}

// BackupScheduler 식당 목록 정기 백업 스케줄러
type BackupScheduler struct {
	cron     *cron.Cron
	spec     string
	prefix   string
	exporter Exporter
	uploader storage.Uploader
	now      func() time.Time
}

// NewBackupScheduler 백업 스케줄러 생성
func NewBackupScheduler(spec, prefix string, exporter Exporter, uploader storage.Uploader) *BackupScheduler {
	return &BackupScheduler{
		cron:     cron.New(),
		spec:     spec,
		prefix:   prefix,
		exporter: exporter,
		uploader: uploader,
		now:      time.Now,
	}
}

// Start 스케줄러 시작
func (s *BackupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		if _, err := s.RunOnce(ctx); err != nil {
			logger.Error("Scheduled backup failed", err)
		}
	})
	if err != nil {
		logger.Error("Failed to add cron job for backup", err, map[string]interface{}{
			"cron": s.spec,
		})
		return fmt.Errorf("invalid backup schedule %q: %w", s.spec, err)
	}

	s.cron.Start()
	logger.Info("Backup scheduler started", map[string]interface{}{
		"cron": s.spec,
	})
	return nil
}

// RunOnce exports the current list and uploads it, returning the object URL
func (s *BackupScheduler) RunOnce(ctx context.Context) (string, error) {
	data, err := s.exporter.ExportXLSX(ctx)
	if err != nil {
		return "", fmt.Errorf("export: %w", err)
	}

	key := storage.BackupKey(s.prefix, s.now())
	url, err := s.uploader.Upload(ctx, key, data, workbook.ContentType)
	if err != nil {
		return "", err
	}

	logger.Info("Backup uploaded", map[string]interface{}{
		"key":   key,
		"bytes": len(data),
	})
	return url, nil
}

// Stop 스케줄러 중지
func (s *BackupScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Backup scheduler stopped")
}
