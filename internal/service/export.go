package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/templui/golfjournal/internal/export"
	"github.com/templui/golfjournal/internal/stats"
	"github.com/templui/golfjournal/internal/storage"
)

var ErrArchiveDisabled = errors.New("export archive is not configured")

type ExportService struct {
	rounds  *RoundService
	storage storage.Storage // nil when archiving is disabled
	now     func() time.Time
}

func NewExportService(rounds *RoundService, storage storage.Storage) *ExportService {
	return &ExportService{
		rounds:  rounds,
		storage: storage,
		now:     time.Now,
	}
}

func (s *ExportService) ArchiveEnabled() bool {
	return s.storage != nil
}

// WriteWorkbook writes the user's history as XLSX.
func (s *ExportService) WriteWorkbook(ctx context.Context, userID string, w io.Writer) error {
	rounds, err := s.rounds.Rounds(ctx, userID)
	if err != nil {
		return err
	}

	err = export.WriteRounds(w, rounds, stats.Compute(rounds, s.now()))
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	return nil
}

// Archive uploads the workbook and returns a short-lived download URL.
func (s *ExportService) Archive(ctx context.Context, userID string) (string, error) {
	if s.storage == nil {
		return "", ErrArchiveDisabled
	}

	var buf bytes.Buffer
	err := s.WriteWorkbook(ctx, userID, &buf)
	if err != nil {
		return "", err
	}

	key := ArchiveKey(userID, s.now())
	err = s.storage.Save(ctx, key, &buf, export.ContentType)
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	url, err := s.storage.PresignedURL(ctx, key)
	if err != nil {
		return "", err
	}

	slog.Info("export archived", "user_id", userID, "key", key)
	return url, nil
}

// ArchiveKey is where a user's export is stored.
func ArchiveKey(userID string, at time.Time) string {
	return fmt.Sprintf("exports/%s/rounds-%s.xlsx", userID, at.UTC().Format("20060102-150405"))
}
