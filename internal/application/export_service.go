package application

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/LeeyaD/phonebook-server/internal/domain/apperr"
	"github.com/LeeyaD/phonebook-server/pkg/helpers"
)

// ObjectUploader stores an object and returns where it landed.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

// Snapshot is the exported document: every contact with its owner.
type Snapshot struct {
	GeneratedAt time.Time     `json:"generated_at"`
	Count       int           `json:"count"`
	Contacts    []ContactView `json:"contacts"`
}

type ExportService struct {
	Contacts *ContactService
	Uploader ObjectUploader
	Logger   *logrus.Logger

	now func() time.Time
}

func NewExportService(contacts *ContactService, uploader ObjectUploader, logger *logrus.Logger) *ExportService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &ExportService{
		Contacts: contacts,
		Uploader: uploader,
		Logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Export uploads a JSON snapshot of all contacts and returns its location.
func (s *ExportService) Export(ctx context.Context) (string, error) {
	views, err := s.Contacts.List(ctx)
	if err != nil {
		return "", err
	}
	at := s.now()
	body, err := json.MarshalIndent(Snapshot{GeneratedAt: at, Count: len(views), Contacts: views}, "", "  ")
	if err != nil {
		return "", apperr.Internal("export_encode", err)
	}

	path := helpers.ExportObjectPath("contacts", at)
	uri, err := s.Uploader.Upload(ctx, path, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	s.Logger.WithFields(logrus.Fields{"uri": uri, "count": len(views)}).Info("contacts exported")
	return uri, nil
}
