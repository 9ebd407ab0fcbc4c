package services

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"time"

	applog "suryaghar-backend/internal/logger"
	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/storage"

	"go.uber.org/zap"
)

const (
	MaxDocumentBytes = 10 << 20
	downloadURLTTL   = 15 * time.Minute
)

// allowedDocumentTypes maps accepted MIME types to the extensions that may
// carry them.
var allowedDocumentTypes = map[string][]string{
	"image/jpeg":         {".jpg", ".jpeg"},
	"image/png":          {".png"},
	"image/webp":         {".webp"},
	"application/pdf":    {".pdf"},
	"application/msword": {".doc"},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {".docx"},
	"application/vnd.ms-excel": {".xls"},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {".xlsx"},
}

type documentStore interface {
	Create(ctx context.Context, d *models.Document) error
	Get(ctx context.Context, id int) (*models.Document, error)
	ListByCustomer(ctx context.Context, customerID int) ([]*models.Document, error)
	ListByPartner(ctx context.Context, partnerID int) ([]*models.Document, error)
	Verify(ctx context.Context, id, verifiedBy int) (*models.Document, error)
	Delete(ctx context.Context, id int) error
}

// ObjectStore holds document bodies.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key, fileName string, ttl time.Duration) (string, error)
}

type DocumentService struct {
	docs     documentStore
	objects  ObjectStore
	notifier Notifier
	access   *access
	logger   *zap.Logger
}

// NewDocumentService accepts a nil objects store; uploads and downloads
// then fail with ErrUnavailable.
func NewDocumentService(docs documentStore, objects ObjectStore, customers customerGetter, users userStore, notifier Notifier, logger *zap.Logger) *DocumentService {
	return &DocumentService{
		docs:     docs,
		objects:  objects,
		notifier: notifier,
		access:   &access{customers: customers, users: users},
		logger:   applog.OrNop(logger),
	}
}

// normalizeContentType strips parameters and checks the type against the
// allow list and the file extension.
func normalizeContentType(contentType, fileName string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", invalid("unreadable content type %q", contentType)
	}
	exts, ok := allowedDocumentTypes[mediaType]
	if !ok {
		return "", invalid("file type %s is not allowed", mediaType)
	}
	ext := strings.ToLower(path.Ext(fileName))
	for _, e := range exts {
		if e == ext {
			return mediaType, nil
		}
	}
	return "", invalid("file extension %q does not match %s", ext, mediaType)
}

// checkOwner validates the customer/partner pair and that actor may write
// to it. It returns the storage owner segment.
func (s *DocumentService) checkOwner(ctx context.Context, actor models.Actor, customerID, partnerID *int, write bool) (string, error) {
	if (customerID == nil) == (partnerID == nil) {
		return "", invalid("exactly one of customerId or partnerId is required")
	}
	if customerID != nil {
		var err error
		if write {
			_, err = s.access.mutableCustomerFor(ctx, actor, *customerID)
		} else {
			_, err = s.access.customerFor(ctx, actor, *customerID)
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("customer-%d", *customerID), nil
	}
	if !actor.IsAdmin() && actor.ID != *partnerID {
		return "", forbidden("documents of partner %d are not yours", *partnerID)
	}
	return fmt.Sprintf("partner-%d", *partnerID), nil
}

func (s *DocumentService) Upload(ctx context.Context, actor models.Actor, up *models.DocumentUpload, body io.Reader) (*models.Document, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, storage.ErrNotConfigured)
	}
	if !up.Category.Valid() {
		return nil, invalid("unknown category %q", up.Category)
	}
	if up.SizeBytes <= 0 {
		return nil, invalid("file is empty")
	}
	if up.SizeBytes > MaxDocumentBytes {
		return nil, invalid("file is larger than 10 MB")
	}
	fileName := path.Base(strings.ReplaceAll(up.FileName, "\\", "/"))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, invalid("file name is required")
	}
	contentType, err := normalizeContentType(up.ContentType, fileName)
	if err != nil {
		return nil, err
	}
	owner, err := s.checkOwner(ctx, actor, up.CustomerID, up.PartnerID, true)
	if err != nil {
		return nil, err
	}

	key := storage.ObjectKey(owner, fileName)
	if err := s.objects.Put(ctx, key, contentType, up.SizeBytes, body); err != nil {
		return nil, fmt.Errorf("store document: %w", err)
	}

	d := &models.Document{
		CustomerID:  up.CustomerID,
		PartnerID:   up.PartnerID,
		Category:    up.Category,
		Description: up.Description,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   up.SizeBytes,
		ObjectKey:   key,
		ExpiresAt:   up.ExpiresAt,
		UploadedBy:  actor.ID,
	}
	if err := s.docs.Create(ctx, d); err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned document object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("record document: %w", err)
	}
	return d, nil
}

func (s *DocumentService) ListForCustomer(ctx context.Context, actor models.Actor, customerID int) ([]*models.Document, error) {
	if _, err := s.access.customerFor(ctx, actor, customerID); err != nil {
		return nil, err
	}
	return s.docs.ListByCustomer(ctx, customerID)
}

func (s *DocumentService) ListForPartner(ctx context.Context, actor models.Actor, partnerID int) ([]*models.Document, error) {
	if !actor.IsAdmin() && actor.ID != partnerID {
		return nil, forbidden("documents of partner %d are not yours", partnerID)
	}
	return s.docs.ListByPartner(ctx, partnerID)
}

func (s *DocumentService) Download(ctx context.Context, actor models.Actor, id int) (*models.DocumentDownload, error) {
	if s.objects == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, storage.ErrNotConfigured)
	}
	d, err := s.docs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.checkOwner(ctx, actor, d.CustomerID, d.PartnerID, false); err != nil {
		return nil, err
	}
	url, err := s.objects.PresignGet(ctx, d.ObjectKey, d.FileName, downloadURLTTL)
	if err != nil {
		return nil, err
	}
	return &models.DocumentDownload{URL: url, ExpiresAt: time.Now().Add(downloadURLTTL)}, nil
}

func (s *DocumentService) Verify(ctx context.Context, actor models.Actor, id int) (*models.Document, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	d, err := s.docs.Verify(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	notifySafe(ctx, s.notifier, d.UploadedBy, models.NotifyDocumentVerified,
		"Document verified",
		fmt.Sprintf("%s (%s) was verified.", d.FileName, d.Category), nil)
	return d, nil
}

// Delete removes the stored object first, then the row.
func (s *DocumentService) Delete(ctx context.Context, actor models.Actor, id int) error {
	if s.objects == nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, storage.ErrNotConfigured)
	}
	d, err := s.docs.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.checkOwner(ctx, actor, d.CustomerID, d.PartnerID, true); err != nil {
		return err
	}
	if err := s.objects.Delete(ctx, d.ObjectKey); err != nil {
		return fmt.Errorf("delete document object: %w", err)
	}
	return s.docs.Delete(ctx, d.ID)
}
