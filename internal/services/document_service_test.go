package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"suryaghar-backend/internal/models"
	"suryaghar-backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeObjects struct {
	objects map[string]string
}

func (f *fakeObjects) Put(_ context.Context, key, _ string, _ int64, body io.Reader) error {
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.objects[key] = string(b)
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) PresignGet(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://bucket.example.com/" + key + "?sig=1", nil
}

type fakeDocuments struct {
	byID    map[int]*models.Document
	nextID  int
	failing bool
}

func (f *fakeDocuments) Create(_ context.Context, d *models.Document) error {
	if f.failing {
		return errors.New("db down")
	}
	f.nextID++
	d.ID = f.nextID
	f.byID[d.ID] = d
	return nil
}

func (f *fakeDocuments) Get(_ context.Context, id int) (*models.Document, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return d, nil
}

func (f *fakeDocuments) ListByCustomer(context.Context, int) ([]*models.Document, error) {
	return nil, nil
}

func (f *fakeDocuments) ListByPartner(context.Context, int) ([]*models.Document, error) {
	return nil, nil
}

func (f *fakeDocuments) Verify(_ context.Context, id, by int) (*models.Document, error) {
	d, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	d.IsVerified = true
	d.VerifiedBy = &by
	return d, nil
}

func (f *fakeDocuments) Delete(_ context.Context, id int) error {
	delete(f.byID, id)
	return nil
}

func newDocumentFixture() (*DocumentService, *fakeDocuments, *fakeObjects, *recordingNotifier) {
	customers := newFakeCustomers()
	customers.put(&models.Customer{DDPID: 3})
	docs := &fakeDocuments{byID: map[int]*models.Document{}}
	objects := &fakeObjects{objects: map[string]string{}}
	notifier := &recordingNotifier{}
	return NewDocumentService(docs, objects, customers, newFakeUsers(), notifier, nil), docs, objects, notifier
}

func billUpload() *models.DocumentUpload {
	return &models.DocumentUpload{
		CustomerID:  intPtr(1),
		Category:    models.DocElectricityBill,
		FileName:    `C:\scans\Bill.PDF`,
		ContentType: "application/pdf; charset=binary",
		SizeBytes:   4,
	}
}

func TestNormalizeContentType(t *testing.T) {
	ct, err := normalizeContentType("image/jpeg", "roof.JPEG")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)

	_, err = normalizeContentType("application/pdf", "bill.exe")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalizeContentType("application/x-msdownload", "setup.exe")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = normalizeContentType("", "a.pdf")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUploadAndDownload(t *testing.T) {
	svc, docs, objects, _ := newDocumentFixture()
	ctx := context.Background()

	d, err := svc.Upload(ctx, ddpActor, billUpload(), strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "Bill.PDF", d.FileName)
	assert.Equal(t, "application/pdf", d.ContentType)
	assert.True(t, strings.HasPrefix(d.ObjectKey, "documents/customer-1/"))
	assert.Equal(t, "%PDF", objects.objects[d.ObjectKey])
	assert.Len(t, docs.byID, 1)

	dl, err := svc.Download(ctx, ddpActor, d.ID)
	require.NoError(t, err)
	assert.Contains(t, dl.URL, d.ObjectKey)

	_, err = svc.Download(ctx, otherDDP, d.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.Delete(ctx, ddpActor, d.ID))
	assert.Empty(t, objects.objects)
	assert.Empty(t, docs.byID)
}

func TestUpload_Rejects(t *testing.T) {
	svc, _, objects, _ := newDocumentFixture()
	ctx := context.Background()

	up := billUpload()
	up.SizeBytes = MaxDocumentBytes + 1
	_, err := svc.Upload(ctx, ddpActor, up, strings.NewReader(""))
	assert.ErrorIs(t, err, ErrValidation)

	up = billUpload()
	up.PartnerID = intPtr(3)
	_, err = svc.Upload(ctx, ddpActor, up, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrValidation, "customer and partner are exclusive")

	up = billUpload()
	up.Category = "selfie"
	_, err = svc.Upload(ctx, ddpActor, up, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrValidation)

	up = billUpload()
	up.CustomerID, up.PartnerID = nil, intPtr(5)
	_, err = svc.Upload(ctx, ddpActor, up, strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Empty(t, objects.objects)
}

func TestUpload_RemovesObjectWhenRowFails(t *testing.T) {
	svc, docs, objects, _ := newDocumentFixture()
	docs.failing = true

	_, err := svc.Upload(context.Background(), ddpActor, billUpload(), strings.NewReader("%PDF"))
	require.Error(t, err)
	assert.Empty(t, objects.objects)
}

func TestUpload_WithoutStorage(t *testing.T) {
	svc := NewDocumentService(&fakeDocuments{byID: map[int]*models.Document{}}, nil, newFakeCustomers(), newFakeUsers(), nil, nil)
	_, err := svc.Upload(context.Background(), adminActor, billUpload(), strings.NewReader("%PDF"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestVerifyNotifiesUploader(t *testing.T) {
	svc, _, _, notifier := newDocumentFixture()
	ctx := context.Background()
	d, err := svc.Upload(ctx, ddpActor, billUpload(), strings.NewReader("%PDF"))
	require.NoError(t, err)

	_, err = svc.Verify(ctx, ddpActor, d.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	v, err := svc.Verify(ctx, adminActor, d.ID)
	require.NoError(t, err)
	assert.True(t, v.IsVerified)
	assert.Len(t, notifier.to(ddpActor.ID), 1)
}
