package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalogo-instrumentais/config"
	"catalogo-instrumentais/models"
)

type fakeDrive struct {
	images []models.DriveImage
	err    error
}

func (f *fakeDrive) ListImages(_ string) ([]models.DriveImage, error) {
	return f.images, f.err
}

func (f *fakeDrive) DownloadImage(_ string) ([]byte, error) {
	return nil, errors.New("not implemented")
}

type fakeImageRepo struct {
	existing map[string]bool // urls already stored
	inserted []models.ImageRecord
}

func (f *fakeImageRepo) QueryEquals(_ context.Context, _, _, _ string) ([]models.ImageRecord, error) {
	return nil, nil
}
func (f *fakeImageRepo) QueryPrefix(_ context.Context, _, _, _ string) ([]models.ImageRecord, error) {
	return nil, nil
}
func (f *fakeImageRepo) QueryAll(_ context.Context, _ string) ([]models.ImageRecord, error) {
	return nil, nil
}
func (f *fakeImageRepo) QueryInSet(_ context.Context, _, _ string, _ []string) ([]models.ImageRecord, error) {
	return nil, nil
}
func (f *fakeImageRepo) ExistsByURL(_ context.Context, _, url string) (bool, error) {
	return f.existing[url], nil
}
func (f *fakeImageRepo) Insert(_ context.Context, _ string, rec models.ImageRecord) error {
	f.inserted = append(f.inserted, rec)
	return nil
}
func (f *fakeImageRepo) GetByID(_ context.Context, _, _ string) (models.ImageRecord, error) {
	return models.ImageRecord{}, errors.New("not found")
}

func TestSyncImages(t *testing.T) {
	drive := &fakeDrive{images: []models.DriveImage{
		{FileID: "a", Name: "Lâmina 15.jpg", URL: "https://drive.google.com/uc?id=a"},
		{FileID: "b", Name: "Lâmina 12.png", URL: "https://drive.google.com/uc?id=b"},
		{FileID: "c", Name: "Lâmina 10.jpg", URL: "https://drive.google.com/uc?id=c"},
	}}
	repo := &fakeImageRepo{existing: map[string]bool{
		"https://drive.google.com/uc?id=b": true,
	}}

	svc := NewSyncService(drive, repo, config.Default())
	stats, err := svc.SyncImages(context.Background(), "lâminas", "folder-1")
	require.NoError(t, err)

	assert.Equal(t, "lâminas", stats.Table)
	assert.Equal(t, 2, stats.Inserted)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 3, stats.Total)

	require.Len(t, repo.inserted, 2)
	// Name-keyed table: the filename stem is kept as written
	assert.Equal(t, "Lâmina 15", repo.inserted[0].OwnerKey)
	assert.Equal(t, "Lâmina 10", repo.inserted[1].OwnerKey)
}

func TestSyncImagesUnknownTable(t *testing.T) {
	svc := NewSyncService(&fakeDrive{}, &fakeImageRepo{}, config.Default())
	_, err := svc.SyncImages(context.Background(), "serras", "folder-1")
	assert.Error(t, err)
}

func TestSyncImagesWithoutDrive(t *testing.T) {
	svc := NewSyncService(nil, &fakeImageRepo{}, config.Default())
	_, err := svc.SyncImages(context.Background(), "lâminas", "folder-1")
	assert.ErrorContains(t, err, "not configured")
}

func TestOwnerKeyFor(t *testing.T) {
	plain := config.TableRules{}
	assert.Equal(t, "Lâmina 15", ownerKeyFor("Lâmina 15.jpg", plain))

	slugged := config.TableRules{Override: &config.StructuralOverride{UseSlugTransform: true}}
	assert.Equal(t, "pinca-anatomica-padrao", ownerKeyFor("Pinça Anatômica Padrão.png", slugged))
}
