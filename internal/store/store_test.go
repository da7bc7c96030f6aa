// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/mrlaurentdavid-code/prospection-products-odl-sub000/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.StoreConfig{
		DBPath:      filepath.Join(t.TempDir(), "test.db"),
		SnapshotDir: filepath.Join(t.TempDir(), "snapshots"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedEntity(t *testing.T, s *Store) types.EntityInfo {
	t.Helper()
	info := types.EntityInfo{
		Type:           types.EntityProduct,
		ID:             "prod-1",
		CompanyName:    "Example AG",
		CompanyWebsite: "https://www.example.com",
	}
	require.NoError(t, s.UpsertEntity(context.Background(), info))
	return info
}

func TestUpsertEntityRoundTrip(t *testing.T) {
	s := testStore(t)
	seeded := seedEntity(t, s)

	got, err := s.GetEntityContacts(context.Background(), seeded.Type, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, seeded.CompanyName, got.CompanyName)
	assert.Equal(t, seeded.CompanyWebsite, got.CompanyWebsite)
	assert.Empty(t, got.Contacts)
}

func TestUpsertEntityUpdatesAttributesOnly(t *testing.T) {
	s := testStore(t)
	seeded := seedEntity(t, s)
	ctx := context.Background()

	require.NoError(t, s.AddSingleContact(ctx, seeded.Type, seeded.ID,
		types.ContactRecord{Name: "Anna Keller", Email: "a@example.com"}))

	seeded.CompanyName = "Example Holding AG"
	require.NoError(t, s.UpsertEntity(ctx, seeded))

	got, err := s.GetEntityContacts(ctx, seeded.Type, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "Example Holding AG", got.CompanyName)
	assert.Len(t, got.Contacts, 1, "upsert must not touch the roster")
}

func TestGetEntityContactsNotFound(t *testing.T) {
	s := testStore(t)
	_, err := s.GetEntityContacts(context.Background(), types.EntityBrand, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReplaceEntityContactsPreservesOrder(t *testing.T) {
	s := testStore(t)
	seeded := seedEntity(t, s)
	ctx := context.Background()

	roster := []types.ContactRecord{
		{Name: "First Person", Email: "First@Example.com", Source: types.SourceDomainSearch, Confidence: 0.9},
		{Name: "Second Person", Email: "second@example.com", Source: types.SourcePageScrape, Confidence: 0.75},
		{Title: "Sales Contact", Email: "sales@example.com", Source: types.SourcePageScrape, Confidence: 0.75},
	}
	_, err := s.ReplaceEntityContacts(ctx, seeded.Type, seeded.ID, roster)
	require.NoError(t, err)

	got, err := s.GetEntityContacts(ctx, seeded.Type, seeded.ID)
	require.NoError(t, err)
	require.Len(t, got.Contacts, 3)
	assert.Equal(t, "First Person", got.Contacts[0].Name)
	assert.Equal(t, "first@example.com", got.Contacts[0].Email, "emails are normalized on write")
	assert.Equal(t, "Second Person", got.Contacts[1].Name)
}

func TestReplaceEntityContactsIsWholesale(t *testing.T) {
	s := testStore(t)
	seeded := seedEntity(t, s)
	ctx := context.Background()

	_, err := s.ReplaceEntityContacts(ctx, seeded.Type, seeded.ID, []types.ContactRecord{
		{Email: "old@example.com", Source: types.SourceDomainSearch, Confidence: 0.5},
	})
	require.NoError(t, err)

	_, err = s.ReplaceEntityContacts(ctx, seeded.Type, seeded.ID, []types.ContactRecord{
		{Email: "new@example.com", Source: types.SourceDomainSearch, Confidence: 0.5},
	})
	require.NoError(t, err)

	got, err := s.GetEntityContacts(ctx, seeded.Type, seeded.ID)
	require.NoError(t, err)
	require.Len(t, got.Contacts, 1)
	assert.Equal(t, "new@example.com", got.Contacts[0].Email)
}

func TestReplaceEntityContactsWritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(types.StoreConfig{
		DBPath:      filepath.Join(t.TempDir(), "test.db"),
		SnapshotDir: dir,
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	seeded := seedEntity(t, s)

	_, err = s.ReplaceEntityContacts(context.Background(), seeded.Type, seeded.ID, []types.ContactRecord{
		{Email: "a@example.com", Source: types.SourceManual, Confidence: 1},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "product-prod-1.yaml"))
	require.NoError(t, err)

	var snap types.EntityInfo
	require.NoError(t, yaml.Unmarshal(data, &snap))
	assert.Equal(t, "Example AG", snap.CompanyName)
	require.Len(t, snap.Contacts, 1)
	assert.Equal(t, "a@example.com", snap.Contacts[0].Email)
}

func TestAddSingleContactAppends(t *testing.T) {
	s := testStore(t)
	seeded := seedEntity(t, s)
	ctx := context.Background()

	_, err := s.ReplaceEntityContacts(ctx, seeded.Type, seeded.ID, []types.ContactRecord{
		{Email: "existing@example.com", Source: types.SourceDomainSearch, Confidence: 0.8},
	})
	require.NoError(t, err)

	require.NoError(t, s.AddSingleContact(ctx, seeded.Type, seeded.ID,
		types.ContactRecord{Name: "Manual Person", Email: "manual@example.com"}))

	got, err := s.GetEntityContacts(ctx, seeded.Type, seeded.ID)
	require.NoError(t, err)
	require.Len(t, got.Contacts, 2)
	assert.Equal(t, "manual@example.com", got.Contacts[1].Email, "manual adds land at the end")
	assert.Equal(t, types.SourceManual, got.Contacts[1].Source, "source defaults to manual")
}
