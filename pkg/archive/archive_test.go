package archive

import (
	"sort"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/ssargent/ipd/pkg/ipd"
	"github.com/ssargent/ipd/pkg/ipd/ipdtest"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(t.TempDir(), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_Import(t *testing.T) {
	store := setupTestStore(t)
	data := ipdtest.Agent()

	snap, err := store.Import("agent.ipd", data)
	require.NoError(t, err)

	_, err = ksuid.Parse(snap.ID)
	assert.NoError(t, err)
	assert.Equal(t, "agent.ipd", snap.Source)
	assert.Len(t, snap.Digest, 64)
	assert.Equal(t, int64(len(data)), snap.Size)
	assert.Equal(t, uint8(2), snap.Version)
	assert.Equal(t, []DatabaseSummary{
		{Name: "Handheld Agent", Records: 3},
		{Name: "Memos", Records: 0},
	}, snap.Databases)
	assert.False(t, snap.Existing)
	assert.False(t, snap.ImportedAt.IsZero())

	got, err := store.Get(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, snap.ID, got.ID)
	assert.Equal(t, snap.Digest, got.Digest)
	assert.Equal(t, snap.Databases, got.Databases)
	assert.True(t, snap.ImportedAt.Equal(got.ImportedAt))
}

func TestStore_ImportDuplicate(t *testing.T) {
	store := setupTestStore(t)
	data := ipdtest.Agent()

	first, err := store.Import("a.ipd", data)
	require.NoError(t, err)

	second, err := store.Import("b.ipd", data)
	require.NoError(t, err)
	assert.True(t, second.Existing)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "a.ipd", second.Source)

	snaps, err := store.List()
	require.NoError(t, err)
	assert.Len(t, snaps, 1)
}

func TestStore_ImportRejectsInvalid(t *testing.T) {
	store := setupTestStore(t)
	data := ipdtest.Agent()

	_, err := store.Import("short.ipd", data[:len(data)-1])
	assert.ErrorIs(t, err, ipd.ErrTruncated)
	assert.ErrorContains(t, err, "short.ipd")

	snaps, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestStore_ImportMaxSize(t *testing.T) {
	store, err := Open(t.TempDir(), zaptest.NewLogger(t), ipd.WithMaxSize(64))
	require.NoError(t, err)
	defer store.Close()

	_, err = store.Import("big.ipd", ipdtest.Agent())
	assert.ErrorIs(t, err, ipd.ErrTooLarge)
}

func TestStore_Load(t *testing.T) {
	store := setupTestStore(t)
	data := ipdtest.Agent()

	snap, err := store.Import("agent.ipd", data)
	require.NoError(t, err)

	raw, err := store.Raw(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, data, raw)

	file, err := store.Load(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Handheld Agent", "Memos"}, file.Names())

	db, err := file.Database("Handheld Agent")
	require.NoError(t, err)
	require.Equal(t, 3, db.Len())
	assert.Equal(t, uint32(0x102), db.Record(1).ID())
}

func TestStore_List(t *testing.T) {
	store := setupTestStore(t)

	var ids []string
	for i := uint32(0); i < 5; i++ {
		data := ipdtest.New(1, "Memos").Record(0, 0, 1, i, ipdtest.Text(1, "memo")).Bytes()
		snap, err := store.Import("memo.ipd", data)
		require.NoError(t, err)
		ids = append(ids, snap.ID)
	}
	sort.Strings(ids)

	snaps, err := store.List()
	require.NoError(t, err)

	var listed []string
	for _, s := range snaps {
		listed = append(listed, s.ID)
	}
	assert.Equal(t, ids, listed)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	data := ipdtest.Agent()

	snap, err := store.Import("agent.ipd", data)
	require.NoError(t, err)
	require.NoError(t, store.Delete(snap.ID))

	_, err = store.Get(snap.ID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	_, err = store.Load(snap.ID)
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
	assert.ErrorIs(t, store.Delete(snap.ID), ErrSnapshotNotFound)

	// The digest entry went with it, so the same content imports fresh.
	again, err := store.Import("agent.ipd", data)
	require.NoError(t, err)
	assert.False(t, again.Existing)
	assert.NotEqual(t, snap.ID, again.ID)
}

func TestStore_NotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.Get("not-a-ksuid")
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = store.Get(ksuid.New().String())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)

	_, err = store.Raw(ksuid.New().String())
	assert.ErrorIs(t, err, ErrSnapshotNotFound)
}

func TestStore_Reopen(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	snap, err := store.Import("agent.ipd", ipdtest.Agent())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	store, err = Open(dir, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer store.Close()

	file, err := store.Load(snap.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, file.RecordCount())
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte("snap0"), prefixEnd(snapPrefix))
}
