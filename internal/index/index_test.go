package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ragkb/internal/chunker"
	"ragkb/internal/embedding"
	"ragkb/internal/vectorstore"
)

func newTestStore(t *testing.T) *vectorstore.Store {
	t.Helper()
	s, err := vectorstore.Open(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDocs() []Document {
	return []Document{
		{Source: "01_Илья_Звездин.txt", Text: "Илья Звездин — сын Андрея Звездина, обучался у Добрыни Светлова."},
		{Source: "02_Поток.txt", Text: "Поток — энергетическое поле, дающее способности: телекинез, ускорение, предвидение."},
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("  beta  "), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("gamma"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "skip.json"), []byte("{}"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.txt"), []byte("  \n "), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	// Filename order, stripped content, filename as source.
	assert.Equal(t, Document{Text: "alpha", Source: "a.txt"}, docs[0])
	assert.Equal(t, Document{Text: "beta", Source: "b.txt"}, docs[1])
	assert.Equal(t, Document{Text: "gamma", Source: "notes.md"}, docs[2])
}

func TestLoadDir_Missing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	require.Error(t, err)
}

func TestRebuild(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	b := NewBuilder(chunker.NewRecursive(300, 50), embedding.NewHashEmbedder(64), s, "kb")

	report, err := b.Rebuild(ctx, testDocs())
	require.NoError(t, err)
	assert.Equal(t, 2, report.NumDocuments)
	assert.Equal(t, 2, report.NumChunks)
	assert.Equal(t, "hash", report.Model)
	assert.Equal(t, 64, report.EmbeddingDim)
	assert.Equal(t, 300, report.ChunkSize)
	assert.Equal(t, 50, report.ChunkOverlap)

	records, err := s.GetAll(ctx, "kb")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "01_Илья_Звездин.txt", records[0].Metadata.Source)
	assert.Equal(t, 0, records[0].Metadata.ChunkID)
	assert.Len(t, records[0].Embedding, 64)
}

func TestRebuild_NoDocumentsFailsBeforeWrites(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	b := NewBuilder(chunker.NewRecursive(300, 50), embedding.NewHashEmbedder(64), s, "kb")

	// Seed the collection first, then attempt an empty rebuild: the
	// old index must survive.
	_, err := b.Rebuild(ctx, testDocs())
	require.NoError(t, err)

	_, err = b.Rebuild(ctx, nil)
	require.ErrorIs(t, err, ErrNoDocuments)

	n, err := s.Count(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRebuild_ReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	b := NewBuilder(chunker.NewRecursive(300, 50), embedding.NewHashEmbedder(64), s, "kb")

	_, err := b.Rebuild(ctx, testDocs())
	require.NoError(t, err)
	_, err = b.Rebuild(ctx, testDocs()[:1])
	require.NoError(t, err)

	n, err := s.Count(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBuildReport_WriteMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index_meta.json")
	report := &BuildReport{Model: "hash", EmbeddingDim: 64, ChunkSize: 300, ChunkOverlap: 50, NumDocuments: 2, NumChunks: 2, TimeSeconds: 0.5}
	require.NoError(t, report.WriteMeta(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.EqualValues(t, 64, got["embedding_dim"])
	assert.EqualValues(t, 2, got["num_chunks"])
}

func TestUpdater_DedupBySourceFilename(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sp := chunker.NewRecursive(300, 50)
	emb := embedding.NewHashEmbedder(64)

	_, err := NewBuilder(sp, emb, s, "kb").Rebuild(ctx, testDocs())
	require.NoError(t, err)

	u := NewUpdater(sp, emb, s, "kb")
	newDocs := []Document{
		{Source: "03_Песчаная.txt", Text: "Песчаная — пустынная планета на окраине галактики."},
	}

	report, err := u.Apply(ctx, newDocs)
	require.NoError(t, err)
	assert.Equal(t, 1, report.NewFiles)
	assert.Equal(t, 1, report.ChunksAdded)
	assert.Equal(t, 0, report.SkippedFiles)

	// Second run with the same set: nothing new.
	report, err = u.Apply(ctx, newDocs)
	require.NoError(t, err)
	assert.Equal(t, 0, report.NewFiles)
	assert.Equal(t, 0, report.ChunksAdded)
	assert.Equal(t, 1, report.SkippedFiles)

	n, err := s.Count(ctx, "kb")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestUpdater_SkipsAlreadyIndexedAndAddsRest(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sp := chunker.NewRecursive(300, 50)
	emb := embedding.NewHashEmbedder(64)

	_, err := NewBuilder(sp, emb, s, "kb").Rebuild(ctx, testDocs())
	require.NoError(t, err)

	mixed := append(testDocs(), Document{Source: "04_Новый.txt", Text: "Новый документ о далёкой станции."})
	report, err := NewUpdater(sp, emb, s, "kb").Apply(ctx, mixed)
	require.NoError(t, err)
	assert.Equal(t, 2, report.SkippedFiles)
	assert.Equal(t, 1, report.NewFiles)
}

func TestUpdater_IDsUniqueAcrossRuns(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.CreateOrReplace(ctx, "kb"))
	sp := chunker.NewRecursive(300, 50)
	emb := embedding.NewHashEmbedder(64)
	u := NewUpdater(sp, emb, s, "kb")

	_, err := u.Apply(ctx, []Document{{Source: "a.txt", Text: "первый текст"}})
	require.NoError(t, err)
	_, err = u.Apply(ctx, []Document{{Source: "b.txt", Text: "второй текст"}})
	require.NoError(t, err)

	records, err := s.GetAll(ctx, "kb")
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, r := range records {
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}
