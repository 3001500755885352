package store_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"news_admin/internal/models"
	"news_admin/internal/store"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, maxBackups int) *store.Store {
	t.Helper()
	dir := t.TempDir()
	return store.NewStore(
		filepath.Join(dir, "news.json"),
		filepath.Join(dir, "backups"),
		maxBackups,
	)
}

func sampleDoc() models.Document {
	return models.Document{News: []models.Article{
		{ID: "20240101-111", Date: "2024-01-01", Category: "お知らせ", Title: "年始", Content: ""},
		{ID: "20240315-222", Date: "2024-03-15", Category: "イベント", Title: "春", Content: "<p>本文</p>"},
	}}
}

func TestLoad_MissingFile(t *testing.T) {
	s := newTestStore(t, 10)
	doc, err := s.Load()
	require.NoError(t, err)
	require.Empty(t, doc.News)
}

func TestLoad_InvalidJSON(t *testing.T) {
	s := newTestStore(t, 10)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.DataFile()), 0o755))
	require.NoError(t, os.WriteFile(s.DataFile(), []byte("{not json"), 0o644))

	_, err := s.Load()
	require.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	s := newTestStore(t, 10)

	n, err := s.Save(sampleDoc())
	require.NoError(t, err)
	require.Positive(t, n)

	doc, err := s.Load()
	require.NoError(t, err)
	require.Len(t, doc.News, 2)
	// Сохранённый документ отсортирован по дате по убыванию.
	require.Equal(t, "2024-03-15", doc.News[0].Date)
	require.Equal(t, "2024-01-01", doc.News[1].Date)
}

func TestSave_PrettyPrintedAndUnicodePreserved(t *testing.T) {
	s := newTestStore(t, 10)
	_, err := s.Save(sampleDoc())
	require.NoError(t, err)

	data, err := os.ReadFile(s.DataFile())
	require.NoError(t, err)
	require.Contains(t, string(data), "\n  \"news\"")
	require.Contains(t, string(data), "お知らせ")
	require.Contains(t, string(data), "<p>本文</p>")
	require.NotContains(t, string(data), `\u`)
}

func TestSave_ReportedBytesMatchFile(t *testing.T) {
	s := newTestStore(t, 10)
	n, err := s.Save(sampleDoc())
	require.NoError(t, err)

	data, err := os.ReadFile(s.DataFile())
	require.NoError(t, err)
	require.Equal(t, len(data), n)
}

func TestSaveDocument_PreservesUnknownFields(t *testing.T) {
	s := newTestStore(t, 10)

	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"news": [], "updated_by": "admin"}`), &body))

	_, err := s.SaveDocument(body)
	require.NoError(t, err)

	data, err := os.ReadFile(s.DataFile())
	require.NoError(t, err)
	require.Contains(t, string(data), "updated_by")
}

func TestSave_FirstSaveMakesNoBackup(t *testing.T) {
	s := newTestStore(t, 10)
	_, err := s.Save(sampleDoc())
	require.NoError(t, err)

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Empty(t, backups)
}

func TestSave_BackupKeepsPreviousContent(t *testing.T) {
	s := newTestStore(t, 10)

	_, err := s.Save(sampleDoc())
	require.NoError(t, err)

	next := models.Document{News: []models.Article{
		{ID: "20240401-333", Date: "2024-04-01", Category: "c", Title: "t"},
	}}
	_, err = s.Save(next)
	require.NoError(t, err)

	backups, err := s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 1)
	require.True(t, strings.HasPrefix(filepath.Base(backups[0]), "news_"))

	data, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "20240101-111")
}

func TestSave_PruneKeepsNewest(t *testing.T) {
	s := newTestStore(t, 3)

	_, err := s.Save(sampleDoc())
	require.NoError(t, err)

	// Резервные копии именуются с точностью до секунды, поэтому историю
	// создаём напрямую, как это сделали бы прошлые запуски.
	backups, err := s.Backups()
	require.NoError(t, err)
	require.Empty(t, backups)

	dir := filepath.Join(filepath.Dir(s.DataFile()), "backups")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	old := []string{
		"news_20230101_000000.json",
		"news_20230102_000000.json",
		"news_20230103_000000.json",
		"news_20230104_000000.json",
	}
	for _, name := range old {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	_, err = s.Save(sampleDoc())
	require.NoError(t, err)

	backups, err = s.Backups()
	require.NoError(t, err)
	require.Len(t, backups, 3)
	// Удаляются самые старые.
	require.Equal(t, "news_20230103_000000.json", filepath.Base(backups[0]))
	require.Equal(t, "news_20230104_000000.json", filepath.Base(backups[1]))
}
