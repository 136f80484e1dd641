package view

import (
	"bytes"
	"io"
	"testing"

	"galeri/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_RenderHome(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	err := engine.Render(&buf, PageHome, map[string]any{
		"Title":     "Beranda",
		"Images":    []model.UploadedItem{{ID: 17, Filename: "17.png", Description: "kucing", UploadDate: "2024-01-01 10:00:00"}},
		"Documents": []model.UploadedItem{{ID: 21, Filename: "21.pdf", Description: "laporan"}},
	}, Layout)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "<title>Beranda · Galeri</title>")
	assert.Contains(t, out, `src="/uploads/17.png"`)
	assert.Contains(t, out, `action="/delete/17"`)
	assert.Contains(t, out, `href="/documents/21.pdf"`)
	assert.Contains(t, out, `action="/delete-document/21"`)
	assert.Contains(t, out, `action="/upload"`)
	assert.Contains(t, out, `action="/upload-pdf"`)
}

func TestEngine_RenderEmptyListings(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, PageImages, map[string]any{"Title": "Gambar"}, Layout))
	assert.Contains(t, buf.String(), "Belum ada gambar.")

	buf.Reset()
	require.NoError(t, engine.Render(&buf, PageDocument, map[string]any{"Title": "Dokumen"}, Layout))
	assert.Contains(t, buf.String(), "Belum ada dokumen.")
}

func TestEngine_EscapesDescription(t *testing.T) {
	engine := NewEngine()
	require.NoError(t, engine.Load())

	var buf bytes.Buffer
	err := engine.Render(&buf, PageImages, map[string]any{
		"Title":  "Gambar",
		"Images": []model.UploadedItem{{ID: 1, Filename: "1.png", Description: "<script>x</script>"}},
	}, Layout)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), "<script>x</script>")
}

func TestStatic(t *testing.T) {
	f, err := Static().Open("style.css")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(data), ".topbar")
}
