package merger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerylCAtieno/label-ocr-api/internal/testutil"
)

func pageContents(t *testing.T, data []byte) []string {
	t.Helper()

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), newConfig())
	require.NoError(t, err)

	contents := make([]string, 0, ctx.PageCount)
	for nr := 1; nr <= ctx.PageCount; nr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, nr)
		require.NoError(t, err)
		b, err := io.ReadAll(r)
		require.NoError(t, err)
		contents = append(contents, string(b))
	}
	return contents
}

func TestMergeKeepsOrder(t *testing.T) {
	source := testutil.BuildPDF([]string{"SRC-ONE"}, []string{"SRC-TWO"})
	generated := testutil.BuildPDF([]string{"GEN-ONE"}, []string{"GEN-TWO"}, []string{"GEN-THREE"})

	out, err := Merge(bytes.NewReader(source), bytes.NewReader(generated))
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	contents := pageContents(t, out)
	require.Len(t, contents, 5)
	for i, want := range []string{"SRC-ONE", "SRC-TWO", "GEN-ONE", "GEN-TWO", "GEN-THREE"} {
		assert.Contains(t, contents[i], "("+want+")", "page %d", i+1)
	}
}

func TestMergeSingleDocument(t *testing.T) {
	out, err := Merge(bytes.NewReader(testutil.BuildPDF([]string{"only"})))
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMergeNoDocuments(t *testing.T) {
	_, err := Merge()
	assert.ErrorIs(t, err, ErrMergeFailed)
}

func TestMergeInvalidInput(t *testing.T) {
	valid := testutil.BuildPDF([]string{"ok"})

	_, err := Merge(bytes.NewReader(valid), bytes.NewReader([]byte("not a pdf at all")))
	require.ErrorIs(t, err, ErrMergeFailed)
	assert.Contains(t, err.Error(), "document 2")
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "source.pdf")
	second := filepath.Join(dir, "generated.pdf")
	require.NoError(t, os.WriteFile(first, testutil.BuildPDF([]string{"a"}, []string{"b"}), 0o644))
	require.NoError(t, os.WriteFile(second, testutil.BuildPDF([]string{"c"}), 0o644))

	out, err := MergeFiles(first, second)
	require.NoError(t, err)

	n, err := PageCount(out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMergeFilesMissing(t *testing.T) {
	_, err := MergeFiles(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.ErrorIs(t, err, ErrMergeFailed)
}

func TestPageCountInvalid(t *testing.T) {
	_, err := PageCount([]byte("garbage"))
	assert.Error(t, err)
}
