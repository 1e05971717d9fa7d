package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/ocrfile"
)

const altoDoc = `<?xml version="1.0" encoding="UTF-8"?>
<alto xmlns="http://www.loc.gov/standards/alto/ns-v3#">
  <Layout>
    <Page ID="p1" WIDTH="1000" HEIGHT="1000">
      <PrintSpace>
        <TextBlock ID="r1" HPOS="0" VPOS="0" WIDTH="1000" HEIGHT="300">
          <TextLine ID="l1" HPOS="0" VPOS="0" WIDTH="1000" HEIGHT="100">
            <String ID="s1" CONTENT="Die" HPOS="0" VPOS="0" WIDTH="100" HEIGHT="100"/>
            <SP/>
            <String ID="s2" CONTENT="Zei-" HPOS="500" VPOS="0" WIDTH="100" HEIGHT="100"/>
          </TextLine>
          <TextLine ID="l2" HPOS="0" VPOS="200" WIDTH="1000" HEIGHT="100">
            <String ID="s3" CONTENT="tung" HPOS="0" VPOS="200" WIDTH="100" HEIGHT="100"/>
            <SP/>
            <String ID="s4" CONTENT="1848." HPOS="500" VPOS="200" WIDTH="100" HEIGHT="100"/>
          </TextLine>
        </TextBlock>
      </PrintSpace>
    </Page>
  </Layout>
</alto>`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunFrame(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)

	var out bytes.Buffer
	err := run(context.Background(), []string{"frame", "-points", "0,0 300,400", path}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "removed 2 String elements")

	tree, err := ocrfile.Read(filepath.Join(dir, "page.gt.xml"))
	require.NoError(t, err)
	lines, err := tree.Lines()
	require.NoError(t, err)
	assert.Len(t, lines, 2)
}

func TestRunFrameJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)
	target := filepath.Join(dir, "framed.xml")

	var out bytes.Buffer
	err := run(context.Background(), []string{"frame", "-json", "-o", target, "-points", "0,0 300,400", path}, &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"removed": {`)
	assert.Contains(t, out.String(), `"String": 2`)
	assert.FileExists(t, target)
}

func TestRunFrameInvalidPoints(t *testing.T) {
	path := writeFile(t, t.TempDir(), "page.xml", altoDoc)
	err := run(context.Background(), []string{"frame", "-points", "0,0 abc", path}, &bytes.Buffer{})
	require.ErrorIs(t, err, frame.ErrInvalidPoints)
}

func TestRunText(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"text", path}, &out))
	assert.Equal(t, "Die Zei-\ntung 1848.\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"text", "-dict", path}, &out))
	assert.Equal(t, "Die Zeitung\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"text", "-oneliner", "-frame", "0,0 300,400", path}, &out))
	assert.Equal(t, "Die tung\n", out.String())
}

func TestRunTextBatch(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.xml", altoDoc)
	b := writeFile(t, dir, "b.txt", "eins\n\nzwei\n")
	missing := filepath.Join(dir, "missing.xml")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"text", "-v", "-v", a, missing, b}, &out))
	got := out.String()
	assert.True(t, strings.Index(got, "# "+a) < strings.Index(got, "# "+b))
	assert.Contains(t, got, "eins\nzwei\n")
	assert.NotContains(t, got, missing)
}

func TestRunHOCR(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"hocr", path}, &out))
	assert.Contains(t, out.String(), `class="ocrx_word"`)
	assert.Contains(t, out.String(), ">Zei-</span>")
}

func TestRunPreview(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"preview", "-frame", "0,0 300,400", path}, &out))
	data, err := os.ReadFile(filepath.Join(dir, "page.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.xml", altoDoc)
	cfg := writeFile(t, dir, "ocrgt.yaml", "output_infix: .framed\n")

	require.NoError(t, run(context.Background(), []string{"frame", "-config", cfg, "-points", "0,0 300,400", path}, &bytes.Buffer{}))
	assert.FileExists(t, filepath.Join(dir, "page.framed.xml"))

	bad := writeFile(t, dir, "bad.yaml", "workers: 0\n")
	err := run(context.Background(), []string{"text", "-config", bad, path}, &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunUsage(t *testing.T) {
	require.ErrorIs(t, run(context.Background(), nil, &bytes.Buffer{}), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"bogus"}, &bytes.Buffer{}), errUsage)
	require.ErrorIs(t, run(context.Background(), []string{"text"}, &bytes.Buffer{}), errUsage)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"help"}, &out))
	assert.Contains(t, out.String(), "Usage: ocrgt")
}
