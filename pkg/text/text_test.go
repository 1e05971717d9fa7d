package text

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/frame"
	"github.com/gardar/ocreval/pkg/geometry"
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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLines(t *testing.T) {
	tree, err := ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
	require.NoError(t, err)
	lines, err := Lines(tree, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Die Zei-", "tung 1848."}, lines)
}

func TestLinesWithFrame(t *testing.T) {
	tree, err := ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
	require.NoError(t, err)

	// two points span the left column
	lines, err := Lines(tree, geometry.Polygon{{X: -10, Y: -10}, {X: 300, Y: 400}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Die", "tung"}, lines)
}

func TestLinesFullPageFrame(t *testing.T) {
	tree, err := ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
	require.NoError(t, err)
	lines, err := Lines(tree, tree.Dimensions(tree.Root()))
	require.NoError(t, err)
	assert.Len(t, lines, 2)
	assert.Equal(t, 8, tree.Len())
}

func TestLinesWithFilterOptions(t *testing.T) {
	box := geometry.Polygon{{X: -10, Y: -10}, {X: 300, Y: 400}}
	spacing := func(opts ...frame.Option) int {
		tree, err := ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
		require.NoError(t, err)
		lines, err := Lines(tree, box, opts...)
		require.NoError(t, err)
		assert.Equal(t, []string{"Die", "tung"}, lines)
		var buf bytes.Buffer
		require.NoError(t, tree.Write(&buf))
		return strings.Count(buf.String(), "<SP")
	}
	assert.Equal(t, 0, spacing())
	assert.Equal(t, 2, spacing(frame.WithRemovable(doctree.FormatALTO)))
}

func TestOneliner(t *testing.T) {
	tree, err := ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
	require.NoError(t, err)
	text, n, err := Oneliner(tree, nil)
	require.NoError(t, err)
	assert.Equal(t, "Die Zei- tung 1848.", text)
	assert.Equal(t, 2, n)

	tree, err = ocrfile.ReadBytes([]byte(altoDoc), "a.xml")
	require.NoError(t, err)
	text, n, err = Oneliner(tree, geometry.FromBox(400, 150, 600, 200))
	require.NoError(t, err)
	assert.Equal(t, "1848.", text)
	assert.Equal(t, 1, n)
}

func TestExpandFrame(t *testing.T) {
	two := geometry.Polygon{{X: 1, Y: 2}, {X: 3, Y: 4}}
	assert.Equal(t, geometry.Polygon{{X: 1, Y: 2}, {X: 3, Y: 2}, {X: 3, Y: 4}, {X: 1, Y: 4}}, ExpandFrame(two))
	tri := geometry.Polygon{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}
	assert.Equal(t, tri, ExpandFrame(tri))
	assert.Nil(t, ExpandFrame(nil))
}

func TestFileLines(t *testing.T) {
	lines, err := FileLines(writeFile(t, "page.xml", altoDoc), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Die Zei-", "tung 1848."}, lines)

	text, n, err := FileOneliner(writeFile(t, "page.xml", altoDoc), nil)
	require.NoError(t, err)
	assert.Equal(t, "Die Zei- tung 1848.", text)
	assert.Equal(t, 2, n)
}

func TestFileLinesPlainTextFallback(t *testing.T) {
	path := writeFile(t, "page.txt", "  erste Zeile\n\nzweite Zeile  \n")
	lines, err := FileLines(path, geometry.FromBox(0, 0, 1, 1))
	require.NoError(t, err)
	assert.Equal(t, []string{"erste Zeile", "zweite Zeile"}, lines)
}

func TestFileLinesErrors(t *testing.T) {
	_, err := FileLines(filepath.Join(t.TempDir(), "missing.xml"), nil)
	require.Error(t, err)

	_, err = FileLines(writeFile(t, "other.xml", "<html><body/></html>"), nil)
	require.ErrorIs(t, err, ocrfile.ErrUnknownFormat)
}

func TestFileDictLines(t *testing.T) {
	lines, err := FileDictLines(writeFile(t, "page.xml", altoDoc), nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Die Zeitung"}, lines)
}
