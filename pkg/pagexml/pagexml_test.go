package pagexml

import (
	"fmt"
	"strings"
	"testing"

	"github.com/antchfx/xmlquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gardar/ocreval/internal/dom"
	"github.com/gardar/ocreval/pkg/doctree"
	"github.com/gardar/ocreval/pkg/geometry"
)

func document(t *testing.T, pages string) *xmlquery.Node {
	t.Helper()
	src := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<PcGts xmlns="%s">
  <Metadata><Creator>test</Creator></Metadata>
  %s
</PcGts>`, Namespace, pages)
	doc, err := xmlquery.Parse(strings.NewReader(src))
	require.NoError(t, err)
	return doc
}

func page(body string) string {
	return `<Page imageFilename="scan_0001.tif" imageWidth="1000" imageHeight="2000">` + body + `</Page>`
}

func region(id, points, body string) string {
	return fmt.Sprintf(`<TextRegion id="%s"><Coords points="%s"/>%s</TextRegion>`, id, points, body)
}

func line(id, points, body string) string {
	return fmt.Sprintf(`<TextLine id="%s"><Coords points="%s"/>%s</TextLine>`, id, points, body)
}

func word(id, points, text string) string {
	return fmt.Sprintf(`<Word id="%s"><Coords points="%s"/>%s</Word>`, id, points, equiv("", text))
}

func equiv(index, text string) string {
	if index != "" {
		index = fmt.Sprintf(` index="%s"`, index)
	}
	return fmt.Sprintf(`<TextEquiv%s><Unicode>%s</Unicode></TextEquiv>`, index, text)
}

const (
	boxA = "0,0 1000,0 1000,100 0,100"
	boxB = "0,200 1000,200 1000,300 0,300"
	boxC = "0,400 1000,400 1000,500 0,500"
)

func TestExtractReadingOrder(t *testing.T) {
	order := `<ReadingOrder><OrderedGroup id="g0">
<RegionRefIndexed index="0" regionRef="C"/>
<RegionRefIndexed index="1" regionRef="A"/>
<RegionRefIndexed index="2" regionRef="B"/>
</OrderedGroup></ReadingOrder>`
	body := order +
		region("A", boxA, line("la", boxA, equiv("", "alpha"))) +
		region("B", boxB, line("lb", boxB, equiv("", "beta"))) +
		region("C", boxC, line("lc", boxC, equiv("", "gamma")))
	tree, err := Extract(document(t, page(body)), "/gt/order.xml")
	require.NoError(t, err)

	var ids []string
	for _, c := range tree.Children(tree.Root()) {
		ids = append(ids, tree.Identifier(c))
	}
	assert.Equal(t, []string{"C", "A", "B"}, ids)

	text, err := tree.Text(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, "gamma alpha beta", text)
}

func TestExtractPartialReadingOrder(t *testing.T) {
	order := `<ReadingOrder><OrderedGroup id="g0"><RegionRefIndexed index="0" regionRef="B"/></OrderedGroup></ReadingOrder>`
	body := order + region("A", boxA, "") + region("B", boxB, "") + region("C", boxC, "")
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)

	var ids []string
	for _, c := range tree.Children(tree.Root()) {
		ids = append(ids, tree.Identifier(c))
	}
	assert.Equal(t, []string{"B", "A", "C"}, ids)
}

func TestExtractPage(t *testing.T) {
	body := region("r1", boxA,
		equiv("", "region text")+
			line("l1", "10,10 500,10 500,90 10,90",
				equiv("", "line text")+
					word("w1", "10,10 100,10 100,90 10,90", "Erste")+
					word("w2", "120,10 300,10 300,90 120,90", "Zeile")))
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)

	root := tree.Root()
	assert.Equal(t, "scan_0001.tif", tree.Identifier(root))
	assert.Equal(t, doctree.FormatPAGE, tree.Format())
	assert.Equal(t, geometry.FromBox(0, 0, 1000, 2000), tree.Dimensions(root))

	r := tree.Children(root)[0]
	assert.False(t, tree.HasText(r), "line text replaces region text")
	l := tree.Children(r)[0]
	assert.False(t, tree.HasText(l), "word text replaces line text")
	require.Len(t, tree.Children(l), 2)
	assert.Equal(t, doctree.Word, tree.Level(tree.Children(l)[0]))

	text, err := tree.Text(root)
	require.NoError(t, err)
	assert.Equal(t, "Erste Zeile", text)
}

func TestExtractWordTextReplacesRegionText(t *testing.T) {
	body := region("r1", boxA,
		equiv("", "REGION")+
			line("l1", "10,10 500,10 500,90 10,90",
				word("w1", "10,10 100,10 100,90 10,90", "aa")+
					word("w2", "120,10 300,10 300,90 120,90", "bb")))
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)

	r := tree.Children(tree.Root())[0]
	assert.False(t, tree.HasText(r))
	text, err := tree.Text(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, "aa bb", text)
}

func TestExtractLineBreaks(t *testing.T) {
	body := region("r1", boxA, equiv("", "eins\nzwei"))
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)
	text, err := tree.Text(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, "eins zwei", text)
}

func TestExtractSeveralLineTranscriptions(t *testing.T) {
	body := region("r1", boxA,
		line("l1", boxA,
			equiv("1", "second")+
				equiv("0", "first")+
				word("w1", "10,10 100,10 100,90 10,90", "ignored")))
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)

	l := tree.Children(tree.Children(tree.Root())[0])[0]
	assert.Empty(t, tree.Children(l))
	text, err := tree.Text(l)
	require.NoError(t, err)
	assert.Equal(t, "first", text)
}

func TestExtractTableCells(t *testing.T) {
	cell := fmt.Sprintf(`<TableRegion id="t1"><Coords points="%s"/><TableCell id="c1"><Coords points="%s"/>%s</TableCell></TableRegion>`,
		boxB, boxB, line("l1", boxB, equiv("", "Zelle")))
	body := region("r1", boxA, line("l0", boxA, equiv("", "Text"))) + cell
	tree, err := Extract(document(t, page(body)), "x.xml")
	require.NoError(t, err)

	children := tree.Children(tree.Root())
	require.Len(t, children, 2)
	assert.Equal(t, doctree.Region, tree.Level(children[0]))
	assert.Equal(t, doctree.TableCell, tree.Level(children[1]))
	text, err := tree.Text(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, "Text Zelle", text)
}

func TestExtractEmptyPage(t *testing.T) {
	tree, err := Extract(document(t, page("")), "x.xml")
	require.NoError(t, err)
	assert.Empty(t, tree.Children(tree.Root()))
	text, err := tree.Text(tree.Root())
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name  string
		pages string
		want  error
	}{
		{
			name:  "no page",
			pages: "",
			want:  doctree.ErrAmbiguousPage,
		},
		{
			name:  "two pages",
			pages: page("") + page(""),
			want:  doctree.ErrAmbiguousPage,
		},
		{
			name:  "missing coords",
			pages: page(`<TextRegion id="r1"/>`),
			want:  geometry.ErrInvalidGeometry,
		},
		{
			name:  "two points",
			pages: page(region("r1", "0,0 10,10", "")),
			want:  geometry.ErrInvalidGeometry,
		},
		{
			name:  "malformed points",
			pages: page(region("r1", "0,0 10,a 10,10", "")),
			want:  geometry.ErrInvalidGeometry,
		},
		{
			name:  "word without text",
			pages: page(region("r1", boxA, line("l1", boxA, `<Word id="w1"><Coords points="10,10 20,10 20,20"/></Word>`))),
			want:  doctree.ErrMissingText,
		},
		{
			name:  "line outside region",
			pages: page(region("r1", boxA, line("l1", boxC, equiv("", "weit weg")))),
			want:  doctree.ErrNotContained,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(document(t, tt.pages), "bad.xml")
			require.ErrorIs(t, err, tt.want)
			var se *doctree.StructureError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, "bad.xml", se.Path)
		})
	}
}

func TestSetGeometryWritesCoords(t *testing.T) {
	doc := document(t, page(region("r1", boxA, line("l1", "10,10 500,10 500,90 10,90", equiv("", "x")))))
	tree, err := Extract(doc, "x.xml")
	require.NoError(t, err)

	r := tree.Children(tree.Root())[0]
	changed, err := tree.SetGeometry(r, tree.ChildrenBounds(r))
	require.NoError(t, err)
	assert.True(t, changed)
	coords := dom.Child(tree.Element(r), "Coords")
	assert.Equal(t, "10,10 500,10 500,90 10,90", dom.AttrVal(coords, "points"))
	assert.NotContains(t, doc.OutputXML(true), boxA)
}
