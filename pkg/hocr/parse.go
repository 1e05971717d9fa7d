package hocr

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/text/encoding/charmap"
)

// ErrNoPages is returned for HTML without any ocr_page element.
var ErrNoPages = errors.New("no ocr_page elements found in hOCR data")

// lineClasses are the hOCR classes of line-like elements
var lineClasses = []string{"ocr_line", "ocr_textfloat", "ocr_header", "ocr_caption"}

// ParseHOCR converts raw hOCR data into a structured HOCR object.
// Data declaring a charset other than UTF-8 is decoded as ISO-8859-1.
func ParseHOCR(data []byte) (HOCR, error) {
	result := HOCR{Metadata: make(map[string]string)}

	if enc := charset(data); enc != "" && enc != "utf-8" && enc != "utf8" {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return result, fmt.Errorf("failed to decode %s: %w", enc, err)
		}
		data = decoded
	}

	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return result, err
	}
	extractDocumentMeta(&result, doc)

	for _, n := range collect(doc, "ocr_page") {
		result.Pages = append(result.Pages, processPage(n))
	}
	if len(result.Pages) == 0 {
		return result, ErrNoPages
	}
	return result, nil
}

// charset reads the declared charset from the head of an HTML document.
func charset(data []byte) string {
	head := data
	if len(head) > 2048 {
		head = head[:2048]
	}
	lower := strings.ToLower(string(head))
	i := strings.Index(lower, "charset=")
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeft(lower[i+len("charset="):], `"'`)
	end := strings.IndexAny(rest, `"'; />`)
	if end < 0 {
		return rest
	}
	return rest[:end]
}

// ParseTitle breaks down an hOCR title attribute into its components
// Example input: "bbox 100 200 300 400; x_wconf 95"
func ParseTitle(title string) map[string][]string {
	result := make(map[string][]string)
	for _, part := range strings.Split(title, ";") {
		items := strings.Fields(part)
		if len(items) > 0 {
			result[items[0]] = items[1:]
		}
	}
	return result
}

// ParseBoundingBoxFromTitle extracts a bounding box from a title string
// Returns nil if the title has no complete numeric bbox
func ParseBoundingBoxFromTitle(title string) *BoundingBox {
	bbox, ok := ParseTitle(title)["bbox"]
	if !ok || len(bbox) < 4 {
		return nil
	}
	var v [4]float64
	for i := range v {
		f, err := strconv.ParseFloat(bbox[i], 64)
		if err != nil {
			return nil
		}
		v[i] = f
	}
	result := NewBoundingBox(v[0], v[1], v[2], v[3])
	return &result
}

// extractDocumentMeta reads the title, language and ocr-* meta tags
func extractDocumentMeta(result *HOCR, doc *html.Node) {
	for _, n := range elements(doc, "html") {
		if lang := getAttrVal(n, "lang"); lang != "" {
			result.Language = lang
		}
	}
	heads := elements(doc, "head")
	if len(heads) == 0 {
		return
	}
	for c := heads[0].FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "title":
			result.Title = extractTextContent(c)
		case "meta":
			name, content := getAttrVal(c, "name"), getAttrVal(c, "content")
			switch {
			case content == "":
			case strings.HasPrefix(name, "ocr-"):
				result.Metadata[name] = content
			case name == "dc.language":
				result.Language = content
			}
		}
	}
}

// processPage extracts page information and its areas and lines
func processPage(n *html.Node) Page {
	page := Page{
		ID:   getAttrVal(n, "id"),
		Lang: getAttrVal(n, "lang"),
	}
	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		page.BBox = *bbox
	}
	if image, ok := ParseTitle(title)["image"]; ok && len(image) > 0 {
		page.ImageName = strings.Trim(image[0], `"`)
	}

	for _, c := range collect(n, append([]string{"ocr_carea", "ocr_par"}, lineClasses...)...) {
		switch {
		case hasClass(c, "ocr_carea"):
			page.Areas = append(page.Areas, processArea(c))
		case hasClass(c, "ocr_par"):
			// paragraphs outside of areas contribute their lines
			page.Lines = append(page.Lines, processParagraph(c).Lines...)
		default:
			page.Lines = append(page.Lines, processLine(c))
		}
	}
	return page
}

// processArea extracts area information and its paragraphs and lines
func processArea(n *html.Node) Area {
	area := Area{ID: getAttrVal(n, "id")}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		area.BBox = *bbox
	}
	for _, c := range collect(n, append([]string{"ocr_par"}, lineClasses...)...) {
		if hasClass(c, "ocr_par") {
			area.Paragraphs = append(area.Paragraphs, processParagraph(c))
		} else {
			area.Lines = append(area.Lines, processLine(c))
		}
	}
	return area
}

// processParagraph extracts paragraph information and its lines
func processParagraph(n *html.Node) Paragraph {
	para := Paragraph{ID: getAttrVal(n, "id")}
	if bbox := ParseBoundingBoxFromTitle(getAttrVal(n, "title")); bbox != nil {
		para.BBox = *bbox
	}
	for _, c := range collect(n, lineClasses...) {
		para.Lines = append(para.Lines, processLine(c))
	}
	return para
}

// processLine extracts line information and its words
func processLine(n *html.Node) Line {
	line := Line{ID: getAttrVal(n, "id")}
	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		line.BBox = *bbox
	}
	if baseline, ok := ParseTitle(title)["baseline"]; ok {
		line.Baseline = strings.Join(baseline, " ")
	}
	for _, c := range collect(n, "ocrx_word") {
		line.Words = append(line.Words, processWord(c))
	}
	return line
}

// processWord extracts the text and properties of a word
func processWord(n *html.Node) Word {
	word := Word{
		ID:   getAttrVal(n, "id"),
		Text: extractTextContent(n),
	}
	title := getAttrVal(n, "title")
	if bbox := ParseBoundingBoxFromTitle(title); bbox != nil {
		word.BBox = *bbox
	}
	if conf, ok := ParseTitle(title)["x_wconf"]; ok && len(conf) > 0 {
		word.Confidence, _ = strconv.ParseFloat(conf[0], 64)
	}
	return word
}

// collect finds the outermost descendants of n carrying one of classes
func collect(n *html.Node, classes ...string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && hasClass(c, classes...) {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// elements finds all descendant elements with the given tag name
func elements(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode && node.Data == tag {
			out = append(out, node)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func hasClass(n *html.Node, classes ...string) bool {
	for _, have := range strings.Fields(getAttrVal(n, "class")) {
		for _, want := range classes {
			if have == want {
				return true
			}
		}
	}
	return false
}

// extractTextContent gets all text from a node and its children
func extractTextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(extractTextContent(c))
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Get the value of a specific attribute from a node
func getAttrVal(n *html.Node, attrName string) string {
	for _, attr := range n.Attr {
		if attr.Key == attrName {
			return attr.Val
		}
	}
	return ""
}
