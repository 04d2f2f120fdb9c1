package pptx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html/charset"
)

// NewDecoder returns a decoder for an OOXML part that accepts non UTF-8
// encodings declared in the XML prolog.
func NewDecoder(data []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

var encodingPattern = regexp.MustCompile(`^\x{FEFF}?\s*<\?xml[^>]*?\bencoding\s*=\s*["']([^"']+)["']`)

// ErrUnsupportedEncoding is returned by ReplaceText for parts that are not
// UTF-8. Decoder offsets of a transcoded part do not index its bytes.
var ErrUnsupportedEncoding = errors.New("only UTF-8 parts can be edited")

// declaredEncoding returns the encoding named in the XML prolog of data, or
// the empty string when it names none.
func declaredEncoding(data []byte) string {
	m := encodingPattern.FindSubmatch(data)
	if m == nil {
		return ""
	}
	return strings.ToLower(string(m[1]))
}

func utf8Part(data []byte) bool {
	switch declaredEncoding(data) {
	case "", "utf-8", "utf8", "us-ascii", "ascii":
		return true
	}
	return false
}

// Role is what a text shape is used for on a slide
type Role string

const (
	RoleTitle    Role = "title"
	RoleSubtitle Role = "subtitle"
	RoleBody     Role = "body"
	RoleOther    Role = "other"
	// RoleIgnored covers date, footer and slide number placeholders
	RoleIgnored Role = "ignored"
)

// Shape is a p:sp element of a slide together with the byte offsets needed
// to rewrite its text in place.
type Shape struct {
	Placeholder     bool
	PlaceholderType string
	Paragraphs      []string
	HasTextBody     bool

	parasStart int64 // first <a:p>, -1 when the body has none
	parasEnd   int64 // end of last </a:p>
	bodyClose  int64 // start of </p:txBody>
	runProps   []byte
}

// Text joins the paragraphs of the shape with newlines
func (s Shape) Text() string {
	return strings.Join(s.Paragraphs, "\n")
}

// Role classifies the shape from its placeholder type
func (s Shape) Role() Role {
	if !s.Placeholder {
		return RoleOther
	}
	switch s.PlaceholderType {
	case "title", "ctrTitle":
		return RoleTitle
	case "subTitle":
		return RoleSubtitle
	case "", "body", "obj":
		return RoleBody
	default:
		return RoleIgnored
	}
}

// Shapes lists the p:sp elements of a slide, layout or master part in
// document order.
func Shapes(data []byte) ([]Shape, error) {
	dec := NewDecoder(data)
	editable := utf8Part(data)

	var (
		shapes  []Shape
		cur     *Shape
		spDepth int
		inBody  bool
		inPara  bool
		para    strings.Builder
		inText  bool
		rPrFrom int64 = -1
	)

	for {
		before := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse slide XML: %w", err)
		}
		after := dec.InputOffset()

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "sp" && cur == nil:
				cur = &Shape{parasStart: -1, parasEnd: -1, bodyClose: -1}
				spDepth = 1
				continue
			case cur == nil:
				continue
			case t.Name.Local == "sp":
				spDepth++
			case t.Name.Local == "ph":
				cur.Placeholder = true
				cur.PlaceholderType = Attr(t, "type")
			case t.Name.Local == "txBody":
				cur.HasTextBody = true
				inBody = true
			case inBody && t.Name.Local == "p" && t.Name.Space == NSDrawingML:
				inPara = true
				para.Reset()
				if cur.parasStart < 0 {
					cur.parasStart = before
				}
			case inPara && t.Name.Local == "t":
				inText = true
			case inPara && t.Name.Local == "br":
				para.WriteString("\n")
			case inPara && t.Name.Local == "rPr" && cur.runProps == nil && editable:
				rPrFrom = before
			}
		case xml.EndElement:
			if cur == nil {
				continue
			}
			switch {
			case t.Name.Local == "sp":
				spDepth--
				if spDepth == 0 {
					shapes = append(shapes, *cur)
					cur = nil
					inBody, inPara, inText = false, false, false
				}
			case t.Name.Local == "txBody":
				cur.bodyClose = before
				inBody = false
			case inBody && t.Name.Local == "p" && t.Name.Space == NSDrawingML:
				inPara = false
				cur.parasEnd = after
				cur.Paragraphs = append(cur.Paragraphs, para.String())
			case t.Name.Local == "t":
				inText = false
			case t.Name.Local == "rPr" && rPrFrom >= 0:
				cur.runProps = append([]byte(nil), data[rPrFrom:after]...)
				rPrFrom = -1
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return shapes, nil
}

// CommonSlideName returns the name attribute of p:cSld, or ""
func CommonSlideName(data []byte) string {
	dec := NewDecoder(data)
	for {
		tok, err := dec.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "cSld" {
			return Attr(se, "name")
		}
	}
}

// TextEdit replaces all paragraphs of Shapes()[Shape] with Lines
type TextEdit struct {
	Shape int
	Lines []string
}

// ReplaceText rewrites the paragraphs of the given shapes. shapes must come
// from Shapes(data). The first run properties of each shape are reused so
// the new text keeps the template font.
func ReplaceText(data []byte, shapes []Shape, edits []TextEdit) ([]byte, error) {
	if !utf8Part(data) {
		return nil, fmt.Errorf("%w: part is declared %s", ErrUnsupportedEncoding, declaredEncoding(data))
	}
	type splice struct {
		from, to int64
		text     string
	}
	var splices []splice

	for _, e := range edits {
		if e.Shape < 0 || e.Shape >= len(shapes) {
			return nil, fmt.Errorf("shape %d out of range", e.Shape)
		}
		s := shapes[e.Shape]
		if !s.HasTextBody || s.bodyClose < 0 {
			return nil, fmt.Errorf("shape %d has no text body", e.Shape)
		}
		from, to := s.parasStart, s.parasEnd
		if from < 0 {
			from, to = s.bodyClose, s.bodyClose
		}
		splices = append(splices, splice{from: from, to: to, text: paragraphs(e.Lines, s.runProps)})
	}

	sort.Slice(splices, func(i, j int) bool { return splices[i].from > splices[j].from })

	out := append([]byte(nil), data...)
	for _, sp := range splices {
		var b bytes.Buffer
		b.Write(out[:sp.from])
		b.WriteString(sp.text)
		b.Write(out[sp.to:])
		out = b.Bytes()
	}
	return out, nil
}

func paragraphs(lines []string, runProps []byte) string {
	if len(lines) == 0 {
		return "<a:p/>"
	}
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			b.WriteString("<a:p/>")
			continue
		}
		b.WriteString("<a:p><a:r>")
		b.Write(runProps)
		b.WriteString("<a:t>")
		b.WriteString(EscapeText(line))
		b.WriteString("</a:t></a:r></a:p>")
	}
	return b.String()
}
