package pptx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

const (
	NSRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSOfficeRels    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSDrawingML     = "http://schemas.openxmlformats.org/drawingml/2006/main"

	RelTypeSlide       = NSOfficeRels + "/slide"
	RelTypeSlideLayout = NSOfficeRels + "/slideLayout"
	RelTypeSlideMaster = NSOfficeRels + "/slideMaster"
	RelTypeTheme       = NSOfficeRels + "/theme"
	RelTypeNotesSlide  = NSOfficeRels + "/notesSlide"
	RelTypeComments    = NSOfficeRels + "/comments"
)

// Relationship is one entry of a .rels part
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Xmlns   string         `xml:"xmlns,attr"`
	Items   []Relationship `xml:"Relationship"`
}

// RelsPath returns the relationships part of a part,
// e.g. ppt/slides/slide1.xml -> ppt/slides/_rels/slide1.xml.rels
func RelsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target relative to the part owning
// the relationship. Targets never escape the archive root.
func ResolveTarget(part, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	resolved := path.Clean(path.Join(path.Dir(part), target))
	return strings.TrimLeft(strings.TrimPrefix(resolved, "../"), "/")
}

// Rels returns the relationships of part. A missing .rels part yields none.
func (p *Package) Rels(part string) ([]Relationship, error) {
	data, ok := p.parts[RelsPath(part)]
	if !ok {
		return nil, nil
	}
	var rels relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships of %s: %w", part, err)
	}
	return rels.Items, nil
}

// SetRels writes the relationships part of part
func (p *Package) SetRels(part string, items []Relationship) error {
	out, err := xml.Marshal(relationships{Xmlns: NSRelationships, Items: items})
	if err != nil {
		return fmt.Errorf("failed to encode relationships of %s: %w", part, err)
	}
	p.Set(RelsPath(part), append([]byte(xml.Header), out...))
	return nil
}

// RelatedPart returns the first internal part of relType related to part, or "".
func (p *Package) RelatedPart(part, relType string) (string, error) {
	rels, err := p.Rels(part)
	if err != nil {
		return "", err
	}
	for _, r := range rels {
		if r.Type == relType && r.TargetMode != "External" {
			return ResolveTarget(part, r.Target), nil
		}
	}
	return "", nil
}

// SlideParts returns the slide part names in presentation order, following
// p:sldIdLst and the presentation relationships.
func (p *Package) SlideParts() ([]string, error) {
	data, err := p.Read(PresentationPart)
	if err != nil {
		return nil, err
	}
	rels, err := p.Rels(PresentationPart)
	if err != nil {
		return nil, err
	}
	targets := make(map[string]string, len(rels))
	for _, r := range rels {
		if r.Type == RelTypeSlide {
			targets[r.ID] = ResolveTarget(PresentationPart, r.Target)
		}
	}

	dec := NewDecoder(data)
	var slides []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", PresentationPart, err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "sldId" {
			continue
		}
		id := attr(se, NSOfficeRels, "id")
		target, ok := targets[id]
		if !ok {
			continue
		}
		if !p.Has(target) {
			return nil, fmt.Errorf("slide %s referenced by %s is missing", target, id)
		}
		slides = append(slides, target)
	}
	return slides, nil
}

// NextRelID returns an rId not used by items
func NextRelID(items []Relationship) string {
	highest := 0
	for _, r := range items {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > highest {
			highest = n
		}
	}
	return "rId" + strconv.Itoa(highest+1)
}

func attr(se xml.StartElement, space, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local && (space == "" || a.Name.Space == space) {
			return a.Value
		}
	}
	return ""
}

// Attr returns the value of an unqualified attribute of se
func Attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local && a.Name.Space == "" {
			return a.Value
		}
	}
	return ""
}

// EscapeText escapes s for use as XML character data
func EscapeText(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
