package pptx

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
)

// ContentTypeSlide is the content type of a slide part
const ContentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

type contentTypes struct {
	XMLName   xml.Name     `xml:"Types"`
	Xmlns     string       `xml:"xmlns,attr"`
	Defaults  []ctDefault  `xml:"Default"`
	Overrides []ctOverride `xml:"Override"`
}

type ctDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type ctOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

const nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"

// UpdateContentTypes removes the overrides of the parts in remove and adds
// one override per entry of add (part name -> content type).
func (p *Package) UpdateContentTypes(remove []string, add map[string]string, addOrder []string) error {
	data, err := p.Read(ContentTypesPart)
	if err != nil {
		return err
	}
	var ct contentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return fmt.Errorf("failed to parse %s: %w", ContentTypesPart, err)
	}

	drop := make(map[string]bool, len(remove)+len(add))
	for _, part := range remove {
		drop["/"+part] = true
	}
	for part := range add {
		drop["/"+part] = true
	}
	kept := ct.Overrides[:0]
	for _, o := range ct.Overrides {
		if !drop[o.PartName] {
			kept = append(kept, o)
		}
	}
	for _, part := range addOrder {
		kept = append(kept, ctOverride{PartName: "/" + part, ContentType: add[part]})
	}
	ct.Overrides = kept
	ct.XMLName = xml.Name{}
	ct.Xmlns = nsContentTypes

	out, err := xml.Marshal(ct)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", ContentTypesPart, err)
	}
	p.Set(ContentTypesPart, append([]byte(xml.Header), out...))
	return nil
}

var (
	sldIdLstPattern = regexp.MustCompile(`(?s)<(\w+:)?sldIdLst\b[^>]*?(?:/>|>.*?</(?:\w+:)?sldIdLst>)`)
	sldSzPattern    = regexp.MustCompile(`<(\w+:)?sldSz\b`)
	relsNSPattern   = regexp.MustCompile(`xmlns:(\w+)="` + regexp.QuoteMeta(NSOfficeRels) + `"`)

	// lists keyed by slide id that a renumbered sldIdLst leaves dangling
	custShowLstPattern = regexp.MustCompile(`(?s)<(?:\w+:)?custShowLst\b[^>]*?(?:/>|>.*?</(?:\w+:)?custShowLst>)`)
	sectionExtPattern  = regexp.MustCompile(`(?s)<(?:\w+:)?ext\b[^>]*>\s*<\w+:sectionLst\b.*?</\w+:sectionLst>\s*</(?:\w+:)?ext>`)
)

// SetSlideList rewrites p:sldIdLst of the presentation so it lists relIDs in
// order. Slide ids are renumbered from 256; custom shows and sections refer to
// the old ids and are dropped.
func (p *Package) SetSlideList(relIDs []string) error {
	data, err := p.Read(PresentationPart)
	if err != nil {
		return err
	}

	relPrefix := "r"
	if m := relsNSPattern.FindSubmatch(data); m != nil {
		relPrefix = string(m[1])
	}

	loc := sldIdLstPattern.FindSubmatchIndex(data)
	prefix := "p:"
	var start, end int
	switch {
	case loc != nil:
		start, end = loc[0], loc[1]
		if loc[2] >= 0 {
			prefix = string(data[loc[2]:loc[3]])
		} else {
			prefix = ""
		}
	default:
		// p:sldIdLst sits right before p:sldSz
		m := sldSzPattern.FindSubmatchIndex(data)
		if m == nil {
			return fmt.Errorf("%s has neither sldIdLst nor sldSz", PresentationPart)
		}
		start, end = m[0], m[0]
		if m[2] >= 0 {
			prefix = string(data[m[2]:m[3]])
		} else {
			prefix = ""
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "<%ssldIdLst>", prefix)
	for i, id := range relIDs {
		fmt.Fprintf(&b, `<%ssldId id="%d" %s:id="%s"/>`, prefix, 256+i, relPrefix, id)
	}
	fmt.Fprintf(&b, "</%ssldIdLst>", prefix)

	out := make([]byte, 0, len(data)+b.Len())
	out = append(out, data[:start]...)
	out = append(out, b.String()...)
	out = append(out, data[end:]...)
	out = custShowLstPattern.ReplaceAll(out, nil)
	out = sectionExtPattern.ReplaceAll(out, nil)
	p.Set(PresentationPart, out)
	return nil
}
