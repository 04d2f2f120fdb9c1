// Package pptxtest builds small but well-formed .pptx files in memory for tests.
package pptxtest

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
)

// Slide describes one generated slide. An empty Title omits the title
// placeholder and a nil Body omits the body placeholder.
type Slide struct {
	Layout string
	Title  string
	Body   []string
	Extra  string // text of a plain, non-placeholder text box
	Notes  bool
}

// Theme describes the generated theme part
type Theme struct {
	Colors map[string]string // dk1, lt1, dk2, lt2, accent1..accent6 -> RRGGBB
	Major  string
	Minor  string
}

// DefaultTheme is a theme whose values differ from the built-in fallbacks
func DefaultTheme() *Theme {
	return &Theme{
		Colors: map[string]string{
			"dk1": "111111", "lt1": "FAFAFA", "dk2": "0B3D91",
			"lt2": "EEEEEE", "accent1": "2E86DE", "accent2": "F39C12",
		},
		Major: "Montserrat",
		Minor: "Open Sans",
	}
}

// Build returns the bytes of a presentation with the given slides. A nil
// theme produces a package without a theme part.
func Build(slides []Slide, theme *Theme) []byte {
	files := map[string]string{}
	var order []string
	add := func(name, content string) {
		order = append(order, name)
		files[name] = content
	}

	layouts := map[string]int{}
	var layoutNames []string
	for _, s := range slides {
		name := s.Layout
		if name == "" {
			name = "Title and Content"
		}
		if _, ok := layouts[name]; !ok {
			layoutNames = append(layoutNames, name)
			layouts[name] = len(layoutNames)
		}
	}

	var ct strings.Builder
	ct.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>` +
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	for i := range layoutNames {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slideLayouts/slideLayout%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`, i+1)
	}
	for i, s := range slides {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i+1)
		if s.Notes {
			fmt.Fprintf(&ct, `<Override PartName="/ppt/notesSlides/notesSlide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"/>`, i+1)
		}
	}
	if theme != nil {
		ct.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	}
	ct.WriteString(`</Types>`)
	add("[Content_Types].xml", ct.String())

	add("_rels/.rels", rels(rel{"rId1", "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument", "ppt/presentation.xml"}))

	var pres strings.Builder
	pres.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:presentation xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst><p:sldIdLst>`)
	presRels := []rel{{"rId1", relType("slideMaster"), "slideMasters/slideMaster1.xml"}}
	for i := range slides {
		id := fmt.Sprintf("rId%d", 10+i)
		fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="%s"/>`, 256+i, id)
		presRels = append(presRels, rel{id, relType("slide"), fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	pres.WriteString(`</p:sldIdLst><p:sldSz cx="12192000" cy="6858000"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`)
	if theme != nil {
		presRels = append(presRels, rel{"rId2", relType("theme"), "theme/theme1.xml"})
	}
	add("ppt/presentation.xml", pres.String())
	add("ppt/_rels/presentation.xml.rels", rels(presRels...))

	masterRels := []rel{}
	for i := range layoutNames {
		masterRels = append(masterRels, rel{fmt.Sprintf("rId%d", i+1), relType("slideLayout"), fmt.Sprintf("../slideLayouts/slideLayout%d.xml", i+1)})
	}
	if theme != nil {
		masterRels = append(masterRels, rel{"rId99", relType("theme"), "../theme/theme1.xml"})
	}
	add("ppt/slideMasters/slideMaster1.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
		`<p:sldMaster xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`+
		`<p:cSld><p:spTree/></p:cSld></p:sldMaster>`)
	add("ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(masterRels...))

	for i, name := range layoutNames {
		add(fmt.Sprintf("ppt/slideLayouts/slideLayout%d.xml", i+1), fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
			`<p:sldLayout xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">`+
			`<p:cSld name="%s"><p:spTree/></p:cSld></p:sldLayout>`, escape(name)))
		add(fmt.Sprintf("ppt/slideLayouts/_rels/slideLayout%d.xml.rels", i+1),
			rels(rel{"rId1", relType("slideMaster"), "../slideMasters/slideMaster1.xml"}))
	}

	for i, s := range slides {
		name := s.Layout
		if name == "" {
			name = "Title and Content"
		}
		add(fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s))
		slideRels := []rel{{"rId1", relType("slideLayout"), fmt.Sprintf("../slideLayouts/slideLayout%d.xml", layouts[name])}}
		if s.Notes {
			slideRels = append(slideRels, rel{"rId2", relType("notesSlide"), fmt.Sprintf("../notesSlides/notesSlide%d.xml", i+1)})
			add(fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", i+1), `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+
				`<p:notes xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"><p:cSld><p:spTree/></p:cSld></p:notes>`)
			add(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", i+1),
				rels(rel{"rId1", relType("slide"), fmt.Sprintf("../slides/slide%d.xml", i+1)}))
		}
		add(fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels(slideRels...))
	}

	if theme != nil {
		add("ppt/theme/theme1.xml", themeXML(theme))
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range order {
		w, err := zw.Create(name)
		if err != nil {
			panic(err)
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			panic(err)
		}
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

func slideXML(s Slide) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<p:sld xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">` +
		`<p:cSld><p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`)
	id := 2
	if s.Title != "" {
		b.WriteString(shapeXML(id, `<p:ph type="title"/>`, []string{s.Title}))
		id++
	}
	if s.Body != nil {
		b.WriteString(shapeXML(id, `<p:ph idx="1"/>`, s.Body))
		id++
	}
	if s.Extra != "" {
		b.WriteString(shapeXML(id, "", []string{s.Extra}))
		id++
	}
	b.WriteString(shapeXML(id, `<p:ph type="sldNum" sz="quarter" idx="12"/>`, []string{"‹#›"}))
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

func shapeXML(id int, ph string, paras []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Shape %d"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr/>`, id, id, ph)
	b.WriteString(`<p:txBody><a:bodyPr/><a:lstStyle/>`)
	for _, p := range paras {
		fmt.Fprintf(&b, `<a:p><a:r><a:rPr lang="fr-FR" sz="2400" b="1"/><a:t>%s</a:t></a:r></a:p>`, escape(p))
	}
	b.WriteString(`</p:txBody></p:sp>`)
	return b.String()
}

func themeXML(t *Theme) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<a:theme xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" name="Test"><a:themeElements><a:clrScheme name="Test">`)
	for _, slot := range []string{"dk1", "lt1", "dk2", "lt2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6"} {
		v, ok := t.Colors[slot]
		if !ok {
			continue
		}
		if slot == "dk1" || slot == "lt1" {
			fmt.Fprintf(&b, `<a:%s><a:sysClr val="windowText" lastClr="%s"/></a:%s>`, slot, v, slot)
			continue
		}
		fmt.Fprintf(&b, `<a:%s><a:srgbClr val="%s"/></a:%s>`, slot, v, slot)
	}
	b.WriteString(`</a:clrScheme><a:fontScheme name="Test">`)
	fmt.Fprintf(&b, `<a:majorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>`, escape(t.Major))
	fmt.Fprintf(&b, `<a:minorFont><a:latin typeface="%s"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>`, escape(t.Minor))
	b.WriteString(`</a:fontScheme></a:themeElements></a:theme>`)
	return b.String()
}

type rel struct{ id, typ, target string }

func relType(kind string) string {
	return "http://schemas.openxmlformats.org/officeDocument/2006/relationships/" + kind
}

func rels(items ...rel) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range items {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string {
	return escaper.Replace(s)
}
