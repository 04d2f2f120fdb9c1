package template

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/slidearchitect/internal/pptx"
	"github.com/slidearchitect/pkg/models"
)

// Fallbacks used when a template carries no readable theme
var (
	DefaultPalette = models.ColorPalette{
		Primary:    "#1E3A8A",
		Secondary:  "#3B82F6",
		Accent:     "#F59E0B",
		Background: "#FFFFFF",
		Text:       "#1F2937",
	}
	DefaultFonts = models.FontPair{
		Primary:   models.FontInfo{Name: "Arial", Usage: "Titres principaux"},
		Secondary: models.FontInfo{Name: "Arial", Usage: "Corps de texte"},
	}
)

// theme holds the raw scheme values of a theme part
type theme struct {
	colors map[string]string // scheme slot -> #RRGGBB
	major  string
	minor  string
}

// themePart locates the theme of the first slide master, falling back to any
// theme related to the presentation.
func themePart(p *pptx.Package) (string, error) {
	master, err := p.RelatedPart(pptx.PresentationPart, pptx.RelTypeSlideMaster)
	if err != nil {
		return "", err
	}
	if master != "" {
		part, err := p.RelatedPart(master, pptx.RelTypeTheme)
		if err != nil {
			return "", err
		}
		if part != "" && p.Has(part) {
			return part, nil
		}
	}
	part, err := p.RelatedPart(pptx.PresentationPart, pptx.RelTypeTheme)
	if err != nil || part == "" || !p.Has(part) {
		return "", err
	}
	return part, nil
}

func parseTheme(data []byte) (*theme, error) {
	dec := pptx.NewDecoder(data)
	th := &theme{colors: map[string]string{}}

	var inScheme, inMajor, inMinor bool
	slot := ""
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse theme: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch name := t.Name.Local; {
			case name == "clrScheme":
				inScheme = true
			case inScheme && slot == "" && isColorSlot(name):
				slot = name
			case slot != "" && name == "srgbClr":
				th.colors[slot] = hexColor(pptx.Attr(t, "val"))
			case slot != "" && name == "sysClr":
				th.colors[slot] = hexColor(pptx.Attr(t, "lastClr"))
			case name == "majorFont":
				inMajor = true
			case name == "minorFont":
				inMinor = true
			case name == "latin" && inMajor && th.major == "":
				th.major = pptx.Attr(t, "typeface")
			case name == "latin" && inMinor && th.minor == "":
				th.minor = pptx.Attr(t, "typeface")
			}
		case xml.EndElement:
			switch name := t.Name.Local; {
			case name == "clrScheme":
				inScheme = false
			case name == slot:
				slot = ""
			case name == "majorFont":
				inMajor = false
			case name == "minorFont":
				inMinor = false
			}
		}
	}
	return th, nil
}

func isColorSlot(name string) bool {
	switch name {
	case "dk1", "lt1", "dk2", "lt2", "accent1", "accent2", "accent3", "accent4", "accent5", "accent6", "hlink", "folHlink":
		return true
	}
	return false
}

func hexColor(v string) string {
	v = strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(v) != 6 {
		return ""
	}
	return "#" + strings.ToUpper(v)
}

// palette maps theme slots onto the five named colors, keeping the fallback
// for every slot the theme does not define.
func (th *theme) palette() models.ColorPalette {
	out := DefaultPalette
	pick := func(dst *string, slots ...string) {
		for _, s := range slots {
			if c := th.colors[s]; c != "" {
				*dst = c
				return
			}
		}
	}
	pick(&out.Primary, "dk2", "accent1")
	pick(&out.Secondary, "accent1")
	pick(&out.Accent, "accent2")
	pick(&out.Background, "lt1")
	pick(&out.Text, "dk1")
	return out
}

func (th *theme) fonts() models.FontPair {
	out := DefaultFonts
	if th.major != "" && !strings.HasPrefix(th.major, "+") {
		out.Primary.Name = th.major
	}
	if th.minor != "" && !strings.HasPrefix(th.minor, "+") {
		out.Secondary.Name = th.minor
	}
	return out
}
