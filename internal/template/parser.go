// Package template reads an uploaded .pptx template into a TemplateDescriptor
// and renders that descriptor for prompt embedding.
package template

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slidearchitect/internal/pptx"
	"github.com/slidearchitect/pkg/models"
)

// ErrNoSlides is returned for a well-formed presentation without slides
var ErrNoSlides = errors.New("no slides found in PPTX file")

// Parse builds the descriptor of a template held in memory. The result is
// deterministic for a given input and is never modified afterwards.
func Parse(data []byte) (*models.TemplateDescriptor, error) {
	pkg, err := pptx.Open(data)
	if err != nil {
		return nil, err
	}
	return Describe(pkg)
}

// Describe builds the descriptor of an already opened package
func Describe(pkg *pptx.Package) (*models.TemplateDescriptor, error) {
	parts, err := pkg.SlideParts()
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, ErrNoSlides
	}

	desc := &models.TemplateDescriptor{
		TotalSlides:  len(parts),
		Slides:       make([]models.TemplateSlideInfo, 0, len(parts)),
		ColorPalette: DefaultPalette,
		Fonts:        DefaultFonts,
	}

	for i, part := range parts {
		info, err := describeSlide(pkg, part, i, len(parts))
		if err != nil {
			return nil, fmt.Errorf("failed to read slide %s: %w", part, err)
		}
		desc.Slides = append(desc.Slides, info)
	}

	themeName, err := themePart(pkg)
	if err != nil {
		return nil, err
	}
	if themeName != "" {
		data, err := pkg.Read(themeName)
		if err != nil {
			return nil, err
		}
		th, err := parseTheme(data)
		if err != nil {
			return nil, err
		}
		desc.ColorPalette = th.palette()
		desc.Fonts = th.fonts()
	}

	return desc, nil
}

func describeSlide(pkg *pptx.Package, part string, index, total int) (models.TemplateSlideInfo, error) {
	data, err := pkg.Read(part)
	if err != nil {
		return models.TemplateSlideInfo{}, err
	}
	shapes, err := pptx.Shapes(data)
	if err != nil {
		return models.TemplateSlideInfo{}, err
	}

	info := models.TemplateSlideInfo{
		Index:            index,
		LayoutName:       layoutName(pkg, part, index),
		TextPlaceholders: []models.TextPlaceholder{},
	}

	var texts []string
	for _, s := range shapes {
		text := strings.TrimSpace(s.Text())
		var typ models.PlaceholderType
		switch s.Role() {
		case pptx.RoleTitle:
			typ = models.PlaceholderTitle
			info.HasTitle = true
		case pptx.RoleSubtitle:
			typ = models.PlaceholderSubtitle
			info.HasBody = true
		case pptx.RoleBody:
			typ = models.PlaceholderBody
			info.HasBody = true
		case pptx.RoleOther:
			if text == "" {
				continue
			}
			typ = models.PlaceholderOther
			info.HasBody = true
		default:
			continue
		}

		info.TextPlaceholders = append(info.TextPlaceholders, models.TextPlaceholder{
			Type:  typ,
			Text:  text,
			Index: len(info.TextPlaceholders),
		})
		if text != "" {
			texts = append(texts, text)
		}
	}

	info.RawText = strings.Join(texts, " ")
	info.Category = Classify(info.RawText, info.HasTitle, info.HasBody, index, total)
	return info, nil
}

func layoutName(pkg *pptx.Package, slide string, index int) string {
	layout, err := pkg.RelatedPart(slide, pptx.RelTypeSlideLayout)
	if err == nil && layout != "" {
		if data, err := pkg.Read(layout); err == nil {
			if name := pptx.CommonSlideName(data); name != "" {
				return name
			}
		}
	}
	return fmt.Sprintf("Slide %d", index+1)
}
