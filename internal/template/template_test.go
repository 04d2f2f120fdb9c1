package template

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidearchitect/internal/pptx/pptxtest"
	"github.com/slidearchitect/pkg/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		hasTitle bool
		hasBody  bool
		index    int
		total    int
		want     models.SlideCategory
	}{
		{"first slide always title", "Merci", true, true, 0, 5, models.CategoryTitle},
		{"last slide thanks", "Merci de votre attention", true, true, 4, 5, models.CategoryConclusion},
		{"last slide contact", "Contact: team@example.com", true, false, 2, 3, models.CategoryConclusion},
		{"thanks not last", "Thank you", true, false, 1, 5, models.CategorySection},
		{"short title only", "Partie 2", true, false, 2, 5, models.CategorySection},
		{"long title only", string(make([]rune, 120)), true, false, 2, 5, models.CategoryOther},
		{"versus", "Option A vs Option B", true, true, 2, 5, models.CategoryTwoColumn},
		{"comparison", "Comparison of offers", false, true, 2, 5, models.CategoryTwoColumn},
		{"title and body", "Objectifs 2025 - croissance", true, true, 1, 5, models.CategoryContent},
		{"body only", "Texte libre", false, true, 1, 5, models.CategoryContent},
		{"nothing", "", false, false, 1, 5, models.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.text, tt.hasTitle, tt.hasBody, tt.index, tt.total))
		})
	}
}

func TestParse(t *testing.T) {
	data := pptxtest.Build([]pptxtest.Slide{
		{Layout: "Title Slide", Title: "Lancement 2025"},
		{Title: "Agenda", Body: []string{"Contexte", "Objectifs"}},
		{Layout: "Section Header", Title: "Partie 1"},
		{Title: "Offre A vs Offre B", Body: []string{"Prix", "Délais"}, Extra: "Source: interne"},
		{Title: "Merci !"},
	}, pptxtest.DefaultTheme())

	desc, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, 5, desc.TotalSlides)
	require.Len(t, desc.Slides, 5)

	categories := make([]models.SlideCategory, 0, 5)
	for i, s := range desc.Slides {
		assert.Equal(t, i, s.Index)
		categories = append(categories, s.Category)
	}
	assert.Equal(t, []models.SlideCategory{
		models.CategoryTitle,
		models.CategoryContent,
		models.CategorySection,
		models.CategoryTwoColumn,
		models.CategoryConclusion,
	}, categories)

	assert.Equal(t, "Title Slide", desc.Slides[0].LayoutName)
	assert.Equal(t, "Title and Content", desc.Slides[1].LayoutName)
	assert.Equal(t, "Section Header", desc.Slides[2].LayoutName)

	want := models.TemplateSlideInfo{
		Index:      3,
		LayoutName: "Title and Content",
		Category:   models.CategoryTwoColumn,
		HasTitle:   true,
		HasBody:    true,
		TextPlaceholders: []models.TextPlaceholder{
			{Type: models.PlaceholderTitle, Text: "Offre A vs Offre B", Index: 0},
			{Type: models.PlaceholderBody, Text: "Prix\nDélais", Index: 1},
			{Type: models.PlaceholderOther, Text: "Source: interne", Index: 2},
		},
		RawText: "Offre A vs Offre B Prix\nDélais Source: interne",
	}
	if diff := cmp.Diff(want, desc.Slides[3]); diff != "" {
		t.Errorf("slide 3 mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, models.ColorPalette{
		Primary:    "#0B3D91",
		Secondary:  "#2E86DE",
		Accent:     "#F39C12",
		Background: "#FAFAFA",
		Text:       "#111111",
	}, desc.ColorPalette)
	assert.Equal(t, "Montserrat", desc.Fonts.Primary.Name)
	assert.Equal(t, "Open Sans", desc.Fonts.Secondary.Name)
	assert.Equal(t, "Titres principaux", desc.Fonts.Primary.Usage)
}

func TestParse_FallsBackWithoutTheme(t *testing.T) {
	desc, err := Parse(pptxtest.Build([]pptxtest.Slide{{Title: "Seule"}}, nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultPalette, desc.ColorPalette)
	assert.Equal(t, DefaultFonts, desc.Fonts)
	assert.Equal(t, models.CategoryTitle, desc.Slides[0].Category)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse(nil)
	assert.Error(t, err)

	_, err = Parse([]byte("not a zip"))
	assert.Error(t, err)

	_, err = Parse(pptxtest.Build(nil, nil))
	assert.True(t, errors.Is(err, ErrNoSlides))
}

func TestParse_Deterministic(t *testing.T) {
	data := pptxtest.Build([]pptxtest.Slide{{Title: "A"}, {Title: "B", Body: []string{"x"}}}, pptxtest.DefaultTheme())

	first, err := Parse(data)
	require.NoError(t, err)
	second, err := Parse(data)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
}

func TestFormat(t *testing.T) {
	desc := &models.TemplateDescriptor{
		TotalSlides: 2,
		Slides: []models.TemplateSlideInfo{
			{Index: 0, LayoutName: "Title Slide", Category: models.CategoryTitle, HasTitle: true,
				TextPlaceholders: []models.TextPlaceholder{{Type: models.PlaceholderTitle, Text: "X"}}},
			{Index: 1, LayoutName: "Slide 2", Category: models.CategoryContent, HasTitle: true, HasBody: true,
				TextPlaceholders: []models.TextPlaceholder{{}, {}}},
		},
		ColorPalette: DefaultPalette,
		Fonts:        DefaultFonts,
	}

	want := `Template Analysis:
- Total Slides: 2

Slides:
- Slide 0: category="title", layout="Title Slide", has_title=true, has_body=false, placeholders=1
- Slide 1: category="content", layout="Slide 2", has_title=true, has_body=true, placeholders=2

Color Palette:
- Primary: #1E3A8A
- Secondary: #3B82F6
- Accent: #F59E0B
- Background: #FFFFFF
- Text: #1F2937

Fonts:
- Primary: Arial (Titres principaux)
- Secondary: Arial (Corps de texte)`

	assert.Equal(t, want, Format(desc))
	assert.Equal(t, "Template: 2 slides parsed", Summary(desc))
}
