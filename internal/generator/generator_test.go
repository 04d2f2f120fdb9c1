package generator

import (
	"context"
	"os/exec"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidearchitect/internal/pptx"
	"github.com/slidearchitect/internal/pptx/pptxtest"
	"github.com/slidearchitect/internal/template"
	"github.com/slidearchitect/pkg/models"
)

func fixture() []byte {
	return pptxtest.Build([]pptxtest.Slide{
		{Layout: "Title Slide", Title: "Titre du modèle"},
		{Title: "Contenu du modèle", Body: []string{"Point A", "Point B"}, Notes: true},
		{Layout: "Section Header", Title: "Section"},
	}, pptxtest.DefaultTheme())
}

func instruction(n, index int, title, content string) models.ClonedSlideInstruction {
	return models.ClonedSlideInstruction{
		SlideNumber:            n,
		Title:                  title,
		Content:                content,
		TemplateSlideReference: models.TemplateSlideReference{Index: index, Reason: "test"},
	}
}

func TestFileName(t *testing.T) {
	now := time.Date(2025, 3, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "presentation-generated-2025-03-07.pptx", FileName(now))
}

func TestOOXML_Generate(t *testing.T) {
	instr := &models.CloningInstructions{
		Structure: models.CloningStructure{TotalSlides: 3, StoryFlow: "intro, détail, détail"},
		Slides: []models.ClonedSlideInstruction{
			instruction(1, 0, "Lancement 2025", ""),
			instruction(2, 1, "Objectifs", "Croissance & marge\nNouveaux marchés"),
			instruction(3, 1, "Calendrier", "T1 <préparation>"),
		},
	}

	out, err := NewOOXML(zerolog.Nop()).Generate(context.Background(), fixture(), instr)
	require.NoError(t, err)

	pkg, err := pptx.Open(out)
	require.NoError(t, err)
	slides, err := pkg.SlideParts()
	require.NoError(t, err)
	assert.Equal(t, []string{"ppt/slides/slide4.xml", "ppt/slides/slide5.xml", "ppt/slides/slide6.xml"}, slides)

	for _, gone := range []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/slide3.xml", "ppt/notesSlides/notesSlide2.xml"} {
		assert.False(t, pkg.Has(gone), gone)
	}

	texts := func(part string) map[pptx.Role][]string {
		data, err := pkg.Read(part)
		require.NoError(t, err)
		shapes, err := pptx.Shapes(data)
		require.NoError(t, err)
		out := map[pptx.Role][]string{}
		for _, s := range shapes {
			out[s.Role()] = append(out[s.Role()], s.Text())
		}
		return out
	}

	first := texts(slides[0])
	assert.Equal(t, []string{"Lancement 2025"}, first[pptx.RoleTitle])
	assert.Empty(t, first[pptx.RoleBody])

	second := texts(slides[1])
	assert.Equal(t, []string{"Objectifs"}, second[pptx.RoleTitle])
	assert.Equal(t, []string{"Croissance & marge\nNouveaux marchés"}, second[pptx.RoleBody])
	assert.Equal(t, []string{"‹#›"}, second[pptx.RoleIgnored])

	third := texts(slides[2])
	assert.Equal(t, []string{"T1 <préparation>"}, third[pptx.RoleBody])

	data, err := pkg.Read(slides[1])
	require.NoError(t, err)
	assert.Contains(t, string(data), `<a:rPr lang="fr-FR" sz="2400" b="1"/><a:t>Nouveaux marchés</a:t>`)

	rels, err := pkg.Rels(slides[1])
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, pptx.RelTypeSlideLayout, rels[0].Type)

	ct, err := pkg.Read(pptx.ContentTypesPart)
	require.NoError(t, err)
	assert.Contains(t, string(ct), `PartName="/ppt/slides/slide6.xml"`)
	assert.NotContains(t, string(ct), `PartName="/ppt/slides/slide1.xml"`)
	assert.NotContains(t, string(ct), `notesSlide2.xml`)

	desc, err := template.Parse(out)
	require.NoError(t, err)
	assert.Equal(t, 3, desc.TotalSlides)
	assert.Equal(t, "Title Slide", desc.Slides[0].LayoutName)
	assert.Equal(t, "#0B3D91", desc.ColorPalette.Primary)
}

func TestOOXML_Deterministic(t *testing.T) {
	instr := &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 2, "A", "")}}
	g := NewOOXML(zerolog.Nop())

	a, err := g.Generate(context.Background(), fixture(), instr)
	require.NoError(t, err)
	b, err := g.Generate(context.Background(), fixture(), instr)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOOXML_Errors(t *testing.T) {
	g := NewOOXML(zerolog.Nop())
	ctx := context.Background()

	_, err := g.Generate(ctx, fixture(), &models.CloningInstructions{})
	assert.Error(t, err)

	_, err = g.Generate(ctx, fixture(), &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 3, "x", "")}})
	assert.ErrorContains(t, err, "outside [0,3)")

	_, err = g.Generate(ctx, []byte("not a pptx"), &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 0, "x", "")}})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = g.Generate(cancelled, fixture(), &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 0, "x", "")}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommand_Generate(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	instr := &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 0, "x", "")}}
	tpl := fixture()

	g := NewCommand(sh, []string{"-c", `grep -q '"slide_number": 1' "$2" && cp "$1" "$3"`, "sh", "{template}", "{instructions}", "{output}"}, zerolog.Nop())
	out, err := g.Generate(context.Background(), tpl, instr)
	require.NoError(t, err)
	assert.Equal(t, tpl, out)
}

func TestCommand_Failures(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	instr := &models.CloningInstructions{Slides: []models.ClonedSlideInstruction{instruction(1, 0, "x", "")}}

	_, err = NewCommand(sh, []string{"-c", "echo converter crashed >&2; exit 3"}, zerolog.Nop()).Generate(context.Background(), fixture(), instr)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "converter crashed"), err.Error())

	_, err = NewCommand(sh, []string{"-c", "true"}, zerolog.Nop()).Generate(context.Background(), fixture(), instr)
	assert.ErrorContains(t, err, "no output")

	_, err = NewCommand("", nil, zerolog.Nop()).Generate(context.Background(), fixture(), instr)
	assert.Error(t, err)
}
