package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidearchitect/internal/schema"
	"github.com/slidearchitect/pkg/models"
)

func TestRender_SubstitutesVars(t *testing.T) {
	tpl := "Hello {{VAR:name}}!\n\nStyle:\n{{VAR:style|join=\", \"}}\n\nPolicy:\n{{VAR:policy|default=\"none\"}}\n"

	out := Render(tpl, Vars{
		"name":  {"Alice"},
		"style": {"short slides", "", "one idea each"},
	})

	assert.Equal(t, "Hello Alice!\n\nStyle:\nshort slides, one idea each\n\nPolicy:\nnone\n", out)
}

func TestRender_DefaultJoinAndMissing(t *testing.T) {
	assert.Equal(t, "a\n\nb|", Render("{{VAR:x}}|{{VAR:missing}}", Vars{"x": {"a", "b"}}))
	assert.Equal(t, "no placeholders", Render("no placeholders", nil))
}

func TestRender_ValuesAreNotRescanned(t *testing.T) {
	out := Render("[{{VAR:content}}]", Vars{"content": {"{{VAR:content}} and {{VAR:other}}"}})
	assert.Equal(t, "[{{VAR:content}} and {{VAR:other}}]", out)
}

func TestParsePlaceholders_OptionsParsing(t *testing.T) {
	body := "Intro {{VAR:title|default=\"(untitled)\"}} -- list {{VAR:list|join=\", \"}} -- policy {{VAR:policy|default='be kind\\nrespect'}}"
	phs := ParsePlaceholders(body)
	require.Len(t, phs, 3)

	assert.Equal(t, "title", phs[0].Name)
	assert.Equal(t, "(untitled)", phs[0].Options["default"])

	assert.Equal(t, "list", phs[1].Name)
	assert.Equal(t, ", ", phs[1].Options["join"])

	assert.Equal(t, "policy", phs[2].Name)
	assert.Equal(t, "be kind\nrespect", phs[2].Options["default"])
	assert.Equal(t, "{{VAR:policy|default='be kind\\nrespect'}}", phs[2].Raw)
}

func TestDecodeEscapes(t *testing.T) {
	assert.Equal(t, "a\nb\tc\\d\\x", decodeEscapes(`a\nb\tc\\d\x`))
}

func TestPromptsResolveEveryPlaceholder(t *testing.T) {
	known := map[string]bool{}
	for _, tpl := range []string{planUser, cloningUser[models.LangFR], cloningUser[models.LangEN]} {
		for _, ph := range ParsePlaceholders(tpl) {
			known[ph.Name] = true
		}
	}
	c := NewComposer()
	for _, lang := range []models.Language{models.LangFR, models.LangEN} {
		p := c.PlanPrompt(PlanInput{UserContent: "contenu", ImageCount: 1, Language: lang})
		assert.NotContains(t, p.User, "{{VAR:")
		q := c.CloningPrompt(CloningInput{TemplateSummary: "Template Analysis:", UserContent: "contenu", Language: lang})
		assert.NotContains(t, q.User, "{{VAR:")
	}
	assert.True(t, known["schema"])
}

const longContent = `Notre entreprise lance une nouvelle offre de conseil en transformation numérique.
Elle s'adresse aux PME industrielles qui veulent moderniser leur production.
Nous proposons un diagnostic, une feuille de route et un accompagnement sur douze mois.
Les premiers clients ont réduit leurs délais de livraison de vingt pour cent.`

func TestPlanPrompt(t *testing.T) {
	c := NewComposer()
	p := c.PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 4, Language: models.LangFR})

	assert.Equal(t, planSystem[models.LangFR], p.System)
	assert.True(t, strings.HasPrefix(p.User, "## Tâche : créer une présentation\n\n### Template de référence\n4 image(s) de slides fournies\n"))
	assert.Contains(t, p.User, "\"\"\"\n"+longContent+"\n\"\"\"\n\n### Instructions\n")
	assert.Contains(t, p.User, "```json\n"+schema.RenderPrompt(schema.PlanSchema)+"\n```")
	assert.Contains(t, p.User, "   - Couleurs dominantes et palette\n   - Structure des mises en page\n")
	assert.NotContains(t, p.User, planText[models.LangFR].MinimalContent)
	assert.NotContains(t, p.User, "Ne dépasse pas")

	again := c.PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 4, Language: models.LangFR})
	assert.Equal(t, p, again)
}

func TestPlanPrompt_Hints(t *testing.T) {
	c := NewComposer()
	p := c.PlanPrompt(PlanInput{UserContent: "Lancement produit Q3", ImageCount: 1, Language: models.LangFR, MaxSlides: 6})

	want := "\"\"\"\nLancement produit Q3\n\"\"\"\n\n" +
		planText[models.LangFR].MinimalContent + "\nNe dépasse pas 6 slides.\n\n### Instructions"
	assert.Contains(t, p.User, want)
}

func TestPlanPrompt_English(t *testing.T) {
	p := NewComposer().PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 2, Language: models.LangEN, MaxSlides: 3})

	assert.Equal(t, planSystem[models.LangEN], p.System)
	assert.Contains(t, p.User, "## Task: create a presentation")
	assert.Contains(t, p.User, "Do not exceed 3 slides.")
}

func TestPlanPrompt_UnknownLanguageFallsBackToFrench(t *testing.T) {
	p := NewComposer().PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 1, Language: "de"})
	assert.Equal(t, planSystem[models.LangFR], p.System)
}

func TestCloningPrompt(t *testing.T) {
	summary := "Template Analysis:\n- Total Slides: 3"
	p := NewComposer().CloningPrompt(CloningInput{TemplateSummary: summary, UserContent: "  " + longContent + "\n", Language: models.LangFR})

	assert.Equal(t, cloningSystem[models.LangFR], p.System)
	assert.Contains(t, p.User, "### Template analysé\n"+summary+"\n")
	assert.Contains(t, p.User, "\"\"\"\n"+longContent+"\n\"\"\"")
	assert.Contains(t, p.User, "```json\n"+schema.RenderPrompt(schema.CloningSchema)+"\n```")
	assert.True(t, strings.HasSuffix(p.User, "Commence maintenant la génération."))
}

func TestSchemaBlockIsIdenticalAcrossLocales(t *testing.T) {
	c := NewComposer()
	block := func(s string) string {
		start := strings.Index(s, "```json\n")
		end := strings.LastIndex(s, "\n```")
		require.True(t, start >= 0 && end > start)
		return s[start:end]
	}

	fr := c.PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 1, Language: models.LangFR})
	en := c.PlanPrompt(PlanInput{UserContent: longContent, ImageCount: 1, Language: models.LangEN})
	assert.Equal(t, block(fr.User), block(en.User))

	cfr := c.CloningPrompt(CloningInput{TemplateSummary: "x", UserContent: longContent, Language: models.LangFR})
	cen := c.CloningPrompt(CloningInput{TemplateSummary: "x", UserContent: longContent, Language: models.LangEN})
	assert.Equal(t, block(cfr.User), block(cen.User))
}
