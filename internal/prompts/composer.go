// Package prompts composes the system and user prompts sent to the model.
// Composition is pure: the same input always yields the same prompt.
package prompts

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/slidearchitect/internal/schema"
	"github.com/slidearchitect/pkg/models"
)

// MinimalContentRunes is the length under which the user content is
// considered minimal and the model is asked for a short deck
const MinimalContentRunes = 200

// Prompt is a composed system/user message pair
type Prompt struct {
	System string
	User   string
}

// PlanInput feeds a plan-mode prompt
type PlanInput struct {
	UserContent string
	ImageCount  int
	Language    models.Language
	MaxSlides   int // 0 means no cap
}

// CloningInput feeds a cloning-mode prompt
type CloningInput struct {
	TemplateSummary string // template.Format output
	UserContent     string
	Language        models.Language
}

// Composer builds prompts around the rendered response schemas
type Composer struct {
	planSchema    string
	cloningSchema string
}

// NewComposer renders both schemas once
func NewComposer() *Composer {
	return &Composer{
		planSchema:    fenced(schema.RenderPrompt(schema.PlanSchema)),
		cloningSchema: fenced(schema.RenderPrompt(schema.CloningSchema)),
	}
}

func fenced(s string) string {
	return "```json\n" + s + "\n```"
}

// PlanPrompt composes the prompt that maps user content onto template images
func (c *Composer) PlanPrompt(in PlanInput) Prompt {
	lang := locale(in.Language)
	l := planText[lang]

	var hints []string
	if utf8.RuneCountInString(strings.TrimSpace(in.UserContent)) < MinimalContentRunes {
		hints = append(hints, l.MinimalContent)
	}
	if in.MaxSlides > 0 {
		hints = append(hints, fmt.Sprintf(l.MaxSlides, in.MaxSlides))
	}
	hintBlock := ""
	if len(hints) > 0 {
		hintBlock = strings.Join(hints, "\n") + "\n\n"
	}

	user := Render(planUser, Vars{
		"task":            {l.Task},
		"template":        {l.Template},
		"image_count":     {strconv.Itoa(in.ImageCount)},
		"images":          {l.Images},
		"content":         {l.Content},
		"user_content":    {strings.TrimSpace(in.UserContent)},
		"hints":           {hintBlock},
		"instructions":    {l.Instructions},
		"analyze":         {l.Analyze},
		"analyze_steps":   l.AnalyzeSteps,
		"create":          {l.Create},
		"respond":         {l.Respond},
		"schema":          {c.planSchema},
		"important_title": {l.ImportantTitle},
		"important":       l.Important,
	})
	return Prompt{System: planSystem[lang], User: user}
}

// CloningPrompt composes the prompt that maps user content onto template slides
func (c *Composer) CloningPrompt(in CloningInput) Prompt {
	lang := locale(in.Language)
	user := Render(cloningUser[lang], Vars{
		"template_summary": {in.TemplateSummary},
		"user_content":     {strings.TrimSpace(in.UserContent)},
		"schema":           {c.cloningSchema},
	})
	return Prompt{System: cloningSystem[lang], User: user}
}

func locale(l models.Language) models.Language {
	if l == models.LangEN {
		return models.LangEN
	}
	return models.LangFR
}
