package models

import "strings"

// Template models

// SlideCategory is the detected role of a template slide
type SlideCategory string

const (
	CategoryTitle      SlideCategory = "title"
	CategoryContent    SlideCategory = "content"
	CategorySection    SlideCategory = "section"
	CategoryConclusion SlideCategory = "conclusion"
	CategoryTwoColumn  SlideCategory = "two_column"
	CategoryBlank      SlideCategory = "blank"
	CategoryOther      SlideCategory = "other"
)

// PlaceholderType identifies the kind of text zone on a slide
type PlaceholderType string

const (
	PlaceholderTitle    PlaceholderType = "title"
	PlaceholderBody     PlaceholderType = "body"
	PlaceholderSubtitle PlaceholderType = "subtitle"
	PlaceholderOther    PlaceholderType = "other"
)

// TextPlaceholder is a text zone found on a template slide
type TextPlaceholder struct {
	Type  PlaceholderType `json:"type"`
	Text  string          `json:"text"`
	Index int             `json:"index"`
}

// TemplateSlideInfo describes one slide of an uploaded template
type TemplateSlideInfo struct {
	Index            int               `json:"index"` // 0-based
	LayoutName       string            `json:"layout_name"`
	Category         SlideCategory     `json:"category"`
	HasTitle         bool              `json:"has_title"`
	HasBody          bool              `json:"has_body"`
	TextPlaceholders []TextPlaceholder `json:"text_placeholders"`
	RawText          string            `json:"raw_text"`
}

// ColorPalette holds the five named template colors as hex strings
type ColorPalette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// FontInfo names a font family and what it is used for
type FontInfo struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
}

// FontPair is the primary/secondary font couple of a template or plan
type FontPair struct {
	Primary   FontInfo `json:"primary"`
	Secondary FontInfo `json:"secondary"`
}

// TemplateDescriptor is the read-only summary of an uploaded template.
// It is built once per file and never mutated afterwards.
type TemplateDescriptor struct {
	TotalSlides  int                 `json:"total_slides"`
	Slides       []TemplateSlideInfo `json:"slides"`
	ColorPalette ColorPalette        `json:"color_palette"`
	Fonts        FontPair            `json:"fonts"`
}

// Plan mode models

// SlideLayoutType is one of the layouts the model may pick in plan mode
type SlideLayoutType string

const (
	LayoutTitle         SlideLayoutType = "title"
	LayoutTitleContent  SlideLayoutType = "title_content"
	LayoutBulletPoints  SlideLayoutType = "bullet_points"
	LayoutImageText     SlideLayoutType = "image_text"
	LayoutTwoColumns    SlideLayoutType = "two_columns"
	LayoutQuote         SlideLayoutType = "quote"
	LayoutSectionHeader SlideLayoutType = "section_header"
	LayoutBlank         SlideLayoutType = "blank"
)

// SlideLayoutTypes lists every layout kind in declaration order
var SlideLayoutTypes = []SlideLayoutType{
	LayoutTitle,
	LayoutTitleContent,
	LayoutBulletPoints,
	LayoutImageText,
	LayoutTwoColumns,
	LayoutQuote,
	LayoutSectionHeader,
	LayoutBlank,
}

// Modification is one step-by-step change to apply on a template slide
type Modification struct {
	TargetElement string  `json:"target_element"`
	Action        string  `json:"action"`
	Value         string  `json:"value"`
	StyleDetails  *string `json:"style_details,omitempty"`
}

// SlideContent is the content to place on one slide
type SlideContent struct {
	Title         string         `json:"title"`
	Body          []string       `json:"body"`
	Modifications []Modification `json:"modifications,omitempty"`
	VisualNotes   *string        `json:"visual_notes,omitempty"`
}

// FontSuggestions are optional typography hints for a slide
type FontSuggestions struct {
	Primary   *string `json:"primary,omitempty"`
	Secondary *string `json:"secondary,omitempty"`
	Sizes     *string `json:"sizes,omitempty"`
}

// SlideInstruction tells the user how to build one slide from a reference image
type SlideInstruction struct {
	SlideNumber         int              `json:"slide_number"`
	LayoutType          SlideLayoutType  `json:"layout_type"`
	ReferenceImageIndex int              `json:"reference_image_index"`
	ContentToUse        SlideContent     `json:"content_to_use"`
	DesignInstructions  string           `json:"design_instructions"`
	FontSuggestions     *FontSuggestions `json:"font_suggestions,omitempty"`
}

// PresentationPlan is the validated plan-mode model output
type PresentationPlan struct {
	PresentationTitle string             `json:"presentation_title"`
	TotalSlides       int                `json:"total_slides"`
	StyleNotes        *string            `json:"style_notes,omitempty"`
	Slides            []SlideInstruction `json:"slides"`
}

// Cloning mode models

// FontWeight is the optional weight of a FontSpec
type FontWeight string

const (
	WeightBold   FontWeight = "bold"
	WeightNormal FontWeight = "normal"
)

// FontSpec fully describes the font of a text zone
type FontSpec struct {
	Name   string      `json:"name"`
	Size   float64     `json:"size"`
	Color  string      `json:"color"`
	Weight *FontWeight `json:"weight,omitempty"`
}

// SlideDesign is the visual specification of a cloned slide
type SlideDesign struct {
	BackgroundColor string   `json:"background_color"`
	TitleFont       FontSpec `json:"title_font"`
	BodyFont        FontSpec `json:"body_font"`
}

// TemplateSlideReference points at the template slide to clone
type TemplateSlideReference struct {
	Index  int    `json:"index"` // 0-based
	Reason string `json:"reason"`
}

// ClonedSlideInstruction describes one output slide in cloning mode
type ClonedSlideInstruction struct {
	SlideNumber            int                    `json:"slide_number"`
	Title                  string                 `json:"title"`
	Content                string                 `json:"content"`
	TemplateSlideReference TemplateSlideReference `json:"template_slide_reference"`
	Design                 SlideDesign            `json:"design"`
}

// CloningStructure is the story-level summary of a cloning plan
type CloningStructure struct {
	TotalSlides int    `json:"total_slides"`
	StoryFlow   string `json:"story_flow"`
}

// CloningInstructions is the validated cloning-mode model output
type CloningInstructions struct {
	Structure    CloningStructure         `json:"structure"`
	Slides       []ClonedSlideInstruction `json:"slides"`
	ColorPalette ColorPalette             `json:"color_palette"`
	Fonts        FontPair                 `json:"fonts"`
}

// Language selects the locale of prompts and user-facing messages
type Language string

const (
	LangFR Language = "fr"
	LangEN Language = "en"
)

// ParseLanguage maps a free-form value onto a supported language, defaulting to French
func ParseLanguage(s string) Language {
	switch Language(strings.ToLower(strings.TrimSpace(s))) {
	case LangEN:
		return LangEN
	default:
		return LangFR
	}
}
