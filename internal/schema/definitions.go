package schema

import "github.com/slidearchitect/pkg/models"

// PlanSchema is the contract of a plan-mode response (models.PresentationPlan)
var PlanSchema = Object("",
	String("presentation_title", "suggested title"),
	Integer("total_slides", "number of slides").AtLeast(1),
	String("style_notes", "notes on the detected style").Opt(),
	ArrayOf("slides", Object("",
		Integer("slide_number", "1-based position").AtLeast(1),
		Enum("layout_type", layoutValues()...),
		Integer("reference_image_index", "0-based index of the template image").AtLeast(0),
		Object("content_to_use",
			String("title", ""),
			ArrayOf("body", String("", "markdown allowed")),
			ArrayOf("modifications", Object("",
				String("target_element", "visual element targeted, e.g. 'Main title', 'Round picture'"),
				String("action", "action, e.g. 'Replace text', 'Change picture'"),
				String("value", "new content"),
				String("style_details", "font/size/color details, e.g. 'Keep Serif 48px'").Opt(),
			)).Opt(),
			String("visual_notes", "").Opt(),
		),
		String("design_instructions", "overall instructions"),
		Object("font_suggestions",
			String("primary", "e.g. 'Playfair Display'").Opt(),
			String("secondary", "e.g. 'Lato'").Opt(),
			String("sizes", "e.g. 'H1: 48px, Body: 16px'").Opt(),
		).Opt(),
	)),
)

// CloningSchema is the contract of a cloning-mode response (models.CloningInstructions)
var CloningSchema = Object("",
	Object("structure",
		Integer("total_slides", "number of slides").AtLeast(1),
		String("story_flow", "description of the narrative thread"),
	),
	ArrayOf("slides", Object("",
		Integer("slide_number", "1-based position").AtLeast(1),
		String("title", "slide title"),
		String("content", "detailed text content"),
		Object("template_slide_reference",
			Integer("index", "index of the template slide to clone, starts at 0").AtLeast(0),
			String("reason", "why this template slide"),
		),
		Object("design",
			String("background_color", "hex code from the template data"),
			fontSpec("title_font"),
			fontSpec("body_font"),
		),
	)),
	Object("color_palette",
		String("primary", "hex"),
		String("secondary", "hex"),
		String("accent", "hex"),
		String("background", "hex"),
		String("text", "hex"),
	),
	Object("fonts",
		fontInfo("primary", "main titles"),
		fontInfo("secondary", "body text"),
	),
)

func fontSpec(name string) Field {
	return Object(name,
		String("name", "font from the template data"),
		Number("size", "size in points"),
		String("color", "hex code"),
		Enum("weight", string(models.WeightBold), string(models.WeightNormal)).Opt(),
	)
}

func fontInfo(name, usage string) Field {
	return Object(name,
		String("name", "font name from the template"),
		String("usage", usage),
	)
}

func layoutValues() []string {
	values := make([]string, 0, len(models.SlideLayoutTypes))
	for _, l := range models.SlideLayoutTypes {
		values = append(values, string(l))
	}
	return values
}
