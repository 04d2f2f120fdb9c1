package template

import (
	"fmt"
	"strings"

	"github.com/slidearchitect/pkg/models"
)

// Format renders a descriptor as the compact text block embedded in the
// cloning prompt.
func Format(desc *models.TemplateDescriptor) string {
	var b strings.Builder

	b.WriteString("Template Analysis:\n")
	fmt.Fprintf(&b, "- Total Slides: %d\n\n", desc.TotalSlides)

	b.WriteString("Slides:\n")
	for _, s := range desc.Slides {
		fmt.Fprintf(&b, "- Slide %d: category=%q, layout=%q, has_title=%t, has_body=%t, placeholders=%d\n",
			s.Index, s.Category, s.LayoutName, s.HasTitle, s.HasBody, len(s.TextPlaceholders))
	}

	p := desc.ColorPalette
	b.WriteString("\nColor Palette:\n")
	fmt.Fprintf(&b, "- Primary: %s\n- Secondary: %s\n- Accent: %s\n- Background: %s\n- Text: %s\n",
		p.Primary, p.Secondary, p.Accent, p.Background, p.Text)

	f := desc.Fonts
	b.WriteString("\nFonts:\n")
	fmt.Fprintf(&b, "- Primary: %s (%s)\n- Secondary: %s (%s)", f.Primary.Name, f.Primary.Usage, f.Secondary.Name, f.Secondary.Usage)

	return b.String()
}

// Summary is the one-line description logged and returned to clients
func Summary(desc *models.TemplateDescriptor) string {
	return fmt.Sprintf("Template: %d slides parsed", desc.TotalSlides)
}
