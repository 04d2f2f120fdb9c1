package generator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/slidearchitect/internal/pptx"
	"github.com/slidearchitect/pkg/models"
)

// OOXML clones template slides directly in the package, in memory
type OOXML struct {
	log zerolog.Logger
}

// NewOOXML creates the in-memory generator
func NewOOXML(log zerolog.Logger) *OOXML {
	return &OOXML{log: log.With().Str("generator", "ooxml").Logger()}
}

var slidePartPattern = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)

// Generate clones the referenced template slides in instruction order,
// replaces their title and body text and drops the original slides.
func (g *OOXML) Generate(ctx context.Context, template []byte, instr *models.CloningInstructions) ([]byte, error) {
	if instr == nil || len(instr.Slides) == 0 {
		return nil, errors.New("no cloning instructions")
	}

	pkg, err := pptx.Open(template)
	if err != nil {
		return nil, err
	}
	originals, err := pkg.SlideParts()
	if err != nil {
		return nil, err
	}
	if len(originals) == 0 {
		return nil, errors.New("template has no slides")
	}
	presRels, err := pkg.Rels(pptx.PresentationPart)
	if err != nil {
		return nil, err
	}

	next := nextSlideNumber(pkg.Names())
	added := map[string]string{}
	var addedOrder, relIDs []string

	for i, s := range instr.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		idx := s.TemplateSlideReference.Index
		if idx < 0 || idx >= len(originals) {
			return nil, fmt.Errorf("slide %d references template slide %d outside [0,%d)", s.SlideNumber, idx, len(originals))
		}

		part := fmt.Sprintf("ppt/slides/slide%d.xml", next)
		next++
		if err := g.cloneSlide(pkg, originals[idx], part, s); err != nil {
			return nil, fmt.Errorf("instruction #%d: %w", i, err)
		}

		id := pptx.NextRelID(presRels)
		presRels = append(presRels, pptx.Relationship{ID: id, Type: pptx.RelTypeSlide, Target: "slides/" + path.Base(part)})
		relIDs = append(relIDs, id)
		added[part] = pptx.ContentTypeSlide
		addedOrder = append(addedOrder, part)
	}

	removed, err := removeSlides(pkg, originals)
	if err != nil {
		return nil, err
	}
	gone := make(map[string]bool, len(originals))
	for _, o := range originals {
		gone[o] = true
	}
	kept := presRels[:0]
	for _, r := range presRels {
		if r.Type == pptx.RelTypeSlide && gone[pptx.ResolveTarget(pptx.PresentationPart, r.Target)] {
			continue
		}
		kept = append(kept, r)
	}

	if err := pkg.SetRels(pptx.PresentationPart, kept); err != nil {
		return nil, err
	}
	if err := pkg.SetSlideList(relIDs); err != nil {
		return nil, err
	}
	if err := pkg.UpdateContentTypes(removed, added, addedOrder); err != nil {
		return nil, err
	}

	g.log.Debug().Int("template_slides", len(originals)).Int("generated_slides", len(relIDs)).Msg("presentation generated")
	return pkg.Bytes()
}

func (g *OOXML) cloneSlide(pkg *pptx.Package, src, dst string, s models.ClonedSlideInstruction) error {
	data, err := pkg.Read(src)
	if err != nil {
		return err
	}
	shapes, err := pptx.Shapes(data)
	if err != nil {
		return err
	}

	var edits []pptx.TextEdit
	title, body := textTargets(shapes)
	if title >= 0 {
		edits = append(edits, pptx.TextEdit{Shape: title, Lines: []string{strings.TrimSpace(s.Title)}})
	}
	if body >= 0 {
		edits = append(edits, pptx.TextEdit{Shape: body, Lines: contentLines(s.Content)})
	}
	if title < 0 || body < 0 {
		g.log.Debug().Str("source", src).Int("slide_number", s.SlideNumber).
			Bool("has_title", title >= 0).Bool("has_body", body >= 0).
			Msg("template slide lacks a text zone, text dropped")
	}

	out, err := pptx.ReplaceText(data, shapes, edits)
	if err != nil {
		return err
	}
	pkg.Set(dst, out)

	rels, err := pkg.Rels(src)
	if err != nil {
		return err
	}
	// notes and comments belong to the original slide
	var keep []pptx.Relationship
	for _, r := range rels {
		if r.Type == pptx.RelTypeNotesSlide || r.Type == pptx.RelTypeComments {
			continue
		}
		keep = append(keep, r)
	}
	if len(keep) > 0 {
		return pkg.SetRels(dst, keep)
	}
	return nil
}

// textTargets picks the first title shape and the first body shape, falling
// back to a subtitle when the slide has no body.
func textTargets(shapes []pptx.Shape) (title, body int) {
	title, body = -1, -1
	subtitle := -1
	for i, s := range shapes {
		if !s.HasTextBody {
			continue
		}
		switch s.Role() {
		case pptx.RoleTitle:
			if title < 0 {
				title = i
			}
		case pptx.RoleBody:
			if body < 0 {
				body = i
			}
		case pptx.RoleSubtitle:
			if subtitle < 0 {
				subtitle = i
			}
		}
	}
	if body < 0 {
		body = subtitle
	}
	return title, body
}

func contentLines(content string) []string {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

// removeSlides deletes the slides with their notes and comments and returns
// every removed part
func removeSlides(pkg *pptx.Package, slides []string) ([]string, error) {
	var removed []string
	for _, s := range slides {
		for _, relType := range []string{pptx.RelTypeNotesSlide, pptx.RelTypeComments} {
			related, err := pkg.RelatedPart(s, relType)
			if err != nil {
				return nil, err
			}
			if related != "" && pkg.Has(related) {
				pkg.Delete(related)
				pkg.Delete(pptx.RelsPath(related))
				removed = append(removed, related)
			}
		}
		pkg.Delete(s)
		pkg.Delete(pptx.RelsPath(s))
		removed = append(removed, s)
	}
	return removed, nil
}

func nextSlideNumber(names []string) int {
	highest := 0
	for _, n := range names {
		if m := slidePartPattern.FindStringSubmatch(n); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil && v > highest {
				highest = v
			}
		}
	}
	return highest + 1
}
