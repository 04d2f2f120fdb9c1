// Package reconcile checks model-produced slide references against the bounds
// of the material the request actually supplied. Nothing is clamped or
// rewritten: a reference outside the range aborts the request.
package reconcile

import (
	"fmt"

	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/pkg/models"
)

// Cloning verifies that every template_slide_reference.index lies in
// [0, totalSlides). totalSlides is the count of the parsed template, not the
// structure.total_slides the model reported.
func Cloning(instr *models.CloningInstructions, totalSlides int) error {
	if instr == nil {
		return apperr.New(apperr.KindInvalidInput, "cloning instructions are missing")
	}
	if totalSlides <= 0 {
		return apperr.New(apperr.KindInvalidInput, "template has no slides (total_slides=%d)", totalSlides)
	}

	for i, s := range instr.Slides {
		if idx := s.TemplateSlideReference.Index; idx < 0 || idx >= totalSlides {
			return outOfBounds("template slide", i, s.SlideNumber, idx, totalSlides)
		}
	}
	return nil
}

// Plan verifies that every reference_image_index lies in [0, imageCount).
// Plan mode gets the same gate as cloning mode.
func Plan(plan *models.PresentationPlan, imageCount int) error {
	if plan == nil {
		return apperr.New(apperr.KindInvalidInput, "presentation plan is missing")
	}
	if imageCount <= 0 {
		return apperr.New(apperr.KindInvalidInput, "no template images were supplied (count=%d)", imageCount)
	}

	for i, s := range plan.Slides {
		if idx := s.ReferenceImageIndex; idx < 0 || idx >= imageCount {
			return outOfBounds("template image", i, s.SlideNumber, idx, imageCount)
		}
	}
	return nil
}

func outOfBounds(what string, position, slideNumber, index, count int) *apperr.Error {
	return &apperr.Error{
		Kind:    apperr.KindReferenceOutOfBounds,
		Message: fmt.Sprintf("slide %d references %s %d outside [0,%d)", slideNumber, what, index, count),
		Details: fmt.Sprintf("instruction #%d", position),
	}
}
