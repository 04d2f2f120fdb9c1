package reconcile

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidearchitect/internal/apperr"
	"github.com/slidearchitect/pkg/models"
)

func cloningWith(indices ...int) *models.CloningInstructions {
	instr := &models.CloningInstructions{
		Structure: models.CloningStructure{TotalSlides: len(indices), StoryFlow: "flow"},
	}
	for i, idx := range indices {
		instr.Slides = append(instr.Slides, models.ClonedSlideInstruction{
			SlideNumber:            i + 1,
			Title:                  "t",
			Content:                "c",
			TemplateSlideReference: models.TemplateSlideReference{Index: idx, Reason: "r"},
		})
	}
	return instr
}

func TestCloning_InRange(t *testing.T) {
	instr := cloningWith(0, 2, 4)
	before := cloningWith(0, 2, 4)

	require.NoError(t, Cloning(instr, 5))
	if diff := cmp.Diff(before, instr); diff != "" {
		t.Errorf("reconciliation must not modify instructions (-before +after):\n%s", diff)
	}
}

func TestCloning_OutOfRange(t *testing.T) {
	tests := []struct {
		name    string
		indices []int
		total   int
		want    string
	}{
		{"index equal to count", []int{0, 5}, 5, "slide 2 references template slide 5 outside [0,5)"},
		{"negative index", []int{-1}, 3, "slide 1 references template slide -1 outside [0,3)"},
		{"first violation wins", []int{0, 9, 7}, 2, "slide 2 references template slide 9 outside [0,2)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Cloning(cloningWith(tt.indices...), tt.total)
			require.Error(t, err)
			assert.Equal(t, apperr.KindReferenceOutOfBounds, apperr.KindOf(err))
			assert.Equal(t, tt.want, apperr.As(err).Message)
		})
	}
}

func TestCloning_UsesParsedCountNotModelCount(t *testing.T) {
	instr := cloningWith(0, 3)
	instr.Structure.TotalSlides = 10

	err := Cloning(instr, 3)
	assert.Equal(t, apperr.KindReferenceOutOfBounds, apperr.KindOf(err))
}

func TestCloning_InvalidTemplateCount(t *testing.T) {
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(Cloning(cloningWith(0), 0)))
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(Cloning(nil, 3)))
}

func TestPlan(t *testing.T) {
	plan := &models.PresentationPlan{
		PresentationTitle: "X",
		TotalSlides:       2,
		Slides: []models.SlideInstruction{
			{SlideNumber: 1, LayoutType: models.LayoutTitle, ReferenceImageIndex: 0},
			{SlideNumber: 2, LayoutType: models.LayoutBulletPoints, ReferenceImageIndex: 2},
		},
	}

	require.NoError(t, Plan(plan, 3))

	err := Plan(plan, 2)
	assert.Equal(t, apperr.KindReferenceOutOfBounds, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "template image 2 outside [0,2)")

	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(Plan(plan, 0)))
}

func TestPlan_EmptySlides(t *testing.T) {
	plan := &models.PresentationPlan{PresentationTitle: "X", TotalSlides: 1, Slides: []models.SlideInstruction{}}
	assert.NoError(t, Plan(plan, 1))
}
