package template

import (
	"strings"

	"github.com/slidearchitect/pkg/models"
)

var conclusionWords = []string{"merci", "thank", "conclusion", "contact"}

// Classify guesses the role of a template slide. Rules are checked in order
// and the first match wins: position, then keywords, then structure.
func Classify(text string, hasTitle, hasBody bool, index, total int) models.SlideCategory {
	lower := strings.ToLower(text)

	if index == 0 {
		return models.CategoryTitle
	}
	if index == total-1 && containsAny(lower, conclusionWords) {
		return models.CategoryConclusion
	}
	if hasTitle && !hasBody && len([]rune(text)) < 100 {
		return models.CategorySection
	}
	if strings.Contains(lower, "vs") || strings.Contains(lower, "comparison") {
		return models.CategoryTwoColumn
	}
	if hasBody {
		return models.CategoryContent
	}
	return models.CategoryOther
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
