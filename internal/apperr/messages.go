package apperr

import "github.com/slidearchitect/pkg/models"

// Language selects a user-facing message set
type Language = models.Language

const (
	LangFR = models.LangFR
	LangEN = models.LangEN
)

var userMessages = map[Language]map[Kind]string{
	LangFR: {
		KindInvalidInput:         "La requête est incomplète. Vérifiez le template et le contenu (minimum 20 caractères).",
		KindInvalidTemplate:      "Le fichier template est invalide ou corrompu. Veuillez en choisir un autre.",
		KindUpstreamInvalid:      "La réponse de l'IA est invalide. Veuillez réessayer.",
		KindUpstreamSchema:       "La réponse de l'IA ne respecte pas le format attendu. Veuillez réessayer.",
		KindUpstreamTimeout:      "L'analyse a pris trop de temps. Réessayez avec moins de pages.",
		KindUpstreamRateLimited:  "Trop de requêtes. Veuillez patienter quelques minutes.",
		KindReferenceOutOfBounds: "L'IA a référencé une slide qui n'existe pas dans le template.",
		KindGenerationFailure:    "Erreur lors de la génération du PPTX.",
		KindUnknown:              "Une erreur inattendue s'est produite. Veuillez réessayer.",
	},
	LangEN: {
		KindInvalidInput:         "The request is incomplete. Check the template and the content (at least 20 characters).",
		KindInvalidTemplate:      "The template file is invalid or corrupted. Please choose another one.",
		KindUpstreamInvalid:      "The AI response is not valid JSON. Please try again.",
		KindUpstreamSchema:       "The AI response does not match the expected format. Please try again.",
		KindUpstreamTimeout:      "The analysis took too long. Try again with fewer pages.",
		KindUpstreamRateLimited:  "Too many requests. Please wait a few minutes.",
		KindReferenceOutOfBounds: "The AI referenced a slide that does not exist in the template.",
		KindGenerationFailure:    "The PPTX file could not be generated.",
		KindUnknown:              "An unexpected error occurred. Please try again.",
	},
}

// UserMessage returns the localized message shown to end users for kind.
// Unknown languages fall back to French, unknown kinds to the KindUnknown text.
func UserMessage(kind Kind, lang Language) string {
	set, ok := userMessages[lang]
	if !ok {
		set = userMessages[LangFR]
	}
	if msg, ok := set[kind]; ok {
		return msg
	}
	return set[KindUnknown]
}
