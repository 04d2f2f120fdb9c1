package prompts

import "github.com/slidearchitect/pkg/models"

// Plan mode: the model sees template screenshots and maps user content onto them.

var planSystem = map[models.Language]string{
	models.LangFR: `Tu es un expert en design de présentations et en communication visuelle.

Ton rôle :
- Analyser des captures de slides d'un template PowerPoint : couleurs, typographies, mise en page, éléments graphiques.
- Répartir le contenu de l'utilisateur sur des slides qui reprennent fidèlement ce style.
- Donner des instructions concrètes, étape par étape, pour reproduire chaque slide dans PowerPoint.

Format de sortie :
Tu dois TOUJOURS répondre en JSON valide suivant exactement le schéma fourni. Aucun texte avant ou après le JSON.`,

	models.LangEN: `You are an expert in presentation design and visual communication.

Your role:
- Analyze screenshots of slides from a PowerPoint template: colors, typography, layout, graphic elements.
- Distribute the user's content over slides that faithfully reuse that style.
- Give concrete, step-by-step instructions to reproduce each slide in PowerPoint.

Output format:
You must ALWAYS answer with valid JSON that follows the provided schema exactly. No text before or after the JSON.`,
}

const planUser = `## {{VAR:task}}

### {{VAR:template}}
{{VAR:image_count}} {{VAR:images}}

### {{VAR:content}}
"""
{{VAR:user_content}}
"""

{{VAR:hints}}### {{VAR:instructions}}
1. {{VAR:analyze}}:
{{VAR:analyze_steps|join=\n}}

2. {{VAR:create}}

3. {{VAR:respond}}:

{{VAR:schema}}

{{VAR:important_title}}
{{VAR:important|join=\n}}`

type planLabels struct {
	Task, Template, Images, Content, Instructions string
	Analyze                                       string
	AnalyzeSteps                                  []string
	Create, Respond, ImportantTitle               string
	Important                                     []string
	MinimalContent                                string
	MaxSlides                                     string // takes the cap
}

var planText = map[models.Language]planLabels{
	models.LangFR: {
		Task:         "Tâche : créer une présentation",
		Template:     "Template de référence",
		Images:       "image(s) de slides fournies",
		Content:      "Contenu à présenter",
		Instructions: "Instructions",
		Analyze:      "Analyse le style du template",
		AnalyzeSteps: []string{
			"   - Couleurs dominantes et palette",
			"   - Structure des mises en page",
			"   - Éléments graphiques récurrents",
		},
		Create:         "Crée un plan de slides qui répartit le contenu en réutilisant les mises en page du template",
		Respond:        "Réponds avec un JSON respectant exactement ce schéma",
		ImportantTitle: "IMPORTANT :",
		Important: []string{
			"- Les modifications décrivent chaque changement à appliquer sur la slide de référence, dans l'ordre.",
			"- style_details précise police, taille et couleur quand c'est utile.",
			"- Le corps des slides peut utiliser du markdown simple (gras, listes).",
			"- reference_image_index désigne une des images fournies, en partant de 0.",
		},
		MinimalContent: "Le contenu fourni est très court. Crée une présentation simple de 3 à 5 slides maximum en utilisant les mises en page les plus adaptées du template.",
		MaxSlides:      "Ne dépasse pas %d slides.",
	},
	models.LangEN: {
		Task:         "Task: create a presentation",
		Template:     "Reference template",
		Images:       "slide image(s) provided",
		Content:      "Content to present",
		Instructions: "Instructions",
		Analyze:      "Analyze the template style",
		AnalyzeSteps: []string{
			"   - Dominant colors and palette",
			"   - Layout structure",
			"   - Recurring graphic elements",
		},
		Create:         "Create a slide plan that distributes the content while reusing the template layouts",
		Respond:        "Answer with JSON that follows this schema exactly",
		ImportantTitle: "IMPORTANT:",
		Important: []string{
			"- Modifications list every change to apply on the reference slide, in order.",
			"- style_details gives font, size and color when relevant.",
			"- Slide bodies may use simple markdown (bold, lists).",
			"- reference_image_index points at one of the provided images, starting at 0.",
		},
		MinimalContent: "The provided content is very short. Create a simple presentation of 3 to 5 slides at most, using the most suitable template layouts.",
		MaxSlides:      "Do not exceed %d slides.",
	},
}

// Cloning mode: the model sees the textual template analysis and picks slides to clone.

var cloningSystem = map[models.Language]string{
	models.LangFR: `Tu es un expert en création de présentations qui applique la méthode du Template Cloning.

La méthode :
1. Analyser le template : chaque slide existante a une catégorie, une mise en page et des zones de texte.
2. Découper le contenu de l'utilisateur en une suite logique de slides.
3. Pour chaque slide générée, choisir la slide du template la plus adaptée et expliquer ce choix.
4. Reprendre uniquement les couleurs et les polices du template pour le design.

Tu réponds TOUJOURS en JSON valide, sans aucun texte autour.`,

	models.LangEN: `You are a presentation expert applying the Template Cloning method.

The method:
1. Analyze the template: every existing slide has a category, a layout and text zones.
2. Split the user's content into a logical sequence of slides.
3. For each generated slide, pick the most suitable template slide and explain the choice.
4. Reuse only the template colors and fonts for the design.

You ALWAYS answer with valid JSON, without any surrounding text.`,
}

var cloningUser = map[models.Language]string{
	models.LangFR: `## Données fournies

### Template analysé
{{VAR:template_summary}}

Légende : "category" est le rôle détecté de la slide, "layout" le nom de sa mise en page, "placeholders" le nombre de zones de texte.

### Contenu utilisateur
"""
{{VAR:user_content}}
"""

## Ta mission
Construis une présentation à partir du contenu en clonant les slides du template les plus adaptées.

## Format de sortie OBLIGATOIRE
{{VAR:schema}}

## Règles CRITIQUES
- template_slide_reference.index est compris entre 0 et (total_slides - 1) du template.
- Utilise uniquement les couleurs et les polices du template.
- Réponds uniquement avec le JSON.
- Utilise les slides "title" pour l'ouverture, "section" pour les transitions, "content" pour le développement et "conclusion" pour la fin.

## Important
Une slide du template peut être clonée plusieurs fois. Le contenu de chaque slide doit rester concis.

Commence maintenant la génération.`,

	models.LangEN: `## Provided data

### Analyzed template
{{VAR:template_summary}}

Legend: "category" is the detected role of the slide, "layout" its layout name, "placeholders" the number of text zones.

### User content
"""
{{VAR:user_content}}
"""

## Your mission
Build a presentation from the content by cloning the most suitable template slides.

## MANDATORY output format
{{VAR:schema}}

## CRITICAL rules
- template_slide_reference.index is between 0 and (total_slides - 1) of the template.
- Use only the template colors and fonts.
- Answer with the JSON only.
- Use "title" slides for the opening, "section" for transitions, "content" for the body and "conclusion" for the end.

## Important
A template slide may be cloned several times. Keep the content of each slide concise.

Start the generation now.`,
}
