package catalog

import "github.com/tedpecoulas/claude-skills-mcp/internal/domain"

const (
	rawBase    = "https://raw.githubusercontent.com/anthropics/skills/main/skills/"
	githubBase = "https://github.com/anthropics/skills/tree/main/skills/"
)

// BuiltinSkills is the default catalog served when no skills are configured.
func BuiltinSkills() []domain.Skill {
	return []domain.Skill{
		{
			Name:        "pptx",
			Description: "Création, édition et analyse de présentations PowerPoint. Support des layouts, templates, graphiques et génération automatique de slides.",
			Category:    "document-creation",
			SourceURL:   rawBase + "pptx/SKILL.md",
			GitHubURL:   githubBase + "pptx",
		},
		{
			Name:        "docx",
			Description: "Création, édition et analyse de documents Word. Support des tracked changes, commentaires, préservation du formatage et extraction de texte.",
			Category:    "document-creation",
			SourceURL:   rawBase + "docx/SKILL.md",
			GitHubURL:   githubBase + "docx",
		},
		{
			Name:        "xlsx",
			Description: "Création, édition et analyse de feuilles de calcul Excel. Support des formules, graphiques, formatage avancé et manipulation de données.",
			Category:    "document-creation",
			SourceURL:   rawBase + "xlsx/SKILL.md",
			GitHubURL:   githubBase + "xlsx",
		},
		{
			Name:        "pdf",
			Description: "Manipulation complète de PDF : extraction de texte/tables, création, fusion/division de documents et gestion de formulaires.",
			Category:    "document-creation",
			SourceURL:   rawBase + "pdf/SKILL.md",
			GitHubURL:   githubBase + "pdf",
		},
		{
			Name:        "frontend-design",
			Description: "Outils de design frontend et développement UI/UX. Création d'interfaces web distinctives et de qualité production.",
			Category:    "design-development",
			SourceURL:   rawBase + "frontend-design/SKILL.md",
			GitHubURL:   githubBase + "frontend-design",
		},
		{
			Name:        "product-self-knowledge",
			Description: "Référence authoritative sur les produits Anthropic. Informations précises sur les capacités, tarifs et fonctionnalités.",
			Category:    "reference",
			SourceURL:   rawBase + "product-self-knowledge/SKILL.md",
			GitHubURL:   githubBase + "product-self-knowledge",
		},
	}
}
