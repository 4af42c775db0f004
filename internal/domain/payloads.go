package domain

import "strings"

// SkillSummary is the wire shape for one skill in list and search
// payloads and on the REST surface.
type SkillSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	URI         string `json:"uri"`
	GitHub      string `json:"github,omitempty"`
}

// Summary converts the skill to its listing shape.
func (s Skill) Summary() SkillSummary {
	return SkillSummary{
		Name:        s.Name,
		Description: s.Description,
		Category:    s.Category,
		URI:         s.URI(),
		GitHub:      s.GitHubURL,
	}
}

type SkillListPayload struct {
	TotalSkills int            `json:"total_skills"`
	Skills      []SkillSummary `json:"skills"`
}

// SkillSearchResult is one search hit. Narrower than SkillSummary: search
// output carries only name, description, and URI.
type SkillSearchResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URI         string `json:"uri"`
}

type SkillSearchPayload struct {
	Query   string              `json:"query"`
	Found   int                 `json:"found"`
	Results []SkillSearchResult `json:"results"`
}

// ListPayload summarizes every skill in declaration order.
func (c *Catalog) ListPayload() SkillListPayload {
	payload := SkillListPayload{
		TotalSkills: len(c.skills),
		Skills:      make([]SkillSummary, 0, len(c.skills)),
	}
	for _, skill := range c.skills {
		payload.Skills = append(payload.Skills, skill.Summary())
	}
	return payload
}

// Search lowercases the query and matches it against name, description,
// and category. Results keep declaration order; an empty hit set is an
// empty slice, not nil.
func (c *Catalog) Search(query string) SkillSearchPayload {
	query = strings.ToLower(query)
	results := []SkillSearchResult{}
	for _, skill := range c.skills {
		if skill.MatchesQuery(query) {
			results = append(results, SkillSearchResult{
				Name:        skill.Name,
				Description: skill.Description,
				URI:         skill.URI(),
			})
		}
	}
	return SkillSearchPayload{
		Query:   query,
		Found:   len(results),
		Results: results,
	}
}
