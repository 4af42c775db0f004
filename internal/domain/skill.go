package domain

import (
	"fmt"
	"strings"
)

// Skill is a catalog entry for one authoring skill. Content is not held
// here; it is fetched from SourceURL on demand and cached separately.
type Skill struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
	SourceURL   string `json:"sourceUrl"`
	GitHubURL   string `json:"githubUrl,omitempty"`
}

// URI returns the canonical resource identifier for the skill.
func (s Skill) URI() string {
	return SkillURIScheme + s.Name
}

// Document renders the full markdown document served for the skill.
func (s Skill) Document(content string) string {
	return fmt.Sprintf("# %s Skill\n\n%s\n\n---\n\n%s", strings.ToUpper(s.Name), s.Description, content)
}

// MatchesQuery reports whether the already-lowercased query occurs in the
// skill's name, description, or category.
func (s Skill) MatchesQuery(query string) bool {
	if strings.Contains(strings.ToLower(s.Name), query) {
		return true
	}
	if strings.Contains(strings.ToLower(s.Description), query) {
		return true
	}
	return s.Category != "" && strings.Contains(strings.ToLower(s.Category), query)
}

// ParseSkillURI extracts the skill name from a skill:// URI. The second
// return is false when the scheme does not match or the name is empty.
func ParseSkillURI(uri string) (string, bool) {
	name, ok := strings.CutPrefix(uri, SkillURIScheme)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Catalog is the immutable, ordered skill registry. Declaration order is
// preserved everywhere skills are listed.
type Catalog struct {
	skills []Skill
	byName map[string]Skill
}

// NewCatalog builds a catalog from the given skills. On duplicate names
// the first declaration wins.
func NewCatalog(skills []Skill) *Catalog {
	c := &Catalog{
		skills: make([]Skill, 0, len(skills)),
		byName: make(map[string]Skill, len(skills)),
	}
	for _, skill := range skills {
		if _, exists := c.byName[skill.Name]; exists {
			continue
		}
		c.skills = append(c.skills, skill)
		c.byName[skill.Name] = skill
	}
	return c
}

func (c *Catalog) Lookup(name string) (Skill, bool) {
	skill, ok := c.byName[name]
	return skill, ok
}

// All returns the skills in declaration order. Callers must not mutate
// the returned slice.
func (c *Catalog) All() []Skill {
	return c.skills
}

// Names returns the skill names in declaration order.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.skills))
	for _, skill := range c.skills {
		names = append(names, skill.Name)
	}
	return names
}

func (c *Catalog) Len() int {
	return len(c.skills)
}
