package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() *Catalog {
	return NewCatalog([]Skill{
		{
			Name:        "pptx",
			Description: "Presentations PowerPoint",
			Category:    "document-creation",
			SourceURL:   "https://example.com/pptx.md",
			GitHubURL:   "https://github.com/example/skills/tree/main/pptx",
		},
		{
			Name:        "docx",
			Description: "Documents Word",
			Category:    "document-creation",
			SourceURL:   "https://example.com/docx.md",
			GitHubURL:   "https://github.com/example/skills/tree/main/docx",
		},
	})
}

func TestCatalog_ListPayloadCarriesFullSummaries(t *testing.T) {
	payload := testCatalog().ListPayload()

	require.Equal(t, 2, payload.TotalSkills)
	assert.Equal(t, "pptx", payload.Skills[0].Name)
	assert.Equal(t, "document-creation", payload.Skills[0].Category)
	assert.Equal(t, "skill://pptx", payload.Skills[0].URI)
	assert.NotEmpty(t, payload.Skills[0].GitHub)
}

func TestCatalog_SearchResultsCarryOnlyNameDescriptionURI(t *testing.T) {
	payload := testCatalog().Search("WORD")

	assert.Equal(t, "word", payload.Query)
	require.Equal(t, 1, payload.Found)
	assert.Equal(t, SkillSearchResult{
		Name:        "docx",
		Description: "Documents Word",
		URI:         "skill://docx",
	}, payload.Results[0])

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "category")
	assert.NotContains(t, string(raw), "github")
}

func TestCatalog_SearchNoHitsIsEmptySlice(t *testing.T) {
	payload := testCatalog().Search("nothing matches this")

	assert.Equal(t, 0, payload.Found)
	require.NotNil(t, payload.Results)

	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"results":[]`)
}
