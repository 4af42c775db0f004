package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/fetcher"
)

func newTestGateway(t *testing.T) *Gateway {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("content for " + r.URL.Path))
	}))
	t.Cleanup(upstream.Close)

	catalog := domain.NewCatalog([]domain.Skill{
		{Name: "pptx", Description: "Presentations PowerPoint", Category: "document", SourceURL: upstream.URL + "/pptx"},
		{Name: "docx", Description: "Documents Word", Category: "document", SourceURL: upstream.URL + "/docx"},
	})
	cache := domain.NewContentCache(time.Hour)
	return New(catalog, fetcher.New(catalog, cache, fetcher.Options{}), nil)
}

func connectClient(t *testing.T, ctx context.Context, server *mcp.Server) *mcp.ClientSession {
	t.Helper()
	ct, st := mcp.NewInMemoryTransports()
	_, err := server.Connect(ctx, st, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "0.1.0"}, nil)
	session, err := client.Connect(ctx, ct, nil)
	require.NoError(t, err)
	return session
}

func TestGateway_ListsToolsAndResources(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	session := connectClient(t, ctx, g.buildServer())
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"list_skills", "get_skill", "search_skills"}, names)

	resources, err := session.ListResources(ctx, &mcp.ListResourcesParams{})
	require.NoError(t, err)
	uris := make([]string, 0, len(resources.Resources))
	for _, resource := range resources.Resources {
		uris = append(uris, resource.URI)
	}
	assert.ElementsMatch(t, []string{"skill://pptx", "skill://docx"}, uris)
}

func TestGateway_GetSkillOverStdioSession(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	session := connectClient(t, ctx, g.buildServer())
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_skill",
		Arguments: map[string]any{"skill_name": "docx"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "# DOCX Skill")
	assert.Contains(t, text.Text, "content for /docx")
}

func TestGateway_UnknownSkillIsToolError(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	session := connectClient(t, ctx, g.buildServer())
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_skill",
		Arguments: map[string]any{"skill_name": "nope"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "pptx, docx")
}

func TestGateway_SearchSkills(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(t)
	session := connectClient(t, ctx, g.buildServer())
	defer session.Close()

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "search_skills",
		Arguments: map[string]any{"query": "Word"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, `"docx"`)
	assert.NotContains(t, text.Text, `"pptx"`)
}
