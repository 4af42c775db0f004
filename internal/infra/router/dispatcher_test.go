package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/fetcher"
)

func testSkills(sourceURL string) []domain.Skill {
	return []domain.Skill{
		{Name: "pptx", Description: "Presentations PowerPoint", Category: "document-creation", SourceURL: sourceURL},
		{Name: "docx", Description: "Documents Word", Category: "document-creation", SourceURL: sourceURL},
		{Name: "xlsx", Description: "Feuilles Excel", Category: "document-creation", SourceURL: sourceURL},
		{Name: "pdf", Description: "Fichiers PDF", Category: "document-creation", SourceURL: sourceURL},
	}
}

type testEnv struct {
	dispatcher *Dispatcher
	catalog    *domain.Catalog
	cache      *domain.ContentCache
	fetchCalls *atomic.Int64
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte("skill markdown body"))
	}))
	t.Cleanup(server.Close)

	catalog := domain.NewCatalog(testSkills(server.URL))
	cache := domain.NewContentCache(time.Hour)
	f := fetcher.New(catalog, cache, fetcher.Options{})

	return &testEnv{
		dispatcher: NewDispatcher(catalog, f, Options{}),
		catalog:    catalog,
		cache:      cache,
		fetchCalls: &calls,
	}
}

func dispatch(t *testing.T, d *Dispatcher, raw string) *domain.Response {
	t.Helper()
	return d.Dispatch(context.Background(), []byte(raw))
}

func resultOf(t *testing.T, resp *domain.Response, out any) {
	t.Helper()
	require.NotNil(t, resp)
	require.Nil(t, resp.Err())
	require.NoError(t, json.Unmarshal(resp.Result(), out))
}

func toolResultOf(t *testing.T, resp *domain.Response) domain.CallToolResult {
	t.Helper()
	var result domain.CallToolResult
	resultOf(t, resp, &result)
	require.NotEmpty(t, result.Content)
	return result
}

func TestDispatcher_InitializeEchoesProposedVersion(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"initialize","params":{"protocolVersion":"2199-01-01"}}`)
	var result domain.InitializeResult
	resultOf(t, resp, &result)

	assert.Equal(t, "2199-01-01", result.ProtocolVersion)
	assert.Equal(t, "claude-skills-gateway", result.ServerInfo.Name)
	assert.NotNil(t, result.Capabilities.Resources)
	assert.NotNil(t, result.Capabilities.Tools)
}

func TestDispatcher_InitializeDefaultsVersion(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"initialize"}`)
	var result domain.InitializeResult
	resultOf(t, resp, &result)
	assert.Equal(t, domain.DefaultProtocolVersion, result.ProtocolVersion)
}

func TestDispatcher_ZeroIDIsRequest(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":0,"method":"ping"}`)
	require.NotNil(t, resp, "id 0 must be classified as a request, not a notification")

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":0,"result":{}}`, string(raw))
}

func TestDispatcher_NotificationsProduceNoResponse(t *testing.T) {
	env := newTestEnv(t)

	assert.Nil(t, dispatch(t, env.dispatcher, `{"method":"notifications/initialized"}`))
	assert.Nil(t, dispatch(t, env.dispatcher, `{"method":"notifications/cancelled"}`))
	// Unknown notification names are swallowed, never errors.
	assert.Nil(t, dispatch(t, env.dispatcher, `{"method":"notifications/whatever"}`))
}

func TestDispatcher_UnknownMethod(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":5,"method":"foo/bar"}`)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Err())
	assert.Equal(t, int64(domain.ErrCodeMethodNotFound), resp.Err().Code)
	assert.Contains(t, resp.Err().Message, "foo/bar")
}

func TestDispatcher_MissingMethodIsInvalidRequest(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":5,"params":{}}`)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Err())
	assert.Equal(t, int64(domain.ErrCodeInvalidRequest), resp.Err().Code)
}

func TestDispatcher_UnknownToolDistinctFromUnknownMethod(t *testing.T) {
	env := newTestEnv(t)

	toolResp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"unknown_tool"}}`)
	require.NotNil(t, toolResp.Err())
	assert.Equal(t, int64(domain.ErrCodeToolNotFound), toolResp.Err().Code)
	assert.Contains(t, toolResp.Err().Message, "unknown_tool")

	methodResp := dispatch(t, env.dispatcher, `{"id":2,"method":"foo/bar"}`)
	require.NotNil(t, methodResp.Err())
	assert.NotEqual(t, methodResp.Err().Code, toolResp.Err().Code)
}

func TestDispatcher_ParseError(t *testing.T) {
	env := newTestEnv(t)

	resp := env.dispatcher.Dispatch(context.Background(), []byte(`{not json`))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Err())
	assert.Equal(t, int64(domain.ErrCodeParse), resp.Err().Code)
}

func TestDispatcher_ResourcesListMatchesCatalog(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"resources/list"}`)
	var result domain.ListResourcesResult
	resultOf(t, resp, &result)

	require.Len(t, result.Resources, env.catalog.Len())
	seen := make(map[string]int)
	for _, res := range result.Resources {
		seen[res.URI]++
		assert.Equal(t, "text/markdown", res.MIMEType)
	}
	for _, name := range env.catalog.Names() {
		assert.Equal(t, 1, seen["skill://"+name])
	}
}

func TestDispatcher_ToolsListEnumMatchesCatalog(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/list"}`)
	var result domain.ListToolsResult
	resultOf(t, resp, &result)
	require.Len(t, result.Tools, 3)

	var getSkillSchema struct {
		Properties struct {
			SkillName struct {
				Enum []string `json:"enum"`
			} `json:"skill_name"`
		} `json:"properties"`
		Required []string `json:"required"`
	}
	for _, tool := range result.Tools {
		if tool.Name != "get_skill" {
			continue
		}
		require.NoError(t, json.Unmarshal(tool.InputSchema, &getSkillSchema))
	}

	assert.Equal(t, env.catalog.Names(), getSkillSchema.Properties.SkillName.Enum)
	assert.Equal(t, []string{"skill_name"}, getSkillSchema.Required)
}

func TestDispatcher_ResourcesRead(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"resources/read","params":{"uri":"skill://pptx"}}`)
	var result domain.ReadResourceResult
	resultOf(t, resp, &result)

	require.Len(t, result.Contents, 1)
	assert.Equal(t, "skill://pptx", result.Contents[0].URI)
	assert.Equal(t, "skill markdown body", result.Contents[0].Text)
}

func TestDispatcher_ResourcesReadMalformedURI(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"resources/read","params":{"uri":"file://pptx"}}`)
	require.NotNil(t, resp.Err())
	assert.Equal(t, int64(domain.ErrCodeInvalidParams), resp.Err().Code)
	// The URI check runs before any fetch is attempted.
	assert.Equal(t, int64(0), env.fetchCalls.Load())
}

func TestDispatcher_GetSkillCachesWithinTTL(t *testing.T) {
	env := newTestEnv(t)

	const call = `{"id":1,"method":"tools/call","params":{"name":"get_skill","arguments":{"skill_name":"pptx"}}}`
	result := toolResultOf(t, dispatch(t, env.dispatcher, call))
	assert.False(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "# PPTX Skill\n\nPresentations PowerPoint\n\n---\n\n")

	toolResultOf(t, dispatch(t, env.dispatcher, call))
	assert.Equal(t, int64(1), env.fetchCalls.Load(), "second call within TTL must be served from cache")
}

func TestDispatcher_GetSkillRefetchesAfterTTL(t *testing.T) {
	env := newTestEnv(t)

	current := time.Now()
	env.cache.SetClock(func() time.Time { return current })

	const call = `{"id":1,"method":"tools/call","params":{"name":"get_skill","arguments":{"skill_name":"docx"}}}`
	toolResultOf(t, dispatch(t, env.dispatcher, call))
	toolResultOf(t, dispatch(t, env.dispatcher, call))
	require.Equal(t, int64(1), env.fetchCalls.Load())

	current = current.Add(61 * time.Minute)
	toolResultOf(t, dispatch(t, env.dispatcher, call))
	assert.Equal(t, int64(2), env.fetchCalls.Load(), "a call after TTL expiry must refetch")
}

func TestDispatcher_GetSkillUnknownIsToolError(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"get_skill","arguments":{"skill_name":"nonexistent"}}}`)
	result := toolResultOf(t, resp)

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].Text, "pptx, docx, xlsx, pdf")
}

func TestDispatcher_GetSkillMissingName(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"get_skill","arguments":{}}}`)
	require.NotNil(t, resp.Err())
	assert.Equal(t, int64(domain.ErrCodeInvalidParams), resp.Err().Code)
}

func TestDispatcher_SearchSkills(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"search_skills","arguments":{"query":"Word"}}}`)
	result := toolResultOf(t, resp)
	require.False(t, result.IsError)

	var payload struct {
		Query   string `json:"query"`
		Found   int    `json:"found"`
		Results []struct {
			Name string `json:"name"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))

	assert.Equal(t, "word", payload.Query)
	require.Equal(t, 1, payload.Found)
	assert.Equal(t, "docx", payload.Results[0].Name)
}

func TestDispatcher_SearchSkillsEmptyQueryIsToolError(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"search_skills","arguments":{"query":""}}}`)
	result := toolResultOf(t, resp)
	assert.True(t, result.IsError, "empty query is a tool-level error, not an empty result set")
}

func TestDispatcher_ListSkills(t *testing.T) {
	env := newTestEnv(t)

	resp := dispatch(t, env.dispatcher, `{"id":1,"method":"tools/call","params":{"name":"list_skills"}}`)
	result := toolResultOf(t, resp)
	require.False(t, result.IsError)

	var payload struct {
		TotalSkills int `json:"total_skills"`
		Skills      []struct {
			Name string `json:"name"`
			URI  string `json:"uri"`
		} `json:"skills"`
	}
	require.NoError(t, json.Unmarshal([]byte(result.Content[0].Text), &payload))

	assert.Equal(t, env.catalog.Len(), payload.TotalSkills)
	require.Len(t, payload.Skills, env.catalog.Len())
	assert.Equal(t, "pptx", payload.Skills[0].Name)
	assert.Equal(t, "skill://pptx", payload.Skills[0].URI)
}
