// Package gateway serves the skill catalog to a stdio MCP client through
// the official SDK, which owns framing and lifecycle negotiation on that
// transport. The HTTP surface in httpserver speaks the protocol directly.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
	"github.com/tedpecoulas/claude-skills-mcp/internal/infra/router"
)

type Gateway struct {
	catalog *domain.Catalog
	fetcher router.ContentFetcher
	logger  *zap.Logger
	server  *mcp.Server
}

func New(catalog *domain.Catalog, fetcher router.ContentFetcher, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		catalog: catalog,
		fetcher: fetcher,
		logger:  logger.Named("gateway"),
	}
}

// Run registers the tool and resource surface and serves stdio until the
// context is cancelled or the client disconnects.
func (g *Gateway) Run(ctx context.Context) error {
	server := g.buildServer()
	g.logger.Info("gateway starting (stdio transport)",
		zap.Int("skills", g.catalog.Len()))
	return server.Run(ctx, &mcp.StdioTransport{})
}

func (g *Gateway) buildServer() *mcp.Server {
	g.server = mcp.NewServer(&mcp.Implementation{
		Name:    domain.ServerName,
		Version: domain.ServerVersion,
	}, &mcp.ServerOptions{
		HasTools:     true,
		HasResources: true,
	})
	g.registerTools()
	g.registerResources()
	return g.server
}

func (g *Gateway) registerTools() {
	g.server.AddTool(&mcp.Tool{
		Name:        "list_skills",
		Description: "Liste tous les skills Claude disponibles avec leurs descriptions et catégories.",
		InputSchema: &jsonschema.Schema{
			Type:       "object",
			Properties: map[string]*jsonschema.Schema{},
		},
	}, g.handleListSkills)

	g.server.AddTool(&mcp.Tool{
		Name:        "get_skill",
		Description: "Récupère le contenu complet d'un skill Claude spécifique. Utilisez cet outil avant de créer des documents pour obtenir les bonnes pratiques.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"skill_name": {
					Type:        "string",
					Description: "Nom du skill à récupérer",
					Enum:        skillNameEnum(g.catalog),
				},
			},
			Required: []string{"skill_name"},
		},
	}, g.handleGetSkill)

	g.server.AddTool(&mcp.Tool{
		Name:        "search_skills",
		Description: "Recherche des skills par mot-clé dans leur nom ou description.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Terme de recherche (ex: 'document', 'presentation', 'excel')",
				},
			},
			Required: []string{"query"},
		},
	}, g.handleSearchSkills)
}

func (g *Gateway) registerResources() {
	for _, skill := range g.catalog.All() {
		g.server.AddResource(&mcp.Resource{
			URI:         skill.URI(),
			Name:        "Claude Skill: " + skill.Name,
			Description: skill.Description,
			MIMEType:    domain.SkillMIMEType,
		}, g.resourceHandler(skill.Name))
	}
}

func (g *Gateway) handleListSkills(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(g.catalog.ListPayload())
}

func (g *Gateway) handleGetSkill(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		SkillName string `json:"skill_name"`
	}
	if err := decodeArguments(req, &args); err != nil {
		return nil, err
	}
	if args.SkillName == "" {
		return nil, errors.New("the 'skill_name' parameter is required")
	}

	content, err := g.fetcher.Fetch(ctx, args.SkillName)
	if err != nil {
		return errorResult(toolErrorText(err)), nil
	}
	skill, _ := g.catalog.Lookup(args.SkillName)
	return textResult(skill.Document(content)), nil
}

func (g *Gateway) handleSearchSkills(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args struct {
		Query string `json:"query"`
	}
	if err := decodeArguments(req, &args); err != nil {
		return nil, err
	}
	if args.Query == "" {
		return errorResult("Error: the 'query' parameter is required"), nil
	}
	return jsonResult(g.catalog.Search(args.Query))
}

func (g *Gateway) resourceHandler(name string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		content, err := g.fetcher.Fetch(ctx, name)
		if err != nil {
			return nil, err
		}
		uri := domain.SkillURIScheme + name
		if req != nil && req.Params != nil && req.Params.URI != "" {
			uri = req.Params.URI
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      uri,
				MIMEType: domain.SkillMIMEType,
				Text:     content,
			}},
		}, nil
	}
}

func decodeArguments(req *mcp.CallToolRequest, out any) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, out); err != nil {
		return fmt.Errorf("invalid tool arguments: %w", err)
	}
	return nil
}

func skillNameEnum(catalog *domain.Catalog) []any {
	names := catalog.Names()
	enum := make([]any, 0, len(names))
	for _, name := range names {
		enum = append(enum, name)
	}
	return enum
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(payload any) (*mcp.CallToolResult, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool payload: %w", err)
	}
	return textResult(string(raw)), nil
}

func toolErrorText(err error) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return "Error: " + domainErr.Message
	}
	return "Error: " + err.Error()
}
