package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tedpecoulas/claude-skills-mcp/internal/domain"
)

const (
	toolListSkills   = "list_skills"
	toolGetSkill     = "get_skill"
	toolSearchSkills = "search_skills"
)

type getSkillArgs struct {
	SkillName string `json:"skill_name"`
}

type searchSkillsArgs struct {
	Query string `json:"query"`
}

func (d *Dispatcher) handleListTools(context.Context, json.RawMessage) (any, error) {
	return domain.ListToolsResult{Tools: d.toolDescriptors()}, nil
}

// toolDescriptors builds the static tool catalog. The get_skill enum is
// computed from the live registry so it always matches the catalog.
func (d *Dispatcher) toolDescriptors() []domain.ToolDescriptor {
	return []domain.ToolDescriptor{
		{
			Name:        toolListSkills,
			Description: "Liste tous les skills Claude disponibles avec leurs descriptions et catégories.",
			InputSchema: mustSchema(map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			}),
		},
		{
			Name:        toolGetSkill,
			Description: "Récupère le contenu complet d'un skill Claude spécifique. Utilisez cet outil avant de créer des documents pour obtenir les bonnes pratiques.",
			InputSchema: mustSchema(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"skill_name": map[string]any{
						"type":        "string",
						"description": "Nom du skill à récupérer",
						"enum":        d.catalog.Names(),
					},
				},
				"required": []string{"skill_name"},
			}),
		},
		{
			Name:        toolSearchSkills,
			Description: "Recherche des skills par mot-clé dans leur nom ou description.",
			InputSchema: mustSchema(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "Terme de recherche (ex: 'document', 'presentation', 'excel')",
					},
				},
				"required": []string{"query"},
			}),
		},
	}
}

func mustSchema(schema map[string]any) json.RawMessage {
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return raw
}

func (d *Dispatcher) handleCallTool(ctx context.Context, params json.RawMessage) (any, error) {
	var p domain.CallToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, fmt.Sprintf("invalid tools/call params: %v", err))
	}

	switch p.Name {
	case toolListSkills:
		return d.callListSkills()
	case toolGetSkill:
		return d.callGetSkill(ctx, p.Arguments)
	case toolSearchSkills:
		return d.callSearchSkills(p.Arguments)
	default:
		// Distinct code from an unknown top-level method: the request was
		// routable, only the tool lookup failed.
		return nil, domain.NewProtocolError(domain.ErrCodeToolNotFound,
			fmt.Sprintf("unknown tool: %s, available tools: %s, %s, %s", p.Name, toolListSkills, toolGetSkill, toolSearchSkills))
	}
}

func (d *Dispatcher) callListSkills() (any, error) {
	return jsonToolResult(d.catalog.ListPayload())
}

func (d *Dispatcher) callGetSkill(ctx context.Context, args json.RawMessage) (any, error) {
	var parsed getSkillArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, fmt.Sprintf("invalid get_skill arguments: %v", err))
		}
	}
	if parsed.SkillName == "" {
		return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, "the 'skill_name' parameter is required")
	}

	content, err := d.fetcher.Fetch(ctx, parsed.SkillName)
	if err != nil {
		// Unknown skill and unreachable source are legitimate tool failures,
		// reported as tool results the calling agent can read.
		return domain.ErrorResult(toolErrorText(err)), nil
	}

	skill, _ := d.catalog.Lookup(parsed.SkillName)
	return domain.TextResult(skill.Document(content)), nil
}

func (d *Dispatcher) callSearchSkills(args json.RawMessage) (any, error) {
	var parsed searchSkillsArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, domain.NewProtocolError(domain.ErrCodeInvalidParams, fmt.Sprintf("invalid search_skills arguments: %v", err))
		}
	}
	if parsed.Query == "" {
		return domain.ErrorResult("Error: the 'query' parameter is required"), nil
	}

	return jsonToolResult(d.catalog.Search(parsed.Query))
}

func jsonToolResult(payload any) (any, error) {
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal tool payload: %w", err)
	}
	return domain.TextResult(string(raw)), nil
}

// toolErrorText formats a fetch failure for a tool result, preferring the
// domain message over the operation-prefixed error string.
func toolErrorText(err error) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) && domainErr.Message != "" {
		return "Error: " + domainErr.Message
	}
	return "Error: " + err.Error()
}
