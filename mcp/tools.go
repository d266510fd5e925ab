package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/lvillar/resumepdf"
	"github.com/lvillar/resumepdf/mapper"
	"github.com/lvillar/resumepdf/profile"
)

// RegisterDefaultTools adds the resume tools backed by g to the server.
func RegisterDefaultTools(s *Server, g *resumepdf.Generator) {
	s.AddTool(generateResumeTool(g))
	s.AddTool(mapProfileTool(g))
	s.AddTool(listBlocksTool(g))
}

var profileSchema = map[string]any{
	"type":        "object",
	"description": "Resume profile: header{name,title}, contact{email,phone,website,github,linkedin,twitter,location}, summary, skills, languages, projects, education, avatar (base64)",
}

func generateResumeTool(g *resumepdf.Generator) Tool {
	return Tool{
		Name:        "generate_resume",
		Description: "Generate a resume PDF from a profile, a theme and a layout. Returns the PDF as base64 unless outputPath is given.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"profile": profileSchema,
				"theme": map[string]any{
					"type":        "string",
					"description": "Theme name (see resume://themes)",
				},
				"layout": map[string]any{
					"description": "Layout name (see resume://layouts) or an inline layout document with page, columns, flow and overrides",
				},
				"ui_lang": map[string]any{
					"type":        "string",
					"description": "Heading language: en, de or ar",
				},
				"rtl_mode": map[string]any{
					"type":        "boolean",
					"description": "Force right-to-left alignment",
				},
				"outputPath": map[string]any{
					"type":        "string",
					"description": "Optional file path to save the PDF. If omitted, returns base64.",
				},
			},
			"required": []string{"profile"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			return handleGenerate(ctx, g, args)
		},
	}
}

// requestFromArgs builds a generation request from tool arguments.
func requestFromArgs(args map[string]any) (resumepdf.Request, error) {
	if _, ok := args["profile"].(map[string]any); !ok {
		return resumepdf.Request{}, fmt.Errorf("missing 'profile' argument")
	}
	return resumepdf.DecodeRequest(args)
}

func handleGenerate(ctx context.Context, g *resumepdf.Generator, args map[string]any) (ToolResult, error) {
	req, err := requestFromArgs(args)
	if err != nil {
		return ToolResult{}, err
	}
	res, err := g.Generate(ctx, req)
	if err != nil {
		return ToolResult{}, fmt.Errorf("generating resume: %w", err)
	}

	warnings := ""
	if len(res.Warnings) > 0 {
		data, _ := json.Marshal(res.Warnings)
		warnings = fmt.Sprintf("\nWarnings: %s", data)
	}

	// Save to file if outputPath specified
	if outputPath, ok := args["outputPath"].(string); ok && outputPath != "" {
		if err := os.WriteFile(outputPath, res.PDF, 0o644); err != nil {
			return ToolResult{}, fmt.Errorf("writing file: %w", err)
		}
		return textResult("Resume created successfully: %s (%d pages, %d bytes)%s", outputPath, res.Pages, len(res.PDF), warnings), nil
	}

	encoded := base64.StdEncoding.EncodeToString(res.PDF)
	return ToolResult{
		Content: []ContentBlock{
			{Type: "text", Text: fmt.Sprintf("Resume created successfully (%d pages, %d bytes).%s", res.Pages, len(res.PDF), warnings)},
			{Type: "resource", MIMEType: "application/pdf", Data: encoded},
		},
	}, nil
}

func mapProfileTool(g *resumepdf.Generator) Tool {
	return Tool{
		Name:        "map_profile",
		Description: "Normalize a profile and show the data each block would receive, plus mapper warnings. Useful to debug a layout before generating.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"profile": profileSchema,
				"map_rules": map[string]any{
					"type":        "object",
					"description": "Declarative rules by block name: \"key\" or {from, fn: text|list|projects}",
				},
			},
			"required": []string{"profile"},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			prof, ok := args["profile"].(map[string]any)
			if !ok {
				return ToolResult{}, fmt.Errorf("missing 'profile' argument")
			}
			specs, _ := args["map_rules"].(map[string]any)
			p := profile.Normalize(prof)
			custom, warnings := mapper.RulesFromSpecs(specs)
			ready, mapWarnings := mapper.MapProfileToReady(p, mapper.Merge(mapper.DefaultRules(), custom))
			out := map[string]any{
				"profile":  p,
				"ready":    ready,
				"warnings": append(warnings, mapWarnings...),
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return ToolResult{}, fmt.Errorf("encoding result: %w", err)
			}
			return textResult("%s", data), nil
		},
	}
}

func listBlocksTool(g *resumepdf.Generator) Tool {
	return Tool{
		Name:        "list_blocks",
		Description: "List the block names a layout flow may reference.",
		InputSchema: map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		Handler: func(ctx context.Context, args map[string]any) (ToolResult, error) {
			data, _ := json.Marshal(g.Registry().List())
			return textResult("%s", data), nil
		},
	}
}
