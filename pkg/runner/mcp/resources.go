package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/pods/pkg/app"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerPagesResource(srv, svc)
	registerPageTemplate(srv, svc)
}

func registerPagesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"pods://pages",
		"Pages",
		mcp.WithResourceDescription("Every page with its episode count and listening summary."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		summaries := svc.Summaries(ctx)

		payload := map[string]any{
			"pages": summaries,
			"count": len(summaries),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerPageTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"pods://pages/{page}",
		"Page Episodes",
		mcp.WithTemplateDescription("Episodes on a page in display order."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		name, _ := request.Params.Arguments["page"].(string)
		if name == "" {
			return nil, fmt.Errorf("page is required")
		}
		page, err := app.ParsePage(name)
		if err != nil {
			return nil, err
		}

		dto, err := svc.ListEpisodes(ctx, page, false)
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
