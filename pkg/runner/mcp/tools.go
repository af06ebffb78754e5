package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"tableflip.dev/pods/pkg/app"
	"tableflip.dev/pods/pkg/episode"
)

var pageNames = []string{"feed", "queue", "history", "saved"}

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListEpisodesTool(srv, svc)
	registerMoveEpisodeTool(srv, svc)
	registerSetQueueOrderTool(srv, svc)
	registerWindowTool(srv, svc)
}

func registerListEpisodesTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"list_episodes",
		mcp.WithDescription("List the episodes of a page in display order."),
		mcp.WithString("page",
			mcp.Description("Page to list. Defaults to the queue."),
			mcp.Enum(pageNames...),
		),
		mcp.WithBoolean("refresh",
			mcp.Description("Reload the queue from the server instead of returning the local order."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, err := pageArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.ListEpisodes(ctx, page, request.GetBool("refresh", false))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerMoveEpisodeTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"move_episode",
		mcp.WithDescription("Move a queued episode to a new position, like dropping it there in the UI. The order changes immediately and is saved in the background."),
		mcp.WithNumber("id",
			mcp.Required(),
			mcp.Description("Episode identifier to move."),
		),
		mcp.WithNumber("index",
			mcp.Required(),
			mcp.Description("Zero-based target position. Out of range values are clamped."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireInt("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		index, err := request.RequireInt("index")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.MoveEpisode(ctx, episode.ID(id), index)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerSetQueueOrderTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"set_queue_order",
		mcp.WithDescription("Replace the queue order with the given episode ids and save it."),
		mcp.WithArray("ids",
			mcp.Required(),
			mcp.Description("Every queued episode id, in the desired order."),
			mcp.Items(map[string]any{"type": "number"}),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			IDs []int32 `json:"ids"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		order := make([]episode.ID, len(args.IDs))
		for i, id := range args.IDs {
			order[i] = episode.ID(id)
		}
		dto, err := svc.SetQueueOrder(ctx, order)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerWindowTool(srv *server.MCPServer, svc *Service) {
	tool := mcp.NewTool(
		"window",
		mcp.WithDescription("Compute which episodes of a page are mounted for a viewport size and scroll offset."),
		mcp.WithString("page",
			mcp.Description("Page to window. Defaults to the queue."),
			mcp.Enum(pageNames...),
		),
		mcp.WithNumber("offset", mcp.Description("Scroll offset.")),
		mcp.WithNumber("width", mcp.Required(), mcp.Description("Viewport width.")),
		mcp.WithNumber("height", mcp.Required(), mcp.Description("Viewport height.")),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		page, err := pageArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		width, err := request.RequireFloat("width")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		height, err := request.RequireFloat("height")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Window(ctx, page, request.GetFloat("offset", 0), width, height)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func pageArg(request mcp.CallToolRequest) (app.Page, error) {
	name := request.GetString("page", "")
	if name == "" {
		return app.Queue, nil
	}
	return app.ParsePage(name)
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
