// Package mcpserver exposes gantt layouts and resource utilization as MCP
// tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Services holds the services the tools read from.
type Services struct {
	Projects    service.ProjectService
	Tasks       service.TaskService
	Gantt       service.GanttService
	Utilization service.UtilizationService
}

// NewServer creates an MCP server with the gantry tools registered.
func NewServer(svc Services, version string) *server.MCPServer {
	s := server.NewMCPServer("Gantry", version)

	s.AddTool(mcp.NewTool("list_projects",
		mcp.WithDescription("List projects with their short ids and dates."),
		mcp.WithBoolean("include_archived", mcp.Description("Include archived projects")),
	), listProjectsHandler(svc.Projects))

	s.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List a project's tasks with their dependencies."),
		mcp.WithString("project", mcp.Description("Project id or short id"), mcp.Required()),
	), listTasksHandler(svc.Projects, svc.Tasks))

	s.AddTool(mcp.NewTool("gantt_layout",
		mcp.WithDescription("Compute bar positions and dependency arrows for a project's gantt chart."),
		mcp.WithString("project", mcp.Description("Project id or short id"), mcp.Required()),
		mcp.WithString("search", mcp.Description("Case-insensitive task name filter")),
		mcp.WithString("status", mcp.Description("Comma separated statuses to keep (todo|in_progress|done|blocked)")),
		mcp.WithString("collapse", mcp.Description("Comma separated phase or parent ids to collapse")),
		mcp.WithBoolean("hide_done", mcp.Description("Hide completed tasks")),
		mcp.WithString("from", mcp.Description("Chart start date (YYYY-MM-DD)")),
	), ganttLayoutHandler(svc.Gantt))

	s.AddTool(mcp.NewTool("resource_utilization",
		mcp.WithDescription("Daily load of a resource; values above 100% are overallocated."),
		mcp.WithString("resource", mcp.Description("Resource id or name"), mcp.Required()),
		mcp.WithString("from", mcp.Description("Window start (YYYY-MM-DD, defaults to today)")),
		mcp.WithString("to", mcp.Description("Window end (YYYY-MM-DD, defaults to four weeks)")),
	), utilizationHandler(svc.Utilization))

	return s
}

// Serve runs s on stdio until stdin closes.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

func listProjectsHandler(projects service.ProjectService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		archived := mcp.ParseBoolean(request, "include_archived", false)
		list, err := projects.List(ctx, archived)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"projects": list})
	}
}

func listTasksHandler(projects service.ProjectService, tasks service.TaskService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p, err := projects.Resolve(ctx, mcp.ParseString(request, "project", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		list, err := tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(map[string]any{"project": p.DisplayID(), "tasks": list})
	}
}

func ganttLayoutHandler(gantt service.GanttService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		req := contract.NewGanttRequest(mcp.ParseString(request, "project", ""))
		req.Filter.Search = mcp.ParseString(request, "search", "")
		for _, s := range splitList(mcp.ParseString(request, "status", "")) {
			if !domain.ValidTaskStatuses[s] {
				return mcp.NewToolResultError(fmt.Sprintf("unknown status '%s'", s)), nil
			}
			req.Filter.Statuses = append(req.Filter.Statuses, domain.TaskStatus(s))
		}
		req.Filter.Collapsed = splitList(mcp.ParseString(request, "collapse", ""))
		req.Filter.HideCompleted = mcp.ParseBoolean(request, "hide_done", false)
		if v := mcp.ParseString(request, "from", ""); v != "" {
			t, err := domain.ParseDate(v)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid from date '%s'", v)), nil
			}
			req.ViewStart = &t
		}

		resp, err := gantt.Layout(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(resp)
	}
}

func utilizationHandler(util service.UtilizationService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		from, to := time.Now().UTC(), time.Time{}
		var err error
		if v := mcp.ParseString(request, "from", ""); v != "" {
			if from, err = domain.ParseDate(v); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid from date '%s'", v)), nil
			}
		}
		if v := mcp.ParseString(request, "to", ""); v != "" {
			if to, err = domain.ParseDate(v); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("invalid to date '%s'", v)), nil
			}
		}

		req := contract.NewUtilizationRequest(mcp.ParseString(request, "resource", ""), from, to)
		resp, err := util.ForResource(ctx, req)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(resp)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
