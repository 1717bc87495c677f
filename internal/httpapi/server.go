// Package httpapi serves gantt layouts and resource utilization as JSON
// over HTTP.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/render"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Services bundles the read-side services the API exposes.
type Services struct {
	Projects    service.ProjectService
	Tasks       service.TaskService
	Gantt       service.GanttService
	Utilization service.UtilizationService
}

type errorResponse struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type projectsResponse struct {
	Projects []*domain.Project `json:"projects"`
}

type utilizationListResponse struct {
	Resources []*contract.UtilizationResponse `json:"resources"`
}

// New returns an echo instance with every route registered and request
// logging sent to logger.
func New(svc Services, logger *slog.Logger) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				logger.Error("request", append(attrs, "error", v.Error.Error())...)
				return nil
			}
			logger.Info("request", attrs...)
			return nil
		},
	}))
	Register(e, svc)
	return e
}

// Register wires the API routes onto e.
func Register(e *echo.Echo, svc Services) {
	e.GET("/healthz", healthz())
	e.GET("/api/projects", listProjects(svc.Projects))
	e.GET("/api/projects/:id/tasks", listTasks(svc.Projects, svc.Tasks))
	e.GET("/api/projects/:id/gantt", ganttLayout(svc.Gantt))
	e.GET("/api/projects/:id/gantt.svg", ganttSVG(svc.Gantt))
	e.GET("/api/resources/utilization", allUtilization(svc.Utilization))
	e.GET("/api/resources/:id/utilization", resourceUtilization(svc.Utilization))
}

func healthz() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}
}

func listProjects(projects service.ProjectService) echo.HandlerFunc {
	return func(c echo.Context) error {
		archived, _ := strconv.ParseBool(c.QueryParam("archived"))
		list, err := projects.List(c.Request().Context(), archived)
		if err != nil {
			return writeError(c, err)
		}
		if list == nil {
			list = []*domain.Project{}
		}
		return c.JSON(http.StatusOK, projectsResponse{Projects: list})
	}
}

func listTasks(projects service.ProjectService, tasks service.TaskService) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		p, err := projects.Resolve(ctx, c.Param("id"))
		if err != nil {
			return writeError(c, err)
		}
		list, err := tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return writeError(c, err)
		}
		if list == nil {
			list = []domain.Task{}
		}
		return c.JSON(http.StatusOK, list)
	}
}

func ganttLayout(gantt service.GanttService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := parseGanttRequest(c)
		if err != nil {
			return writeError(c, err)
		}
		resp, err := gantt.Layout(c.Request().Context(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func ganttSVG(gantt service.GanttService) echo.HandlerFunc {
	return func(c echo.Context) error {
		req, err := parseGanttRequest(c)
		if err != nil {
			return writeError(c, err)
		}
		resp, err := gantt.Layout(c.Request().Context(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.Blob(http.StatusOK, "image/svg+xml", []byte(render.SVG(resp, render.DefaultOptions())))
	}
}

func resourceUtilization(util service.UtilizationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		from, to, err := parseWindow(c)
		if err != nil {
			return writeError(c, err)
		}
		req := contract.NewUtilizationRequest(c.Param("id"), from, to)
		resp, err := util.ForResource(c.Request().Context(), req)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func allUtilization(util service.UtilizationService) echo.HandlerFunc {
	return func(c echo.Context) error {
		from, to, err := parseWindow(c)
		if err != nil {
			return writeError(c, err)
		}
		list, err := util.ForAll(c.Request().Context(), from, to)
		if err != nil {
			return writeError(c, err)
		}
		if list == nil {
			list = []*contract.UtilizationResponse{}
		}
		return c.JSON(http.StatusOK, utilizationListResponse{Resources: list})
	}
}

// parseGanttRequest reads the filter and viewport from query parameters.
// status and collapse take comma separated lists.
func parseGanttRequest(c echo.Context) (contract.GanttRequest, error) {
	req := contract.NewGanttRequest(c.Param("id"))
	req.Filter.Search = c.QueryParam("search")
	for _, s := range splitList(c.QueryParam("status")) {
		if !domain.ValidTaskStatuses[s] {
			return req, &contract.RequestError{Code: contract.ErrInvalidRange, Message: "unknown status " + strconv.Quote(s)}
		}
		req.Filter.Statuses = append(req.Filter.Statuses, domain.TaskStatus(s))
	}
	req.Filter.Collapsed = splitList(c.QueryParam("collapse"))
	if v := c.QueryParam("hide_done"); v != "" {
		req.Filter.HideCompleted, _ = strconv.ParseBool(v)
	}
	if v := c.QueryParam("from"); v != "" {
		t, err := domain.ParseDate(v)
		if err != nil {
			return req, &contract.RequestError{Code: contract.ErrInvalidRange, Message: "from must be YYYY-MM-DD"}
		}
		req.ViewStart = &t
	}
	var err error
	if req.ScrollOffset, err = parseFloat(c, "scroll"); err != nil {
		return req, &contract.RequestError{Code: contract.ErrInvalidScroll, Message: "scroll must be a number"}
	}
	if req.ViewportHeight, err = parseFloat(c, "height"); err != nil {
		return req, &contract.RequestError{Code: contract.ErrInvalidScroll, Message: "height must be a number"}
	}
	return req, nil
}

func parseWindow(c echo.Context) (from, to time.Time, err error) {
	from = time.Now().UTC()
	if v := c.QueryParam("from"); v != "" {
		if from, err = domain.ParseDate(v); err != nil {
			return from, to, &contract.RequestError{Code: contract.ErrInvalidRange, Message: "from must be YYYY-MM-DD"}
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = domain.ParseDate(v); err != nil {
			return from, to, &contract.RequestError{Code: contract.ErrInvalidRange, Message: "to must be YYYY-MM-DD"}
		}
	}
	return from, to, nil
}

func parseFloat(c echo.Context, name string) (float64, error) {
	v := strings.TrimSpace(c.QueryParam(name))
	if v == "" {
		return 0, nil
	}
	return strconv.ParseFloat(v, 64)
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

// writeError maps request errors to 400 and missing rows to 404.
func writeError(c echo.Context, err error) error {
	var reqErr *contract.RequestError
	switch {
	case errors.As(err, &reqErr):
		return c.JSON(http.StatusBadRequest, errorResponse{Code: string(reqErr.Code), Message: reqErr.Message})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, errorResponse{Message: err.Error()})
	default:
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Message: err.Error()})
	}
}
