package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alexanderramin/gantry/internal/contract"
	"github.com/alexanderramin/gantry/internal/domain"
	"github.com/alexanderramin/gantry/internal/gantt"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/alexanderramin/gantry/internal/testutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e       *echo.Echo
	project *domain.Project
	tasks   map[string]*domain.Task
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	database := testutil.NewTestDB(t)
	projects := repository.NewSQLiteProjectRepo(database)
	tasks := repository.NewSQLiteTaskRepo(database)
	deps := repository.NewSQLiteDependencyRepo(database)
	resources := repository.NewSQLiteResourceRepo(database)
	assignments := repository.NewSQLiteAssignmentRepo(database)

	p := testutil.NewTestProject("Bridge", testutil.WithShortID("BRG01"))
	require.NoError(t, projects.Create(ctx, p))

	design := testutil.NewTestTask(p.ID, "Design", testutil.WithOrderIndex(1),
		testutil.WithDates(testutil.Day(2025, 3, 3), testutil.Day(2025, 3, 5)))
	pour := testutil.NewTestTask(p.ID, "Pour", testutil.WithOrderIndex(2),
		testutil.WithDates(testutil.Day(2025, 3, 4), testutil.Day(2025, 3, 6)),
		testutil.DependsOn(design.ID, domain.FinishToStart))
	for _, task := range []*domain.Task{design, pour} {
		require.NoError(t, tasks.Create(ctx, task))
		for i := range task.Dependencies {
			require.NoError(t, deps.Create(ctx, &task.Dependencies[i]))
		}
	}

	crew := testutil.NewTestResource("Crew")
	require.NoError(t, resources.Create(ctx, crew))
	require.NoError(t, assignments.Create(ctx, testutil.NewTestAssignment(crew.ID, design.ID)))
	require.NoError(t, assignments.Create(ctx, testutil.NewTestAssignment(crew.ID, pour.ID)))

	cfg := gantt.DefaultConfig()
	svc := Services{
		Projects:    service.NewProjectService(projects),
		Tasks:       service.NewTaskService(tasks, deps),
		Gantt:       service.NewGanttService(testutil.NewTestUoW(database), cfg),
		Utilization: service.NewUtilizationService(resources, assignments, cfg.Defaults),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return fixture{
		e:       New(svc, logger),
		project: p,
		tasks:   map[string]*domain.Task{"design": design, "pour": pour},
	}
}

func (f fixture) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProjects(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp projectsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Projects, 1)
	assert.Equal(t, f.project.ID, resp.Projects[0].ID)
}

func TestListTasks_ByShortID(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/brg01/tasks")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []domain.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, "Design", tasks[0].Name)
}

func TestGanttLayout(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/BRG01/gantt")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contract.GanttResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.TotalTasks)
	require.Len(t, resp.Layout.Bars, 2)
	require.Len(t, resp.Layout.Arrows, 1)
	assert.Equal(t, gantt.ArrowID(f.tasks["design"].ID, f.tasks["pour"].ID, domain.FinishToStart), resp.Layout.Arrows[0].ID)
	assert.Equal(t, testutil.Day(2025, 3, 1), resp.Layout.ViewStart)
}

func TestGanttLayout_QueryFilter(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/BRG01/gantt?search=pour&from=2025-02-20")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contract.GanttResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.VisibleTasks)
	require.Len(t, resp.Layout.Bars, 1)
	assert.Equal(t, "Pour", resp.Layout.Bars[0].Name)
	assert.Empty(t, resp.Layout.Arrows)
	assert.Equal(t, testutil.Day(2025, 2, 20), resp.Layout.ViewStart)
}

func TestGanttLayout_BadRequests(t *testing.T) {
	f := setup(t)
	cases := map[string]string{
		"negative scroll": "/api/projects/BRG01/gantt?scroll=-10",
		"bad scroll":      "/api/projects/BRG01/gantt?scroll=abc",
		"bad from":        "/api/projects/BRG01/gantt?from=March",
		"bad status":      "/api/projects/BRG01/gantt?status=late",
		"infinite scroll": "/api/projects/BRG01/gantt?scroll=Inf&height=400",
		"nan height":      "/api/projects/BRG01/gantt?height=NaN",
	}
	for name, target := range cases {
		t.Run(name, func(t *testing.T) {
			rec := f.get(t, target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Code)
		})
	}
}

func TestGanttLayout_ScrollFarPastEnd(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/BRG01/gantt?scroll=1e300&height=400")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contract.GanttResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Layout.Rows.StartIndex)
	assert.Equal(t, 1, resp.Layout.Rows.EndIndex)
	require.Len(t, resp.Layout.Bars, 1)
	assert.Equal(t, "Pour", resp.Layout.Bars[0].Name)
}

func TestGanttLayout_UnknownProject(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/NOPE/gantt")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGanttSVG(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/projects/BRG01/gantt.svg")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/svg+xml", rec.Header().Get(echo.HeaderContentType))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<svg"))
	assert.Contains(t, rec.Body.String(), "Design")
}

func TestResourceUtilization(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/resources/Crew/utilization?from=2025-03-03&to=2025-03-07")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp contract.UtilizationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Days, 5)
	assert.Equal(t, 2.0, resp.Days[1].Raw)
	assert.True(t, resp.Days[1].IsOverallocated)
	assert.Equal(t, 2, resp.Summary.OverallocatedDays)
}

func TestResourceUtilization_Errors(t *testing.T) {
	f := setup(t)
	assert.Equal(t, http.StatusNotFound, f.get(t, "/api/resources/ghost/utilization?from=2025-03-03").Code)
	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/resources/Crew/utilization?to=soon").Code)

	rec := f.get(t, "/api/resources/Crew/utilization?from=1000-01-01&to=9999-12-31")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.EqualValues(t, contract.ErrInvalidRange, resp.Code)

	assert.Equal(t, http.StatusBadRequest, f.get(t, "/api/resources/utilization?from=1000-01-01&to=9999-12-31").Code)
}

func TestAllUtilization(t *testing.T) {
	f := setup(t)
	rec := f.get(t, "/api/resources/utilization?from=2025-03-03&to=2025-03-07")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp utilizationListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Resources, 1)
	assert.Equal(t, "Crew", resp.Resources[0].Resource.Name)
}
