package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string     { return &s }
func ptrInt(i int) *int           { return &i }
func ptrFloat(f float64) *float64 { return &f }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{ShortID: "WEB01", Name: "Website"},
		Tasks: []TaskImport{
			{Ref: "t1", Name: "Design", StartDate: "2025-03-01", EndDate: "2025-03-05"},
		},
	}
}

func validFullSchema() *ImportSchema {
	return &ImportSchema{
		Project: ProjectImport{
			ShortID:     "WEB01",
			Name:        "Website",
			Description: "relaunch",
			StartDate:   "2025-03-01",
			EndDate:     ptrStr("2025-04-30"),
		},
		Tasks: []TaskImport{
			{Ref: "ph1", Name: "Build", StartDate: "2025-03-01", EndDate: "2025-03-20", IsPhase: true},
			{Ref: "t1", Name: "Backend", StartDate: "2025-03-01", EndDate: "2025-03-10", PhaseRef: ptrStr("ph1"), Progress: ptrInt(50)},
			{Ref: "t1a", Name: "API", StartDate: "2025-03-01", EndDate: "2025-03-04", ParentRef: ptrStr("t1"), Status: "done"},
			{Ref: "t2", Name: "Frontend", StartDate: "2025-03-11", EndDate: "2025-03-20", PhaseRef: ptrStr("ph1"), Priority: "high"},
		},
		Dependencies: []DependencyImport{
			{PredecessorRef: "t1", SuccessorRef: "t2"},
			{PredecessorRef: "t1a", SuccessorRef: "t2", Type: "ss", LagDays: ptrInt(1)},
		},
		Resources: []ResourceImport{
			{Ref: "ann", Name: "Ann", BaseHoursPerDay: ptrFloat(6)},
			{Ref: "rig", Name: "Test rig", Type: "equipment"},
		},
		Assignments: []AssignmentImport{
			{ResourceRef: "ann", TaskRef: "t1", Units: ptrInt(50)},
			{ResourceRef: "ann", TaskRef: "t2", StartDate: ptrStr("2025-03-12"), EndDate: ptrStr("2025-03-14"), HoursPerDay: ptrFloat(3)},
			{ResourceRef: "rig", TaskRef: "t1a"},
		},
	}
}

func joinErrs(errs []error) string {
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "\n")
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	errs := ValidateImportSchema(validFullSchema())
	assert.Empty(t, errs, joinErrs(errs))
}

func TestValidateImportSchema_ProjectErrors(t *testing.T) {
	s := validMinimalSchema()
	s.Project = ProjectImport{ShortID: "web", StartDate: "2025-03-10", EndDate: ptrStr("2025-03-01")}

	msg := joinErrs(ValidateImportSchema(s))
	assert.Contains(t, msg, "project.short_id")
	assert.Contains(t, msg, "project.name is required")
	assert.Contains(t, msg, `project: end_date "2025-03-01" is before start_date "2025-03-10"`)
}

func TestValidateImportSchema_TaskErrors(t *testing.T) {
	tests := []struct {
		name string
		task TaskImport
		want string
	}{
		{"missing ref", TaskImport{Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01"}, "tasks[1].ref is required"},
		{"missing name", TaskImport{Ref: "x", StartDate: "2025-03-01", EndDate: "2025-03-01"}, "tasks[1].name is required"},
		{"bad start", TaskImport{Ref: "x", Name: "x", StartDate: "03/01/2025", EndDate: "2025-03-01"}, "tasks[1].start_date: invalid date format"},
		{"inverted", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-05", EndDate: "2025-03-01"}, "tasks[1]: end_date"},
		{"progress", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01", Progress: ptrInt(120)}, "tasks[1].progress"},
		{"status", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01", Status: "paused"}, `tasks[1].status: invalid value "paused"`},
		{"priority", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01", Priority: "urgent"}, `tasks[1].priority`},
		{"duplicate ref", TaskImport{Ref: "t1", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01"}, `duplicate ref "t1"`},
		{"forward parent", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01", ParentRef: ptrStr("later")}, "parent_ref"},
		{"phase not phase", TaskImport{Ref: "x", Name: "x", StartDate: "2025-03-01", EndDate: "2025-03-01", PhaseRef: ptrStr("t1")}, `"t1" is not a phase`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validMinimalSchema()
			s.Tasks = append(s.Tasks, tt.task)
			msg := joinErrs(ValidateImportSchema(s))
			assert.Contains(t, msg, tt.want)
		})
	}
}

func TestValidateImportSchema_DependencyErrors(t *testing.T) {
	s := validFullSchema()
	s.Dependencies = []DependencyImport{
		{PredecessorRef: "nope", SuccessorRef: "t1"},
		{PredecessorRef: "t1", SuccessorRef: "t1"},
		{SuccessorRef: "t2"},
		{PredecessorRef: "t1", SuccessorRef: "t2", LagDays: ptrInt(-2)},
	}

	msg := joinErrs(ValidateImportSchema(s))
	assert.Contains(t, msg, `dependencies[0].predecessor_ref: ref "nope" not found in tasks`)
	assert.Contains(t, msg, "dependencies[1]: self-dependency")
	assert.Contains(t, msg, "dependencies[2].predecessor_ref is required")
	assert.Contains(t, msg, "dependencies[3].lag_days must not be negative")
}

func TestValidateImportSchema_UnknownDependencyTypeAccepted(t *testing.T) {
	s := validFullSchema()
	s.Dependencies[0].Type = "milestone_link"
	assert.Empty(t, ValidateImportSchema(s))
}

func TestValidateImportSchema_DetectsCycle(t *testing.T) {
	s := validFullSchema()
	s.Dependencies = []DependencyImport{
		{PredecessorRef: "t1", SuccessorRef: "t2"},
		{PredecessorRef: "t2", SuccessorRef: "t1a"},
		{PredecessorRef: "t1a", SuccessorRef: "t1"},
	}

	errs := ValidateImportSchema(s)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "circular dependency")
}

func TestValidateImportSchema_ResourceAndAssignmentErrors(t *testing.T) {
	s := validFullSchema()
	s.Resources = append(s.Resources,
		ResourceImport{Ref: "ann", Name: "Dup"},
		ResourceImport{Ref: "bad", Name: "Bad", Type: "robot", BaseHoursPerDay: ptrFloat(30)},
	)
	s.Assignments = append(s.Assignments,
		AssignmentImport{ResourceRef: "ghost", TaskRef: "t1"},
		AssignmentImport{ResourceRef: "ann", TaskRef: "ghost"},
		AssignmentImport{ResourceRef: "ann", TaskRef: "t1", Units: ptrInt(-5), HoursPerDay: ptrFloat(25)},
		AssignmentImport{ResourceRef: "ann", TaskRef: "t1", StartDate: ptrStr("2025-03-01")},
	)

	msg := joinErrs(ValidateImportSchema(s))
	assert.Contains(t, msg, `resources[2].ref: duplicate ref "ann"`)
	assert.Contains(t, msg, `resources[3].type: invalid value "robot"`)
	assert.Contains(t, msg, "resources[3].base_hours_per_day")
	assert.Contains(t, msg, `assignments[3].resource_ref: ref "ghost" not found`)
	assert.Contains(t, msg, `assignments[4].task_ref: ref "ghost" not found`)
	assert.Contains(t, msg, "assignments[5].units must not be negative")
	assert.Contains(t, msg, "assignments[5].hours_per_day")
	assert.Contains(t, msg, "assignments[6]: start_date and end_date must be given together")
}

func TestParseImportSchema_Malformed(t *testing.T) {
	_, err := ParseImportSchema([]byte(`{"project": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}
