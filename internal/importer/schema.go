package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// ImportSchema is the top-level JSON structure for project import. Entities
// refer to each other by file-local refs; Convert assigns real ids.
type ImportSchema struct {
	Project      ProjectImport      `json:"project"`
	Tasks        []TaskImport       `json:"tasks"`
	Dependencies []DependencyImport `json:"dependencies,omitempty"`
	Resources    []ResourceImport   `json:"resources,omitempty"`
	Assignments  []AssignmentImport `json:"assignments,omitempty"`
}

type ProjectImport struct {
	ShortID     string  `json:"short_id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	StartDate   string  `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

// TaskImport defines a task or, with is_phase, a phase row. parent_ref and
// phase_ref must name tasks that appear earlier in the list.
type TaskImport struct {
	Ref       string  `json:"ref"`
	Name      string  `json:"name"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Progress  *int    `json:"progress,omitempty"`
	Status    string  `json:"status,omitempty"`
	Priority  string  `json:"priority,omitempty"`
	ParentRef *string `json:"parent_ref,omitempty"`
	PhaseRef  *string `json:"phase_ref,omitempty"`
	IsPhase   bool    `json:"is_phase,omitempty"`
	Order     *int    `json:"order,omitempty"`
}

// DependencyImport links two tasks. type accepts the long names
// (finish_to_start), the short forms (fs, ss, ff, sf) and hyphenated names;
// it defaults to finish_to_start.
type DependencyImport struct {
	PredecessorRef string `json:"predecessor_ref"`
	SuccessorRef   string `json:"successor_ref"`
	Type           string `json:"type,omitempty"`
	LagDays        *int   `json:"lag_days,omitempty"`
}

type ResourceImport struct {
	Ref             string   `json:"ref"`
	Name            string   `json:"name"`
	Type            string   `json:"type,omitempty"`
	BaseHoursPerDay *float64 `json:"base_hours_per_day,omitempty"`
}

// AssignmentImport books a resource onto a task. start_date and end_date
// override the task's dates only when both are given.
type AssignmentImport struct {
	ResourceRef string   `json:"resource_ref"`
	TaskRef     string   `json:"task_ref"`
	StartDate   *string  `json:"start_date,omitempty"`
	EndDate     *string  `json:"end_date,omitempty"`
	Units       *int     `json:"units,omitempty"`
	HoursPerDay *float64 `json:"hours_per_day,omitempty"`
}

// LoadImportSchema reads and parses a project import JSON file.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}

// ParseImportSchema decodes an import document held in memory.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	var schema ImportSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}
