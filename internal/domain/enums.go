package domain

import "strings"

type ProjectStatus string

const (
	ProjectActive   ProjectStatus = "active"
	ProjectOnHold   ProjectStatus = "on_hold"
	ProjectDone     ProjectStatus = "done"
	ProjectArchived ProjectStatus = "archived"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in_progress"
	TaskDone       TaskStatus = "done"
	TaskBlocked    TaskStatus = "blocked"
)

// ValidTaskStatuses is the canonical set of accepted task status strings.
var ValidTaskStatuses = map[string]bool{
	"todo": true, "in_progress": true, "done": true, "blocked": true,
}

type TaskPriority string

const (
	PriorityLow      TaskPriority = "low"
	PriorityMedium   TaskPriority = "medium"
	PriorityHigh     TaskPriority = "high"
	PriorityCritical TaskPriority = "critical"
)

// ValidTaskPriorities is the canonical set of accepted priority strings.
var ValidTaskPriorities = map[string]bool{
	"low": true, "medium": true, "high": true, "critical": true,
}

type ResourceType string

const (
	ResourcePerson    ResourceType = "person"
	ResourceEquipment ResourceType = "equipment"
	ResourceMaterial  ResourceType = "material"
)

// ValidResourceTypes is the canonical set of accepted resource type strings.
var ValidResourceTypes = map[string]bool{
	"person": true, "equipment": true, "material": true,
}

// DependencyType is the scheduling relation between a predecessor and a
// successor task.
type DependencyType string

const (
	FinishToStart  DependencyType = "finish_to_start"
	StartToStart   DependencyType = "start_to_start"
	FinishToFinish DependencyType = "finish_to_finish"
	StartToFinish  DependencyType = "start_to_finish"
)

// ParseDependencyType maps canonical names and the short FS/SS/FF/SF aliases
// to a DependencyType. Empty input is finish-to-start. Unrecognized input is
// returned as-is so it round-trips through storage; routing treats it as
// finish-to-start.
func ParseDependencyType(s string) DependencyType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fs", "finish_to_start", "finish-to-start":
		return FinishToStart
	case "ss", "start_to_start", "start-to-start":
		return StartToStart
	case "ff", "finish_to_finish", "finish-to-finish":
		return FinishToFinish
	case "sf", "start_to_finish", "start-to-finish":
		return StartToFinish
	}
	return DependencyType(s)
}

// Known reports whether t is one of the four dependency types.
func (t DependencyType) Known() bool {
	switch t {
	case FinishToStart, StartToStart, FinishToFinish, StartToFinish:
		return true
	}
	return false
}

// Short returns the two-letter abbreviation used in compact output.
func (t DependencyType) Short() string {
	switch t {
	case StartToStart:
		return "SS"
	case FinishToFinish:
		return "FF"
	case StartToFinish:
		return "SF"
	case FinishToStart:
		return "FS"
	}
	return "??"
}
