package gantt

import (
	"strconv"
	"time"

	"github.com/alexanderramin/gantry/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func task(id string, start, end time.Time, deps ...domain.Dependency) domain.Task {
	return domain.Task{ID: id, Name: "Task " + id, StartDate: start, EndDate: end, Dependencies: deps}
}

func dep(pred, succ string, typ domain.DependencyType) domain.Dependency {
	return domain.Dependency{PredecessorID: pred, SuccessorID: succ, Type: typ}
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func timePtr(t time.Time) *time.Time { return &t }

var zeroTime time.Time

func strPtr(s string) *string { return &s }

func idFor(i int) string {
	return "t" + strconv.Itoa(i)
}
