package catalog

import (
	"strings"
	"testing"
)

func load(t *testing.T, rows [][]string) *Catalog {
	t.Helper()
	c, report := Load(rows)
	if len(report.Skipped) != 0 {
		t.Fatalf("unexpected skipped rows: %v", report.Skipped)
	}
	return c
}

func TestValidate_CleanCatalog(t *testing.T) {
	c := load(t, [][]string{
		{"CS101", "Intro"},
		{"CS102", "Data Structures", "CS101"},
		{"CS103", "Algorithms", "CS102"},
	})
	report := Validate(c)
	if !report.OK() {
		t.Fatalf("expected empty report, got %v", report.Issues)
	}
}

func TestValidate_MissingPrerequisite(t *testing.T) {
	c := load(t, [][]string{
		{"CS301", "C", "CS999"},
	})
	report := Validate(c)
	if len(report.Issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", report.Issues)
	}
	issue := report.Issues[0]
	if issue.Kind != MissingPrerequisite || issue.Course != "CS301" || issue.Missing != "CS999" {
		t.Errorf("issue = %+v", issue)
	}

	// Adding the missing course clears the finding.
	c = load(t, [][]string{
		{"CS301", "C", "CS999"},
		{"CS999", "Advanced Topics"},
	})
	if report := Validate(c); !report.OK() {
		t.Errorf("expected clean report after adding CS999, got %v", report.Issues)
	}
}

func TestValidate_TwoNodeCycleReportedOnce(t *testing.T) {
	c := load(t, [][]string{
		{"CS201", "A", "CS202"},
		{"CS202", "B", "CS201"},
	})
	report := Validate(c)
	cycles := report.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want exactly one", cycles)
	}
	got := strings.Join(cycles[0].Cycle, ",")
	if got != "CS201,CS202" {
		t.Errorf("cycle = %q, want canonical CS201,CS202", got)
	}
	if len(report.Issues) != 1 {
		t.Errorf("issues = %v, want only the cycle", report.Issues)
	}
}

func TestValidate_SelfLoop(t *testing.T) {
	c := load(t, [][]string{
		{"CS150", "Self Study", "CS150"},
	})
	report := Validate(c)
	cycles := report.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want one", cycles)
	}
	if len(cycles[0].Cycle) != 1 || cycles[0].Cycle[0] != "CS150" {
		t.Errorf("cycle = %v, want length-1 [CS150]", cycles[0].Cycle)
	}
}

func TestValidate_LongCycleCanonicalRotation(t *testing.T) {
	// C -> B -> A -> C, discovered from whichever root comes first.
	c := load(t, [][]string{
		{"CS300", "C", "CS200"},
		{"CS200", "B", "CS100"},
		{"CS100", "A", "CS300"},
	})
	report := Validate(c)
	cycles := report.Cycles()
	if len(cycles) != 1 {
		t.Fatalf("cycles = %v, want one", cycles)
	}
	if cycles[0].Cycle[0] != "CS100" {
		t.Errorf("canonical cycle starts at %s, want CS100 (rotation to smallest member)", cycles[0].Cycle[0])
	}
	if len(cycles[0].Cycle) != 3 {
		t.Errorf("cycle = %v, want all three members", cycles[0].Cycle)
	}
}

func TestValidate_SharedPrerequisiteIsNotACycle(t *testing.T) {
	// Diamond: two paths to the same prerequisite must not be mistaken for
	// a cycle when the shared node is revisited after completion.
	c := load(t, [][]string{
		{"CS400", "Cap", "CS300", "CS301"},
		{"CS300", "L", "CS200"},
		{"CS301", "R", "CS200"},
		{"CS200", "Base"},
	})
	if report := Validate(c); !report.OK() {
		t.Fatalf("diamond graph reported issues: %v", report.Issues)
	}
}

func TestValidate_DisjointCycles(t *testing.T) {
	c := load(t, [][]string{
		{"CS201", "A", "CS202"},
		{"CS202", "B", "CS201"},
		{"EE101", "X", "EE102"},
		{"EE102", "Y", "EE101"},
	})
	report := Validate(c)
	if got := len(report.Cycles()); got != 2 {
		t.Fatalf("cycles = %d, want 2 distinct cycles", got)
	}
}

func TestValidate_MissingEdgeNotTraversed(t *testing.T) {
	// A cycle through a missing course is impossible; the dangling edge is
	// reported as missing and the traversal terminates.
	c := load(t, [][]string{
		{"CS101", "Intro", "CS999"},
	})
	report := Validate(c)
	if len(report.Cycles()) != 0 {
		t.Errorf("unexpected cycles: %v", report.Cycles())
	}
	if len(report.Issues) != 1 || report.Issues[0].Kind != MissingPrerequisite {
		t.Errorf("issues = %v", report.Issues)
	}
}

func TestIssueString(t *testing.T) {
	missing := Issue{Kind: MissingPrerequisite, Course: "CS301", Missing: "CS999"}
	if s := missing.String(); !strings.Contains(s, "CS301") || !strings.Contains(s, "CS999") {
		t.Errorf("missing issue string = %q", s)
	}
	self := Issue{Kind: CircularDependency, Cycle: []string{"CS150"}}
	if s := self.String(); !strings.Contains(s, "itself") {
		t.Errorf("self-loop string = %q", s)
	}
	pair := Issue{Kind: CircularDependency, Cycle: []string{"CS201", "CS202"}}
	if s := pair.String(); !strings.Contains(s, "CS201 -> CS202") {
		t.Errorf("cycle string = %q", s)
	}
}
