package ai

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decodeParsed(t *testing.T, raw string) map[string]any {
	t.Helper()
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		t.Fatalf("invalid fixture: %v", err)
	}
	return parsed
}

func TestCourseList(t *testing.T) {
	parsed := decodeParsed(t, `{
		"summary": "Focus on cloud",
		"courses": [
			{"title": "AWS Solutions Architect", "skill_area": "aws", "reason": "Grow cloud depth", "level": "Advanced", "order": "1", "source": "Coursera"},
			"not an object",
			{"course_title": "Kubernetes Basics", "reasoning": "Containers in prod", "platforms": ["edX", "Udemy"]}
		]
	}`)

	courses := CourseList(parsed)
	if len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(courses))
	}

	first := courses[0]
	if first.Title != "AWS Solutions Architect" || first.Reason != "Grow cloud depth" {
		t.Fatalf("unexpected first course: %+v", first)
	}
	if first.Detail("order") != "1" || first.Detail("source") != "Coursera" {
		t.Fatalf("expected extra fields to be kept, got %+v", first.Extra)
	}

	second := courses[1]
	if second.Title != "Kubernetes Basics" || second.Reason != "Containers in prod" {
		t.Fatalf("aliases not applied: %+v", second)
	}
	if _, ok := second.Extra["platforms"]; !ok {
		t.Fatalf("expected unknown fields to be kept, got %+v", second.Extra)
	}
	if _, ok := second.Extra["course_title"]; ok {
		t.Fatalf("alias should be consumed, got %+v", second.Extra)
	}

	if got := Summary(parsed); got != "Focus on cloud" {
		t.Fatalf("unexpected summary: %q", got)
	}
}

func TestCourseListKeepsOpaqueFields(t *testing.T) {
	parsed := decodeParsed(t, `{
		"courses": [
			{"title": "AWS SA", "reason": "cloud", "source": ["Coursera", "Udemy"]},
			{"title": "Rust Basics", "reason": "systems", "order": "first", "level": ["Intermediate", "Advanced"]},
			{"title": "Go Concurrency", "reason": "goroutines", "provider": {"name": "edX", "paid": false}, "order": 3},
			{"title": ["not", "a", "string"], "reason": 42}
		]
	}`)

	courses := CourseList(parsed)
	if len(courses) != 4 {
		t.Fatalf("expected every object entry to be kept, got %d", len(courses))
	}

	if !reflect.DeepEqual(courses[0].Extra["source"], []any{"Coursera", "Udemy"}) {
		t.Fatalf("list-valued source changed: %+v", courses[0].Extra)
	}
	if courses[1].Extra["order"] != "first" {
		t.Fatalf("non-numeric order changed: %+v", courses[1].Extra)
	}
	if !reflect.DeepEqual(courses[1].Extra["level"], []any{"Intermediate", "Advanced"}) {
		t.Fatalf("list-valued level changed: %+v", courses[1].Extra)
	}
	if !reflect.DeepEqual(courses[2].Extra["provider"], map[string]any{"name": "edX", "paid": false}) {
		t.Fatalf("object-valued provider changed: %+v", courses[2].Extra)
	}
	if courses[2].Extra["order"] != float64(3) {
		t.Fatalf("numeric order changed: %+v", courses[2].Extra)
	}
	if courses[3].Title != `["not","a","string"]` || courses[3].Reason != "42" {
		t.Fatalf("unexpected coercion of known fields: %+v", courses[3])
	}

	data, err := json.Marshal(courses[0])
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(out["source"], []any{"Coursera", "Udemy"}) || out["title"] != "AWS SA" {
		t.Fatalf("unexpected payload: %s", data)
	}
}

func TestCourseListMalformed(t *testing.T) {
	tests := map[string]map[string]any{
		"nil":                nil,
		"raw fallback":       {"raw": "I cannot help with that"},
		"courses not a list": {"courses": "none"},
	}

	for name, parsed := range tests {
		t.Run(name, func(t *testing.T) {
			courses := CourseList(parsed)
			if courses == nil {
				t.Fatal("expected non-nil slice")
			}
			if len(courses) != 0 {
				t.Fatalf("expected no courses, got %+v", courses)
			}
		})
	}
}

func TestCourseMarshalJSONFlattensExtra(t *testing.T) {
	course := Course{
		Title:  "Go in Action",
		Reason: "Idiomatic Go",
		Extra:  map[string]any{"platforms": "Udemy", "order": 2},
	}

	data, err := json.Marshal(course)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if out["title"] != "Go in Action" || out["platforms"] != "Udemy" || out["order"] != float64(2) {
		t.Fatalf("unexpected payload: %s", data)
	}
	if _, ok := out["level"]; ok {
		t.Fatalf("absent fields must not be added: %s", data)
	}
}
