package ai

import (
	"encoding/json"
	"maps"

	"github.com/mitchellh/mapstructure"
)

// Course is a single recommended course. Only the title and the reason are
// interpreted; every other field the service returns is kept in Extra as is.
type Course struct {
	Title  string
	Reason string
	Extra  map[string]any
}

// Detail returns an extra field rendered as text, or "" when it is absent.
func (c Course) Detail(key string) string {
	return coerceString(c.Extra[key])
}

// rawCourse accepts any value for the known keys so that decoding a JSON
// object never fails on unexpected types.
type rawCourse struct {
	Title  any            `mapstructure:"title"`
	Reason any            `mapstructure:"reason"`
	Extra  map[string]any `mapstructure:",remain"`
}

// Alternative keys the service uses when it drifts from the requested schema.
var (
	titleAliases  = []string{"course_title", "name", "course"}
	reasonAliases = []string{"reasoning", "why", "description"}
)

// CourseList extracts the "courses" entries of a parsed reply. Entries that
// are not objects are skipped; a missing or malformed list yields an empty,
// non-nil slice.
func CourseList(parsed map[string]any) []Course {
	courses := make([]Course, 0)

	items, ok := parsed["courses"].([]any)
	if !ok {
		return courses
	}

	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			continue
		}

		courses = append(courses, decodeCourse(fields))
	}

	return courses
}

// Summary returns the free-text summary of a parsed reply, if any.
func Summary(parsed map[string]any) string {
	return coerceString(parsed["summary"])
}

func decodeCourse(fields map[string]any) Course {
	var raw rawCourse

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{Result: &raw})
	if err == nil {
		err = decoder.Decode(fields)
	}
	if err != nil {
		raw = rawCourse{Title: fields["title"], Reason: fields["reason"], Extra: maps.Clone(fields)}
		delete(raw.Extra, "title")
		delete(raw.Extra, "reason")
	}
	if raw.Extra == nil {
		raw.Extra = make(map[string]any)
	}

	course := Course{
		Title:  coerceString(raw.Title),
		Reason: coerceString(raw.Reason),
		Extra:  raw.Extra,
	}
	if course.Title == "" {
		course.Title = takeAlias(course.Extra, titleAliases)
	}
	if course.Reason == "" {
		course.Reason = takeAlias(course.Extra, reasonAliases)
	}

	return course
}

func takeAlias(extra map[string]any, keys []string) string {
	for _, key := range keys {
		if value := coerceString(extra[key]); value != "" {
			delete(extra, key)
			return value
		}
	}
	return ""
}

// MarshalJSON flattens the course back into a single object so callers see
// the same shape the service produced.
func (c Course) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+2)
	maps.Copy(out, c.Extra)

	out["title"] = c.Title
	out["reason"] = c.Reason

	return json.Marshal(out)
}
