package naming

import (
	"fmt"
	"strings"
	"time"

	"assetnamer/internal/textutil"
)

// FieldMap maps placeholder names to concrete string values for one asset.
// Immutable once built.
type FieldMap map[string]string

// FieldSource carries the raw inputs a field map is built from: file metadata,
// the content description, and the counter issued for this asset.
type FieldSource struct {
	Date         time.Time
	Description  string
	SceneType    string
	Subjects     []string
	Location     string
	Action       string
	Project      string
	OriginalStem string
	Sequence     int
}

// Shaping holds the output settings applied to field values and candidate names.
type Shaping struct {
	DateFormat       string
	SequencePadding  int
	Lowercase        bool
	SpaceReplacement string
}

// BuildFieldMap assembles the full placeholder value set for one asset.
// Every known placeholder gets a value so template expansion can only fail on
// placeholders outside the known field set.
func BuildFieldMap(src FieldSource, shape Shaping) FieldMap {
	dateFormat := shape.DateFormat
	if dateFormat == "" {
		dateFormat = "2006-01-02"
	}
	date := src.Date
	if date.IsZero() {
		date = time.Now()
	}

	padding := shape.SequencePadding
	if padding <= 0 {
		padding = 3
	}
	sequence := fmt.Sprintf("%0*d", padding, src.Sequence)

	subject := "subject"
	if len(src.Subjects) > 0 {
		limit := len(src.Subjects)
		if limit > 2 {
			limit = 2
		}
		subject = strings.Join(src.Subjects[:limit], "_")
	}

	return FieldMap{
		"date":        date.Format(dateFormat),
		"description": firstWords(valueOr(src.Description, "untitled"), 5),
		"sequence":    sequence,
		"number":      sequence,
		"counter":     sequence,
		"project":     valueOr(src.Project, "project"),
		"scene":       valueOr(src.SceneType, "scene"),
		"location":    valueOr(src.Location, "location"),
		"subject":     subject,
		"action":      valueOr(src.Action, "action"),
		"original":    valueOr(src.OriginalStem, "file"),
	}
}

// ShapeName applies the always-on sanitization pass plus configured casing and
// space replacement to an expanded candidate name.
func ShapeName(name string, shape Shaping) string {
	name = textutil.SanitizeFileName(name)
	if shape.Lowercase {
		name = strings.ToLower(name)
	}
	return textutil.ReplaceSpaces(name, shape.SpaceReplacement)
}

// firstWords caps a free-form description at a filename-friendly length.
func firstWords(value string, limit int) string {
	words := strings.Fields(value)
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}

func valueOr(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
