package notion

import (
	"strings"
	"unicode/utf8"

	"eco_hotels/internal/domain"
)

// Database property names.
const (
	propTitle       = "title"
	propDescription = "description"
	propRating      = "rating"
	propURL         = "url"
	propProject     = "project"
)

const unknownHotel = "Unknown Hotel"

// Notion caps a single text object at 2000 characters.
const maxTextRun = 2000

/********** write side **********/

// encodeProperties maps an enriched hotel onto the database schema, substituting
// defaults for missing fields. The description column carries the summary.
func encodeProperties(r domain.EnrichedRecord, defaultProject string) map[string]any {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = unknownHotel
	}
	rating := 0.0
	if r.Rating != nil {
		rating = *r.Rating
	}
	project := r.Project
	if strings.TrimSpace(project) == "" {
		project = defaultProject
	}

	// Notion rejects "" for url properties; null clears the cell.
	var url any
	if u := strings.TrimSpace(r.URL); u != "" {
		url = u
	}

	return map[string]any{
		propTitle:       map[string]any{"title": textRuns(name)},
		propDescription: map[string]any{"rich_text": textRuns(r.Summary)},
		propRating:      map[string]any{"number": rating},
		propURL:         map[string]any{"url": url},
		propProject:     map[string]any{"rich_text": textRuns(project)},
	}
}

// textRuns splits s into rich-text objects no longer than maxTextRun runes.
func textRuns(s string) []any {
	runs := []any{}
	for s != "" {
		cut := len(s)
		if utf8.RuneCountInString(s) > maxTextRun {
			cut = 0
			for i := 0; i < maxTextRun; i++ {
				_, size := utf8.DecodeRuneInString(s[cut:])
				cut += size
			}
		}
		runs = append(runs, map[string]any{"type": "text", "text": map[string]any{"content": s[:cut]}})
		s = s[cut:]
	}
	return runs
}

/********** read side **********/

// projectPage decodes one page. Each field degrades to its zero value on its own.
func projectPage(page map[string]any) domain.ProjectedRecord {
	props, _ := page["properties"].(map[string]any)
	return domain.ProjectedRecord{
		ID:          lookupStr(page, "id"),
		Name:        titleText(props, propTitle),
		Description: richText(props, propDescription),
		Rating:      number(props, propRating),
		URL:         urlValue(props, propURL),
		Project:     richText(props, propProject),
	}
}

func titleText(props map[string]any, name string) string {
	return joinRuns(lookupAny(props, name+".title"))
}

func richText(props map[string]any, name string) string {
	return joinRuns(lookupAny(props, name+".rich_text"))
}

func number(props map[string]any, name string) float64 {
	switch v := lookupAny(props, name+".number").(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func urlValue(props map[string]any, name string) string {
	return lookupStr(props, name+".url")
}

// joinRuns concatenates the plain text of a rich-text array, falling back to
// text.content for runs without plain_text.
func joinRuns(v any) string {
	runs, ok := v.([]any)
	if !ok {
		return ""
	}
	var b strings.Builder
	for _, it := range runs {
		run, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if s, ok := run["plain_text"].(string); ok {
			b.WriteString(s)
			continue
		}
		b.WriteString(lookupStr(run, "text.content"))
	}
	return b.String()
}

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}
