package publisher

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"feedtoot/config"
	"feedtoot/models"
)

// MaxPostLength caps every rendered post, whatever the network allows
const MaxPostLength = 500

// timeLayout renders entry times as "2024-01-02 15:04:05+00:00"
const timeLayout = "2006-01-02 15:04:05-07:00"

var fields = map[string]func(models.Entry) string{
	"url":       func(e models.Entry) string { return e.URL },
	"link":      func(e models.Entry) string { return e.Link },
	"title":     func(e models.Entry) string { return e.Title },
	"summary":   func(e models.Entry) string { return e.Summary },
	"content":   func(e models.Entry) string { return e.Content },
	"hashtags":  func(e models.Entry) string { return e.Hashtags },
	"published": func(e models.Entry) string { return e.Published.Format(timeLayout) },
	"updated":   func(e models.Entry) string { return e.Updated.Format(timeLayout) },
}

type segment struct {
	literal string
	field   string
}

// Template is a compiled post template. Placeholders are written {name},
// literal braces are doubled.
type Template struct {
	raw      string
	segments []segment
}

// CompileTemplate parses raw and rejects unknown placeholders and stray
// braces. An empty template falls back to config.DefaultTemplate.
func CompileTemplate(raw string) (*Template, error) {
	if raw == "" {
		raw = config.DefaultTemplate
	}

	t := &Template{raw: raw}
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			t.segments = append(t.segments, segment{literal: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			if i+1 < len(raw) && raw[i+1] == '{' {
				literal.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, templateError(raw, "unclosed '{'")
			}
			name := raw[i+1 : i+1+end]
			if _, ok := fields[name]; !ok {
				return nil, templateError(raw, fmt.Sprintf("unknown placeholder {%s}", name))
			}
			flush()
			t.segments = append(t.segments, segment{field: name})
			i += end + 1
		case '}':
			if i+1 < len(raw) && raw[i+1] == '}' {
				literal.WriteByte('}')
				i++
				continue
			}
			return nil, templateError(raw, "single '}' encountered")
		default:
			literal.WriteByte(raw[i])
		}
	}
	flush()

	return t, nil
}

func templateError(raw, msg string) error {
	return &config.Error{Field: "template", Msg: fmt.Sprintf("%s in %q", msg, raw)}
}

// Render substitutes the entry fields into the template
func (t *Template) Render(entry models.Entry) string {
	var out strings.Builder
	for _, seg := range t.segments {
		if seg.field != "" {
			out.WriteString(fields[seg.field](entry))
			continue
		}
		out.WriteString(seg.literal)
	}
	return out.String()
}

func (t *Template) String() string {
	return t.raw
}

// Truncate cuts text to at most max characters
func Truncate(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return string(runes[:max])
}
