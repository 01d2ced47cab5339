package logtail

import (
	"strconv"
	"strings"
	"time"
)

// Attr is one key=value pair from a log line.
type Attr struct {
	Key   string
	Value string
}

// Entry is a log line split into the fields written by slog's text handler.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Attrs   []Attr
	Raw     string
}

// Parse splits a slog text line such as
//
//	time=2025-07-10T09:00:00.000Z level=WARN msg="cv unavailable" id=11
//
// into an Entry. Lines that do not follow that shape come back with only
// Message and Raw set.
func Parse(line string) Entry {
	e := Entry{Raw: line}
	pairs, ok := split(line)
	if !ok {
		e.Message = line
		return e
	}
	for _, p := range pairs {
		switch p.Key {
		case "time":
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				e.Time = t
				continue
			}
			e.Attrs = append(e.Attrs, p)
		case "level":
			e.Level = strings.ToUpper(p.Value)
		case "msg":
			e.Message = p.Value
		default:
			e.Attrs = append(e.Attrs, p)
		}
	}
	if e.Level == "" && e.Message == "" {
		return Entry{Raw: line, Message: line}
	}
	return e
}

// ParseLines parses every line.
func ParseLines(lines []string) []Entry {
	out := make([]Entry, len(lines))
	for i, l := range lines {
		out[i] = Parse(l)
	}
	return out
}

// split tokenises key=value pairs, honouring Go-quoted values.
func split(line string) ([]Attr, bool) {
	var attrs []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			quoted, err := strconv.QuotedPrefix(rest)
			if err != nil {
				return nil, false
			}
			value, _ = strconv.Unquote(quoted)
			rest = rest[len(quoted):]
		} else if sp := strings.IndexByte(rest, ' '); sp >= 0 {
			value, rest = rest[:sp], rest[sp:]
		} else {
			value, rest = rest, ""
		}
		attrs = append(attrs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return attrs, len(attrs) > 0
}

// Text renders attrs back as key=value pairs.
func (e Entry) Text() string {
	if len(e.Attrs) == 0 {
		return ""
	}
	parts := make([]string, len(e.Attrs))
	for i, a := range e.Attrs {
		v := a.Value
		if v == "" || strings.ContainsAny(v, " =\"") {
			v = strconv.Quote(v)
		}
		parts[i] = a.Key + "=" + v
	}
	return strings.Join(parts, " ")
}
