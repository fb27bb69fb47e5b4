package gemini

import (
	"embed"
	"strings"
	"unicode"
)

//go:embed prompts/*.md
var promptFS embed.FS

const (
	maxUserInstructionRunes = 500
	maxSingleLineRunes      = 300
	placeholderNone         = "none"
)

func mustPrompt(name string) string {
	data, err := promptFS.ReadFile("prompts/" + name)
	if err != nil {
		panic("gemini: missing embedded prompt " + name)
	}
	return strings.TrimSpace(string(data))
}

var (
	analyzeSystemPrompt = mustPrompt("analyze_system.md")
	analyzeTemplate     = mustPrompt("analyze.md")
	fixSystemPrompt     = mustPrompt("fix_system.md")
	fixTemplate         = mustPrompt("fix.md")
	describeTemplate    = mustPrompt("describe.md")
)

// render replaces {{KEY}} placeholders in template. Values are inserted as is.
func render(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// sanitizeSingleLine collapses whitespace, neutralises role markers and caps
// the length of a free text value placed on one prompt line.
func sanitizeSingleLine(value string) string {
	value = neutraliseBrackets(value)
	value = strings.Join(strings.Fields(value), " ")
	value = truncateRunes(value, maxSingleLineRunes)
	if value == "" {
		return placeholderNone
	}
	return value
}

// sanitizeUserInstructions renders advisory user text as an indented bullet
// list, one bullet per non-empty line.
func sanitizeUserInstructions(value string) string {
	value = neutraliseBrackets(value)
	value = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, value)
	value = truncateRunes(strings.TrimSpace(value), maxUserInstructionRunes)

	var lines []string
	for _, line := range strings.Split(value, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		lines = append(lines, "  - "+line)
	}

	if len(lines) == 0 {
		return "  - " + placeholderNone
	}
	return strings.Join(lines, "\n")
}

// sanitizeBlock keeps line structure of a longer text such as a job description.
func sanitizeBlock(value string, limit int) string {
	value = strings.TrimSpace(strings.ReplaceAll(value, "\r\n", "\n"))
	value = truncateRunes(value, limit)
	if value == "" {
		return placeholderNone
	}
	return value
}

func neutraliseBrackets(value string) string {
	return strings.NewReplacer("[", "(", "]", ")").Replace(value)
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if limit <= 0 || len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit]))
}
