package rules

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/clip2md/core/tree"
)

var (
	languageClass = regexp.MustCompile(`language-(\w+)`)
	brushClass    = regexp.MustCompile(`brush:\s*(\w+)`)

	// A line number is digits followed by at least two spaces. The whole
	// run of spaces belongs to the gutter.
	lineNumber = regexp.MustCompile(`^[ \t]*\d+ {2,}`)
)

// CodeLanguage detects the language tag of a code block. An empty result
// yields an untagged fence.
func CodeLanguage(n tree.Node) string {
	if lang := n.AttrOr(attrCodeLang, ""); lang != "" {
		return lang
	}
	if d, ok := n.Find(func(d tree.Node) bool { return d.HasAttr(attrCodeLang) }); ok {
		if lang := d.AttrOr(attrCodeLang, ""); lang != "" {
			return lang
		}
	}
	if lang := n.AttrOr(attrLanguage, ""); lang != "" {
		return lang
	}
	class := n.Class()
	if m := languageClass.FindStringSubmatch(class); m != nil {
		return m[1]
	}
	if m := brushClass.FindStringSubmatch(class); m != nil {
		return m[1]
	}
	return ""
}

// CodeContent extracts the literal code of a block. Per-line elements
// are read node by node so that whitespace-only spans between tokens
// keep the original indentation.
func CodeContent(n tree.Node) string {
	if lines := n.FindAll(isCodeLine); len(lines) > 0 {
		text := make([]string, len(lines))
		for i, line := range lines {
			text[i] = line.LineText()
		}
		return strings.Join(text, "\n")
	}
	if code, ok := n.Find(isTag("code")); ok {
		return code.Text()
	}
	if pre, ok := n.Find(isTag("pre")); ok {
		return pre.Text()
	}
	return n.Text()
}

// StripLineNumbers removes injected line-number prefixes and trailing
// blank lines, leaving indentation and interior blank lines alone.
func StripLineNumbers(code string) string {
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		lines[i] = lineNumber.ReplaceAllString(line, "")
	}
	end := len(lines)
	for end > 0 && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[:end], "\n")
}

// Fence returns a backtick fence that cannot be closed by the code itself.
func Fence(code string) string {
	longest := longestRun(code, '`')
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// ReadCodeBlock returns the language tag and the cleaned code of n.
func ReadCodeBlock(n tree.Node) (lang, code string) {
	return CodeLanguage(n), StripLineNumbers(CodeContent(n))
}

// FormatCodeBlock fences code surrounded by blank lines. Line breaks inside
// the body are written as newline, which lets a caller substitute a
// placeholder that survives later newline trimming.
func FormatCodeBlock(lang, code, newline string) string {
	fence := Fence(code)
	if newline != "\n" {
		code = strings.ReplaceAll(code, "\n", newline)
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString(lang)
	b.WriteString("\n")
	b.WriteString(code)
	b.WriteString("\n")
	b.WriteString(fence)
	b.WriteString("\n\n")
	return b.String()
}

// RenderCodeBlock formats n as a fenced block surrounded by blank lines.
func RenderCodeBlock(n tree.Node) string {
	lang, code := ReadCodeBlock(n)
	return FormatCodeBlock(lang, code, "\n")
}

// RenderInlineCode wraps the text of n in backticks.
func RenderInlineCode(n tree.Node) string {
	text := n.CollapsedText()
	longest := longestRun(text, '`')
	if longest == 0 {
		return "`" + text + "`"
	}
	fence := strings.Repeat("`", longest+1)
	return fence + " " + text + " " + fence
}

func longestRun(s string, r byte) int {
	longest, run := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] != r {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}
