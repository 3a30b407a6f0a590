package render

import (
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/clip2md/core"
)

var (
	headingRegex  = regexp.MustCompile(`^(#{1,6})\s+(.+?)\s*#*$`)
	setextRegex   = regexp.MustCompile(`^(=+|-+)\s*$`)
	linkRegex     = regexp.MustCompile(`\[([^\]]*)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
	fenceRegex    = regexp.MustCompile("^\\s*(`{3,})(\\w*)\\s*$")
	taskRegex     = regexp.MustCompile(`^(\s*)[-*+] \[([ xX])\] (.*)$`)
	listItemRegex = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)
	tableSepRegex = regexp.MustCompile(`^\|(?:\s*:?-{3,}:?\s*\|)+$`)
)

// Analyze scans converted Markdown and reports its structure. Lines inside
// fenced code blocks are not inspected.
func Analyze(md string) core.DocumentStructure {
	s := core.DocumentStructure{
		Headings:      []core.Heading{},
		Links:         []core.Link{},
		Tasks:         []core.Task{},
		CodeLanguages: []string{},
	}
	seenLang := map[string]bool{}

	lines := strings.Split(md, "\n")
	fence := ""
	prev := ""
	for _, line := range lines {
		if m := fenceRegex.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
				s.CodeBlocks++
				if lang := m[2]; lang != "" && !seenLang[lang] {
					seenLang[lang] = true
					s.CodeLanguages = append(s.CodeLanguages, lang)
				}
			case m[1] == fence && m[2] == "":
				fence = ""
			}
			prev = ""
			continue
		}
		if fence != "" {
			continue
		}

		switch {
		case headingRegex.MatchString(line):
			m := headingRegex.FindStringSubmatch(line)
			s.Headings = append(s.Headings, core.Heading{Level: len(m[1]), Text: m[2]})
		case setextRegex.MatchString(line) && strings.TrimSpace(prev) != "" && !listItemRegex.MatchString(prev):
			level := 1
			if strings.HasPrefix(line, "-") {
				level = 2
			}
			s.Headings = append(s.Headings, core.Heading{Level: level, Text: strings.TrimSpace(prev)})
		case taskRegex.MatchString(line):
			m := taskRegex.FindStringSubmatch(line)
			s.Tasks = append(s.Tasks, core.Task{
				Done:  m[2] != " ",
				Depth: len(m[1]) / 2,
				Text:  m[3],
			})
		case tableSepRegex.MatchString(strings.TrimSpace(line)):
			s.Tables++
		case listItemRegex.MatchString(line):
			s.ListItems++
		}

		for _, m := range linkRegex.FindAllStringSubmatch(line, -1) {
			s.Links = append(s.Links, core.Link{Text: m[1], Href: m[2]})
		}
		prev = line
	}
	return s
}

// OpenTasks returns the number of tasks that are not done.
func OpenTasks(s core.DocumentStructure) int {
	n := 0
	for _, t := range s.Tasks {
		if !t.Done {
			n++
		}
	}
	return n
}
