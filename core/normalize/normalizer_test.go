package normalize

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/clip2md/core/rules"
)

func convert(t *testing.T, input string) string {
	t.Helper()
	md, err := New(nil, rules.DefaultOptions()).Normalize(input)
	require.NoError(t, err)
	return md
}

func TestNormalizeBasics(t *testing.T) {
	md := convert(t, `<h1>Hello World</h1><p>This is a test.</p>`)
	assert.Contains(t, md, "# Hello World")
	assert.Contains(t, md, "This is a test.")

	assert.Contains(t, convert(t, `<h2>Section Title</h2>`), "## Section Title")
	assert.Equal(t, "", convert(t, ""))
	assert.Equal(t, "", convert(t, "  \n\t"))
	assert.Equal(t, "Just plain text", convert(t, "Just plain text"))
}

func TestNormalizeTasks(t *testing.T) {
	md := convert(t, `
	  <div>
	    <input type="checkbox" checked>
	    <div data-component="content">Complete the task</div>
	  </div>`)
	assert.Contains(t, md, "- [x] Complete the task")

	md = convert(t, `
	  <div>
	    <input type="checkbox">
	    <div data-component="content">Pending task</div>
	  </div>`)
	assert.Contains(t, md, "- [ ] Pending task")
}

func TestNormalizeNestedTasks(t *testing.T) {
	md := convert(t, `
	  <div role="group">
	    <div>
	      <input type="checkbox">
	      <div data-component="content">Parent task</div>
	    </div>
	    <div role="group" style="margin: 4px 0px 0px 24px;">
	      <div>
	        <input type="checkbox" checked>
	        <div data-component="content">Child task</div>
	      </div>
	    </div>
	  </div>`)

	assert.Contains(t, md, "- [ ] Parent task")
	assert.Contains(t, md, "\n  - [x] Child task")
}

func TestNormalizeCodeBlocks(t *testing.T) {
	md := convert(t, `<pre><code>const x = 1;</code></pre>`)
	assert.Contains(t, md, "```")
	assert.Contains(t, md, "const x = 1;")

	md = convert(t, "<p>Intro</p><div class=\"code-block\" data-language=\"python\"><pre><code>def f():\n    return 1</code></pre></div><p>Outro</p>")
	assert.Contains(t, md, "```python\ndef f():\n    return 1\n```")
	assert.Contains(t, md, "Intro")
	assert.Contains(t, md, "Outro")

	md = convert(t, "<div class=\"code-block\"><pre>1  const x = 1;\n2  const y = 2;</pre></div>")
	assert.Contains(t, md, "```\nconst x = 1;\nconst y = 2;\n```")
}

func TestNormalizeLineElementCodeBlock(t *testing.T) {
	md := convert(t, `<div class="code-block"><span data-code-lang="yaml">`+
		`<span data-testid="renderer-code-block-line-1"><span>root:</span></span>`+
		`<span data-testid="renderer-code-block-line-2"><span>  </span><span>child: 1</span></span>`+
		`</span></div>`)
	assert.Contains(t, md, "```yaml\nroot:\n  child: 1\n```")
}

func TestNormalizeInlineCode(t *testing.T) {
	md := convert(t, `<p>Run <span class="code">make build</span> first.</p>`)
	assert.Contains(t, md, "`make build`")
}

func TestNormalizeTable(t *testing.T) {
	md := convert(t, `<table>
	  <tr><th>A</th><th>B</th></tr>
	  <tr><td>1</td><td>22</td></tr>
	  <tr><td>333</td></tr>
	</table>`)
	assert.Contains(t, md, "| A   | B   |\n| --- | --- |\n| 1   | 22  |\n| 333 |     |")
}

func TestNormalizeRendererList(t *testing.T) {
	md := convert(t, `<ul>`+
		`<li><p data-renderer-start-pos="1">First</p></li>`+
		`<li><p data-renderer-start-pos="7">Second</p>`+
		`<ul><li><p data-renderer-start-pos="15">Nested</p></li></ul>`+
		`</li>`+
		`</ul>`)
	assert.Contains(t, md, "-   First")
	assert.Contains(t, md, "-   Second")
	assert.Contains(t, md, "    -   Nested")
}

func TestNormalizeBlockLayout(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		contains []string
	}{
		{
			name:  "blank lines inside a fence survive",
			input: "<div class=\"code-block\"><pre><code>a = 1\n\n\n\nb = 2</code></pre></div>",
			want:  "```\na = 1\n\n\n\nb = 2\n```",
		},
		{
			name:  "numbered lines with a wide gutter",
			input: "<div class=\"code-block\"><pre>1    return 1\n2    end</pre></div>",
			want:  "```\nreturn 1\nend\n```",
		},
		{
			name:  "mixed renderer and plain items share one bullet style",
			input: `<ul><li><p data-renderer-start-pos="1">A</p></li><li>plain</li></ul>`,
			want:  "-   A\n-   plain",
		},
		{
			name: "plain item nested under a renderer item",
			input: `<ul><li><p data-renderer-start-pos="1">A</p>` +
				`<ul><li>inner</li><li><p data-renderer-start-pos="9">B</p></li></ul>` +
				`</li></ul>`,
			contains: []string{"-   A", "\n    -   inner\n    -   B"},
		},
		{
			name:     "code block in a plain list item is indented",
			input:    "<ul><li>Step<div class=\"code-block\" data-language=\"bash\"><pre><code>make\nmake test</code></pre></div></li></ul>",
			contains: []string{"- Step", "  ```bash\n  make\n  make test\n  ```"},
		},
		{
			name:     "code block in a renderer list item keeps its blank lines",
			input:    "<ul><li><p data-renderer-start-pos=\"1\">Run</p><div class=\"code-block\" data-language=\"sh\"><pre><code>a\n\nb</code></pre></div></li></ul>",
			contains: []string{"-   Run", "```sh\na\n\nb\n```"},
		},
		{
			name:  "cell spacing is kept",
			input: `<table><tr><td>x  y</td></tr></table>`,
			want:  "| x  y |",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := convert(t, tt.input)
			if tt.want != "" {
				assert.Equal(t, tt.want, md)
			}
			for _, c := range tt.contains {
				assert.Contains(t, md, c)
			}
			assert.NotContains(t, md, "- -")
		})
	}
}

func TestNormalizeOptions(t *testing.T) {
	opts := rules.Options{HeadingStyle: "setext", CodeBlockStyle: "fenced", BulletListMarker: "*"}
	n := New(rules.NewRegistry(), opts)
	assert.Equal(t, opts, n.Options())

	md, err := n.Normalize(`<h1>Title</h1><ul><li>plain</li></ul><ul><li><p data-renderer-start-pos="1">rich</p></li></ul>`)
	require.NoError(t, err)
	assert.Contains(t, md, "Title\n===")
	assert.NotContains(t, md, "# Title")
	assert.Contains(t, md, "* plain")
	assert.Contains(t, md, "*   rich")
}

func TestNormalizeMalformedInput(t *testing.T) {
	md := convert(t, `<div class="code-block"><pre><code>unterminated`)
	assert.Contains(t, md, "```\nunterminated\n```")

	md = convert(t, `<table><tr><td>x`)
	assert.Contains(t, md, "| x   |")
}

func TestNormalizeConcurrent(t *testing.T) {
	n := New(nil, rules.DefaultOptions())

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			md, err := n.Normalize(fmt.Sprintf(`<div><input type="checkbox"><div data-component="content">task %d</div></div>`, i))
			if err == nil {
				results[i] = md
			}
		}(i)
	}
	wg.Wait()

	for i, md := range results {
		assert.Contains(t, md, fmt.Sprintf("- [ ] task %d", i))
	}
}
