package markdown

import "testing"

func TestToHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "# Title", "<h1>Title</h1>"},
		{"heading level 3", "### Sub ###", "<h3>Sub</h3>"},
		{"paragraph", "hello\nworld", "<p>hello world</p>"},
		{"two paragraphs", "one\n\ntwo", "<p>one</p>\n<p>two</p>"},
		{"blank run", "one\n\n\ntwo", "<p>one</p>\n<br>\n<p>two</p>"},
		{"bold", "**strong** and __also__", "<p><strong>strong</strong> and <strong>also</strong></p>"},
		{"italic", "*em* and _this_", "<p><em>em</em> and <em>this</em></p>"},
		{"link", "see [site](http://x.io)", `<p>see <a href="http://x.io">site</a></p>`},
		{"blockquote", "> quoted", "<blockquote>quoted</blockquote>"},
		{"unordered", "- a\n- b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{"star list is not italic", "* a\n* b", "<ul>\n<li>a</li>\n<li>b</li>\n</ul>"},
		{"ordered", "1. a\n2. b", "<ol>\n<li>a</li>\n<li>b</li>\n</ol>"},
		{"list then text", "- a\ntext", "<ul>\n<li>a</li>\n</ul>\n<p>text</p>"},
		{"inline in heading", "## A [b](c)", `<h2>A <a href="c">b</a></h2>`},
		{"snake words untouched", "my_var_name", "<p>my_var_name</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHTML(tt.in); got != tt.want {
				t.Errorf("ToHTML(%q) =\n%q\nwant\n%q", tt.in, got, tt.want)
			}
		})
	}
}
