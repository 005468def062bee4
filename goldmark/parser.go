// Package goldmark provides markdown parsing into doclink document trees.
package goldmark

import (
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fwojciec/doclink"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Ensure Parser implements doclink.Parser at compile time.
var _ doclink.Parser = (*Parser)(nil)

// Parser converts markdown bytes into a doclink.DocumentNode tree using the
// goldmark AST. Parsing is deterministic and pure.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse builds the document tree for the markdown document at path.
//
// Headings open child nodes nested under the nearest shallower ancestor.
// Fenced code blocks become code blocks carrying the fence's language tag;
// everything else becomes text, merged into the preceding text block. An
// unterminated code fence yields the best-effort tree with Partial set
// alongside an EMALFORMED error; callers should keep the tree.
func (p *Parser) Parse(data []byte, path string) (*doclink.DocumentNode, error) {
	md := goldmark.New()
	reader := text.NewReader(data)
	astDoc := md.Parser().Parse(reader)

	root := &doclink.DocumentNode{
		Path:  path,
		Title: titleFromPath(path),
	}

	lines := lineOffsets(data)

	type stackEntry struct {
		node  *doclink.DocumentNode
		level int
	}
	stack := []stackEntry{{node: root, level: 0}}

	sawHeading := false

	for n := astDoc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := string(node.Text(data))

			// The first H1 becomes the document title.
			if !sawHeading && node.Level == 1 {
				root.Title = title
			}
			sawHeading = true

			// Pop until we find a parent with a shallower level.
			for len(stack) > 1 && stack[len(stack)-1].level >= node.Level {
				stack = stack[:len(stack)-1]
			}

			child := &doclink.DocumentNode{
				Path:  path,
				Title: title,
				Level: node.Level,
			}
			parent := stack[len(stack)-1].node
			parent.Children = append(parent.Children, child)
			stack = append(stack, stackEntry{node: child, level: node.Level})

		case *ast.FencedCodeBlock:
			appendBlock(stack[len(stack)-1].node, codeBlock(node, data, lines))

		case *ast.CodeBlock:
			appendBlock(stack[len(stack)-1].node, indentedCodeBlock(node, data, lines))

		default:
			content := extractText(n, data)
			if content == "" {
				continue
			}
			start, end := lineRange(n, data, lines)
			appendBlock(stack[len(stack)-1].node, &doclink.ContentBlock{
				Kind:      doclink.BlockText,
				Content:   content,
				StartLine: start,
				EndLine:   end,
			})
		}
	}

	if unterminatedFence(data) {
		root.Partial = true
		return root, doclink.Errorf(doclink.EMALFORMED, "unterminated code fence in %s", path)
	}

	return root, nil
}

// appendBlock adds a block to the node, merging consecutive text blocks into
// one so that blank-line-separated prose stays a single unit.
func appendBlock(node *doclink.DocumentNode, block *doclink.ContentBlock) {
	if n := len(node.Blocks); n > 0 {
		prev := node.Blocks[n-1]
		if prev.Kind == doclink.BlockText && block.Kind == doclink.BlockText {
			prev.Content += "\n\n" + block.Content
			if block.EndLine > prev.EndLine {
				prev.EndLine = block.EndLine
			}
			return
		}
	}
	node.Blocks = append(node.Blocks, block)
}

func codeBlock(node *ast.FencedCodeBlock, src []byte, lines []int) *doclink.ContentBlock {
	start, end := lineRange(node, src, lines)
	return &doclink.ContentBlock{
		Kind:      doclink.BlockCode,
		Content:   blockLines(node, src),
		Language:  string(node.Language(src)),
		StartLine: start,
		EndLine:   end,
	}
}

func indentedCodeBlock(node *ast.CodeBlock, src []byte, lines []int) *doclink.ContentBlock {
	start, end := lineRange(node, src, lines)
	return &doclink.ContentBlock{
		Kind:      doclink.BlockCode,
		Content:   blockLines(node, src),
		StartLine: start,
		EndLine:   end,
	}
}

// blockLines joins the raw source lines of a block node.
func blockLines(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	segments := n.Lines()
	for i := 0; i < segments.Len(); i++ {
		seg := segments.At(i)
		buf.Write(seg.Value(src))
	}
	return strings.TrimRight(buf.String(), "\n")
}

// extractText gets the text content of a goldmark AST node, recursing into
// nested inline nodes.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.ChildCount() == 0 {
		segments := n.Lines()
		for i := 0; i < segments.Len(); i++ {
			seg := segments.At(i)
			buf.Write(seg.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			s := extractText(c, src)
			if s != "" {
				if buf.Len() > 0 {
					buf.WriteByte('\n')
				}
				buf.WriteString(s)
			}
		}
	}
	return strings.TrimSpace(buf.String())
}

// lineRange returns the 1-based inclusive source line range covered by the
// node's segments, or zeros when the node carries no direct lines.
func lineRange(n ast.Node, src []byte, lines []int) (int, int) {
	segments := n.Lines()
	if segments.Len() == 0 {
		return 0, 0
	}
	first := segments.At(0)
	last := segments.At(segments.Len() - 1)
	stop := last.Stop - 1
	if stop < first.Start {
		stop = first.Start
	}
	return lineOf(lines, first.Start), lineOf(lines, stop)
}

// lineOffsets returns the byte offset of the start of each line.
func lineOffsets(src []byte) []int {
	offsets := []int{0}
	for i, b := range src {
		if b == '\n' && i+1 < len(src) {
			offsets = append(offsets, i+1)
		}
	}
	return offsets
}

// lineOf converts a byte offset to a 1-based line number.
func lineOf(offsets []int, offset int) int {
	return sort.Search(len(offsets), func(i int) bool {
		return offsets[i] > offset
	})
}

// unterminatedFence reports whether the document ends inside an open code
// fence. A fence closes only on a run of the same character at least as long
// as the opener with nothing but whitespace after it, so backtick examples
// shown inside a tilde fence (and vice versa) stay content.
func unterminatedFence(src []byte) bool {
	var open byte
	var openLen int
	for _, line := range strings.Split(string(src), "\n") {
		trimmed := strings.TrimLeft(line, " \t")
		marker, run := fenceRun(trimmed)
		if marker == 0 {
			continue
		}
		if open == 0 {
			open, openLen = marker, run
			continue
		}
		if marker == open && run >= openLen && strings.TrimSpace(trimmed[run:]) == "" {
			open = 0
		}
	}
	return open != 0
}

// fenceRun returns the fence character and run length when the line starts
// with a code fence marker, or zero when it does not.
func fenceRun(line string) (byte, int) {
	if line == "" {
		return 0, 0
	}
	c := line[0]
	if c != '`' && c != '~' {
		return 0, 0
	}
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	if n < 3 {
		return 0, 0
	}
	return c, n
}

// titleFromPath derives a fallback document title from the file name.
func titleFromPath(path string) string {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.NewReplacer("_", " ", "-", " ").Replace(stem)
}
