package doclink

// BlockKind identifies the type of a content block. The set is closed:
// parsing produces exactly text and code blocks.
type BlockKind string

// Content block kinds.
const (
	BlockText BlockKind = "text"
	BlockCode BlockKind = "code"
)

// ContentBlock is a contiguous run of text or code captured from a source
// document. Blocks are created during parsing and never mutated afterwards;
// the linking merge step may append concept links.
type ContentBlock struct {
	Kind     BlockKind `json:"kind"`
	Content  string    `json:"content"`
	Language string    `json:"language,omitempty"` // code blocks only

	// Position in the source file, for traceability. 1-based, inclusive.
	// Zero when the parser could not determine it.
	StartLine int `json:"startLine,omitempty"`
	EndLine   int `json:"endLine,omitempty"`

	// Links holds the validated concept links attached to this block.
	Links []*ConceptLink `json:"links,omitempty"`
}

// DocumentNode is one node of a parsed document tree. The root node has
// level 0 and carries the document path; each heading opens a child node.
// Block order and child order together reconstruct the linear order of the
// source document.
type DocumentNode struct {
	Path     string          `json:"path"`
	Title    string          `json:"title,omitempty"`
	Level    int             `json:"level"`
	Blocks   []*ContentBlock `json:"blocks,omitempty"`
	Children []*DocumentNode `json:"children,omitempty"`

	// Partial marks a best-effort tree recovered from malformed input.
	Partial bool `json:"partial,omitempty"`
}

// Walk visits the node and all of its descendants in source order.
func (n *DocumentNode) Walk(fn func(*DocumentNode)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// AllBlocks returns the blocks of the node and all descendants in source order.
func (n *DocumentNode) AllBlocks() []*ContentBlock {
	var blocks []*ContentBlock
	n.Walk(func(node *DocumentNode) {
		blocks = append(blocks, node.Blocks...)
	})
	return blocks
}

// LinkType classifies how a concept's code relates to its text.
type LinkType string

// Concept link types.
const (
	LinkImplementation LinkType = "implementation"
	LinkExample        LinkType = "example"
	LinkReference      LinkType = "reference"
)

// ParseLinkType converts a model-reported type string into a LinkType.
// Returns EINVALID for anything outside the closed set.
func ParseLinkType(s string) (LinkType, error) {
	switch LinkType(s) {
	case LinkImplementation, LinkExample, LinkReference:
		return LinkType(s), nil
	}
	return "", Errorf(EINVALID, "unknown link type %q", s)
}

// ConceptLink is a validated association between quoted text spans and
// quoted code spans under a named concept. Every reference is a literal,
// contiguous substring of one of the originating section's blocks.
type ConceptLink struct {
	Name        string   `json:"name"`
	TextRefs    []string `json:"textRefs,omitempty"`
	CodeRefs    []string `json:"codeRefs,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
	Confidence  float64  `json:"confidence"`
	Type        LinkType `json:"type"`
}

// Validate returns an error if the link contains invalid fields.
func (l *ConceptLink) Validate() error {
	if l.Name == "" {
		return Errorf(EINVALID, "concept link name required")
	}
	if l.Confidence < 0 || l.Confidence > 1 {
		return Errorf(EINVALID, "concept link confidence %v outside [0,1]", l.Confidence)
	}
	if _, err := ParseLinkType(string(l.Type)); err != nil {
		return err
	}
	if len(l.TextRefs) == 0 && len(l.CodeRefs) == 0 {
		return Errorf(EINVALID, "concept link requires at least one reference")
	}
	return nil
}
