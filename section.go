package doclink

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Section is a bounded unit of adjacent text and code blocks submitted
// together to the reasoning capability. Sections are derived fresh for every
// linking run and discarded after their links are merged back into the tree.
type Section struct {
	// ID is deterministic for a given document path and section index and
	// seeds the cache key.
	ID string

	// Index is the position of the section within its document.
	Index int

	// Blocks are the content blocks assigned to this section, in source
	// order. A section always contains at least one block.
	Blocks []*ContentBlock

	// Node is a non-owning back-reference to the node the section was cut
	// from.
	Node *DocumentNode

	// Degraded marks a section whose linking failed after exhausting
	// retries. Degraded sections carry an empty link set, not an error.
	Degraded bool
}

// TextBlocks returns the section's text blocks in order.
func (s *Section) TextBlocks() []*ContentBlock {
	return s.blocksOfKind(BlockText)
}

// CodeBlocks returns the section's code blocks in order.
func (s *Section) CodeBlocks() []*ContentBlock {
	return s.blocksOfKind(BlockCode)
}

func (s *Section) blocksOfKind(kind BlockKind) []*ContentBlock {
	var blocks []*ContentBlock
	for _, b := range s.Blocks {
		if b.Kind == kind {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// Chars returns the combined content length of the section's blocks.
func (s *Section) Chars() int {
	var n int
	for _, b := range s.Blocks {
		n += len(b.Content)
	}
	return n
}

// SectionID derives the deterministic identifier for the section at index
// within the document at path.
func SectionID(path string, index int) string {
	h := xxhash.New()
	_, _ = h.WriteString(path)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.Itoa(index))
	return fmt.Sprintf("%016x", h.Sum64())
}

// ExtractSections segments a document tree into linkable sections. It is
// pure: the document is not modified and repeated calls yield identical
// output.
//
// Each node opens a section boundary. A node whose combined block length
// exceeds maxChars is further split at block boundaries, except that a code
// block is never separated from an immediately preceding text block: the
// explanation-before-code adjacency is what the sections exist to preserve.
// Nodes without blocks produce no section. maxChars <= 0 disables splitting.
func ExtractSections(doc *DocumentNode, maxChars int) []*Section {
	if doc == nil {
		return nil
	}

	var sections []*Section
	index := 0

	doc.Walk(func(n *DocumentNode) {
		for _, blocks := range splitBlocks(n.Blocks, maxChars) {
			sections = append(sections, &Section{
				ID:     SectionID(doc.Path, index),
				Index:  index,
				Blocks: blocks,
				Node:   n,
			})
			index++
		}
	})

	return sections
}

// splitBlocks groups blocks so that no group exceeds maxChars, cutting only
// at block boundaries and keeping each code block with an immediately
// preceding text block. A single block (or text+code pair) larger than
// maxChars still forms its own group: the pairing constraint wins over the
// size bound.
func splitBlocks(blocks []*ContentBlock, maxChars int) [][]*ContentBlock {
	if len(blocks) == 0 {
		return nil
	}
	if maxChars <= 0 {
		return [][]*ContentBlock{blocks}
	}

	var groups [][]*ContentBlock
	var current []*ContentBlock
	var size int

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, current)
			current = nil
			size = 0
		}
	}

	for i := 0; i < len(blocks); i++ {
		b := blocks[i]

		// A text block immediately followed by a code block moves as a unit.
		if b.Kind == BlockText && i+1 < len(blocks) && blocks[i+1].Kind == BlockCode {
			pair := len(b.Content) + len(blocks[i+1].Content)
			if size > 0 && size+pair > maxChars {
				flush()
			}
			current = append(current, b, blocks[i+1])
			size += pair
			i++
		} else {
			if size > 0 && size+len(b.Content) > maxChars {
				flush()
			}
			current = append(current, b)
			size += len(b.Content)
		}

		if size > maxChars {
			flush()
		}
	}
	flush()

	return groups
}
