package doclink_test

import (
	"testing"

	"github.com/fwojciec/doclink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLinkType(t *testing.T) {
	t.Parallel()

	t.Run("accepts the closed set", func(t *testing.T) {
		t.Parallel()

		for _, s := range []string{"implementation", "example", "reference"} {
			lt, err := doclink.ParseLinkType(s)
			require.NoError(t, err)
			assert.Equal(t, doclink.LinkType(s), lt)
		}
	})

	t.Run("rejects unknown types", func(t *testing.T) {
		t.Parallel()

		_, err := doclink.ParseLinkType("tutorial")

		require.Error(t, err)
		assert.Equal(t, doclink.EINVALID, doclink.ErrorCode(err))
	})
}

func TestConceptLink_Validate(t *testing.T) {
	t.Parallel()

	valid := func() *doclink.ConceptLink {
		return &doclink.ConceptLink{
			Name:       "send-call",
			TextRefs:   []string{"Call the client like this:"},
			CodeRefs:   []string{"client.send(payload)"},
			Confidence: 0.9,
			Type:       doclink.LinkExample,
		}
	}

	t.Run("valid link passes", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, valid().Validate())
	})

	t.Run("requires name", func(t *testing.T) {
		t.Parallel()

		link := valid()
		link.Name = ""

		err := link.Validate()

		require.Error(t, err)
		assert.Equal(t, doclink.EINVALID, doclink.ErrorCode(err))
	})

	t.Run("rejects confidence outside range", func(t *testing.T) {
		t.Parallel()

		link := valid()
		link.Confidence = 1.2

		assert.Error(t, link.Validate())
	})

	t.Run("requires at least one reference", func(t *testing.T) {
		t.Parallel()

		link := valid()
		link.TextRefs = nil
		link.CodeRefs = nil

		assert.Error(t, link.Validate())
	})
}

func TestDocumentNode_Walk(t *testing.T) {
	t.Parallel()

	doc := &doclink.DocumentNode{
		Path: "guide.md",
		Children: []*doclink.DocumentNode{
			{Title: "Usage", Level: 1, Children: []*doclink.DocumentNode{
				{Title: "Advanced", Level: 2},
			}},
			{Title: "FAQ", Level: 1},
		},
	}

	var titles []string
	doc.Walk(func(n *doclink.DocumentNode) {
		titles = append(titles, n.Title)
	})

	assert.Equal(t, []string{"", "Usage", "Advanced", "FAQ"}, titles)
}

func TestDocumentNode_AllBlocks(t *testing.T) {
	t.Parallel()

	doc := &doclink.DocumentNode{
		Blocks: []*doclink.ContentBlock{{Kind: doclink.BlockText, Content: "intro"}},
		Children: []*doclink.DocumentNode{
			{Blocks: []*doclink.ContentBlock{
				{Kind: doclink.BlockText, Content: "usage"},
				{Kind: doclink.BlockCode, Content: "x()"},
			}},
		},
	}

	blocks := doc.AllBlocks()

	require.Len(t, blocks, 3)
	assert.Equal(t, "intro", blocks[0].Content)
	assert.Equal(t, "x()", blocks[2].Content)
}
