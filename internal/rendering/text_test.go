package rendering

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-builder/internal/types"
)

func TestText_Golden(t *testing.T) {
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, id := range []types.TemplateID{types.TemplateModern, types.TemplateClassic} {
		t.Run(string(id), func(t *testing.T) {
			tree, err := Render(sampleDoc(), id)
			require.NoError(t, err)
			g.Assert(t, "text_"+string(id), []byte(Text(tree, 60)))
		})
	}
}

func TestTextPages_Markers(t *testing.T) {
	tree, err := Render(sampleDoc(), types.TemplateMinimal)
	require.NoError(t, err)

	blocks := tree.Blocks()
	pages := []Page{
		{Number: 1, Nodes: blocks[:1]},
		{Number: 2, Nodes: blocks[1:]},
	}
	out := TextPages(tree.Layout, pages, 60)

	assert.Equal(t, 1, strings.Count(out, "--- page 2 of 2 ---"))
	assert.Less(t, strings.Index(out, "Ada Lovelace"), strings.Index(out, "--- page 2 of 2 ---"))
	assert.Greater(t, strings.Index(out, "Mathematics"), strings.Index(out, "--- page 2 of 2 ---"))
}
