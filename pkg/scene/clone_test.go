package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsDeep(t *testing.T) {
	orig, err := Parse([]byte(sample))
	require.NoError(t, err)

	cp, err := orig.Clone()
	require.NoError(t, err)

	txt := cp.Layers[0].(*Text)
	*txt.X = 999
	txt.Style.Highlight.Color = "green"
	txt.Content = "changed"

	sh := cp.Layers[2].(*Shape)
	*sh.Commands[0].RX = 42
	sh.Commands = append(sh.Commands[:1], Command{Type: CmdStroke})

	c := cp.Layers[3].(*Container)
	*c.Layers[0].Common().Width = 77

	otxt := orig.Layers[0].(*Text)
	assert.Equal(t, 10.0, *otxt.X)
	assert.Equal(t, "red", otxt.Style.Highlight.Color)
	assert.Equal(t, "Hello", otxt.Content)

	osh := orig.Layers[2].(*Shape)
	assert.Equal(t, 2.0, *osh.Commands[0].RX)
	assert.Equal(t, CmdFill, osh.Commands[1].Type)

	oc := orig.Layers[3].(*Container)
	assert.Equal(t, 5.0, *oc.Layers[0].Common().Width)
}

func TestCloneKeepsValues(t *testing.T) {
	orig := &Image{Base: Base{Kind: KindImage, ID: "a", Width: Float(3), Height: Float(4)}, Color: "#123", Radius: 2}
	n, err := Clone(orig)
	require.NoError(t, err)

	img, ok := n.(*Image)
	require.True(t, ok)
	assert.NotSame(t, orig, img)
	assert.NotSame(t, orig.Width, img.Width)
	assert.Equal(t, orig, img)
}

func TestCloneNil(t *testing.T) {
	_, err := Clone(nil)
	assert.Error(t, err)
}
