package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestRenderHeaderShowsScoreline(t *testing.T) {
	out := RenderHeader("Board", Scoreline{Team1: "Owls", Team2: "Foxes", Score1: 750, Score2: 250, Turn: "Foxes"}, 100)
	for _, want := range []string{"IQGame", "Board", "Owls", "750", "▸ Foxes", "250"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "▸ Owls")

	bare := RenderHeader("New game", Scoreline{}, 100)
	assert.NotContains(t, bare, "·")
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Board", Scoreline{}, 80)
	footer := RenderFooter([]KeyHint{{Key: "Esc", Description: "Back"}}, 80)
	frame := RenderFrame(header, "content", footer, 80, 24)

	assert.Equal(t, 24, lipgloss.Height(frame))
	assert.True(t, strings.Contains(frame, "Esc"))
}

func TestIsTooSmall(t *testing.T) {
	assert.True(t, IsTooSmall(79, 40))
	assert.True(t, IsTooSmall(120, 23))
	assert.False(t, IsTooSmall(80, 24))
	assert.Contains(t, RenderMinSizeMessage(40, 10), "40 x 10")
}
