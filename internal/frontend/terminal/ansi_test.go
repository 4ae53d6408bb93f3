package terminal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/turnbattle/internal/frontend/terminal"
)

func TestColorize(t *testing.T) {
	assert.Equal(t, "\033[31mdanger\033[0m", terminal.Colorize(terminal.Red, "danger"))
}

func TestColorf(t *testing.T) {
	assert.Equal(t, "\033[32mHP: 42\033[0m", terminal.Colorf(terminal.Green, "HP: %d", 42))
}

func TestStripANSI(t *testing.T) {
	input := "\033[31mred\033[0m normal \033[1m\033[32mbold green\033[0m"
	assert.Equal(t, "red normal bold green", terminal.StripANSI(input))
}

func TestStripANSI_NoEscapes(t *testing.T) {
	assert.Equal(t, "plain text", terminal.StripANSI("plain text"))
	assert.Equal(t, "", terminal.StripANSI(""))
}

func TestStripANSI_UnterminatedSequenceKept(t *testing.T) {
	assert.Equal(t, "a\033[31", terminal.StripANSI("a\033[31"))
}

// Property: StripANSI(Colorize(color, text)) == text for any ASCII text.
func TestPropertyStripANSIInversesColorize(t *testing.T) {
	colors := []string{terminal.Red, terminal.Green, terminal.Yellow, terminal.Cyan, terminal.Magenta, terminal.White, terminal.Bold, terminal.Dim}
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.StringMatching(`[a-zA-Z0-9 ]{0,50}`).Draw(t, "text")
		color := rapid.SampledFrom(colors).Draw(t, "color")
		assert.Equal(t, text, terminal.StripANSI(terminal.Colorize(color, text)))
	})
}

// Property: StripANSI output length <= input length.
func TestPropertyStripANSIOutputShorterOrEqual(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")
		assert.LessOrEqual(t, len(terminal.StripANSI(text)), len(text))
	})
}
