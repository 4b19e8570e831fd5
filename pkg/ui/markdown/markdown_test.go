package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlain(t *testing.T) {
	assert.Equal(t, "# Title\n", Plain{}.Render("# Title\n"))
}

func TestGlamour(t *testing.T) {
	r := &Glamour{Style: "notty", Width: 40}
	out := r.Render("# Manual recovery\n\nCopy `a` to `b`.\n")
	assert.Contains(t, out, "Manual recovery")
	assert.Contains(t, out, "Copy")
}

func TestNew(t *testing.T) {
	assert.IsType(t, Plain{}, New(false))
	assert.IsType(t, &Glamour{}, New(true))
}
