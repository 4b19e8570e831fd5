package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeclineAll(t *testing.T) {
	var p Prompter = DeclineAll{}

	ok, err := p.Confirm(ConfirmationRequest{ID: "uninstall", Default: true})
	assert.NoError(t, err)
	assert.False(t, ok, "DeclineAll must never confirm, even when the default is yes")

	idx, err := p.Choose(ChoiceRequest{Options: []string{"a", "b", "c"}, Default: 2})
	assert.NoError(t, err)
	assert.Equal(t, 2, idx)
}
