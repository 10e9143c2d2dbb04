package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrom(t *testing.T) {
	assert.Equal(t, "unknown mnemonic 'FOO'", From("unknown mnemonic '%v'", "FOO"))
	assert.Equal(t, "register 3 = 42", From("register %d = %d", 3, 42))
}
