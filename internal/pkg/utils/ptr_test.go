package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPtr(t *testing.T) {
	p := Ptr(42)
	assert.Equal(t, 42, *p)

	*p = 7
	assert.Equal(t, 7, *p, "Ptr should point at its own copy")
}

func TestDeref(t *testing.T) {
	assert.Equal(t, "x", Deref(Ptr("x")))

	var nilStr *string
	assert.Equal(t, "", Deref(nilStr))
}
