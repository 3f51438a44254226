package span

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoin(t *testing.T) {
	assert.Equal(t, New(0, 14), New(0, 1).Join(New(13, 14)))
	assert.Equal(t, New(2, 9), New(4, 9).Join(New(2, 5)))
}

func TestText(t *testing.T) {
	source := "(id :greeting)"
	assert.Equal(t, ":greeting", New(4, 13).Text(source))
	assert.Equal(t, 9, New(4, 13).Len())
}

func TestString(t *testing.T) {
	assert.Equal(t, "4..13", New(4, 13).String())
}
