package pathtree

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDepth(t *testing.T) {
	assert.Equal(t, 0, Depth("5"))
	assert.Equal(t, 1, Depth("5.1"))
	assert.Equal(t, 3, Depth("5.1.2.4"))
}

func TestIsRoot(t *testing.T) {
	assert.True(t, IsRoot("17"))
	assert.False(t, IsRoot("17.1"))
}

func TestParentPath(t *testing.T) {
	parent, ok := ParentPath("5.1.2")
	assert.True(t, ok)
	assert.Equal(t, "5.1", parent)

	parent, ok = ParentPath("5.1")
	assert.True(t, ok)
	assert.Equal(t, "5", parent)

	_, ok = ParentPath("5")
	assert.False(t, ok)
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "5.1", ChildPath("5", 1))
	assert.Equal(t, "5.1.12", ChildPath("5.1", 12))
}

func TestChildPrefix(t *testing.T) {
	assert.Equal(t, "2.1.", ChildPrefix("2.1"))
}

func TestLess(t *testing.T) {
	testCases := []struct {
		name string
		a    string
		b    string
		less bool
	}{
		{name: "Numeric not lexicographic", a: "1.9", b: "1.10", less: true},
		{name: "Reverse of numeric case", a: "1.10", b: "1.9", less: false},
		{name: "First component wins", a: "2.1", b: "10.1", less: true},
		{name: "Equal paths", a: "3.1", b: "3.1", less: false},
		{name: "Prefix sorts first", a: "3.1", b: "3.1.1", less: true},
		{name: "Deeper does not sort first", a: "3.1.1", b: "3.1", less: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.less, Less(tc.a, tc.b))
		})
	}
}
