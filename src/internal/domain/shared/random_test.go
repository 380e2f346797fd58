package shared_test

import (
	"testing"

	"github.com/jackyeh168/cartquest/src/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

type fixedRandom struct{ values []int }

func (f *fixedRandom) IntN(n int) int {
	v := f.values[0] % n
	f.values = f.values[1:]
	return v
}

func TestRandomCode_UsesAlphabet(t *testing.T) {
	src := &fixedRandom{values: []int{0, 9, 10, 35}}

	assert.Equal(t, "09AZ", shared.RandomCode(src, 4))
}

func TestRandomCode_DefaultRandom_Length(t *testing.T) {
	code := shared.RandomCode(shared.DefaultRandom(), 8)

	assert.Len(t, code, 8)
	assert.Regexp(t, `^[0-9A-Z]{8}$`, code)
}
