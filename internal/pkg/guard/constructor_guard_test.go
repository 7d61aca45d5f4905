package guard_test

import (
	"errors"
	"testing"

	"takeout/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotConstructed = errors.New("sample must be created via newSample")

type sample struct {
	name  string
	guard guard.ConstructorGuard
}

func newSample(name string) sample {
	return sample{name: name, guard: guard.NewConstructorGuard()}
}

func (s sample) Validate() error {
	return s.guard.Validate(errNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	t.Run("constructed object passes", func(t *testing.T) {
		require.NoError(t, newSample("ok").Validate())
	})

	t.Run("zero value fails with the supplied error", func(t *testing.T) {
		var s sample
		assert.ErrorIs(t, s.Validate(), errNotConstructed)
	})

	t.Run("nil validation error falls back to the default", func(t *testing.T) {
		var g guard.ConstructorGuard
		assert.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
	})

	t.Run("constructed guard ignores nil validation error", func(t *testing.T) {
		require.NoError(t, guard.NewConstructorGuard().Validate(nil))
	})

	t.Run("copies keep the constructed flag", func(t *testing.T) {
		original := newSample("copy")
		copied := original
		require.NoError(t, copied.Validate())
	})
}
