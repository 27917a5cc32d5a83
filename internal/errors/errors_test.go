package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := ConfigInvalid("SAMPLER_EPSILON must be positive")
	wrapped := Wrap(base, "failed to load sampler configuration")

	assert.Equal(t, CodeConfigInvalid, GetCode(wrapped))
	assert.True(t, IsAppError(wrapped))
	assert.Contains(t, wrapped.Error(), "SAMPLER_EPSILON must be positive")
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestTypedSamplingErrors(t *testing.T) {
	distErr := fmt.Errorf("table loot: %w", InvalidDistribution(0.9, 1e-6))
	assert.True(t, stderrors.Is(distErr, ErrInvalidDistribution))
	assert.False(t, stderrors.Is(distErr, ErrEmptyGroup))
	assert.Equal(t, CodeInvalidDistribution, GetCode(distErr))

	var target *DistributionError
	assert.True(t, stderrors.As(distErr, &target))
	assert.InDelta(t, 0.9, target.Sum, 1e-12)

	groupErr := Wrapf(EmptyGroup(3), "table %s", "chests")
	assert.True(t, stderrors.Is(groupErr, ErrEmptyGroup))
	assert.Equal(t, CodeEmptyGroup, GetCode(groupErr))
	assert.Contains(t, groupErr.Error(), "group 3")
}

func TestGetCodeForeignError(t *testing.T) {
	assert.Equal(t, CodeInternalError, GetCode(stderrors.New("boom")))
	assert.Equal(t, "", GetCode(nil))
}
