package shutdown

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopAllRunsInOrderAndJoinsErrors(t *testing.T) {
	var order []string
	errA := errors.New("a failed")

	err := StopAll(context.Background(),
		StopFunc(func(context.Context) error { order = append(order, "a"); return errA }),
		nil,
		StopFunc(func(context.Context) error { order = append(order, "b"); return nil }),
	)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errA))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestStopAllNoErrors(t *testing.T) {
	assert.NoError(t, StopAll(context.Background()))
}
