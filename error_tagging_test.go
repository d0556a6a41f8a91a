package streamtask

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTaggedErrorUnwrapsToSentinel(t *testing.T) {
	sentinel := errors.New("underlying")
	err := newTaggedError(sentinel, "label", 7, nil)
	require.ErrorIs(t, err, sentinel)
}

func TestTaggedErrorNilErrReturnsNil(t *testing.T) {
	require.NoError(t, newTaggedError(nil, "label", 1, nil))
}

func TestTaggedErrorExtractLabelAndSeq(t *testing.T) {
	err := newTaggedError(ErrMailExecutionFailure, "my-mail", 42, nil)

	label, ok := ExtractMailLabel(err)
	require.True(t, ok)
	require.Equal(t, "my-mail", label)

	seq, ok := ExtractMailSeqNum(err)
	require.True(t, ok)
	require.Equal(t, uint64(42), seq)
}

func TestTaggedErrorEmptyLabelNotExtractable(t *testing.T) {
	err := newTaggedError(ErrMailExecutionFailure, "", 1, nil)
	_, ok := ExtractMailLabel(err)
	require.False(t, ok)
}

func TestTaggedErrorMessageIncludesPanicValue(t *testing.T) {
	err := newTaggedError(ErrMailExecutionFailure, "m", 1, "kaboom")
	require.Contains(t, err.Error(), "panicked")
	require.Contains(t, err.Error(), "kaboom")
}

func TestExtractFromUntaggedErrorReturnsFalse(t *testing.T) {
	plain := errors.New("plain")
	_, ok := ExtractMailLabel(plain)
	require.False(t, ok)
	_, ok = ExtractMailSeqNum(plain)
	require.False(t, ok)
}
