package errors_test

import (
	stderrors "errors"
	"testing"

	fserrors "github.com/nqwku/fat32emu/errors"
	"github.com/stretchr/testify/assert"
)

func TestFSErrorWithMessage(t *testing.T) {
	err := fserrors.NotFound.WithMessage("TESTDIR")
	assert.Equal(t, "no such file or directory: TESTDIR", err.Error())
	assert.ErrorIs(t, err, fserrors.NotFound)
}

func TestFSErrorWrap(t *testing.T) {
	original := stderrors.New("short read")
	err := fserrors.IOFailed.Wrap(original)

	assert.ErrorIs(t, err, original, "original error not set as parent")
	assert.ErrorIs(t, err, fserrors.IOFailed, "sentinel not set as parent")
}

func TestFSErrorBareSentinelIsItself(t *testing.T) {
	assert.ErrorIs(t, fserrors.AlreadyExists, fserrors.AlreadyExists)
	assert.NotErrorIs(t, fserrors.AlreadyExists, fserrors.NotFound)
}
