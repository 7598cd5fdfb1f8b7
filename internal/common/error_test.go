package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := fmt.Errorf("save: %w", &StorageError{Op: "set", Key: "userData", Err: cause})

	assert.EqualError(t, err, "save: storage set userData: disk full")
	assert.ErrorIs(t, err, cause)

	var se *StorageError
	if assert.ErrorAs(t, err, &se) {
		assert.Equal(t, "set", se.Op)
		assert.Equal(t, "userData", se.Key)
	}
}
