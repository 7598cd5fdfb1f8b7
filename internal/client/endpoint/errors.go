package endpoint

import (
	"fmt"

	"github.com/dmitrijs2005/studycompanion/internal/common"
)

var ErrValidation = fmt.Errorf("invalid endpoint: %w", common.ErrorValidation)

// NetworkError reports a failed probe.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s probe of %s failed: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
