package session

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/studycompanion/internal/common"
)

var (
	ErrValidation         = fmt.Errorf("username and password are required: %w", common.ErrorValidation)
	ErrDuplicateUsername  = fmt.Errorf("username already registered: %w", common.ErrorAlreadyExists)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", common.ErrorUnauthorized)
	ErrForbidden          = fmt.Errorf("admin only: %w", common.ErrorForbidden)
	ErrNotAuthenticated   = errors.New("not logged in")
)
