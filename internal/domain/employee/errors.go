package employee

import (
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmployeeInactive = errors.New("employee is inactive")

	ErrEmployeeCodeExists = fmt.Errorf("%w: employee code already exists", common.ErrInvalidRequestParam)
	ErrAdminCreation      = fmt.Errorf("%w: ADMIN accounts cannot be created through this endpoint", common.ErrInvalidRequestParam)
	ErrUnknownSite        = fmt.Errorf("%w: site does not exist", common.ErrInvalidRequestParam)
)
