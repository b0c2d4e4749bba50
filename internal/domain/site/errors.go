package site

import (
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrSiteInactive = errors.New("site is inactive")

	ErrAssigneeNotManager = fmt.Errorf("%w: only MANAGER employees can be assigned to sites", common.ErrInvalidRequestParam)
)
