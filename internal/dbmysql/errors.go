package dbmysql

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PlayraLive/h-ai-sub006/internal/common"
)

// TranslateError maps a gorm error onto the service error kinds.
// A missing row is NotFound, anything else means the store could not serve the call.
func TranslateError(op, what string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.NotFound(op, "%s not found", what)
	}
	if common.KindOf(err) != "" {
		return err
	}
	return common.StoreUnavailable(op, err)
}
