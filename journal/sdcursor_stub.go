//go:build !linux || !cgo

package journal

import (
	"github.com/pkg/errors"

	"github.com/jeffrom/journald/config"
)

func openSystemCursor(conf *config.Config) (Cursor, error) {
	return nil, errors.Wrap(ErrJournalUnavailable, "journal read-back requires linux and cgo")
}
