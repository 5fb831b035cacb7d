package engine

import (
	"context"

	kniterrors "knit.dev/knit/internal/errors"
	"knit.dev/knit/internal/session"
)

// Enter is called whenever the conflict view is opened. An existing
// session is returned unchanged so leaving and re-entering the view loses
// nothing. Otherwise, if the repository has a merge in progress, the
// session is rebuilt from it. With neither, Enter returns a nil session.
func (e *Engine) Enter(ctx context.Context) (*session.Session, error) {
	if e.session != nil {
		return e.session, nil
	}
	inProgress, err := e.backend.IsMergeInProgress()
	if err != nil {
		return nil, kniterrors.NewBackendError("enter", err)
	}
	if !inProgress {
		return nil, nil
	}
	return e.Load(ctx)
}
