package tui

import (
	"context"
	"errors"

	"github.com/goliatone/go-formflow/pkg/flow"
)

// Run drives a started flow: prompt, submit, repeat until the flow navigates
// away. The flow is started first when nothing has been rendered yet. It
// returns the redirect path.
func Run(ctx context.Context, submitter flow.Submitter, session *Session) (string, error) {
	if _, ok := session.Page(); !ok {
		if err := submitter.Start(ctx, session); err != nil {
			return "", err
		}
	}

	for {
		if path := session.Redirected(); path != "" {
			return path, nil
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}

		raw, err := session.Prompt(ctx)
		if err != nil {
			return "", err
		}
		outcome, err := submitter.HandleSubmit(ctx, session, raw)
		if err != nil {
			if errors.Is(err, flow.ErrFlowClosed) {
				return session.Redirected(), nil
			}
			return "", err
		}
		if outcome == flow.OutcomeSucceeded {
			continue
		}
		if session.confirmRetry {
			again, err := session.driver.Confirm(ctx, ConfirmConfig{Message: "Try again?", Default: true})
			if err != nil {
				return "", err
			}
			if !again {
				return "", ErrAborted
			}
		}
	}
}
