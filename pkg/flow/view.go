package flow

import "context"

// View is the render/redirect collaborator. Render replaces what is
// displayed with page; Redirect navigates away and is terminal for the flow.
type View interface {
	Render(ctx context.Context, page Page) error
	Redirect(ctx context.Context, path string) error
}

// Observer receives one notification per handled submission.
type Observer interface {
	ObserveSubmission(form string, outcome Outcome, seconds float64)
}

// Submitter is the type-erased surface of a Flow, used by registries that
// hold flows of different entity types.
type Submitter interface {
	FormID() string
	Start(ctx context.Context, view View) error
	HandleSubmit(ctx context.Context, view View, raw map[string]string) (Outcome, error)
	State() State
	Closed() bool
}
