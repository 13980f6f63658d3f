// Package flow drives one form through render → submit → validate →
// (re-render with errors | navigate away).
//
// A Flow is instantiated per page view. It owns its State (the last error
// message and invalid-field set) and passes it to the View on every render
// instead of capturing it in closures. Validation failures and API
// rejections travel through the same render path; only validation marks
// individual fields.
//
//	f, _ := flow.New(forms.CreateFurniture(client))
//	_ = f.Start(ctx, view)
//	outcome, err := f.HandleSubmit(ctx, view, submitted)
//
// Submissions on one instance are strictly sequential: a submit that arrives
// while another is in flight is refused with ErrSubmissionInFlight, and an
// instance that already navigated away refuses further work with
// ErrFlowClosed.
package flow
