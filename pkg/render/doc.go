// Package render turns a flow.Page into the view model templates and
// terminal prompts consume. It owns message sanitizing, hidden submission
// fields, and theme resolution so every front end shows the same thing.
package render
