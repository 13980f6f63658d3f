// Package tui drives form flows from a terminal. A Session is the flow's
// view: renders print the page title and message, and Prompt asks for the
// next submission through a PromptDriver (survey by default).
package tui
