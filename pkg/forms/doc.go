// Package forms binds the embedded form definitions to the flow engine. It
// provides the furniture create and edit flows and the user registration
// flow, each as a flow.Config built from a definition plus the API
// collaborator that performs the submission.
package forms
