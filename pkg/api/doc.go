// Package api is the client for the remote furniture data API. Routes come
// from an embedded OpenAPI description; every call is traced and timed, and
// rejections surface as *Error values whose UserMessage is safe to show.
package api
