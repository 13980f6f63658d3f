package api

import "context"

type tokenKey struct{}

// AccessTokenHeader carries the signed-in user's token.
const AccessTokenHeader = "X-Authorization"

// WithAccessToken returns a context whose API calls are authenticated with
// token. An empty token leaves ctx unchanged.
func WithAccessToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenKey{}, token)
}

// AccessTokenFrom returns the token stored by WithAccessToken.
func AccessTokenFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
