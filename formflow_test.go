package formflow_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	if len(d.passwords) == 0 {
		return "", errors.New("no password scripted")
	}
	v := d.passwords[0]
	d.passwords = d.passwords[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func newApp(t *testing.T, handler http.Handler) *formflow.App {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	cfg := config.Defaults()
	cfg.API.BaseURL = upstream.URL
	app, err := formflow.New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

func TestApp_RegisterUserInTerminal(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"_id":         "u1",
			"email":       body["email"],
			"accessToken": "tok-u1",
		})
	})
	app := newApp(t, mux)

	session := tui.NewSession(tui.WithPromptDriver(&scriptedDriver{
		inputs:    []string{"peter@abv.bg"},
		passwords: []string{"123", "123"},
	}))
	user, path, err := app.RegisterUser(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, "/", path)
	assert.Equal(t, "tok-u1", user.AccessToken)
	assert.Empty(t, user.Password)
}

func TestApp_CreateFurnitureSendsToken(t *testing.T) {
	var token string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /data/catalog", func(w http.ResponseWriter, r *http.Request) {
		token = r.Header.Get("X-Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"_id":"item-1","make":"Table","model":"Oakwood","year":2015,"description":"Solid oak dining table","price":235,"img":"/t.png"}`))
	})
	app := newApp(t, mux)

	session := tui.NewSession(tui.WithPromptDriver(&scriptedDriver{
		inputs: []string{"Table", "Oakwood", "2015", "Solid oak dining table", "235", "/t.png", ""},
	}))
	path, err := app.CreateFurniture(context.Background(), session, "tok-u1")
	require.NoError(t, err)
	assert.Equal(t, "/", path)
	assert.Equal(t, "tok-u1", token)
}

func TestApp_ServerBuilds(t *testing.T) {
	app := newApp(t, http.NotFoundHandler())
	srv, err := app.Server()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
