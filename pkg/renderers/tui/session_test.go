package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-formflow/pkg/flow"
	"github.com/goliatone/go-formflow/pkg/forms"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/testsupport"
)

type stubDriver struct {
	inputs       []string
	passwords    []string
	confirm      []bool
	infoMessages []string
	defaults     []string
	inputPos     int
	passPos      int
	confirmPos   int
}

func (s *stubDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	if s.inputPos >= len(s.inputs) {
		return "", errors.New("no input scripted")
	}
	s.defaults = append(s.defaults, cfg.Default)
	val := s.inputs[s.inputPos]
	s.inputPos++
	return val, nil
}

func (s *stubDriver) Password(_ context.Context, _ InputConfig) (string, error) {
	if s.passPos >= len(s.passwords) {
		return "", errors.New("no password scripted")
	}
	val := s.passwords[s.passPos]
	s.passPos++
	return val, nil
}

func (s *stubDriver) Confirm(_ context.Context, _ ConfirmConfig) (bool, error) {
	if s.confirmPos >= len(s.confirm) {
		return false, errors.New("no confirm scripted")
	}
	val := s.confirm[s.confirmPos]
	s.confirmPos++
	return val, nil
}

func (s *stubDriver) Info(_ context.Context, msg string) error {
	s.infoMessages = append(s.infoMessages, msg)
	return nil
}

func (s *stubDriver) saw(msg string) bool {
	for _, info := range s.infoMessages {
		if strings.Contains(info, msg) {
			return true
		}
	}
	return false
}

func defaultForms(t *testing.T) *forms.Set {
	t.Helper()
	set, err := forms.Default()
	if err != nil {
		t.Fatalf("load forms: %v", err)
	}
	return set
}

func registerFlow(t *testing.T, registrar forms.Registrar) *flow.Flow[model.User] {
	t.Helper()
	cfg, err := defaultForms(t).RegisterUser(registrar, nil)
	if err != nil {
		t.Fatalf("register config: %v", err)
	}
	f, err := flow.New(cfg)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	return f
}

func TestRun_RepromptsUntilRegistrationSucceeds(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{"peter@abv.bg", "peter@abv.bg"},
		passwords: []string{"123", "124", "123", "123"},
	}
	registrar := &testsupport.FakeRegistrar{}
	session := NewSession(WithPromptDriver(driver))

	path, err := Run(context.Background(), registerFlow(t, registrar), session)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if path != "/" {
		t.Fatalf("expected redirect to /, got %q", path)
	}
	if !driver.saw("Passwords do not match") {
		t.Fatalf("expected mismatch message, got %v", driver.infoMessages)
	}
	if len(registrar.Calls) != 1 {
		t.Fatalf("expected one register call, got %d", len(registrar.Calls))
	}
	if driver.defaults[1] != "peter@abv.bg" {
		t.Fatalf("expected kept email as default, got %q", driver.defaults[1])
	}
}

func TestRun_DecliningRetryAborts(t *testing.T) {
	driver := &stubDriver{
		inputs:    []string{""},
		passwords: []string{"", ""},
		confirm:   []bool{false},
	}
	session := NewSession(WithPromptDriver(driver), WithRetryPrompt(true))

	_, err := Run(context.Background(), registerFlow(t, &testsupport.FakeRegistrar{}), session)
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if !driver.saw("All fields are required!") {
		t.Fatalf("expected required message, got %v", driver.infoMessages)
	}
}

func TestRun_UnavailableEditStops(t *testing.T) {
	driver := &stubDriver{}
	catalog := testsupport.NewFakeCatalog()
	cfg, err := defaultForms(t).EditFurniture(catalog, "missing")
	if err != nil {
		t.Fatalf("edit config: %v", err)
	}
	f, err := flow.New(cfg)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	session := NewSession(WithPromptDriver(driver))

	ctx := context.Background()
	if err := f.StartDeferred(ctx, session, forms.LoadFurniture(ctx, catalog, "missing")); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := Run(ctx, f, session); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !driver.saw("This item could not be loaded.") {
		t.Fatalf("expected unavailable notice, got %v", driver.infoMessages)
	}
}

func TestSession_PromptBeforeRender(t *testing.T) {
	session := NewSession(WithPromptDriver(&stubDriver{}))
	if _, err := session.Prompt(context.Background()); !errors.Is(err, ErrNoPage) {
		t.Fatalf("expected ErrNoPage, got %v", err)
	}
}

func TestSession_PromptMarksInvalidFields(t *testing.T) {
	driver := &stubDriver{inputs: []string{"Tab", "Oakwood", "2015", "Solid oak dining table", "235", "/t.png", ""}}
	catalog := testsupport.NewFakeCatalog()
	cfg, err := defaultForms(t).CreateFurniture(catalog)
	if err != nil {
		t.Fatalf("create config: %v", err)
	}
	f, err := flow.New(cfg)
	if err != nil {
		t.Fatalf("new flow: %v", err)
	}
	session := NewSession(WithPromptDriver(driver))
	ctx := context.Background()
	if err := f.Start(ctx, session); err != nil {
		t.Fatalf("start: %v", err)
	}

	raw, err := session.Prompt(ctx)
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	outcome, err := f.HandleSubmit(ctx, session, raw)
	if err != nil || outcome != flow.OutcomeInvalid {
		t.Fatalf("expected invalid outcome, got %v %v", outcome, err)
	}

	page, _ := session.Page()
	if got := page.Invalid(); len(got) != 1 || got[0] != "make" {
		t.Fatalf("expected make invalid, got %v", got)
	}
	if label := session.label(page.Columns[0][0]); !strings.HasSuffix(label, DefaultTheme().InvalidMarker) {
		t.Fatalf("expected invalid marker in %q", label)
	}
	if catalog.CreateCalls() != 0 {
		t.Fatalf("expected no API call")
	}
}
