package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-formflow/pkg/model"
)

// Client talks to the remote data API.
type Client struct {
	http     *resty.Client
	routes   Routes
	tracer   trace.Tracer
	observer Observer
	logger   *slog.Logger
	validate *validator.Validate
}

// New builds a client rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.routes == nil {
		routes, err := DefaultRoutes()
		if err != nil {
			return nil, err
		}
		o.routes = routes
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetHeader("Accept", "application/json").
		SetLogger(restyLogger{logger: o.logger})
	if o.transport != nil {
		httpClient.SetTransport(o.transport)
	}

	return &Client{
		http:     httpClient,
		routes:   o.routes,
		tracer:   o.tracer.Tracer(tracerName),
		observer: o.observer,
		logger:   o.logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// rejection is the error body the API returns.
type rejection struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type call struct {
	op     string
	params map[string]string
	body   any
	result any
}

func (c *Client) do(ctx context.Context, in call) error {
	route, err := c.routes.Lookup(in.op)
	if err != nil {
		return err
	}

	ctx, span := c.tracer.Start(ctx, "api."+in.op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", route.Method),
			attribute.String("url.template", route.Path),
		),
	)
	defer span.End()

	req := c.http.R().
		SetContext(ctx).
		SetError(&rejection{})
	if len(in.params) > 0 {
		req.SetPathParams(in.params)
	}
	if token := AccessTokenFrom(ctx); token != "" {
		req.SetHeader(AccessTokenHeader, token)
	}
	if in.body != nil {
		req.SetBody(in.body)
	}
	if in.result != nil {
		req.SetResult(in.result)
	}

	started := time.Now()
	resp, err := req.Execute(route.Method, route.Path)
	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.observe(in.op, status, time.Since(started))

	if err != nil {
		apiErr := &Error{Op: in.op, Message: NetworkErrorMessage, Err: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Warn("api call failed",
			slog.String("operation", in.op),
			slog.Any("error", err),
		)
		return apiErr
	}

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if resp.IsError() {
		apiErr := &Error{Op: in.op, Status: status, Message: rejectionMessage(resp)}
		span.SetStatus(codes.Error, apiErr.Message)
		c.logger.Debug("api call rejected",
			slog.String("operation", in.op),
			slog.Int("status", status),
			slog.String("message", apiErr.Message),
		)
		return apiErr
	}
	return nil
}

func rejectionMessage(resp *resty.Response) string {
	if body, ok := resp.Error().(*rejection); ok && body != nil {
		if msg := strings.TrimSpace(body.Message); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(resp.StatusCode()); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", resp.StatusCode())
}

func (c *Client) observe(op string, status int, elapsed time.Duration) {
	if c.observer != nil {
		c.observer.ObserveCall(op, status, elapsed.Seconds())
	}
}

func (c *Client) checkItem(op string, item model.Furniture) error {
	if err := c.validate.Struct(item); err != nil {
		return &Error{Op: op, Message: "Invalid furniture data", Err: err}
	}
	return nil
}

// CreateItem stores a new item and returns it with its assigned ID.
func (c *Client) CreateItem(ctx context.Context, item model.Furniture) (model.Furniture, error) {
	if err := c.checkItem(OpCreateItem, item); err != nil {
		return model.Furniture{}, err
	}
	item.ID, item.OwnerID = "", ""

	var created model.Furniture
	if err := c.do(ctx, call{op: OpCreateItem, body: item, result: &created}); err != nil {
		return model.Furniture{}, err
	}
	return created, nil
}

// EditItem replaces the item stored under id.
func (c *Client) EditItem(ctx context.Context, id string, item model.Furniture) (model.Furniture, error) {
	if err := c.checkItem(OpEditItem, item); err != nil {
		return model.Furniture{}, err
	}
	item.ID = id

	var edited model.Furniture
	if err := c.do(ctx, call{op: OpEditItem, params: map[string]string{"id": id}, body: item, result: &edited}); err != nil {
		return model.Furniture{}, err
	}
	return edited, nil
}

// GetByID fetches one item.
func (c *Client) GetByID(ctx context.Context, id string) (model.Furniture, error) {
	var item model.Furniture
	if err := c.do(ctx, call{op: OpGetByID, params: map[string]string{"id": id}, result: &item}); err != nil {
		return model.Furniture{}, err
	}
	return item, nil
}

// ListItems fetches the whole catalog.
func (c *Client) ListItems(ctx context.Context) ([]model.Furniture, error) {
	var items []model.Furniture
	if err := c.do(ctx, call{op: OpListItems, result: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// Register creates an account. The returned user carries the access token
// and never the password.
func (c *Client) Register(ctx context.Context, email, password string) (model.User, error) {
	var user model.User
	body := credentials{Email: email, Password: password}
	if err := c.do(ctx, call{op: OpRegister, body: body, result: &user}); err != nil {
		return model.User{}, err
	}
	user.Password = ""
	if user.Email == "" {
		user.Email = email
	}
	return user, nil
}

// Logout invalidates the token carried by ctx.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, call{op: OpLogout})
}

type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...any) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...any) {
	l.logger.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...any) {
	l.logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
