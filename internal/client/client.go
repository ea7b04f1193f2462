// Package client is a Go client for the catering storefront API together
// with the client-local shopping cart.
//
// Auth is explicit: a Session is bound to one token and every request it
// sends carries that token. There is no shared default header.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catering_store/internal/model"
)

// APIError is a non-2xx response from the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("catering api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client performs the unauthenticated calls
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the server at baseURL, e.g. http://localhost:5000
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&payload)
		if payload.Message == "" {
			payload.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: payload.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// Register creates an account and returns a session for it
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*Session, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", req, &resp); err != nil {
		return nil, err
	}
	return &Session{client: c, token: resp.Token, User: resp.User}, nil
}

// Login exchanges credentials for a session
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var resp model.AuthResponse
	body := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &resp); err != nil {
		return nil, err
	}
	return &Session{client: c, token: resp.Token, User: resp.User}, nil
}

// WithToken binds a previously issued token. User stays empty until Me is called.
func (c *Client) WithToken(token string) *Session {
	return &Session{client: c, token: token}
}

func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := c.do(ctx, http.MethodGet, "/api/products/"+url.PathEscape(id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Health returns nil when the server and its storage are reachable
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", "", nil, nil)
}

// Session is a client bound to one bearer token
type Session struct {
	client *Client
	token  string

	// User is the account returned at login or registration
	User model.PublicUser
}

// Token returns the bearer token the session sends
func (s *Session) Token() string { return s.token }

func (s *Session) do(ctx context.Context, method, path string, body, out any) error {
	return s.client.do(ctx, method, path, s.token, body, out)
}

func (s *Session) Me(ctx context.Context) (*model.PublicUser, error) {
	var user model.PublicUser
	if err := s.do(ctx, http.MethodGet, "/api/users/me", nil, &user); err != nil {
		return nil, err
	}
	s.User = user
	return &user, nil
}

func (s *Session) UpdateProfile(ctx context.Context, req model.UpdateProfileRequest) (*model.PublicUser, error) {
	var user model.PublicUser
	if err := s.do(ctx, http.MethodPut, "/api/users/profile", req, &user); err != nil {
		return nil, err
	}
	s.User = user
	return &user, nil
}

// PlaceOrder submits the cart with the given shipping address and payment method
func (s *Session) PlaceOrder(ctx context.Context, cart *Cart, addr model.ShippingAddress, paymentMethod string) (*model.OrderDetails, error) {
	return s.CreateOrder(ctx, cart.OrderRequest(addr, paymentMethod))
}

func (s *Session) CreateOrder(ctx context.Context, req model.CreateOrderRequest) (*model.OrderDetails, error) {
	var order model.OrderDetails
	if err := s.do(ctx, http.MethodPost, "/api/orders", req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Session) MyOrders(ctx context.Context) ([]model.OrderDetails, error) {
	var orders []model.OrderDetails
	if err := s.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// Admin calls. The server answers 403 for non-admin sessions.

func (s *Session) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	var product model.Product
	if err := s.do(ctx, http.MethodPost, "/api/products", req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Session) UpdateProduct(ctx context.Context, id string, req model.ProductRequest) (*model.Product, error) {
	var product model.Product
	if err := s.do(ctx, http.MethodPut, "/api/products/"+url.PathEscape(id), req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Session) DeleteProduct(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (s *Session) AllOrders(ctx context.Context) ([]model.OrderDetails, error) {
	var orders []model.OrderDetails
	if err := s.do(ctx, http.MethodGet, "/api/admin/orders", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *Session) SetOrderStatus(ctx context.Context, id string, status model.OrderStatus) (*model.OrderDetails, error) {
	var order model.OrderDetails
	body := model.UpdateOrderStatusRequest{Status: string(status)}
	if err := s.do(ctx, http.MethodPut, "/api/admin/orders/"+url.PathEscape(id), body, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Session) Stats(ctx context.Context) (*model.Stats, error) {
	var stats model.Stats
	if err := s.do(ctx, http.MethodGet, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// RecentOrders lists the newest orders; limit 0 leaves the server default
func (s *Session) RecentOrders(ctx context.Context, limit int) ([]model.OrderDetails, error) {
	path := "/api/admin/recent-orders"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var orders []model.OrderDetails
	if err := s.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}
