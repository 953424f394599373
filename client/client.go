package client

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	jsonfetcher "github.com/vainnor/airlab-probe/services/json_fetcher"
	"github.com/vainnor/airlab-probe/types"
	"go.uber.org/zap"
)

const DefaultBaseURL = "https://air-lab.bestwebapp.tech/api/v1"

// Client talks to the UbuntuAirLab REST API.
type Client struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoginResult is a successful login.
type LoginResult struct {
	StatusCode int
	Token      string
}

// Login posts the credentials as a form and returns the bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &Error{Op: OpLogin, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Authenticating", zap.String("username", username), zap.String("url", req.URL.String()))

	resp, err := c.do(OpLogin, req)
	if err != nil {
		return nil, err
	}

	var auth types.AuthResponse
	if err := jsonfetcher.Decode(resp.Body, &auth); err != nil {
		return nil, malformed(OpLogin, resp, err)
	}
	if auth.AccessToken == "" {
		return nil, malformed(OpLogin, resp, errors.New("no access_token in response"))
	}

	return &LoginResult{StatusCode: resp.StatusCode, Token: auth.AccessToken}, nil
}

// ListParams are the query parameters of GET /flights/. Empty filters are
// not sent.
type ListParams struct {
	Skip       int
	Limit      int
	Status     string
	FlightType string
}

// Encode renders the query string with keys in a fixed order: skip, limit,
// then any filters.
func (p ListParams) Encode() string {
	parts := []string{
		"skip=" + strconv.Itoa(p.Skip),
		"limit=" + strconv.Itoa(p.Limit),
	}
	if p.Status != "" {
		parts = append(parts, "status="+url.QueryEscape(p.Status))
	}
	if p.FlightType != "" {
		parts = append(parts, "flight_type="+url.QueryEscape(p.FlightType))
	}
	return strings.Join(parts, "&")
}

// ListResult is one fetched page.
type ListResult struct {
	StatusCode int
	URL        string
	Page       types.FlightsPage
}

type flightsPageWire struct {
	Total      *int                 `json:"total"`
	Page       *int                 `json:"page"`
	TotalPages *int                 `json:"total_pages"`
	Flights    []types.FlightRecord `json:"flights"`
}

// ListFlights fetches a single page of flights.
func (c *Client) ListFlights(ctx context.Context, token string, params ListParams) (*ListResult, error) {
	req, err := c.newAuthorizedRequest(ctx, token, "/flights/")
	if err != nil {
		return nil, &Error{Op: OpListFlights, Kind: KindTransport, Err: err}
	}
	req.URL.RawQuery = params.Encode()

	c.logger.Debug("Listing flights", zap.String("url", req.URL.String()))

	resp, err := c.do(OpListFlights, req)
	if err != nil {
		return nil, err
	}

	var wire flightsPageWire
	if err := jsonfetcher.Decode(resp.Body, &wire); err != nil {
		return nil, malformed(OpListFlights, resp, err)
	}

	page := types.FlightsPage{
		Total:      valueOr(wire.Total, 0),
		Page:       valueOr(wire.Page, 1),
		TotalPages: valueOr(wire.TotalPages, 1),
		Flights:    wire.Flights,
	}

	return &ListResult{StatusCode: resp.StatusCode, URL: resp.URL, Page: page}, nil
}

// GetFlight fetches one flight by its ICAO24 transponder address.
func (c *Client) GetFlight(ctx context.Context, token, icao24 string) (types.FlightRecord, error) {
	req, err := c.newAuthorizedRequest(ctx, token, "/flights/"+url.PathEscape(icao24))
	if err != nil {
		return nil, &Error{Op: OpGetFlight, Kind: KindTransport, Err: err}
	}

	c.logger.Debug("Fetching flight", zap.String("icao24", icao24))

	resp, err := c.do(OpGetFlight, req)
	if err != nil {
		return nil, err
	}

	var flight types.FlightRecord
	if err := jsonfetcher.Decode(resp.Body, &flight); err != nil {
		return nil, malformed(OpGetFlight, resp, err)
	}
	if flight == nil {
		return nil, malformed(OpGetFlight, resp, errors.New("empty flight object"))
	}
	return flight, nil
}

func (c *Client) newAuthorizedRequest(ctx context.Context, token, path string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// do runs req and turns transport failures and non-200 statuses into *Error.
func (c *Client) do(op string, req *http.Request) (*jsonfetcher.Response, error) {
	resp, err := jsonfetcher.Fetch(c.client, req)
	if err != nil {
		c.logger.Debug("Request failed", zap.String("op", op), zap.Error(err))
		return nil, &Error{Op: op, Kind: KindTransport, URL: req.URL.String(), Err: err}
	}

	c.logger.Debug("Response received", zap.String("op", op), zap.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Op:         op,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			URL:        resp.URL,
			Body:       string(resp.Body),
		}
	}
	return resp, nil
}

func malformed(op string, resp *jsonfetcher.Response, err error) *Error {
	return &Error{
		Op:         op,
		Kind:       KindMalformed,
		StatusCode: resp.StatusCode,
		URL:        resp.URL,
		Body:       string(resp.Body),
		Err:        err,
	}
}

func valueOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}
