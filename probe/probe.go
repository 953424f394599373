package probe

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vainnor/airlab-probe/client"
	"github.com/vainnor/airlab-probe/db"
	"github.com/vainnor/airlab-probe/types"
	"go.uber.org/zap"
)

// Recorder persists fetched pages.
type Recorder interface {
	RecordSnapshot(ctx context.Context, snap db.Snapshot) (int64, error)
}

// Credentials are sent to the login endpoint.
type Credentials struct {
	Username string
	Password string
}

// Probe runs the login -> list -> render sequence against one API.
type Probe struct {
	client   *client.Client
	baseURL  string
	console  *Console
	logger   *zap.Logger
	recorder Recorder
}

type Option func(*Probe)

func WithLogger(l *zap.Logger) Option {
	return func(p *Probe) {
		p.logger = l
	}
}

// WithRecorder stores every successfully fetched page.
func WithRecorder(r Recorder) Option {
	return func(p *Probe) {
		p.recorder = r
	}
}

func New(baseURL string, c *client.Client, out io.Writer, opts ...Option) *Probe {
	p := &Probe{
		client:  c,
		baseURL: baseURL,
		console: NewConsole(out),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run authenticates, fetches one page of flights and prints it. Any failure
// is printed as a single error line and returned; nothing is retried.
func (p *Probe) Run(ctx context.Context, creds Credentials, params client.ListParams) (*types.RunStats, error) {
	stats := &types.RunStats{
		RunID:     uuid.NewString(),
		StartTime: time.Now(),
	}
	logger := p.logger.With(zap.String("run_id", stats.RunID))
	defer func() {
		stats.Duration = time.Since(stats.StartTime)
		logger.Debug("Probe finished", zap.Duration("duration", stats.Duration))
	}()

	c := p.console
	c.Banner("TEST API - UbuntuAirLab")
	defer c.Footer()

	token, err := p.login(ctx, creds, stats)
	if err != nil {
		return stats, err
	}

	if params.Status == "" && params.FlightType == "" {
		c.Section("2. FLIGHTS API - all flights")
	} else {
		c.Section("2. FLIGHTS API - filtered flights")
	}
	c.Rule()
	c.printf("Parameters: %s\n", params.Encode())

	res, err := p.client.ListFlights(ctx, token, params)
	if err != nil {
		stats.ListStatus = statusOf(err)
		p.report(err)
		logger.Debug("Listing failed", zap.Error(err))
		return stats, err
	}

	stats.ListStatus = res.StatusCode
	stats.Total = res.Page.Total
	stats.Page = res.Page.Page
	stats.TotalPages = res.Page.TotalPages
	stats.Fetched = len(res.Page.Flights)

	c.printf("Status: %d\n", res.StatusCode)
	c.printf("Full URL: %s\n", res.URL)
	c.RenderPage(&res.Page)

	logger.Info("Flights fetched",
		zap.Int("total", stats.Total),
		zap.Int("fetched", stats.Fetched),
		zap.Int("page", stats.Page),
		zap.Int("total_pages", stats.TotalPages))

	p.record(ctx, logger, db.Snapshot{
		Stats:      *stats,
		BaseURL:    p.baseURL,
		RequestURL: res.URL,
		Page:       &res.Page,
	})

	return stats, nil
}

// Flight authenticates and prints a single flight.
func (p *Probe) Flight(ctx context.Context, creds Credentials, icao24 string) error {
	stats := &types.RunStats{RunID: uuid.NewString(), StartTime: time.Now()}

	c := p.console
	c.Banner("FLIGHT LOOKUP - UbuntuAirLab")
	defer c.Footer()

	token, err := p.login(ctx, creds, stats)
	if err != nil {
		return err
	}

	c.Section("2. FLIGHT " + icao24)
	c.Rule()

	flight, err := p.client.GetFlight(ctx, token, icao24)
	if err != nil {
		p.report(err)
		p.logger.Debug("Flight lookup failed", zap.String("icao24", icao24), zap.Error(err))
		return err
	}

	c.printf("\n")
	c.RenderFlight(1, flight)
	return nil
}

func (p *Probe) login(ctx context.Context, creds Credentials, stats *types.RunStats) (string, error) {
	c := p.console
	c.Section("1. LOGIN TEST")

	res, err := p.client.Login(ctx, creds.Username, creds.Password)
	if err != nil {
		stats.LoginStatus = statusOf(err)
		p.report(err)
		p.logger.Debug("Login failed", zap.String("username", creds.Username), zap.Error(err))
		return "", err
	}

	stats.LoginStatus = res.StatusCode
	c.printf("Status: %d\n", res.StatusCode)
	c.Success("Login successful")
	c.printf("Token: %s\n", TokenPreview(res.Token))
	return res.Token, nil
}

// report prints err as the status line (when a response was received)
// followed by exactly one failure line.
func (p *Probe) report(err error) {
	c := p.console

	var apiErr *client.Error
	if !errors.As(err, &apiErr) {
		c.Failure("Error: %v", err)
		return
	}

	if apiErr.Kind != client.KindTransport {
		c.printf("Status: %d\n", apiErr.StatusCode)
		if apiErr.Op != client.OpLogin {
			c.printf("Full URL: %s\n", apiErr.URL)
		}
	}

	switch {
	case apiErr.Kind == client.KindStatus && apiErr.Op == client.OpLogin:
		c.Failure("Login failed: %s", strings.TrimSpace(apiErr.Body))
	case apiErr.Kind == client.KindStatus:
		c.Failure("Error: %s", strings.TrimSpace(apiErr.Body))
	default:
		c.Failure("Error: %v", apiErr.Err)
	}
}

func (p *Probe) record(ctx context.Context, logger *zap.Logger, snap db.Snapshot) {
	if p.recorder == nil {
		return
	}
	id, err := p.recorder.RecordSnapshot(ctx, snap)
	if err != nil {
		logger.Warn("Snapshot not recorded", zap.Error(err))
		return
	}
	logger.Info("Snapshot recorded", zap.Int64("snapshot_id", id))
}

func statusOf(err error) int {
	var apiErr *client.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
