package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/avukalov/dashboard-core/pkg/auth"
	"github.com/avukalov/dashboard-core/pkg/config"
	"github.com/avukalov/dashboard-core/pkg/transport/graphql"
)

// Invalidator is the rendering layer's cache-invalidation hook. Every
// successful mutation fires it so stale invoice lists get dropped.
type Invalidator interface {
	InvalidateInvoices()
}

// InvalidatorFunc adapts a function to the Invalidator interface.
type InvalidatorFunc func()

// InvalidateInvoices calls f.
func (f InvalidatorFunc) InvalidateInvoices() { f() }

type noopInvalidator struct{}

func (noopInvalidator) InvalidateInvoices() {}

// Dashboard is the typed facade over the query/mutation catalog. It hides
// the link chain and the gateway schema behind display-ready results.
type Dashboard struct {
	cfg         *config.Config
	client      *graphql.Client
	handlers    map[auth.Mode]auth.Handler
	logger      *slog.Logger
	invalidator Invalidator
	pageSize    int
}

// Option configures a Dashboard.
type Option func(*Dashboard)

// WithLogger sets the operational log sink.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dashboard) {
		d.logger = logger
	}
}

// WithInvalidator sets the rendering-layer invalidation hook.
func WithInvalidator(inv Invalidator) Option {
	return func(d *Dashboard) {
		d.invalidator = inv
	}
}

// WithHTTPDoer swaps the transport, mostly for tests.
func WithHTTPDoer(doer graphql.HTTPDoer) Option {
	return func(d *Dashboard) {
		d.client.ApplyOptions(graphql.WithHTTPDoer(doer))
	}
}

// WithRequestTimeout bounds each gateway call.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(d *Dashboard) {
		d.client.ApplyOptions(graphql.WithTimeout(timeout))
	}
}

// WithTokenProvider overrides the token provider built from config.
func WithTokenProvider(provider auth.TokenProvider) Option {
	return func(d *Dashboard) {
		d.handlers[auth.ModeUser] = auth.NewBearerAuth(provider)
	}
}

// WithPageSize overrides the invoice table page size.
func WithPageSize(size int) Option {
	return func(d *Dashboard) {
		if size > 0 {
			d.pageSize = size
		}
	}
}

// New builds a Dashboard from config. Both link-chain strategies are
// constructed up front through the auth registry; the underlying HTTP
// connections are stateless, so there is no teardown.
func New(cfg *config.Config, opts ...Option) (*Dashboard, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	provider, err := tokenProvider(cfg)
	if err != nil {
		return nil, err
	}

	registry := auth.NewRegistry()
	handlers := make(map[auth.Mode]auth.Handler, 2)
	for _, mode := range []auth.Mode{auth.ModeUser, auth.ModeAdmin} {
		h, err := registry.Create(mode, &auth.Options{
			Provider:    provider,
			AdminSecret: cfg.AdminSecret,
		})
		if err != nil {
			return nil, err
		}
		handlers[mode] = h
	}

	d := &Dashboard{
		cfg:         cfg,
		client:      graphql.NewClient(nil),
		handlers:    handlers,
		logger:      slog.Default(),
		invalidator: noopInvalidator{},
		pageSize:    DefaultPageSize,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// tokenProvider picks the provider for ModeUser. Without an identity
// section every user-mode request goes out anonymously.
func tokenProvider(cfg *config.Config) (auth.TokenProvider, error) {
	if cfg.Identity.TokenURL == "" {
		return auth.TokenProviderFunc(func(context.Context) (string, error) {
			return "", nil
		}), nil
	}
	return auth.NewClientCredentialsProvider(
		cfg.Identity.TokenURL,
		cfg.Identity.ClientID,
		cfg.Identity.ClientSecret,
		cfg.Identity.Audience,
		0,
	)
}

var (
	defaultOnce sync.Once
	defaultDash *Dashboard
	defaultErr  error
)

// Default returns the process-scoped Dashboard, constructed lazily from
// the environment on first use.
func Default() (*Dashboard, error) {
	defaultOnce.Do(func() {
		cfg, err := config.FromEnv()
		if err != nil {
			defaultErr = err
			return
		}
		defaultDash, defaultErr = New(cfg)
	})
	return defaultDash, defaultErr
}

// clientName identifies this facade to the gateway; Hasura surfaces the
// Hasura-Client-Name header in its request logs.
const clientName = "dashboard-core"

// query runs one catalog operation under the given mode and decodes the
// data payload into out.
func (d *Dashboard) query(ctx context.Context, mode auth.Mode, doc string, vars map[string]interface{}, out interface{}) error {
	b := graphql.NewBuilder(d.cfg.GraphQLURL, doc, nil, nil, d.handlers[mode])
	b.ApplyOptions(
		graphql.WithHeader("Hasura-Client-Name", clientName),
		graphql.WithVariables(vars),
	)
	return d.client.Execute(ctx, b, out)
}

// fail logs the raw cause and collapses it to an opaque domain message.
// Callers never see the transport error type.
func (d *Dashboard) fail(op string, err error) error {
	d.logger.Error("dashboard operation failed", "op", op, "error", err)
	return fmt.Errorf("failed to %s", op)
}

// Response envelopes for unmarshalling gateway payloads.

type aggregateCount struct {
	Aggregate struct {
		Count int `json:"count"`
	} `json:"aggregate"`
}

type aggregateSum struct {
	Aggregate struct {
		Sum struct {
			Amount *int64 `json:"amount"`
		} `json:"sum"`
	} `json:"aggregate"`
}

func (a aggregateSum) amount() int64 {
	if a.Aggregate.Sum.Amount == nil {
		return 0
	}
	return *a.Aggregate.Sum.Amount
}

// LatestInvoices returns the five most recent invoices with amounts
// formatted for display.
func (d *Dashboard) LatestInvoices(ctx context.Context) ([]LatestInvoice, error) {
	var payload struct {
		Invoices []struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Customer struct {
				Name     string `json:"name"`
				Email    string `json:"email"`
				ImageURL string `json:"image_url"`
			} `json:"customer"`
		} `json:"invoices"`
	}

	vars := map[string]interface{}{"limit": latestInvoicesLimit}
	if err := d.query(ctx, auth.ModeUser, queryLatestInvoices, vars, &payload); err != nil {
		return nil, d.fail("fetch the latest invoices", err)
	}

	latest := make([]LatestInvoice, 0, len(payload.Invoices))
	for _, inv := range payload.Invoices {
		latest = append(latest, LatestInvoice{
			ID:       inv.ID,
			Amount:   FormatCurrency(inv.Amount),
			Name:     inv.Customer.Name,
			Email:    inv.Customer.Email,
			ImageURL: inv.Customer.ImageURL,
		})
	}
	return latest, nil
}

// FilteredInvoices returns one page of the searchable, sortable invoice
// table. Page numbers are 1-based.
func (d *Dashboard) FilteredInvoices(ctx context.Context, search string, page int, orderBy OrderBy) ([]InvoiceRow, error) {
	var payload struct {
		Rows []InvoiceRow `json:"invoices_customers"`
	}

	vars := filteredInvoicesVars(search, page, d.pageSize, orderBy)
	if err := d.query(ctx, auth.ModeUser, queryFilteredInvoices, vars, &payload); err != nil {
		return nil, d.fail("fetch invoices", err)
	}
	return payload.Rows, nil
}

// InvoicePages returns how many pages the filtered table spans.
func (d *Dashboard) InvoicePages(ctx context.Context, search string) (int, error) {
	var payload struct {
		Aggregate aggregateCount `json:"invoices_customers_aggregate"`
	}

	vars := map[string]interface{}{"search": likePattern(search)}
	if err := d.query(ctx, auth.ModeUser, queryInvoicesAggregate, vars, &payload); err != nil {
		return 0, d.fail("fetch total number of invoices", err)
	}
	return totalPages(payload.Aggregate.Aggregate.Count, d.pageSize), nil
}

// InvoiceByID fetches a single invoice for the edit form, converting the
// stored minor units back to major units.
func (d *Dashboard) InvoiceByID(ctx context.Context, id string) (*InvoiceForm, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, d.fail("fetch invoice", err)
	}

	var payload struct {
		Invoice *struct {
			ID         string `json:"id"`
			CustomerID string `json:"customer_id"`
			Amount     int64  `json:"amount"`
			Status     Status `json:"status"`
		} `json:"invoices_by_pk"`
	}

	vars := map[string]interface{}{"id": id}
	if err := d.query(ctx, auth.ModeUser, queryInvoiceByID, vars, &payload); err != nil {
		return nil, d.fail("fetch invoice", err)
	}
	if payload.Invoice == nil {
		return nil, d.fail("fetch invoice", fmt.Errorf("invoice %s not found", id))
	}

	return &InvoiceForm{
		ID:         payload.Invoice.ID,
		CustomerID: payload.Invoice.CustomerID,
		Amount:     CentsToMajor(payload.Invoice.Amount),
		Status:     payload.Invoice.Status,
	}, nil
}

// Customers returns all customers ordered by name, for selectors.
func (d *Dashboard) Customers(ctx context.Context) ([]CustomerField, error) {
	var payload struct {
		Customers []CustomerField `json:"customers"`
	}

	if err := d.query(ctx, auth.ModeUser, queryCustomers, nil, &payload); err != nil {
		return nil, d.fail("fetch all customers", err)
	}
	return payload.Customers, nil
}

// FilteredCustomers returns the customers table with per-customer invoice
// counts and formatted pending/paid totals.
func (d *Dashboard) FilteredCustomers(ctx context.Context, search string) ([]CustomerSummary, error) {
	var payload struct {
		Customers []struct {
			Customer
			InvoicesAggregate aggregateCount `json:"invoices_aggregate"`
			Pending           aggregateSum   `json:"pending"`
			Paid              aggregateSum   `json:"paid"`
		} `json:"customers"`
	}

	vars := map[string]interface{}{"search": likePattern(search)}
	if err := d.query(ctx, auth.ModeUser, queryFilteredCustomers, vars, &payload); err != nil {
		return nil, d.fail("fetch customer table", err)
	}

	summaries := make([]CustomerSummary, 0, len(payload.Customers))
	for _, c := range payload.Customers {
		summaries = append(summaries, CustomerSummary{
			ID:            c.ID,
			Name:          c.Name,
			Email:         c.Email,
			ImageURL:      c.ImageURL,
			TotalInvoices: c.InvoicesAggregate.Aggregate.Count,
			TotalPending:  FormatCurrency(c.Pending.amount()),
			TotalPaid:     FormatCurrency(c.Paid.amount()),
		})
	}
	return summaries, nil
}

// CardData fans out the three card queries concurrently and waits for all
// of them. Any single failure fails the whole call.
func (d *Dashboard) CardData(ctx context.Context) (*CardData, error) {
	var (
		invoiceCount struct {
			Aggregate aggregateCount `json:"invoices_aggregate"`
		}
		customerCount struct {
			Aggregate aggregateCount `json:"customers_aggregate"`
		}
		statusTotals struct {
			Paid    aggregateSum `json:"paid"`
			Pending aggregateSum `json:"pending"`
		}
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return d.query(gctx, auth.ModeUser, queryInvoiceCount, nil, &invoiceCount)
	})
	g.Go(func() error {
		return d.query(gctx, auth.ModeUser, queryCustomerCount, nil, &customerCount)
	})
	g.Go(func() error {
		return d.query(gctx, auth.ModeUser, queryInvoiceStatusTotals, nil, &statusTotals)
	})
	if err := g.Wait(); err != nil {
		return nil, d.fail("fetch card data", err)
	}

	return &CardData{
		NumberOfInvoices:  invoiceCount.Aggregate.Aggregate.Count,
		NumberOfCustomers: customerCount.Aggregate.Aggregate.Count,
		TotalPaid:         FormatCurrency(statusTotals.Paid.amount()),
		TotalPending:      FormatCurrency(statusTotals.Pending.amount()),
	}, nil
}

// UserByEmail looks up an account through the privileged admin path. It is
// for internal flows only and must never be exposed with user input.
func (d *Dashboard) UserByEmail(ctx context.Context, email string) (*User, error) {
	var payload struct {
		Users []User `json:"users"`
	}

	vars := map[string]interface{}{"email": email}
	if err := d.query(ctx, auth.ModeAdmin, queryUserByEmail, vars, &payload); err != nil {
		return nil, d.fail("fetch user", err)
	}
	if len(payload.Users) == 0 {
		return nil, d.fail("fetch user", fmt.Errorf("no user with email %s", email))
	}
	return &payload.Users[0], nil
}

// CreateInvoice validates the input, converts the amount to minor units,
// stamps today's date and issues the insert. The date is set here, never
// by the caller.
func (d *Dashboard) CreateInvoice(ctx context.Context, input InvoiceInput) MutationResult {
	if errs := input.Validate(); errs != nil {
		return MutationResult{
			Errors:  errs,
			Message: "Missing fields. Failed to create invoice.",
		}
	}

	vars := map[string]interface{}{
		"customerId":    input.CustomerID,
		"amountInCents": input.AmountInCents(),
		"status":        string(input.Status),
		"date":          Today().String(),
	}
	if err := d.query(ctx, auth.ModeUser, mutationCreateInvoice, vars, nil); err != nil {
		return MutationResult{Message: d.fail("create invoice", err).Error()}
	}

	d.invalidator.InvalidateInvoices()
	return MutationResult{OK: true, Message: "Created invoice."}
}

// UpdateInvoice validates and rewrites an invoice. The issue date is not
// mutated.
func (d *Dashboard) UpdateInvoice(ctx context.Context, id string, input InvoiceInput) MutationResult {
	if _, err := uuid.Parse(id); err != nil {
		return MutationResult{
			Errors:  FieldErrors{"id": {"Invoice id must be a valid UUID."}},
			Message: "Missing fields. Failed to update invoice.",
		}
	}
	if errs := input.Validate(); errs != nil {
		return MutationResult{
			Errors:  errs,
			Message: "Missing fields. Failed to update invoice.",
		}
	}

	vars := map[string]interface{}{
		"id":            id,
		"customerId":    input.CustomerID,
		"amountInCents": input.AmountInCents(),
		"status":        string(input.Status),
	}
	if err := d.query(ctx, auth.ModeUser, mutationUpdateInvoice, vars, nil); err != nil {
		return MutationResult{Message: d.fail("update invoice", err).Error()}
	}

	d.invalidator.InvalidateInvoices()
	return MutationResult{OK: true, Message: "Updated invoice."}
}

// DeleteInvoice removes an invoice unconditionally by id.
func (d *Dashboard) DeleteInvoice(ctx context.Context, id string) MutationResult {
	if _, err := uuid.Parse(id); err != nil {
		return MutationResult{
			Errors:  FieldErrors{"id": {"Invoice id must be a valid UUID."}},
			Message: "Failed to delete invoice.",
		}
	}

	vars := map[string]interface{}{"id": id}
	if err := d.query(ctx, auth.ModeUser, mutationDeleteInvoice, vars, nil); err != nil {
		return MutationResult{Message: d.fail("delete invoice", err).Error()}
	}

	d.invalidator.InvalidateInvoices()
	return MutationResult{OK: true, Message: "Deleted invoice."}
}
