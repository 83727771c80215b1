package billing

import (
	"context"
	"fmt"

	"github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preapproval"
)

type MercadoPagoOptions struct {
	AccessToken string
	Reason      string
	Amount      float64
	Currency    string
	BackURL     string
}

// MercadoPagoProvider maps subscriptions onto Mercado Pago preapprovals
// billed monthly.
type MercadoPagoProvider struct {
	client preapproval.Client
	opts   MercadoPagoOptions
}

func NewMercadoPagoProvider(opts MercadoPagoOptions) (*MercadoPagoProvider, error) {
	cfg, err := config.New(opts.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}
	if opts.Reason == "" {
		opts.Reason = "Contractor Scheduler unlimited availability"
	}
	return &MercadoPagoProvider{
		client: preapproval.NewClient(cfg),
		opts:   opts,
	}, nil
}

func (p *MercadoPagoProvider) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	res, err := p.client.Create(ctx, preapproval.Request{
		Reason:            p.opts.Reason,
		PayerEmail:        req.PayerEmail,
		BackURL:           p.opts.BackURL,
		ExternalReference: req.ExternalReference,
		AutoRecurring: &preapproval.AutoRecurringRequest{
			Frequency:         1,
			FrequencyType:     "months",
			TransactionAmount: p.opts.Amount,
			CurrencyID:        p.opts.Currency,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create preapproval: %w", err)
	}
	return fromPreapproval(res), nil
}

func (p *MercadoPagoProvider) Get(ctx context.Context, id string) (*Subscription, error) {
	res, err := p.client.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get preapproval %s: %w", id, err)
	}
	return fromPreapproval(res), nil
}

func (p *MercadoPagoProvider) Cancel(ctx context.Context, id string) (*Subscription, error) {
	res, err := p.client.Update(ctx, id, preapproval.UpdateRequest{Status: StatusCancelled})
	if err != nil {
		return nil, fmt.Errorf("cancel preapproval %s: %w", id, err)
	}
	return fromPreapproval(res), nil
}

func fromPreapproval(res *preapproval.Response) *Subscription {
	return &Subscription{
		ID:        res.ID,
		Status:    res.Status,
		InitPoint: res.InitPoint,
	}
}
