// Package payment defines the contract with the external payment authority.
package payment

import "context"

// Intent statuses as reported by the authority. Only StatusSucceeded
// authorizes capture; everything else is surfaced verbatim for logging.
const (
	StatusSucceeded             = "succeeded"
	StatusRequiresPaymentMethod = "requires_payment_method"
	StatusProcessing            = "processing"
	StatusCanceled              = "canceled"
)

// Intent is a payment authorization held by the external authority.
// ClientSecret is only populated on creation and must be treated as a
// short-lived credential.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       int64
	Currency     string
}

// CreateIntentParams describes a new authorization request. Amount is in
// the authority's minor units (cents).
type CreateIntentParams struct {
	Amount             int64
	Currency           string
	Description        string
	PaymentMethodTypes []string
	Metadata           map[string]string
}

// Provider is the payment authority client. The authority's record is the
// single source of truth for payment success: callers must re-read intent
// status through Retrieve and never trust a status carried by a request.
type Provider interface {
	CreateIntent(ctx context.Context, params CreateIntentParams) (*Intent, error)
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
