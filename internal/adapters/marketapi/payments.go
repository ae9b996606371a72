package marketapi

import (
	"context"
	"net/http"
	"net/url"

	"makazi/internal/domain"
)

func (c *Client) InitiatePayment(ctx context.Context, token string, req domain.PaymentRequest) (domain.Payment, error) {
	var out domain.Payment
	err := c.do(ctx, call{method: http.MethodPost, path: "/payments/initiate", body: req, token: token}, &out)
	return out, err
}

// PaymentStatus fetches the current provider-side state of a payment. The id
// is the provider checkout reference and is path-escaped.
func (c *Client) PaymentStatus(ctx context.Context, token, id string) (domain.Payment, error) {
	var out domain.Payment
	err := c.do(ctx, call{
		method: http.MethodGet,
		path:   "/payments/" + url.PathEscape(id) + "/status",
		token:  token,
	}, &out)
	return out, err
}
