package gatewayclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/iurnickita/checkout/internal/payment"
)

// Client - клиент внешнего платежного шлюза, реализует payment.Processor
type Client struct {
	serviceAddr string
}

func New(serviceAddr string) *Client {
	return &Client{serviceAddr: serviceAddr}
}

type chargeRequest struct {
	Customer string          `json:"customer"`
	Amount   int64           `json:"amount"`
	Details  payment.Details `json:"details"`
}

type chargeResponse struct {
	Ref string `json:"ref"`
}

type refundRequest struct {
	Amount int64 `json:"amount"`
}

func (client *Client) Charge(ctx context.Context, customer string, amount int64, details payment.Details) (string, error) {
	// форму данных проверяем до обращения к шлюзу
	if err := payment.ValidateDetails(details); err != nil {
		return "", err
	}

	path := "/api/payments"

	setreq := resty.New().R().SetContext(ctx)
	setreq.Method = http.MethodPost
	setreq.URL = client.serviceAddr + path
	setreq.SetHeader("Content-Type", "application/json")
	setreq.SetBody(chargeRequest{Customer: customer, Amount: amount, Details: details})
	setresp, err := setreq.Send()
	if err != nil {
		return "", err
	}

	switch setresp.StatusCode() {
	case http.StatusOK, http.StatusCreated:
		var charge chargeResponse
		if err := json.Unmarshal(setresp.Body(), &charge); err != nil {
			return "", err
		}
		return charge.Ref, nil
	case http.StatusPaymentRequired:
		return "", payment.ErrDeclined
	default:
		return "", fmt.Errorf("gateway charge status: %d", setresp.StatusCode())
	}
}

func (client *Client) Refund(ctx context.Context, ref string, amount int64) error {
	if ref == "" {
		return payment.ErrRefundFailed
	}

	path := "/api/payments/" + ref + "/refund"

	setreq := resty.New().R().SetContext(ctx)
	setreq.Method = http.MethodPost
	setreq.URL = client.serviceAddr + path
	setreq.SetHeader("Content-Type", "application/json")
	setreq.SetBody(refundRequest{Amount: amount})
	setresp, err := setreq.Send()
	if err != nil {
		return err
	}

	if setresp.StatusCode() != http.StatusOK {
		return payment.ErrRefundFailed
	}
	return nil
}
