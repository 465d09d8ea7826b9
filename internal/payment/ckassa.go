// Package payment реализует клиент платёжного шлюза CKassa:
// создание платёжной ссылки на оплату тарифа. Подтверждение оплаты
// приходит асинхронно на callback-сервер, не через этот клиент.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/darinsight/tarobot/internal/config"
)

// Client клиент API CKassa.
type Client struct {
	apiURL      string
	serviceCode string
	apiToken    string
	httpClient  *http.Client
}

// NewClient создаёт новый клиент CKassa.
func NewClient(cfg config.Payment) *Client {
	return &Client{
		apiURL:      cfg.APIURL,
		serviceCode: cfg.ServiceCode,
		apiToken:    cfg.APIToken,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// CreatePaymentRequest запрос на регистрацию платежа.
// Сумма передаётся в копейках, идентификатор пользователя кладётся в
// properties и возвращается шлюзом в callback-уведомлении.
type CreatePaymentRequest struct {
	ServiceCode string            `json:"serviceCode"`
	Amount      string            `json:"amount"`
	Properties  map[string]string `json:"properties"`
	Comment     string            `json:"comment,omitempty"`
}

// CreatePaymentResponse ответ шлюза с платёжной ссылкой.
type CreatePaymentResponse struct {
	RegPayNum  string `json:"regPayNum"`
	PaymentURL string `json:"paymentUrl"`
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// CreatePayment регистрирует платёж за тариф и возвращает ссылку на оплату.
func (c *Client) CreatePayment(ctx context.Context, plan config.Plan, userID int64) (*CreatePaymentResponse, error) {
	const op = "payment.CreatePayment"

	reqParams := CreatePaymentRequest{
		ServiceCode: c.serviceCode,
		Amount:      strconv.Itoa(plan.Price * 100),
		Properties: map[string]string{
			"ИДЕНТИФИКАТОР": strconv.FormatInt(userID, 10),
		},
		Comment: fmt.Sprintf("Подписка на %s", plan.Name),
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/payments/create", reqParams)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}

	var paymentResp CreatePaymentResponse
	if err := json.NewDecoder(resp.Body).Decode(&paymentResp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if paymentResp.PaymentURL == "" {
		return nil, fmt.Errorf("%s: empty payment url in response", op)
	}
	return &paymentResp, nil
}
