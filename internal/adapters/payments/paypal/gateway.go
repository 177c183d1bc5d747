// Package paypal habla con la API REST de órdenes de PayPal (v2).
package paypal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/phenrril/junimo/internal/domain"
)

const (
	sandboxURL = "https://api-m.sandbox.paypal.com"
	liveURL    = "https://api-m.paypal.com"
)

type Config struct {
	ClientID  string
	Secret    string
	Mode      string
	CLPPorUSD decimal.Decimal
	// BaseURL reemplaza la URL de la API; solo para pruebas.
	BaseURL string
}

// Gateway sin credenciales queda en modo simulado y aprueba cualquier id no vacío.
type Gateway struct {
	baseURL    string
	rate       decimal.Decimal
	httpClient *http.Client
	mock       bool
}

type link struct {
	Href string `json:"href"`
	Rel  string `json:"rel"`
}

type amount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type purchaseUnit struct {
	ReferenceID string `json:"reference_id,omitempty"`
	Amount      amount `json:"amount"`
	Payments    *struct {
		Captures []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Amount amount `json:"amount"`
		} `json:"captures"`
	} `json:"payments,omitempty"`
}

type orderResp struct {
	ID            string         `json:"id"`
	Status        string         `json:"status"`
	Links         []link         `json:"links"`
	PurchaseUnits []purchaseUnit `json:"purchase_units"`
}

func NewGateway(cfg Config) *Gateway {
	rate := cfg.CLPPorUSD
	if !rate.IsPositive() {
		rate = decimal.NewFromInt(950)
	}
	g := &Gateway{rate: rate}
	if cfg.ClientID == "" || cfg.Secret == "" {
		g.mock = true
		return g
	}
	g.baseURL = cfg.BaseURL
	if g.baseURL == "" {
		g.baseURL = sandboxURL
		if strings.EqualFold(cfg.Mode, "live") {
			g.baseURL = liveURL
		}
	}
	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.Secret,
		TokenURL:     g.baseURL + "/v1/oauth2/token",
	}
	g.httpClient = cc.Client(context.Background())
	g.httpClient.Timeout = 15 * time.Second
	return g
}

func (g *Gateway) Mock() bool { return g.mock }

// ToUSD convierte pesos a dólares con dos decimales; nunca menos de 0.01.
func (g *Gateway) ToUSD(clp decimal.Decimal) decimal.Decimal {
	usd := clp.Div(g.rate).Round(2)
	min := decimal.New(1, -2)
	if usd.LessThan(min) {
		return min
	}
	return usd
}

// CreateOrder registra una orden de cobro por total (CLP) y devuelve la URL de aprobación.
func (g *Gateway) CreateOrder(ctx context.Context, total decimal.Decimal, reference string) (*domain.PayPalOrden, error) {
	usd := g.ToUSD(total)
	if g.mock {
		id := "MOCK-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
		return &domain.PayPalOrden{ID: id, Status: "CREATED", MontoUSD: usd, Simulado: true}, nil
	}
	body := map[string]any{
		"intent": "CAPTURE",
		"purchase_units": []purchaseUnit{{
			ReferenceID: reference,
			Amount:      amount{CurrencyCode: "USD", Value: usd.StringFixed(2)},
		}},
	}
	var out orderResp
	if err := g.do(ctx, http.MethodPost, "/v2/checkout/orders", body, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, errors.New("respuesta PayPal incompleta")
	}
	o := &domain.PayPalOrden{ID: out.ID, Status: out.Status, MontoUSD: usd}
	for _, l := range out.Links {
		if l.Rel == "approve" || l.Rel == "payer-action" {
			o.ApproveURL = l.Href
		}
	}
	return o, nil
}

// Capture cobra una orden aprobada. Devuelve el id de la captura; cualquier
// estado distinto de COMPLETED o un monto distinto al esperado es rechazo.
func (g *Gateway) Capture(ctx context.Context, orderID string, total decimal.Decimal) (string, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return "", fmt.Errorf("orden PayPal vacía: %w", domain.ErrPagoRechazado)
	}
	if g.mock {
		log.Debug().Str("paypal_order", orderID).Msg("captura PayPal simulada")
		return "PAYPAL-" + orderID, nil
	}
	var out orderResp
	if err := g.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", map[string]any{}, &out); err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code < 500 {
			return "", fmt.Errorf("%v: %w", err, domain.ErrPagoRechazado)
		}
		return "", err
	}
	if out.Status != "COMPLETED" {
		return "", fmt.Errorf("estado PayPal %s: %w", out.Status, domain.ErrPagoRechazado)
	}
	ref := out.ID
	for _, pu := range out.PurchaseUnits {
		if pu.Payments == nil {
			continue
		}
		for _, c := range pu.Payments.Captures {
			if got, err := decimal.NewFromString(c.Amount.Value); err == nil && !got.Equal(g.ToUSD(total)) {
				return "", fmt.Errorf("monto capturado %s distinto de %s: %w", c.Amount.Value, g.ToUSD(total).StringFixed(2), domain.ErrPagoRechazado)
			}
			ref = c.ID
		}
	}
	return ref, nil
}

type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string { return fmt.Sprintf("paypal status %d: %s", e.code, e.body) }

func (g *Gateway) do(ctx context.Context, method, path string, in, out any) error {
	buf, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("error serializando payload PayPal: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")
	res, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error de conexión con PayPal: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return &statusError{code: res.StatusCode, body: string(b)}
	}
	return json.NewDecoder(res.Body).Decode(out)
}
