// Package card simula un procesador de tarjetas: valida los datos, espera un
// retardo configurable y aprueba toda tarjeta válida.
package card

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

type Processor struct {
	delay time.Duration
	now   func() time.Time
}

func NewProcessor(delay time.Duration) *Processor {
	return &Processor{delay: delay, now: time.Now}
}

// Charge devuelve una referencia CARD-XXXXXXXX o ErrPagoRechazado.
func (p *Processor) Charge(ctx context.Context, t domain.Tarjeta, monto decimal.Decimal) (string, error) {
	switch {
	case !monto.IsPositive():
		return "", fmt.Errorf("monto inválido: %w", domain.ErrPagoRechazado)
	case !validate.ValidLuhn(t.Numero):
		return "", fmt.Errorf("número de tarjeta inválido: %w", domain.ErrPagoRechazado)
	case !validate.ValidExpiry(t.Vencimiento, p.now()):
		return "", fmt.Errorf("tarjeta vencida: %w", domain.ErrPagoRechazado)
	case !validate.ValidCVV(t.CVV):
		return "", fmt.Errorf("cvv inválido: %w", domain.ErrPagoRechazado)
	}
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	ref := "CARD-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	log.Info().Str("ref", ref).Str("last4", validate.Last4(t.Numero)).Str("monto", monto.String()).Msg("pago con tarjeta aprobado")
	return ref, nil
}
