package usecase

import (
	"context"
	"strings"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/events"
)

type OrderUC struct {
	Orders domain.OrderRepo
	Stock  *StockUC
	Events *events.Bus
}

type OrderQuery struct {
	Estado   string
	Run      string
	Page     int
	PageSize int
}

func (uc *OrderUC) List(ctx context.Context, q OrderQuery) (*Page[domain.Orden], error) {
	page, size := normPage(q.Page, q.PageSize)
	estado := domain.EstadoEnvio(strings.TrimSpace(q.Estado))
	if estado != "" && !estado.Valido() {
		return nil, domain.NewValidationError(map[string]string{"estado": "Estado desconocido"})
	}
	list, total, err := uc.Orders.List(ctx, domain.OrderFilter{Estado: estado, Run: q.Run, Page: page, PageSize: size})
	if err != nil {
		return nil, err
	}
	return &Page[domain.Orden]{Items: list, Total: total, Page: page, PageSize: size}, nil
}

// All devuelve todas las órdenes (exportaciones).
func (uc *OrderUC) All(ctx context.Context) ([]domain.Orden, error) {
	list, _, err := uc.Orders.List(ctx, domain.OrderFilter{})
	return list, err
}

func (uc *OrderUC) Get(ctx context.Context, numero string) (*domain.Orden, error) {
	return uc.Orders.FindByNumero(ctx, strings.TrimSpace(numero))
}

func (uc *OrderUC) ByUser(ctx context.Context, run string) ([]domain.Orden, error) {
	if run == "" {
		return []domain.Orden{}, nil
	}
	list, _, err := uc.Orders.List(ctx, domain.OrderFilter{Run: run})
	return list, err
}

// UpdateStatus aplica la transición; repetir el estado actual no hace nada y
// cancelar devuelve el stock.
func (uc *OrderUC) UpdateStatus(ctx context.Context, numero string, estado domain.EstadoEnvio) (*domain.Orden, error) {
	if !estado.Valido() {
		return nil, domain.NewValidationError(map[string]string{"estado_envio": "Estado desconocido"})
	}
	o, err := uc.Orders.FindByNumero(ctx, strings.TrimSpace(numero))
	if err != nil {
		return nil, err
	}
	anterior := o.EstadoEnvio
	if anterior == estado {
		return o, nil
	}
	if !anterior.PuedePasarA(estado) {
		return nil, domain.ErrTransicionInvalida
	}
	if estado == domain.EstadoCancelado {
		o, err = uc.Orders.CancelWithRestock(ctx, o.NumeroOrden)
		if err != nil {
			return nil, err
		}
		if uc.Stock != nil {
			uc.Stock.Restored(ctx, o.Productos)
		}
	} else {
		if err := uc.Orders.UpdateEstado(ctx, o.NumeroOrden, anterior, estado); err != nil {
			return nil, err
		}
		if o, err = uc.Orders.FindByNumero(ctx, o.NumeroOrden); err != nil {
			return nil, err
		}
	}
	uc.Events.Publish(ctx, domain.EventOrderStatusChanged, events.OrderStatusChanged{
		NumeroOrden: o.NumeroOrden,
		Anterior:    string(anterior),
		Nuevo:       string(estado),
	})
	return o, nil
}
