package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/domain"
)

type DashboardUC struct {
	Products domain.ProductRepo
	Users    domain.UserRepo
	Orders   domain.OrderRepo
}

type DashboardStats struct {
	TotalProductos   int64                        `json:"total_productos"`
	TotalUsuarios    int64                        `json:"total_usuarios"`
	TotalOrdenes     int64                        `json:"total_ordenes"`
	VentasTotales    decimal.Decimal              `json:"ventas_totales"`
	OrdenesPorEstado map[domain.EstadoEnvio]int64 `json:"ordenes_por_estado"`
	UsuariosPorTipo  map[domain.TipoUsuario]int64 `json:"usuarios_por_tipo"`
	StockCritico     []domain.Producto            `json:"stock_critico"`
	UltimasOrdenes   []domain.Orden               `json:"ultimas_ordenes"`
}

const ultimasOrdenes = 5

func (uc *DashboardUC) Stats(ctx context.Context) (*DashboardStats, error) {
	productos, err := uc.Products.Count(ctx)
	if err != nil {
		return nil, err
	}
	porTipo, err := uc.Users.CountByTipo(ctx)
	if err != nil {
		return nil, err
	}
	ords, err := uc.Orders.Stats(ctx)
	if err != nil {
		return nil, err
	}
	criticos, err := uc.Products.Critical(ctx)
	if err != nil {
		return nil, err
	}
	recientes, err := uc.Orders.Recent(ctx, ultimasOrdenes)
	if err != nil {
		return nil, err
	}
	st := &DashboardStats{
		TotalProductos:   productos,
		TotalOrdenes:     ords.Total,
		VentasTotales:    ords.Ventas,
		OrdenesPorEstado: map[domain.EstadoEnvio]int64{},
		UsuariosPorTipo:  map[domain.TipoUsuario]int64{},
		StockCritico:     criticos,
		UltimasOrdenes:   recientes,
	}
	for _, e := range []domain.EstadoEnvio{domain.EstadoPendiente, domain.EstadoEnviado, domain.EstadoEntregado, domain.EstadoCancelado} {
		st.OrdenesPorEstado[e] = ords.PorEstado[e]
	}
	for _, t := range []domain.TipoUsuario{domain.TipoCliente, domain.TipoVendedor, domain.TipoAdmin} {
		st.UsuariosPorTipo[t] = porTipo[t]
		st.TotalUsuarios += porTipo[t]
	}
	return st, nil
}
