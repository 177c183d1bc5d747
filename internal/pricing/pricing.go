// Package pricing es el único lugar donde se calculan precios de oferta,
// stock disponible y totales del carrito.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

// Reglas de descuento y despacho. Montos en pesos.
type Reglas struct {
	DescuentoDuocPct int
	EnvioGratisDesde decimal.Decimal
	CostoEnvio       decimal.Decimal
}

func ReglasPorDefecto() Reglas {
	return Reglas{
		DescuentoDuocPct: 20,
		EnvioGratisDesde: domain.CLP(50000),
		CostoEnvio:       domain.CLP(3990),
	}
}

var cien = decimal.NewFromInt(100)

// Porcentaje devuelve round(monto * pct / 100) a pesos enteros.
func Porcentaje(monto decimal.Decimal, pct int) decimal.Decimal {
	return monto.Mul(decimal.NewFromInt(int64(pct))).Div(cien).Round(0)
}

// PrecioOferta aplica el descuento porcentual redondeando a peso entero.
func PrecioOferta(precio decimal.Decimal, descuento int) decimal.Decimal {
	return Porcentaje(precio, 100-descuento)
}

// Decorate calcula los campos derivados de p. enCarrito es la cantidad que el
// carrito consultado ya tiene del producto.
func Decorate(p domain.Producto, oferta *domain.Oferta, enCarrito int, now time.Time) domain.ProductoView {
	v := domain.ProductoView{Producto: p}
	v.StockDisponible = p.Stock - enCarrito
	if v.StockDisponible < 0 {
		v.StockDisponible = 0
	}
	v.PrecioFinal = p.Precio
	if oferta != nil && oferta.Codigo == p.Codigo && oferta.VigenteEn(now) {
		v.EnOferta = true
		v.Descuento = oferta.Descuento
		v.PrecioOferta = PrecioOferta(p.Precio, oferta.Descuento)
		v.PrecioFinal = v.PrecioOferta
	}
	v.StockBajo = p.StockCritico > 0 && p.Stock <= p.StockCritico
	v.Agotado = v.StockDisponible == 0
	return v
}

// Linea arma una línea de carrito a partir del producto decorado.
func Linea(v domain.ProductoView, cantidad int) domain.LineaCarrito {
	return domain.LineaCarrito{
		Codigo:          v.Codigo,
		Nombre:          v.Nombre,
		Imagen:          v.Imagen,
		Categoria:       v.Categoria,
		Cantidad:        cantidad,
		PrecioUnitario:  v.PrecioFinal,
		PrecioOriginal:  v.Precio,
		EnOferta:        v.EnOferta,
		Subtotal:        v.PrecioFinal.Mul(decimal.NewFromInt(int64(cantidad))),
		StockDisponible: v.StockDisponible,
	}
}

// Totals suma las líneas y aplica descuento DUOC y costo de envío.
func Totals(lineas []domain.LineaCarrito, correo string, r Reglas) domain.Resumen {
	res := domain.Resumen{Items: lineas, Descuento: decimal.Zero, Envio: decimal.Zero}
	if res.Items == nil {
		res.Items = []domain.LineaCarrito{}
	}
	sub := decimal.Zero
	for _, l := range lineas {
		sub = sub.Add(l.PrecioUnitario.Mul(decimal.NewFromInt(int64(l.Cantidad))))
		res.CantidadTotal += l.Cantidad
	}
	res.Subtotal = sub
	if validate.IsDuocEmail(correo) && r.DescuentoDuocPct > 0 {
		res.DescuentoDuoc = true
		res.Descuento = Porcentaje(sub, r.DescuentoDuocPct)
	}
	neto := sub.Sub(res.Descuento)
	if len(lineas) == 0 || neto.GreaterThanOrEqual(r.EnvioGratisDesde) {
		res.EnvioGratis = true
	} else {
		res.Envio = r.CostoEnvio
	}
	res.Total = neto.Add(res.Envio)
	if res.Total.IsNegative() {
		res.Total = decimal.Zero
	}
	return res
}
