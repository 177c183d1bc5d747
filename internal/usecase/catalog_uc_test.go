package usecase

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/testutil"
)

type memStorage struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func (m *memStorage) Save(_ context.Context, name string, r io.Reader, _ string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files == nil {
		m.files = map[string][]byte{}
	}
	m.files[name] = b
	return "/uploads/" + name, nil
}

func (m *memStorage) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, path)
	return nil
}

func ptr[T any](v T) *T { return &v }

func TestProductUC_ListFiltros(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.offers.Set(ctx, "JM004", OfferInput{Descuento: 10})
	require.NoError(t, err)
	_, err = f.cart.Add(ctx, "c1", "", "JM001", 4)
	require.NoError(t, err)

	page, err := f.products.List(ctx, ProductQuery{Categoria: "Peluches", CartID: "c1"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	for _, v := range page.Items {
		if v.Codigo == "JM001" {
			assert.Equal(t, 6, v.StockDisponible)
		}
		if v.Codigo == "JM003" {
			assert.True(t, v.Agotado)
		}
	}

	page, err = f.products.List(ctx, ProductQuery{SoloOfertas: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.True(t, page.Items[0].EnOferta)
	assert.True(t, page.Items[0].PrecioFinal.Equal(domain.CLP(40500)))

	page, err = f.products.List(ctx, ProductQuery{Query: "junimo", SoloDisponibles: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "JM001", page.Items[0].Codigo)

	page, err = f.products.List(ctx, ProductQuery{Sort: "precio_desc", PageSize: 500})
	require.NoError(t, err)
	assert.Equal(t, 100, page.PageSize)
	assert.Equal(t, "JM004", page.Items[0].Codigo)

	v, err := f.products.Get(ctx, "jm002", "")
	require.NoError(t, err)
	assert.True(t, v.StockBajo)
	_, err = f.products.Get(ctx, "nope", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	cats, err := f.products.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Decoración", cats[0].Nombre)

	crit, err := f.products.Critical(ctx)
	require.NoError(t, err)
	require.Len(t, crit, 1)
	assert.Equal(t, "JM002", crit[0].Codigo)
}

func TestProductUC_CrearActualizarStock(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.products.Create(ctx, ProductInput{Codigo: "x", Nombre: "", Categoria: "Tazas"})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Campos, "codigo")
	assert.Contains(t, ve.Campos, "nombre")
	assert.Contains(t, ve.Campos, "precio")

	in := ProductInput{Codigo: " jm010 ", Nombre: "Llavero Junimo", Categoria: "Accesorios", Precio: ptr[int64](3990), Stock: ptr(0)}
	p, err := f.products.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "JM010", p.Codigo)

	_, err = f.products.Create(ctx, in)
	assert.ErrorIs(t, err, domain.ErrYaExiste)

	in.Stock = ptr(5)
	in.Nombre = "Llavero Junimo Azul"
	p, err = f.products.Update(ctx, "JM010", in)
	require.NoError(t, err)
	assert.Equal(t, 5, p.Stock)

	p, err = f.products.AdjustStock(ctx, "JM010", -8)
	require.NoError(t, err)
	assert.Zero(t, p.Stock)

	p, err = f.products.UpdateStock(ctx, "JM010", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, p.Stock)

	_, err = f.products.UpdateStock(ctx, "JM010", -1)
	assert.ErrorAs(t, err, &ve)
	_, err = f.products.UpdateStock(ctx, "NOPE", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// create + update + adjust + set
	assert.Equal(t, 4, f.rec.count(domain.EventStockUpdated))

	require.NoError(t, f.products.Delete(ctx, "JM010"))
	assert.ErrorIs(t, f.products.Delete(ctx, "JM010"), domain.ErrNotFound)
}

func TestProductUC_UploadImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	st := &memStorage{}
	f.products.Storage = st

	_, err := f.products.UploadImage(ctx, "JM001", "foto.txt", "text/plain", strings.NewReader("x"))
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	p, err := f.products.UploadImage(ctx, "JM001", "foto.png", "image/png", bytes.NewReader([]byte{0x89, 'P', 'N', 'G'}))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p.Imagen, "/uploads/productos/jm001-"))
	assert.True(t, strings.HasSuffix(p.Imagen, ".png"))
	primera := p.Imagen

	p, err = f.products.UploadImage(ctx, "JM001", "foto.jpeg", "image/jpeg", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(p.Imagen, ".jpeg"))
	assert.Equal(t, []string{primera}, st.deleted)
}

func TestProductUC_Import(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.products.Import(ctx, []ProductInput{
		{Codigo: "JM001", Nombre: "Peluche Junimo Verde XL", Categoria: "Peluches", Precio: ptr[int64](15990), Stock: ptr(12)},
		{Codigo: "JM020", Nombre: "Imán Pollo", Categoria: "Accesorios", Precio: ptr[int64](1990), Stock: ptr(30)},
		{Codigo: "JM021", Nombre: "", Categoria: "Accesorios"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Creados)
	assert.Equal(t, 1, res.Actualizados)
	assert.Contains(t, res.Errores, "JM021")
	assert.Equal(t, 12, f.stockDe(t, "JM001"))
}

func TestOfferUC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.offers.Set(ctx, "JM001", OfferInput{Descuento: 95})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)
	_, err = f.offers.Set(ctx, "NOPE", OfferInput{Descuento: 10})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	desde, hasta := ahora.Add(time.Hour), ahora
	_, err = f.offers.Set(ctx, "JM001", OfferInput{Descuento: 10, Desde: &desde, Hasta: &hasta})
	assert.ErrorAs(t, err, &ve)

	_, err = f.offers.Set(ctx, "JM001", OfferInput{Descuento: 10})
	require.NoError(t, err)
	_, err = f.offers.Set(ctx, "JM004", OfferInput{Descuento: 30})
	require.NoError(t, err)
	futura := ahora.Add(24 * time.Hour)
	_, err = f.offers.Set(ctx, "JM002", OfferInput{Descuento: 50, Desde: &futura})
	require.NoError(t, err)
	inactiva, err := f.offers.Set(ctx, "JM003", OfferInput{Descuento: 40, Activa: ptr(false)})
	require.NoError(t, err)
	assert.False(t, inactiva.Activa)

	v, err := f.products.Get(ctx, "JM003", "")
	require.NoError(t, err)
	assert.False(t, v.EnOferta)
	assert.True(t, v.PrecioFinal.Equal(v.Precio))

	list, err := f.offers.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "JM004", list[0].Codigo)
	assert.Equal(t, "JM001", list[1].Codigo)

	require.NoError(t, f.offers.Remove(ctx, "JM004"))
	list, err = f.offers.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestBlogUC(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.Equal(t, "como-cuidar-tu-huerto-en-otono", Slugify("  ¿Cómo cuidar tu huerto en otoño?  "))
	assert.Equal(t, "", Slugify("¡¡!!"))

	in := BlogInput{Titulo: "Guía Junimo", Contenido: "Texto"}
	p, err := f.blog.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "guia-junimo", p.Slug)
	assert.Equal(t, "Equipo Junimo", p.Autor)
	assert.Equal(t, ahora, p.PublicadoEn)

	p2, err := f.blog.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "guia-junimo-2", p2.Slug)

	_, err = f.blog.Create(ctx, BlogInput{Titulo: "!!!", Contenido: "x"})
	var ve *domain.ValidationError
	assert.ErrorAs(t, err, &ve)

	list, err := f.blog.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := f.blog.Get(ctx, "guia-junimo-2")
	require.NoError(t, err)
	assert.Equal(t, "Guía Junimo", got.Titulo)

	require.NoError(t, f.blog.Delete(ctx, "guia-junimo"))
	assert.ErrorIs(t, f.blog.Delete(ctx, "guia-junimo"), domain.ErrNotFound)
}

func TestDashboardUC_Stats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	testutil.Usuario(t, f.db, "7654321-6", "admin@duoc.cl", domain.TipoAdmin, "admin1")
	testutil.Usuario(t, f.db, "12345678-5", "ana@gmail.com", domain.TipoCliente, "clave1")

	a := comprar(t, f, "c1", "JM004", 1)
	comprar(t, f, "c2", "JM001", 1)
	_, err := f.orders.UpdateStatus(ctx, a.NumeroOrden, domain.EstadoCancelado)
	require.NoError(t, err)

	st, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 4, st.TotalProductos)
	assert.EqualValues(t, 2, st.TotalUsuarios)
	assert.EqualValues(t, 2, st.TotalOrdenes)
	// 12.990 + 3.990 de envío; la cancelada no suma
	assert.True(t, st.VentasTotales.Equal(domain.CLP(16980)))
	assert.EqualValues(t, 1, st.OrdenesPorEstado[domain.EstadoCancelado])
	assert.EqualValues(t, 1, st.OrdenesPorEstado[domain.EstadoPendiente])
	assert.EqualValues(t, 0, st.OrdenesPorEstado[domain.EstadoEntregado])
	assert.EqualValues(t, 1, st.UsuariosPorTipo[domain.TipoAdmin])
	assert.EqualValues(t, 0, st.UsuariosPorTipo[domain.TipoVendedor])
	assert.Len(t, st.UltimasOrdenes, 2)
	require.Len(t, st.StockCritico, 1)
	assert.Equal(t, "JM002", st.StockCritico[0].Codigo)
}
