package httpserver

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var productHeaders = []string{"Código", "Nombre", "Descripción", "Categoría", "Precio", "Stock", "Stock crítico", "Imagen", "En oferta", "Descuento", "Precio final"}

var orderHeaders = []string{"Número", "Fecha", "RUN", "Nombre", "Correo", "Teléfono", "Dirección", "Región", "Comuna", "Método de pago", "Referencia", "Estado", "Subtotal", "Descuento", "Envío", "Total", "Productos"}

func newSheet(name string, headers []string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		f.Close()
		return nil, err
	}
	row := make([]any, len(headers))
	for i, h := range headers {
		row[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &row); err != nil {
		f.Close()
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(name, "A1", last, bold)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.SetColWidth(name, "A", lastCol, 18)
	return f, nil
}

func money(d decimal.Decimal) int64 { return d.Round(0).IntPart() }

// writeProductsXLSX vuelca el catálogo con los campos derivados.
func writeProductsXLSX(w io.Writer, list []domain.ProductoView) error {
	const sheet = "Productos"
	f, err := newSheet(sheet, productHeaders)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, p := range list {
		oferta := "No"
		if p.EnOferta {
			oferta = "Sí"
		}
		row := []any{p.Codigo, p.Nombre, p.Descripcion, p.Categoria, money(p.Precio), p.Stock, p.StockCritico, p.Imagen, oferta, p.Descuento, money(p.PrecioFinal)}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

func writeOrdersXLSX(w io.Writer, list []domain.Orden) error {
	const sheet = "Ordenes"
	f, err := newSheet(sheet, orderHeaders)
	if err != nil {
		return err
	}
	defer f.Close()
	for i, o := range list {
		items := make([]string, 0, len(o.Productos))
		for _, it := range o.Productos {
			items = append(items, fmt.Sprintf("%s x%d", it.Codigo, it.Cantidad))
		}
		row := []any{
			o.NumeroOrden, o.Fecha.Format("2006-01-02 15:04"), o.Run, o.Nombre, o.Correo, o.Telefono,
			o.Direccion, o.Region, o.Comuna, string(o.MetodoPago), o.PagoReferencia, string(o.EstadoEnvio),
			money(o.Subtotal), money(o.Descuento), money(o.Envio), money(o.Total), strings.Join(items, "; "),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_, err = f.WriteTo(w)
	return err
}

// readProductsXLSX lee la primera hoja. Las columnas se reconocen por el
// encabezado, con o sin tildes.
func readProductsXLSX(r io.Reader) ([]usecase.ProductInput, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) < 2 {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ReplaceAll(usecase.Slugify(h), "-", "_")] = i
	}
	if _, ok := col["codigo"]; !ok {
		return nil, validacion("archivo", "Falta la columna Código")
	}
	get := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	out := make([]usecase.ProductInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if get(row, "codigo") == "" && get(row, "nombre") == "" {
			continue
		}
		in := usecase.ProductInput{
			Codigo:      get(row, "codigo"),
			Nombre:      get(row, "nombre"),
			Descripcion: get(row, "descripcion"),
			Categoria:   get(row, "categoria"),
			Imagen:      get(row, "imagen"),
		}
		if v, ok := parsePesos(get(row, "precio")); ok {
			in.Precio = &v
		}
		if n, err := strconv.Atoi(get(row, "stock")); err == nil {
			in.Stock = &n
		}
		in.StockCritico, _ = strconv.Atoi(get(row, "stock_critico"))
		out = append(out, in)
	}
	return out, nil
}

// parsePesos acepta "12990", "12.990" o "$ 12.990".
func parsePesos(s string) (int64, bool) {
	s = strings.NewReplacer("$", "", " ", "", ".", "").Replace(s)
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	return d.Round(0).IntPart(), true
}
