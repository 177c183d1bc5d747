// Package legacy lee el volcado del almacenamiento local de la tienda antigua
// y lo carga en la base de datos.
package legacy

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Claves del almacenamiento local que se leen del volcado.
const (
	KeyProductos     = "app_productos"
	KeyUsuarios      = "app_usuarios"
	KeyOrdenes       = "app_ordenes"
	KeyOrdenesAntigo = "admin_ordenes"
	KeyOfertas       = "app_ofertas"
	KeyBlog          = "app_blog"
)

type Producto struct {
	Codigo       string `json:"codigo"`
	Nombre       string `json:"nombre"`
	Descripcion  string `json:"descripcion"`
	Categoria    string `json:"categoria"`
	Precio       Numero `json:"precio"`
	Stock        Numero `json:"stock"`
	StockCritico Numero `json:"stockCritico"`
	Imagen       string `json:"imagen"`
}

type Usuario struct {
	Run         string `json:"run"`
	Nombre      string `json:"nombre"`
	Apellidos   string `json:"apellidos"`
	Correo      string `json:"correo"`
	Telefono    string `json:"telefono"`
	Direccion   string `json:"direccion"`
	Region      string `json:"region"`
	Comuna      string `json:"comuna"`
	Tipo        string `json:"tipo"`
	Contrasenha string `json:"contrasenha"`
}

type OrdenItem struct {
	Codigo   string `json:"codigo"`
	Nombre   string `json:"nombre"`
	Cantidad Numero `json:"cantidad"`
	Precio   Numero `json:"precio"`
	Subtotal Numero `json:"subtotal"`
}

type Orden struct {
	NumeroOrden string      `json:"numeroOrden"`
	Fecha       string      `json:"fecha"`
	Run         string      `json:"run"`
	Nombre      string      `json:"nombre"`
	Correo      string      `json:"correo"`
	Telefono    string      `json:"telefono"`
	Direccion   string      `json:"direccion"`
	Region      string      `json:"region"`
	Comuna      string      `json:"comuna"`
	Subtotal    Numero      `json:"subtotal"`
	Descuento   Numero      `json:"descuento"`
	Envio       Numero      `json:"envio"`
	Total       Numero      `json:"total"`
	MetodoPago  string      `json:"metodoPago"`
	EstadoEnvio string      `json:"estadoEnvio"`
	Productos   []OrdenItem `json:"productos"`
}

type Oferta struct {
	Codigo      string `json:"codigo"`
	Descuento   Numero `json:"descuento"`
	Activa      *bool  `json:"activa"`
	FechaInicio string `json:"fechaInicio"`
	FechaFin    string `json:"fechaFin"`
}

type Post struct {
	Slug      string `json:"slug"`
	Titulo    string `json:"titulo"`
	Resumen   string `json:"resumen"`
	Contenido string `json:"contenido"`
	Imagen    string `json:"imagen"`
	Autor     string `json:"autor"`
	Fecha     string `json:"fecha"`
}

// Dump es el volcado ya decodificado. Invalidas lista las claves presentes
// que no se pudieron leer y quedaron vacías.
type Dump struct {
	Productos []Producto
	Usuarios  []Usuario
	Ordenes   []Orden
	Ofertas   []Oferta
	Blog      []Post
	Invalidas []string
}

// Parse lee un objeto JSON con las claves del almacenamiento local. Cada
// valor puede ser el arreglo o el texto que devuelve localStorage.getItem.
func Parse(r io.Reader) (*Dump, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("volcado: %w", err)
	}
	d := &Dump{}
	d.Productos = read[Producto](d, raw, KeyProductos)
	d.Usuarios = read[Usuario](d, raw, KeyUsuarios)
	// admin_ordenes va primero para que app_ordenes gane en números repetidos
	d.Ordenes = append(read[Orden](d, raw, KeyOrdenesAntigo), read[Orden](d, raw, KeyOrdenes)...)
	d.Ofertas = read[Oferta](d, raw, KeyOfertas)
	d.Blog = read[Post](d, raw, KeyBlog)
	sort.Strings(d.Invalidas)
	return d, nil
}

func read[T any](d *Dump, raw map[string]json.RawMessage, key string) []T {
	v, ok := raw[key]
	if !ok {
		return nil
	}
	var out []T
	if err := decodeValue(v, &out); err != nil {
		log.Warn().Err(err).Str("clave", key).Msg("clave ilegible, se usa vacía")
		d.Invalidas = append(d.Invalidas, key)
		return nil
	}
	return out
}

// Numero acepta números, textos numéricos, "" y null.
type Numero struct{ decimal.Decimal }

func (n *Numero) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		n.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return err
	}
	n.Decimal = d
	return nil
}

func decodeValue(v json.RawMessage, dst any) error {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return err
		}
		if s == "" || s == "null" {
			return nil
		}
		v = []byte(s)
	}
	return json.Unmarshal(v, dst)
}
