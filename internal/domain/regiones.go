package domain

import "strings"

type Region struct {
	Nombre  string   `json:"nombre"`
	Comunas []string `json:"comunas"`
}

var regiones = []Region{
	{"Arica y Parinacota", []string{"Arica", "Camarones", "Putre", "General Lagos"}},
	{"Tarapacá", []string{"Iquique", "Alto Hospicio", "Pozo Almonte", "Pica", "Huara"}},
	{"Antofagasta", []string{"Antofagasta", "Mejillones", "Taltal", "Calama", "San Pedro de Atacama", "Tocopilla"}},
	{"Atacama", []string{"Copiapó", "Caldera", "Vallenar", "Chañaral", "Huasco"}},
	{"Coquimbo", []string{"La Serena", "Coquimbo", "Ovalle", "Illapel", "Vicuña", "Andacollo"}},
	{"Valparaíso", []string{"Valparaíso", "Viña del Mar", "Quilpué", "Villa Alemana", "San Antonio", "Quillota", "Los Andes", "San Felipe", "Concón"}},
	{"Metropolitana de Santiago", []string{"Santiago", "Providencia", "Las Condes", "Ñuñoa", "Maipú", "La Florida", "Puente Alto", "San Bernardo", "Vitacura", "Lo Barnechea", "Recoleta", "Independencia", "Estación Central", "Quilicura", "Pudahuel", "Peñalolén", "Macul", "San Miguel", "La Reina", "Cerrillos"}},
	{"Libertador General Bernardo O'Higgins", []string{"Rancagua", "Machalí", "San Fernando", "Santa Cruz", "Pichilemu", "Rengo"}},
	{"Maule", []string{"Talca", "Curicó", "Linares", "Constitución", "Cauquenes", "Molina"}},
	{"Ñuble", []string{"Chillán", "Chillán Viejo", "San Carlos", "Bulnes", "Quirihue"}},
	{"Biobío", []string{"Concepción", "Talcahuano", "San Pedro de la Paz", "Chiguayante", "Los Ángeles", "Coronel", "Lota", "Hualpén"}},
	{"La Araucanía", []string{"Temuco", "Padre Las Casas", "Villarrica", "Pucón", "Angol", "Victoria"}},
	{"Los Ríos", []string{"Valdivia", "La Unión", "Río Bueno", "Panguipulli", "Los Lagos"}},
	{"Los Lagos", []string{"Puerto Montt", "Puerto Varas", "Osorno", "Castro", "Ancud", "Frutillar"}},
	{"Aysén del General Carlos Ibáñez del Campo", []string{"Coyhaique", "Aysén", "Chile Chico", "Cochrane"}},
	{"Magallanes y de la Antártica Chilena", []string{"Punta Arenas", "Puerto Natales", "Porvenir", "Puerto Williams"}},
}

// Regiones devuelve una copia de la tabla de regiones y comunas.
func Regiones() []Region {
	out := make([]Region, len(regiones))
	for i, r := range regiones {
		out[i] = Region{Nombre: r.Nombre, Comunas: append([]string(nil), r.Comunas...)}
	}
	return out
}

func BuscarRegion(nombre string) (Region, bool) {
	n := strings.TrimSpace(nombre)
	for _, r := range regiones {
		if strings.EqualFold(r.Nombre, n) {
			return r, true
		}
	}
	return Region{}, false
}

// ComunaValida indica si la comuna pertenece a la región.
func ComunaValida(region, comuna string) bool {
	r, ok := BuscarRegion(region)
	if !ok {
		return false
	}
	c := strings.TrimSpace(comuna)
	for _, x := range r.Comunas {
		if strings.EqualFold(x, c) {
			return true
		}
	}
	return false
}
