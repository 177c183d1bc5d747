package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/phenrril/junimo/internal/domain"
	"github.com/phenrril/junimo/internal/validate"
)

const AutorPorDefecto = "Equipo Junimo"

type BlogUC struct {
	Posts domain.BlogRepo
	Now   func() time.Time
}

type BlogInput struct {
	Titulo    string `json:"titulo" validate:"required,max=180"`
	Resumen   string `json:"resumen" validate:"max=500"`
	Contenido string `json:"contenido" validate:"required"`
	Imagen    string `json:"imagen" validate:"max=255"`
	Autor     string `json:"autor" validate:"max=100"`
}

// Slugify pasa "Cómo cuidar tu huerto" a "como-cuidar-tu-huerto".
func Slugify(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	var b strings.Builder
	guion := false
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			guion = false
		case b.Len() > 0 && !guion:
			b.WriteByte('-')
			guion = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 120 {
		out = strings.TrimSuffix(out[:120], "-")
	}
	return out
}

func (uc *BlogUC) List(ctx context.Context) ([]domain.BlogPost, error) {
	return uc.Posts.List(ctx)
}

func (uc *BlogUC) Get(ctx context.Context, slug string) (*domain.BlogPost, error) {
	return uc.Posts.FindBySlug(ctx, strings.TrimSpace(slug))
}

// Create arma el slug desde el título y le agrega -2, -3... si ya existe.
func (uc *BlogUC) Create(ctx context.Context, in BlogInput) (*domain.BlogPost, error) {
	in.Titulo = strings.TrimSpace(in.Titulo)
	in.Resumen = strings.TrimSpace(in.Resumen)
	in.Autor = strings.TrimSpace(in.Autor)
	if err := validate.Struct(validador, in); err != nil {
		return nil, err
	}
	base := Slugify(in.Titulo)
	if base == "" {
		return nil, domain.NewValidationError(map[string]string{"titulo": "El título debe tener letras o números"})
	}
	slug := base
	for i := 2; ; i++ {
		_, err := uc.Posts.FindBySlug(ctx, slug)
		if errors.Is(err, domain.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		slug = base + "-" + strconv.Itoa(i)
	}
	if in.Autor == "" {
		in.Autor = AutorPorDefecto
	}
	p := &domain.BlogPost{
		Slug:        slug,
		Titulo:      in.Titulo,
		Resumen:     in.Resumen,
		Contenido:   in.Contenido,
		Imagen:      strings.TrimSpace(in.Imagen),
		Autor:       in.Autor,
		PublicadoEn: clock(uc.Now),
	}
	if err := uc.Posts.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *BlogUC) Delete(ctx context.Context, slug string) error {
	return uc.Posts.Delete(ctx, strings.TrimSpace(slug))
}
