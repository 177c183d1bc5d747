package domain

import "time"

type BlogPost struct {
	Slug        string    `gorm:"primaryKey;size:140" json:"slug"`
	Titulo      string    `gorm:"size:180;not null" json:"titulo"`
	Resumen     string    `gorm:"size:500" json:"resumen"`
	Contenido   string    `gorm:"type:text" json:"contenido"`
	Imagen      string    `gorm:"size:255" json:"imagen,omitempty"`
	Autor       string    `gorm:"size:100" json:"autor"`
	PublicadoEn time.Time `gorm:"index" json:"publicado_en"`
}

func (BlogPost) TableName() string { return "blog_posts" }
