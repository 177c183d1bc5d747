package domain

import (
	"strings"
	"time"
)

type TipoUsuario string

const (
	TipoCliente  TipoUsuario = "Cliente"
	TipoVendedor TipoUsuario = "Vendedor"
	TipoAdmin    TipoUsuario = "Admin"
)

func (t TipoUsuario) Valido() bool {
	switch t {
	case TipoCliente, TipoVendedor, TipoAdmin:
		return true
	}
	return false
}

type Usuario struct {
	Run             string      `gorm:"primaryKey;size:12" json:"run"`
	Nombre          string      `gorm:"size:50;not null" json:"nombre"`
	Apellidos       string      `gorm:"size:100;not null" json:"apellidos"`
	Correo          string      `gorm:"size:100;uniqueIndex;not null" json:"correo"`
	Telefono        string      `gorm:"size:20" json:"telefono,omitempty"`
	Direccion       string      `gorm:"size:300" json:"direccion"`
	Region          string      `gorm:"size:80" json:"region"`
	Comuna          string      `gorm:"size:80" json:"comuna"`
	Tipo            TipoUsuario `gorm:"type:varchar(10);not null;default:'Cliente';index" json:"tipo"`
	ContrasenhaHash string      `gorm:"size:100;not null" json:"-"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (Usuario) TableName() string { return "usuarios" }

func (u *Usuario) NombreCompleto() string {
	return strings.TrimSpace(u.Nombre + " " + u.Apellidos)
}
