package user

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already in use")
	ErrInvalidRole   = errors.New("invalid role")
)

// Role is the canonical account role.
type Role string

const (
	RoleAdministrador Role = "Administrador"
	RoleAsesor        Role = "Asesor"
	RoleBeneficiario  Role = "Beneficiario"
)

// NormalizeRole maps free-form role names to canonical tokens at write time.
func NormalizeRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "administrador", "admin":
		return RoleAdministrador, true
	case "asesor":
		return RoleAsesor, true
	case "beneficiario":
		return RoleBeneficiario, true
	}
	return "", false
}

// User is an account. Optional profile fields are pointers so absent values
// persist as NULL.
type User struct {
	ID     uint64 `gorm:"primaryKey;column:id" json:"-"`
	UserID string `gorm:"size:32;uniqueIndex:ux_users_user_id" json:"id"`

	Nombres   string `gorm:"size:60" json:"nombres"`
	Apellidos string `gorm:"size:60" json:"apellidos"`
	Username  string `gorm:"size:120;uniqueIndex:ux_users_username" json:"username"`
	Email     string `gorm:"size:120" json:"email"`
	Documento string `gorm:"size:20" json:"documento"`
	Password  string `gorm:"size:120" json:"-"`
	Celular   string `gorm:"size:20" json:"celular"`
	Rol       Role   `gorm:"size:20" json:"rol"`
	Estado    string `gorm:"size:16;default:'Activo'" json:"estado"`

	Direccion       *string `gorm:"size:160" json:"direccion"`
	Ciudad          *string `gorm:"size:60" json:"ciudad"`
	Departamento    *string `gorm:"size:60" json:"departamento"`
	Profesion       *string `gorm:"size:60" json:"profesion"`
	NivelEducativo  *string `gorm:"size:40" json:"niveleducativo"`
	FechaNacimiento *string `gorm:"size:10" json:"fechanacimiento"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
