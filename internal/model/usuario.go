package model

import (
	"time"

	"github.com/google/uuid"
)

// Papel values. Admin is the only role allowed to remove payments.
const (
	PapelGarcom  = "garcom"
	PapelGerente = "gerente"
	PapelAdmin   = "admin"
)

// Usuario stores staff accounts with role-based access.
type Usuario struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"uniqueIndex;not null"`
	Nome         string    `gorm:"not null"`
	Email        *string
	PasswordHash string `gorm:"not null"`
	Papel        string `gorm:"type:varchar(20);not null"`
	Ativo        bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
