package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente owns comandas and, optionally, one conta mensal.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nome      string    `gorm:"index;not null"`
	Telefone  *string
	Email     *string
	Ativo     bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
