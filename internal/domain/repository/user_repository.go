package repository

import (
	"context"

	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
)

// UserRepository define el puerto de lectura/alta de usuarios (DIP).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByPhone(ctx context.Context, phone string) (*entity.User, error)
}
