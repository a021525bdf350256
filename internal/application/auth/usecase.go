package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Tiquetes-api/internal/application/dto"
	"github.com/jhoicas/Tiquetes-api/internal/domain"
	"github.com/jhoicas/Tiquetes-api/internal/domain/entity"
	"github.com/jhoicas/Tiquetes-api/internal/domain/repository"
	"github.com/jhoicas/Tiquetes-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase registro de clientes y login por teléfono.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterClient crea un cliente: hashea el password con bcrypt y persiste.
// Devuelve domain.ErrConflict si el teléfono ya está registrado.
func (uc *AuthUseCase) RegisterClient(ctx context.Context, in dto.RegisterClientRequest) (*dto.LoginResponse, error) {
	user, err := uc.createUser(ctx, in.Phone, in.Password, &entity.User{
		Role:           entity.RoleClient,
		PassportSeries: strings.TrimSpace(in.PassportSeries),
		PassportNumber: strings.TrimSpace(in.PassportNumber),
	})
	if err != nil {
		return nil, err
	}
	return uc.issue(user)
}

// RegisterCashier da de alta un cajero con su número de organización. Solo admin;
// no emite token: el cajero inicia sesión por su cuenta.
func (uc *AuthUseCase) RegisterCashier(ctx context.Context, actor entity.Actor, in dto.RegisterCashierRequest) (*dto.UserResponse, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	org := strings.TrimSpace(in.OrganizationNumber)
	if org == "" {
		return nil, domain.NewValidationError("organization_number", "el número de organización es obligatorio")
	}
	user, err := uc.createUser(ctx, in.Phone, in.Password, &entity.User{
		Role:               entity.RoleCashier,
		PassportSeries:     strings.TrimSpace(in.PassportSeries),
		PassportNumber:     strings.TrimSpace(in.PassportNumber),
		OrganizationNumber: org,
	})
	if err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// createUser completa user con ID, teléfono y hash y lo persiste.
func (uc *AuthUseCase) createUser(ctx context.Context, phone, password string, user *entity.User) (*entity.User, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" || password == "" {
		return nil, domain.NewValidationError("phone", "teléfono y password son obligatorios")
	}
	existing, err := uc.userRepo.GetByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.ID = uuid.New().String()
	user.Phone = phone
	user.PasswordHash = string(hash)
	user.CreatedAt = time.Now()
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifica teléfono/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByPhone(ctx, strings.TrimSpace(in.Phone))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.issue(user)
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *toUserResponse(user),
	}, nil
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:                 u.ID,
		Phone:              u.Phone,
		Role:               u.Role,
		PassportSeries:     u.PassportSeries,
		PassportNumber:     u.PassportNumber,
		OrganizationNumber: u.OrganizationNumber,
		CreatedAt:          u.CreatedAt,
	}
}
