package auth

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/skyefoods/skye-ledger/internal/application/dto"
	"github.com/skyefoods/skye-ledger/internal/domain"
	"github.com/skyefoods/skye-ledger/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Operator credenciales del operador único del sistema: el negocio es una
// sola persona, no hay tabla de usuarios. El hash bcrypt viene de la
// configuración.
type Operator struct {
	Email        string
	PasswordHash string
}

// UseCase caso de uso de autenticación: login del operador.
type UseCase struct {
	operator Operator
	jwtCfg   JWTConfig
}

// New construye el caso de uso de auth.
func New(operator Operator, jwtCfg JWTConfig) *UseCase {
	return &UseCase{operator: operator, jwtCfg: jwtCfg}
}

// Login compara credenciales contra el operador configurado y emite el
// token. Email desconocido y password errado devuelven el mismo error.
func (uc *UseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	if uc.operator.Email == "" || uc.operator.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if in.Email != uc.operator.Email {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(uc.operator.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	const role = "admin"
	token, err := jwt.Generate(uc.jwtCfg.Secret, in.Email, role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Email: in.Email, Role: role}, nil
}
