package application

import (
	"context"
	"time"

	"github.com/tdex-network/tdex-vault/internal/core/application/auth"
	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

type AuthService interface {
	VerifyInstruction(
		ctx context.Context, signer domain.Address, instruction string,
		target domain.Address, amount uint64, timestamp int64, signature []byte,
	) error
}

func NewAuthService(
	programID domain.Address, signatures domain.SignatureRepository,
	replayCacheSize int, maxAge time.Duration,
) (AuthService, error) {
	return auth.NewService(programID, signatures, replayCacheSize, maxAge)
}
