package auth

import (
	"encoding/binary"

	"github.com/tdex-network/tdex-vault/internal/core/domain"
)

const (
	InstructionInitialize = "initialize"
	InstructionDeposit    = "deposit"
	InstructionWithdraw   = "withdraw"
	InstructionSetLock    = "set_lock"
)

// InstructionMessage returns the bytes a caller signs to authorize an
// instruction: the program id, the instruction name, a zero separator, the
// target account, the amount and the unix timestamp, both little endian.
func InstructionMessage(
	programID domain.Address, instruction string, target domain.Address,
	amount uint64, timestamp int64,
) []byte {
	msg := make([]byte, 0, 2*domain.AddressLength+len(instruction)+1+16)
	msg = append(msg, programID[:]...)
	msg = append(msg, instruction...)
	msg = append(msg, 0)
	msg = append(msg, target[:]...)
	msg = binary.LittleEndian.AppendUint64(msg, amount)
	return binary.LittleEndian.AppendUint64(msg, uint64(timestamp))
}

// LockAmount is the amount signed along with the set_lock instruction, 1 to
// lock the vault and 0 to unlock it.
func LockAmount(locked bool) uint64 {
	if locked {
		return 1
	}
	return 0
}
