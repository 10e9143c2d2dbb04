package asm

import (
	"errors"
	"strconv"

	"github.com/nibble-vm/nibble/pkg/utils"
)

// ParseValue resolves an operand token to its numeric value:
//
//   - a token starting with 'b' where some 'b' or 'B' is followed by a digit is a binary
//     literal, read from its third character on ("b0101" is 5)
//   - a non-negative decimal number that fits in 16 bits is itself
//   - a single letter is a register index, 'a' (or 'A') being 0 and 'z' 25
//
// Anything else is ErrInvalidOperand.
func ParseValue(token string) (uint16, error) {
	if isBinaryLiteral(token) {
		value, err := strconv.ParseUint(token[2:], 2, 16)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) {
				err = numErr.Err
			}
			return 0, utils.MakeError(ErrInvalidBinary, "%v", err)
		}
		return uint16(value), nil
	}

	if value, err := strconv.ParseUint(token, 10, 16); err == nil {
		return uint16(value), nil
	}

	if len(token) == 1 {
		switch c := token[0]; {
		case c >= 'a' && c <= 'z':
			return uint16(c - 'a'), nil
		case c >= 'A' && c <= 'Z':
			return uint16(c - 'A'), nil
		}
	}

	return 0, ErrInvalidOperand
}

func isBinaryLiteral(token string) bool {
	if len(token) == 0 || token[0] != 'b' {
		return false
	}

	for i := 0; i+1 < len(token); i++ {
		if (token[i] == 'b' || token[i] == 'B') && isDigit(token[i+1]) {
			return true
		}
	}
	return false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
