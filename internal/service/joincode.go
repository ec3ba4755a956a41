package service

import (
	"context"
	"crypto/rand"
	"fmt"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 8
)

// maxCodeAttempts bounds the collision-retry loop; with 36^8 codes a single
// retry is already rare.
const maxCodeAttempts = 10

func generateJoinCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate join code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}

// uniqueJoinCode generates codes until one is unused. The unique index on
// the code column remains the backstop for a concurrent insert.
func (s *Service) uniqueJoinCode(ctx context.Context) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := generateJoinCode()
		if err != nil {
			return "", err
		}
		exists, err := s.store.OrgCodeExists(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not find a free join code after %d attempts", maxCodeAttempts)
}
