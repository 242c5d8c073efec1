package auth

import (
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/konarjg/chat-server/errors"
)

var validate = validator.New()

type RegisterRequest struct {
	Name      string `validate:"required,min=3,max=32,alphanum"`
	Password  string `validate:"required,min=12,max=72"`
	PublicKey string `validate:"required,max=8192"`
}

func ValidateRegister(req RegisterRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	if !isPasswordComplex(req.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

// CreateChatRequest checks shape only. Key blobs are never inspected.
type CreateChatRequest struct {
	SenderID    int64  `validate:"gt=0"`
	ReceiverID  int64  `validate:"gt=0,nefield=SenderID"`
	SenderKey   []byte `validate:"required,min=1,max=4096"`
	ReceiverKey []byte `validate:"required,min=1,max=4096"`
}

func ValidateCreateChat(req CreateChatRequest) error {
	if err := validate.Struct(req); err != nil {
		if req.SenderID != 0 && req.SenderID == req.ReceiverID {
			return errors.ErrSelfChat
		}
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	return nil
}

type SendMessageRequest struct {
	ChatID     int64  `validate:"gt=0"`
	Ciphertext []byte `validate:"required,min=1"`
}

// ValidateSendMessage rejects empty or oversized ciphertext. maxBytes <= 0 disables the size check.
func ValidateSendMessage(req SendMessageRequest, maxBytes int) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidArgument, err)
	}
	if maxBytes > 0 && len(req.Ciphertext) > maxBytes {
		return fmt.Errorf("%w: ciphertext exceeds %d bytes", errors.ErrInvalidArgument, maxBytes)
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
