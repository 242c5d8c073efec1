package auth

import (
	"strings"
	"testing"

	"github.com/konarjg/chat-server/errors"
	"github.com/stretchr/testify/require"
)

var testParams = Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashAndCompare(t *testing.T) {
	req := require.New(t)
	password := "MyVeryStr0ngPassword!"

	hash, err := HashPassword(password, testParams)
	req.NoError(err)
	req.True(strings.HasPrefix(hash, "$argon2id$"))

	match, err := ComparePassword(password, hash)
	req.NoError(err)
	req.True(match)

	match, err = ComparePassword("WrongPassword", hash)
	req.NoError(err)
	req.False(match)
}

func TestComparePassword_RejectsMalformedHash(t *testing.T) {
	req := require.New(t)

	_, err := ComparePassword("whatever", "not-a-hash")
	req.Error(err)

	_, err = ComparePassword("whatever", "$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA")
	req.Error(err)
}

func TestRegistrationValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{"Valid request", RegisterRequest{"alice", "ComplexPass123!", "pk"}, nil},
		{"Name too short", RegisterRequest{"al", "ComplexPass123!", "pk"}, errors.ErrInvalidArgument},
		{"Name with spaces", RegisterRequest{"alice smith", "ComplexPass123!", "pk"}, errors.ErrInvalidArgument},
		{"Missing public key", RegisterRequest{"alice", "ComplexPass123!", ""}, errors.ErrInvalidArgument},
		{"Password too short", RegisterRequest{"alice", "Short1!", "pk"}, errors.ErrInvalidArgument},
		{"Missing digit", RegisterRequest{"alice", "NoDigitPassword!", "pk"}, errors.ErrInvalidPassword},
		{"Missing special char", RegisterRequest{"alice", "NoSpecialChar123", "pk"}, errors.ErrInvalidPassword},
		{"Password too long", RegisterRequest{"alice", strings.Repeat("a", 73), "pk"}, errors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateRegister(tt.req)
			if tt.wantErr == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, tt.wantErr)
		})
	}
}

func TestCreateChatValidation(t *testing.T) {
	req := require.New(t)
	key := []byte{0x01, 0x02}

	req.NoError(ValidateCreateChat(CreateChatRequest{SenderID: 1, ReceiverID: 2, SenderKey: key, ReceiverKey: key}))
	req.ErrorIs(ValidateCreateChat(CreateChatRequest{SenderID: 1, ReceiverID: 1, SenderKey: key, ReceiverKey: key}), errors.ErrSelfChat)
	req.ErrorIs(ValidateCreateChat(CreateChatRequest{SenderID: 1, ReceiverID: 2, SenderKey: key}), errors.ErrInvalidArgument)
	req.ErrorIs(ValidateCreateChat(CreateChatRequest{SenderID: 1, ReceiverID: 0, SenderKey: key, ReceiverKey: key}), errors.ErrInvalidArgument)
}

func TestSendMessageValidation(t *testing.T) {
	req := require.New(t)

	req.NoError(ValidateSendMessage(SendMessageRequest{ChatID: 1, Ciphertext: []byte("hi")}, 16))
	req.ErrorIs(ValidateSendMessage(SendMessageRequest{ChatID: 1}, 16), errors.ErrInvalidArgument)
	req.ErrorIs(ValidateSendMessage(SendMessageRequest{ChatID: 0, Ciphertext: []byte("hi")}, 16), errors.ErrInvalidArgument)
	req.ErrorIs(ValidateSendMessage(SendMessageRequest{ChatID: 1, Ciphertext: make([]byte, 17)}, 16), errors.ErrInvalidArgument)
	req.NoError(ValidateSendMessage(SendMessageRequest{ChatID: 1, Ciphertext: make([]byte, 17)}, 0))
}

func BenchmarkHashPassword(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = HashPassword("A-very-long-and-complex-password-for-bench-123!", DefaultParams)
	}
}
