// Package mapper converts between domain values and their RPC representation.
package mapper

import (
	"github.com/konarjg/chat-server/domain"
	pb "github.com/konarjg/chat-server/proto/chat"
	"github.com/samber/lo"
)

func ToPbUser(user domain.User) *pb.User {
	return &pb.User{
		Id:        int64(user.ID),
		Name:      user.Name,
		PublicKey: user.PublicKey,
	}
}

func ToPbUsers(users []domain.User) []*pb.User {
	return lo.Map(users, func(u domain.User, _ int) *pb.User { return ToPbUser(u) })
}

func ToPbChat(chat domain.Chat) *pb.Chat {
	return &pb.Chat{
		Id:                      int64(chat.ID),
		SenderId:                int64(chat.SenderID),
		ReceiverId:              int64(chat.ReceiverID),
		SenderEncryptedAesKey:   chat.SenderKey,
		ReceiverEncryptedAesKey: chat.ReceiverKey,
	}
}

func ToPbChats(chats []domain.Chat) []*pb.Chat {
	return lo.Map(chats, func(c domain.Chat, _ int) *pb.Chat { return ToPbChat(c) })
}

func ToPbMessage(message domain.Message) *pb.Message {
	return &pb.Message{
		Id:                  message.ID.String(),
		ChatId:              int64(message.ChatID),
		SenderId:            int64(message.SenderID),
		AesEncryptedContent: message.Ciphertext,
		SequenceNo:          message.Sequence,
		SentAt:              message.At,
	}
}

func ToPbMessages(messages []domain.Message) []*pb.Message {
	return lo.Map(messages, func(m domain.Message, _ int) *pb.Message { return ToPbMessage(m) })
}

// ToPage reads the optional exclusive cursor of a paged request.
func ToPage(pageSize int32, lastID *int64) domain.Page {
	return domain.Page{Size: int(pageSize), LastID: lastID}
}

func NewMessageEvent(message domain.Message) *pb.ServerToClientMessage {
	return &pb.ServerToClientMessage{NewMessage: ToPbMessage(message)}
}
