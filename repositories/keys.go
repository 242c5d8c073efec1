package repositories

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/konarjg/chat-server/errors"
)

// Keyspace. Numeric parts are zero padded to 20 digits so that lexicographic
// order matches numeric order.
//
//	user:id:{user}            -> storage.User
//	user:name:{name}          -> user id (decimal)
//	chat:{chat}               -> storage.Chat
//	member:{user}:{chat}      -> empty
//	msg:{chat}:{seq}          -> storage.Message
//	cursor:{user}:{chat}      -> delivered sequence (decimal)
//	refresh:{token}           -> storage.RefreshToken
//	seq:{name}                -> badger sequence lease
const (
	userIDPrefix   = "user:id:"
	userNamePrefix = "user:name:"
	chatPrefix     = "chat:"
	memberPrefix   = "member:"
	messagePrefix  = "msg:"
	cursorPrefix   = "cursor:"
	refreshPrefix  = "refresh:"

	// maxPadded sorts after every padded id.
	maxPadded = "99999999999999999999"

	sequenceBandwidth = 100
)

func pad(v uint64) string { return fmt.Sprintf("%020d", v) }

func userKey(id int64) []byte { return []byte(userIDPrefix + pad(uint64(id))) }

func userNameKey(name string) []byte { return []byte(userNamePrefix + name) }

func chatKey(id int64) []byte { return []byte(chatPrefix + pad(uint64(id))) }

func memberPrefixOf(user int64) []byte { return []byte(memberPrefix + pad(uint64(user)) + ":") }

func memberKey(user, chat int64) []byte {
	return append(memberPrefixOf(user), pad(uint64(chat))...)
}

func messagePrefixOf(chat int64) []byte { return []byte(messagePrefix + pad(uint64(chat)) + ":") }

func messageKey(chat int64, seq uint64) []byte {
	return append(messagePrefixOf(chat), pad(seq)...)
}

func cursorPrefixOf(user int64) []byte { return []byte(cursorPrefix + pad(uint64(user)) + ":") }

func cursorKey(user, chat int64) []byte {
	return append(cursorPrefixOf(user), pad(uint64(chat))...)
}

func refreshKey(token string) []byte { return []byte(refreshPrefix + token) }

// suffixID parses the padded number following prefix in key.
func suffixID(key, prefix []byte) (uint64, error) {
	return strconv.ParseUint(strings.TrimPrefix(string(key), string(prefix)), 10, 64)
}

// seekBefore returns the reverse-iteration seek key for an exclusive cursor.
// ok is false when nothing can precede the cursor.
func seekBefore(prefix []byte, lastID *int64) ([]byte, bool) {
	seek := append([]byte{}, prefix...)
	if lastID == nil {
		return append(seek, maxPadded...), true
	}
	if *lastID <= 1 {
		return nil, false
	}
	return append(seek, pad(uint64(*lastID-1))...), true
}

// storageErr marks transient Badger failures as ErrUnavailable so callers can retry them.
func storageErr(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, badger.ErrConflict),
		stderrors.Is(err, badger.ErrBlockedWrites),
		stderrors.Is(err, badger.ErrTxnTooBig):
		return fmt.Errorf("%w: %v", errors.ErrUnavailable, err)
	}
	return err
}
