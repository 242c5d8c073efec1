package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/konarjg/chat-server/domain"
	"github.com/konarjg/chat-server/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// inspect dumps users, chats and the tail of every chat log as tables.
// The server must be stopped: Badger holds an exclusive directory lock.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	limit := flag.Int("limit", 20, "Messages shown per chat")
	pageSize := flag.Int("users", 1000, "Maximum number of users listed")
	flag.Parse()

	db, err := badger.Open(badger.DefaultOptions(*dbPath).WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	if err := dump(db, *pageSize, *limit); err != nil {
		log.Fatal(err)
	}
}

func dump(db *badger.DB, pageSize, limit int) error {
	users, err := repositories.NewUserRepository(db)
	if err != nil {
		return err
	}
	defer users.Close()
	chats, err := repositories.NewChatRepository(db)
	if err != nil {
		return err
	}
	defer chats.Close()
	messages := repositories.NewMessageRepository(db, slog.New(slog.DiscardHandler))

	all, err := users.ListUsers(domain.Page{Size: pageSize})
	if err != nil {
		return err
	}
	userTable := newTable("ID", "Name", "Public key", "Created")
	for _, u := range all {
		userTable.Append([]string{id(int64(u.ID)), u.Name, abbreviate(u.PublicKey, 24), u.CreatedAt.Format("2006-01-02 15:04:05")})
	}
	fmt.Printf("USERS (%d)\n", len(all))
	userTable.Render()

	var known []domain.Chat
	for _, u := range all {
		of, err := chats.ChatsOf(u.ID)
		if err != nil {
			return err
		}
		known = append(known, of...)
	}
	known = lo.UniqBy(known, func(c domain.Chat) domain.ChatID { return c.ID })

	chatTable := newTable("ID", "Sender", "Receiver", "Key sizes", "Created")
	messageTable := newTable("Chat", "Seq", "Sender", "Message ID", "Bytes", "At")
	for _, c := range known {
		chatTable.Append([]string{
			id(int64(c.ID)), id(int64(c.SenderID)), id(int64(c.ReceiverID)),
			fmt.Sprintf("%d/%d", len(c.SenderKey), len(c.ReceiverKey)),
			c.CreatedAt.Format("2006-01-02 15:04:05"),
		})
		tail, err := messages.History(c.ID, domain.Page{Size: limit})
		if err != nil {
			return err
		}
		// History is newest first
		for i := len(tail) - 1; i >= 0; i-- {
			m := tail[i]
			messageTable.Append([]string{
				id(int64(m.ChatID)), strconv.FormatUint(m.Sequence, 10), id(int64(m.SenderID)),
				m.ID.String(), strconv.Itoa(len(m.Ciphertext)), m.At.Format("2006-01-02 15:04:05.000"),
			})
		}
	}
	fmt.Printf("\nCHATS (%d)\n", len(known))
	chatTable.Render()
	fmt.Printf("\nMESSAGES (last %d per chat, ciphertext not shown)\n", limit)
	messageTable.Render()
	return nil
}

func newTable(header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	return table
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
