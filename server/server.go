package server

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/hdt3213/godis/lib/logger"
	"github.com/hdt3213/godis/lib/sync/atomic"

	"github.com/ibrahmsql/hexagondb/connection"
	database2 "github.com/ibrahmsql/hexagondb/database"
	"github.com/ibrahmsql/hexagondb/interface/database"
	"github.com/ibrahmsql/hexagondb/parser"
	"github.com/ibrahmsql/hexagondb/protocol"
	"github.com/ibrahmsql/hexagondb/session"
)

// Handler parses the line protocol on each client connection and
// dispatches complete commands to the database.
type Handler struct {
	activeConn sync.Map // *connection.Connection -> placeholder
	db         database.DB
	status     *database2.Status
	closing    atomic.Boolean // refusing new client and new request
}

func MakeHandler() (*Handler, error) {
	srv, err := database2.NewStandaloneServer()
	if err != nil {
		return nil, err
	}
	return &Handler{db: srv, status: srv.Status()}, nil
}

func (h *Handler) closeClient(client *connection.Connection) {
	_ = client.Close()
	h.db.AfterClientClose(client)
	h.activeConn.Delete(client)
	h.status.ConnClosed()
}

func (h *Handler) Handle(ctx context.Context, conn net.Conn) {
	if h.closing.Get() {
		// closing handler refuse new connection
		_ = conn.Close()
		return
	}
	client := connection.NewConn(conn)
	h.activeConn.Store(client, struct{}{}) // remember alive connection
	h.status.ConnOpened()

	// each connection authenticates independently
	sess := session.New(h.db.RequiresAuth())

	ch := parser.ParseStream(conn)
	for payload := range ch {
		if payload.Err != nil {
			if payload.Err == io.EOF ||
				errors.Is(payload.Err, io.ErrUnexpectedEOF) ||
				strings.Contains(payload.Err.Error(), "use of closed network connection") {
				h.closeClient(client)
				logger.Info("connection closed: " + client.RemoteAddr())
				return
			}
			// malformed line, report and keep the connection
			errReply := protocol.MakeErrReply("ERR " + payload.Err.Error())
			if _, err := client.Write(errReply.ToBytes()); err != nil {
				h.closeClient(client)
				logger.Info("connection closed: " + client.RemoteAddr())
				return
			}
			continue
		}
		if len(payload.Args) == 0 {
			continue
		}
		result := h.db.Exec(sess, payload.Args)
		if result != nil {
			_, _ = client.Write(result.ToBytes())
		} else {
			_, _ = client.Write(protocol.MakeErrReply("ERR unknown").ToBytes())
		}
		// three failed AUTH attempts lock the session for good
		if sess.Locked() {
			logger.Warn("closing locked connection: " + client.RemoteAddr())
			h.closeClient(client)
			return
		}
	}
	h.closeClient(client)
}

func (h *Handler) Close() error {
	logger.Info("handler shutting down...")
	h.closing.Set(true)
	h.activeConn.Range(func(key, value interface{}) bool {
		client := key.(*connection.Connection)
		_ = client.Close()
		return true
	})
	return h.db.Close()
}
