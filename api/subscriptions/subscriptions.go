// Copyright (c) 2025 The sgnlabs DPoS developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/sgnlabs/dpos/api/utils"
	"github.com/sgnlabs/dpos/log"
	"github.com/sgnlabs/dpos/metrics"
	"github.com/sgnlabs/dpos/solo"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	host           *solo.Solo
	backtraceLimit uint32
	upgrader       *websocket.Upgrader
	done           chan struct{}
	wg             sync.WaitGroup
}

type msgReader interface {
	Read() (msgs []any, hasMore bool, err error)
}

func New(host *solo.Solo, allowedOrigins []string, backtraceLimit uint32) *Subscriptions {
	return &Subscriptions{
		host:           host,
		backtraceLimit: backtraceLimit,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

// parsePosition resolves the block to start reading from. It defaults to the next block.
func (s *Subscriptions) parsePosition(posStr string) (uint32, error) {
	next := s.host.Head() + 1
	if posStr == "" {
		return next, nil
	}
	pos, err := strconv.ParseUint(posStr, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "pos"))
	}
	if uint32(pos) > next {
		return 0, utils.BadRequest(errors.New("pos: block beyond the next one"))
	}
	if next-uint32(pos) > s.backtraceLimit {
		return 0, utils.Forbidden(errors.New("pos: backtrace limit exceeded"))
	}
	return uint32(pos), nil
}

func (s *Subscriptions) handleEventReader(req *http.Request) (*eventReader, error) {
	position, err := s.parsePosition(req.URL.Query().Get("pos"))
	if err != nil {
		return nil, err
	}
	filter := &EventFilter{Name: req.URL.Query().Get("name")}
	return newEventReader(s.host, position, filter), nil
}

func (s *Subscriptions) handleSubject(w http.ResponseWriter, req *http.Request) error {
	s.wg.Add(1)
	defer s.wg.Done()

	var (
		reader msgReader
		err    error
	)
	subject := mux.Vars(req)["subject"]
	switch subject {
	case "events":
		if reader, err = s.handleEventReader(req); err != nil {
			return err
		}
	default:
		return utils.HTTPError(errors.New("not found"), http.StatusNotFound)
	}

	conn, closed, err := s.setupConn(w, req)
	// since the conn is hijacked here, no error should be returned in lines below
	if err != nil {
		logger.Debug("upgrade to websocket", "err", err)
		return nil
	}

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": subject})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": subject})

	err = s.pipe(conn, reader, closed)
	s.closeConn(conn, err)
	return nil
}

func (s *Subscriptions) setupConn(w http.ResponseWriter, req *http.Request) (*websocket.Conn, chan struct{}, error) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		return nil, nil, err
	}

	closed := make(chan struct{})
	// start read loop to handle close event
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(closed)

		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				logger.Debug("websocket read", "err", err)
				return
			}
		}
	}()
	return conn, closed, nil
}

func (s *Subscriptions) closeConn(conn *websocket.Conn, err error) {
	var closeMsg []byte
	if err != nil {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
	} else {
		closeMsg = websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	}

	if err := conn.WriteMessage(websocket.CloseMessage, closeMsg); err != nil {
		logger.Debug("write close message", "err", err)
	}
	if err := conn.Close(); err != nil {
		logger.Debug("close websocket", "err", err)
	}
}

func (s *Subscriptions) pipe(conn *websocket.Conn, reader msgReader, closed chan struct{}) error {
	ticker := s.host.NewTicker()
	pingTicker := time.NewTicker(pingPeriod)
	defer pingTicker.Stop()

	for {
		msgs, hasMore, err := reader.Read()
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return err
			}
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if hasMore {
			continue
		}

		select {
		case <-s.done:
			return errors.New("service shutdown")
		case <-closed:
			return nil
		case <-ticker.C():
		case <-pingTicker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		}
	}
}

// Close stops every subscription and waits for the hijacked connections to be released.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{subject}").
		Methods(http.MethodGet).
		Name("subscriptions_subject").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubject))
}
