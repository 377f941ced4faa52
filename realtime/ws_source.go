package realtime

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/qrtable/tableside/utils"
)

// WSSource adalah EventSource di atas satu koneksi websocket. Satu dial per
// instance; frame masuk berbentuk Message {event, data} dan didispatch ke
// handler sesuai nama event.
type WSSource struct {
	conn *websocket.Conn

	mu       sync.Mutex
	handlers map[string]map[int]Handler
	nextID   int
	closed   bool
}

// DialWS membuka koneksi websocket dan mulai membaca frame.
func DialWS(rawURL string) (*WSSource, error) {
	conn, _, err := websocket.DefaultDialer.Dial(rawURL, nil)
	if err != nil {
		return nil, err
	}

	source := &WSSource{
		conn:     conn,
		handlers: make(map[string]map[int]Handler),
	}
	go source.readLoop()
	return source, nil
}

func (s *WSSource) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				utils.ErrorLogger.Printf("Realtime connection closed: %v", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			utils.ErrorLogger.Printf("Error parsing realtime frame: %v", err)
			continue
		}
		s.dispatch(msg)
	}
}

func (s *WSSource) dispatch(msg Message) {
	s.mu.Lock()
	registered := make([]Handler, 0, len(s.handlers[msg.Event]))
	for _, handler := range s.handlers[msg.Event] {
		registered = append(registered, handler)
	}
	s.mu.Unlock()

	// Handler dipanggil di luar lock supaya boleh Subscribe/unsubscribe
	for _, handler := range registered {
		handler(msg.Data)
	}
}

func (s *WSSource) Subscribe(event string, handler Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.handlers[event] == nil {
		s.handlers[event] = make(map[int]Handler)
	}
	id := s.nextID
	s.nextID++
	s.handlers[event][id] = handler

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.handlers[event], id)
	}
}

// Close menutup koneksi apapun kondisinya saat itu. Aman dipanggil dua kali.
func (s *WSSource) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	return s.conn.Close()
}
