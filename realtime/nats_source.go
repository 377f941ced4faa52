package realtime

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"github.com/qrtable/tableside/utils"
)

// NATSSource adalah EventSource di atas NATS, untuk deployment yang push
// channel-nya lewat broker alih-alih websocket langsung. Nama event dipetakan
// ke subject <prefix>.<event>; payload message adalah data event.
type NATSSource struct {
	conn   *nats.Conn
	prefix string
}

func DialNATS(url, subjectPrefix string) (*NATSSource, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &NATSSource{conn: conn, prefix: subjectPrefix}, nil
}

func (s *NATSSource) Subscribe(event string, handler Handler) func() {
	subject := s.prefix + "." + event
	sub, err := s.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(json.RawMessage(msg.Data))
	})
	if err != nil {
		utils.ErrorLogger.Printf("Error subscribing to %s: %v", subject, err)
		return func() {}
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			utils.ErrorLogger.Printf("Error unsubscribing from %s: %v", subject, err)
		}
	}
}

func (s *NATSSource) Close() error {
	s.conn.Close()
	return nil
}
