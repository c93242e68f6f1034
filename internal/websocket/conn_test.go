package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	gws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// The plan stream writes from two goroutines: the PubSub fan-out loop and
// the reader's pong replies. This drives the same shape through one
// wrapped connection; without the write lock gorilla panics with
// "concurrent write to websocket connection".
func TestConnSerializesConcurrentWriters(t *testing.T) {
	upgrader := gws.Upgrader{}
	done := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := Wrap(raw)
		defer conn.Close()

		var wg sync.WaitGroup
		for g := 0; g < 4; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					var err error
					if g%2 == 0 {
						err = conn.WriteTyped(PongResponse{Event: EventPong})
					} else {
						err = conn.WriteTyped(PlanChangedResponse{
							Event:   EventPlanChanged,
							Payload: json.RawMessage(`{"event":"day_updated"}`),
						})
					}
					if err != nil {
						t.Errorf("write: %v", err)
						return
					}
				}
			}(g)
		}
		wg.Wait()
		close(done)
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	// Drain so the server is never blocked on a full send buffer.
	go func() {
		for {
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	<-done
}

func TestWriteErrorShape(t *testing.T) {
	upgrader := gws.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		conn := Wrap(raw)
		defer conn.Close()
		if err := conn.WriteError("unknown action: fly"); err != nil {
			t.Errorf("write: %v", err)
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer client.Close()

	var got ErrorResponse
	require.NoError(t, client.ReadJSON(&got))
	require.Equal(t, EventError, got.Event)
	require.Equal(t, "unknown action: fly", got.Error)
}
