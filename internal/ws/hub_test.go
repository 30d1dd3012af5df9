package ws

import (
	"encoding/json"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/partypop/partypop/internal/model"
	"github.com/partypop/partypop/internal/testutil"
)

type HubSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubSuite(t *testing.T) {
	suite.Run(t, new(HubSuite))
}

func (s *HubSuite) SetupTest() {
	s.hub = NewHub(testutil.NopLogger())
}

func (s *HubSuite) newClient(id model.ClientID) *Client {
	c := &Client{ID: id, send: make(chan []byte, sendBufferSize)}
	s.hub.Register(c)
	return c
}

// receive decodes the next queued envelope, failing if none is waiting.
func (s *HubSuite) receive(c *Client) model.Envelope {
	select {
	case msg := <-c.send:
		var env model.Envelope
		s.Require().NoError(json.Unmarshal(msg, &env))
		return env
	default:
		s.Require().FailNow("no message queued for client " + string(c.ID))
		return model.Envelope{}
	}
}

func (s *HubSuite) TestRegisterUnregister() {
	c := s.newClient("c1")
	s.Equal(1, s.hub.ClientCount())

	s.hub.Unregister(c)
	s.Equal(0, s.hub.ClientCount())

	// The send channel closes so the write pump drains and exits.
	_, open := <-c.send
	s.False(open)
}

func (s *HubSuite) TestRoomUpdatedReachesOnlyMembers() {
	member := s.newClient("c1")
	other := s.newClient("c2")
	s.hub.JoinRoom(member.ID, "1234")

	s.hub.RoomUpdated(&model.Room{Code: "1234"})

	env := s.receive(member)
	s.Equal(model.EventGameStateUpdate, env.Type)

	var update model.GameStateUpdate
	s.Require().NoError(json.Unmarshal(env.Payload, &update))
	s.Equal(model.RoomCode("1234"), update.Room.Code)

	s.Empty(other.send)
}

func (s *HubSuite) TestSendErrorUnicast() {
	c := s.newClient("c1")

	s.hub.SendError(c.ID, model.ErrCodeRoomNotFound, "room not found")

	env := s.receive(c)
	s.Equal(model.EventError, env.Type)

	var serr model.ServerError
	s.Require().NoError(json.Unmarshal(env.Payload, &serr))
	s.Equal(model.ErrCodeRoomNotFound, serr.Code)
}

func (s *HubSuite) TestRoomClosedNotifiesAndDissolves() {
	c := s.newClient("c1")
	c.setRoom("1234", "p1")
	s.hub.JoinRoom(c.ID, "1234")

	s.hub.RoomClosed("1234", model.ServerError{Code: model.ErrCodeRoomNotFound, Message: "host left"})

	env := s.receive(c)
	s.Equal(model.EventError, env.Type)

	// Session and membership are both gone.
	code, player := c.session()
	s.Empty(code)
	s.Empty(player)

	s.hub.RoomUpdated(&model.Room{Code: "1234"})
	s.Empty(c.send)
}

func (s *HubSuite) TestLeaveRoomStopsDelivery() {
	c := s.newClient("c1")
	s.hub.JoinRoom(c.ID, "1234")
	s.hub.LeaveRoom(c.ID, "1234")

	s.hub.RoomUpdated(&model.Room{Code: "1234"})
	s.Empty(c.send)
}

func (s *HubSuite) TestMatchedJoinsAndDeliversSnapshot() {
	c := s.newClient("c1")

	s.hub.Matched(c.ID, "p1", &model.Room{Code: "1234", Origin: model.OriginRandom})

	env := s.receive(c)
	s.Equal(model.EventRoomJoined, env.Type)

	code, player := c.session()
	s.Equal(model.RoomCode("1234"), code)
	s.Equal(model.PlayerID("p1"), player)

	// The client is now in the multicast group.
	s.hub.RoomUpdated(&model.Room{Code: "1234"})
	s.Equal(model.EventGameStateUpdate, s.receive(c).Type)
}

func (s *HubSuite) TestFullBufferDropsInsteadOfBlocking() {
	c := &Client{ID: "c1", send: make(chan []byte, 1)}
	s.hub.Register(c)
	s.hub.JoinRoom(c.ID, "1234")

	// The second broadcast must not block even though the buffer is full.
	s.hub.RoomUpdated(&model.Room{Code: "1234"})
	s.hub.RoomUpdated(&model.Room{Code: "1234"})

	s.Len(c.send, 1)
}

func (s *HubSuite) TestEnqueueAfterCloseIsDropped() {
	c := s.newClient("c1")
	s.hub.Unregister(c)

	// A broadcast holding a stale client pointer must see the closed
	// connection and drop, not write to a closed channel.
	s.False(c.enqueue([]byte("late")))
}

func (s *HubSuite) TestBroadcastRacingDisconnect() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s.hub.RoomUpdated(&model.Room{Code: "1234"})
				}
			}
		}()
	}

	// Connections churn through the room while broadcasts are in flight.
	for i := 0; i < 300; i++ {
		c := &Client{ID: model.ClientID("c" + strconv.Itoa(i)), send: make(chan []byte, 1)}
		s.hub.Register(c)
		s.hub.JoinRoom(c.ID, "1234")
		s.hub.Unregister(c)
	}

	close(stop)
	wg.Wait()
	s.Equal(0, s.hub.ClientCount())
}

func (s *HubSuite) TestQueueStatusFanout() {
	c1 := s.newClient("c1")
	c2 := s.newClient("c2")

	s.hub.QueueStatus([]model.ClientID{"c1", "c2", "missing"}, model.QueueStatusPayload{Waiting: 2, Region: "DE", Language: "de"})

	for _, c := range []*Client{c1, c2} {
		env := s.receive(c)
		s.Equal(model.EventQueueStatus, env.Type)

		var status model.QueueStatusPayload
		s.Require().NoError(json.Unmarshal(env.Payload, &status))
		s.Equal(2, status.Waiting)
	}
}
