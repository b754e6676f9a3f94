package realtime

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testClient(businessId string, branchId int, userId int) *Client {
	return &Client{
		send:       make(chan []byte, 4),
		businessId: businessId,
		branchId:   branchId,
		userId:     userId,
	}
}

func receivedEvent(t *testing.T, c *Client) *Envelope {
	t.Helper()
	select {
	case data := <-c.send:
		var envelope Envelope
		require.NoError(t, json.Unmarshal(data, &envelope))
		return &envelope
	default:
		return nil
	}
}

func TestHubFanOut_BranchFilter(t *testing.T) {
	hub := NewHub(nil)

	branchOne := testClient("biz-1", 1, 10)
	branchTwo := testClient("biz-1", 2, 11)
	allBranches := testClient("biz-1", 0, 12)
	otherBusiness := testClient("biz-2", 1, 13)
	for _, c := range []*Client{branchOne, branchTwo, allBranches, otherBusiness} {
		hub.addClient(c)
	}

	hub.fanOut(NewEnvelope(EventStockChanged, "biz-1", 1, map[string]int{"product_id": 5}))

	got := receivedEvent(t, branchOne)
	require.NotNil(t, got)
	require.Equal(t, EventStockChanged, got.Event)
	require.Nil(t, receivedEvent(t, branchTwo))
	require.NotNil(t, receivedEvent(t, allBranches))
	require.Nil(t, receivedEvent(t, otherBusiness))
}

func TestHubFanOut_BusinessWideEvent(t *testing.T) {
	hub := NewHub(nil)

	branchOne := testClient("biz-1", 1, 10)
	branchTwo := testClient("biz-1", 2, 11)
	hub.addClient(branchOne)
	hub.addClient(branchTwo)

	// branch 0 means every branch sees it
	hub.fanOut(NewEnvelope(EventSaleCreated, "biz-1", 0, nil))

	require.NotNil(t, receivedEvent(t, branchOne))
	require.NotNil(t, receivedEvent(t, branchTwo))
}

type testMessage struct {
	RecipientId int `json:"recipient_id"`
}

func (m testMessage) GetRecipientId() int { return m.RecipientId }

func TestHubFanOut_MessageOnlyToRecipient(t *testing.T) {
	hub := NewHub(nil)

	recipient := testClient("biz-1", 1, 20)
	bystander := testClient("biz-1", 1, 21)
	hub.addClient(recipient)
	hub.addClient(bystander)

	hub.fanOut(NewEnvelope(EventMessageCreated, "biz-1", 0, testMessage{RecipientId: 20}))

	require.NotNil(t, receivedEvent(t, recipient))
	require.Nil(t, receivedEvent(t, bystander))
}

func TestHubRemoveClient_ClosesSend(t *testing.T) {
	hub := NewHub(nil)
	client := testClient("biz-1", 1, 10)
	hub.addClient(client)
	require.Equal(t, 1, hub.ConnectionCount("biz-1"))

	hub.removeClient(client)
	require.Equal(t, 0, hub.ConnectionCount("biz-1"))

	_, open := <-client.send
	require.False(t, open)
}

func TestNewClientAfterClose(t *testing.T) {
	hub := NewHub(nil)
	hub.Close()

	registered := make(chan *Client, 1)
	go func() {
		registered <- NewClient(hub, nil, "biz-1", 1, 1)
	}()

	select {
	case client := <-registered:
		require.Nil(t, client, "registering against a closed hub must not produce a client")
	case <-time.After(time.Second):
		t.Fatal("NewClient blocked on a closed hub")
	}
}
