package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func runNATSServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)
	go ns.Start()
	if !ns.ReadyForConnections(5 * time.Second) {
		t.Fatal("nats server not ready")
	}
	t.Cleanup(func() {
		ns.Shutdown()
		ns.WaitForShutdown()
	})
	return ns
}

func TestConnectWithoutURLIsNoop(t *testing.T) {
	pub, err := Connect(" ")
	require.NoError(t, err)
	require.IsType(t, Noop{}, pub)
	require.NoError(t, pub.Publish(context.Background(), Change{Action: ActionDeleted, VehicleID: 1}))
	require.NoError(t, pub.Close())
}

func TestNATSPublisherDeliversChange(t *testing.T) {
	ns := runNATSServer(t)

	sub, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer sub.Close()
	msgs := make(chan *nats.Msg, 1)
	subscription, err := sub.ChanSubscribe(SubjectPrefix+">", msgs)
	require.NoError(t, err)
	defer subscription.Unsubscribe()
	require.NoError(t, sub.Flush())

	pub, err := Connect(ns.ClientURL())
	require.NoError(t, err)

	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	require.NoError(t, pub.Publish(context.Background(), Change{Action: ActionDeleted, VehicleID: 7, At: at}))
	require.NoError(t, pub.Close())

	select {
	case msg := <-msgs:
		require.Equal(t, "autofix.vehicles.deleted", msg.Subject)
		var got Change
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		require.Equal(t, Change{Action: ActionDeleted, VehicleID: 7, At: at}, got)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestNATSPublisherRespectsCancelledContext(t *testing.T) {
	ns := runNATSServer(t)

	pub, err := Connect(ns.ClientURL())
	require.NoError(t, err)
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, pub.Publish(ctx, Change{Action: ActionCreated, VehicleID: 1}), context.Canceled)
}

func TestConnectFailsForUnreachableServer(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1")
	require.Error(t, err)
}
