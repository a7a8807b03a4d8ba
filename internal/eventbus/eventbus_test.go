package eventbus

import (
	"context"
	"testing"
)

type ping struct{ n int }
type pong struct{ n int }

func TestSubscribePublish(t *testing.T) {
	Use(New())
	defer Use(nil)

	var pings, pongs []int
	unsub := Subscribe(func(_ context.Context, e ping) { pings = append(pings, e.n) })
	defer unsub()
	defer Subscribe(func(_ context.Context, e pong) { pongs = append(pongs, e.n) })()

	ctx := context.Background()
	Publish(ctx, ping{1})
	Publish(ctx, pong{2})
	Publish(ctx, ping{3})

	if len(pings) != 2 || pings[0] != 1 || pings[1] != 3 {
		t.Fatalf("ping handler saw %v", pings)
	}
	if len(pongs) != 1 || pongs[0] != 2 {
		t.Fatalf("pong handler saw %v", pongs)
	}
}

func TestUnsubscribe(t *testing.T) {
	Use(New())
	defer Use(nil)

	var count int
	unsub := Subscribe(func(context.Context, ping) { count++ })

	Publish(context.Background(), ping{})
	unsub()
	Publish(context.Background(), ping{})

	if count != 1 {
		t.Fatalf("expected one delivery, got %d", count)
	}
}

func TestDisabledBus(t *testing.T) {
	Use(nil)
	// Publishing with no bus installed is a no-op.
	Publish(context.Background(), ping{})
	Subscribe(func(context.Context, ping) { t.Fatal("handler should never register") })
	Publish(context.Background(), ping{})
}
