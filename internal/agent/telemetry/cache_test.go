package telemetry

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	flightlinkv1 "github.com/aerolink-io/aerolink/api/flightlink/v1"
	mqtttopic "github.com/aerolink-io/aerolink/pkg/mqtt/topic"
)

func TestCacheDefault(t *testing.T) {
	c := NewCache()

	got := c.Current()
	if got.Connected {
		t.Error("fresh cache reports connected")
	}
	if got.Armed {
		t.Error("fresh cache reports armed")
	}
	if got.Mode != flightlinkv1.ModeUnknown {
		t.Errorf("fresh cache mode = %q, want %q", got.Mode, flightlinkv1.ModeUnknown)
	}
}

func TestCacheReplacesWholeRecord(t *testing.T) {
	c := NewCache()

	c.OnUpdate(flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"})
	c.OnUpdate(flightlinkv1.VehicleStatus{Connected: true, Armed: false, Mode: "POSCTL"})

	got := c.Current()
	if got.Armed || got.Mode != "POSCTL" {
		t.Errorf("cache did not reflect latest update: %+v", got)
	}
}

func TestCacheConcurrentReadersNeverSeeTorn(t *testing.T) {
	c := NewCache()

	// Writers alternate between two internally-consistent records; a torn
	// read would mix fields across them.
	a := flightlinkv1.VehicleStatus{Connected: true, Armed: true, Mode: "OFFBOARD"}
	b := flightlinkv1.VehicleStatus{Connected: false, Armed: false, Mode: flightlinkv1.ModeUnknown}

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-stop:
				return
			default:
			}
			if i%2 == 0 {
				c.OnUpdate(a)
			} else {
				c.OnUpdate(b)
			}
		}
	}()

	for i := 0; i < 10000; i++ {
		got := c.Current()
		if got != a && got != b {
			t.Fatalf("torn read: %+v", got)
		}
	}

	close(stop)
	wg.Wait()
}

func TestFeedHandleUpdatesCache(t *testing.T) {
	cache := NewCache()
	feed := NewFeed("drone-01", nil, mqtttopic.NewBuilder("uav/v1"), cache)

	payload, _ := json.Marshal(flightlinkv1.VehicleStatus{Connected: true, Mode: "MANUAL"})
	feed.handle(context.Background(), "uav/v1/telemetry/status/drone-01", payload)

	got := cache.Current()
	if !got.Connected || got.Mode != "MANUAL" {
		t.Errorf("feed did not update cache: %+v", got)
	}
}

func TestFeedHandleIgnoresMalformedPayload(t *testing.T) {
	cache := NewCache()
	feed := NewFeed("drone-01", nil, mqtttopic.NewBuilder("uav/v1"), cache)

	feed.handle(context.Background(), "uav/v1/telemetry/status/drone-01", []byte("{not json"))

	if got := cache.Current(); got.Connected {
		t.Errorf("malformed payload mutated cache: %+v", got)
	}
}
