package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *EventBus

	BeforeEach(func() {
		bus = NewEventBus(slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	It("delivers published events to every subscriber", func() {
		var calls int32
		for i := 0; i < 3; i++ {
			bus.Subscribe(EventTypeComplaintStatusChanged, func(ctx context.Context, event Event) error {
				atomic.AddInt32(&calls, 1)
				return nil
			})
		}

		evt := NewComplaintStatusChangedEvent("c-1", "u-1", "Broken projector", "pending", "resolved", nil)
		Expect(bus.Publish(context.Background(), evt)).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(3)))
		Expect(bus.HandlerCount(EventTypeComplaintStatusChanged)).To(Equal(3))
	})

	It("keeps running async handlers after the publisher context is cancelled", func() {
		var sawCancelled atomic.Bool
		bus.Subscribe("test.event", func(ctx context.Context, event Event) error {
			sawCancelled.Store(ctx.Err() != nil)
			return nil
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		Expect(bus.Publish(ctx, BaseEvent{ID: "1", Type: "test.event"})).To(Succeed())
		bus.Wait()

		Expect(sawCancelled.Load()).To(BeFalse())
	})

	It("returns handler errors from PublishSync", func() {
		bus.Subscribe("test.event", func(ctx context.Context, event Event) error {
			return errors.New("boom")
		})

		err := bus.PublishSync(context.Background(), BaseEvent{ID: "1", Type: "test.event"})
		Expect(err).To(MatchError(ContainSubstring("boom")))
	})

	It("ignores events without subscribers", func() {
		Expect(bus.Publish(context.Background(), BaseEvent{ID: "1", Type: "nobody.listens"})).To(Succeed())
		Expect(bus.PublishSync(context.Background(), BaseEvent{ID: "1", Type: "nobody.listens"})).To(Succeed())
	})

	It("carries the status transition in the payload", func() {
		resolution := "Replaced unit"
		evt := NewComplaintStatusChangedEvent("c-1", "u-1", "Broken projector", "in_progress", "resolved", &resolution)

		Expect(evt.EventType()).To(Equal(EventTypeComplaintStatusChanged))
		Expect(evt.EventID()).NotTo(BeEmpty())
		data := evt.Payload().(map[string]interface{})
		Expect(data).To(HaveKeyWithValue("old_status", "in_progress"))
		Expect(data).To(HaveKeyWithValue("new_status", "resolved"))
	})
})
