package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type profileLookup map[string]*profileDatamodel.Profile

func (p profileLookup) GetByUserID(_ context.Context, userID string) (*profileDatamodel.Profile, error) {
	return p[userID], nil
}

func (p profileLookup) ListByUserIDs(context.Context, []string) ([]*profileDatamodel.Profile, error) {
	return nil, nil
}

var _ = Describe("Dispatcher", func() {
	var (
		server     *httptest.Server
		mu         sync.Mutex
		received   []Request
		dispatcher *Dispatcher
		profiles   profileLookup
	)

	BeforeEach(func() {
		received = nil
		endpoint := NewHandler(transport.NewBaseHandler(discardLogger()))
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			var req Request
			if err := json.Unmarshal(raw, &req); err == nil {
				mu.Lock()
				received = append(received, req)
				mu.Unlock()
			}
			r.Body = io.NopCloser(bytes.NewReader(raw))
			endpoint.Send(w, r)
		}))
		profiles = profileLookup{"u-1": {UserID: "u-1", Email: "ana@campus.edu"}}
		dispatcher = NewDispatcher(Config{EndpointURL: server.URL + EndpointPath, Timeout: time.Second, MaxWorkers: 2, QueueSize: 4}, profiles, discardLogger())
	})

	AfterEach(func() {
		dispatcher.Shutdown()
		server.Close()
	})

	receivedCount := func() int {
		mu.Lock()
		defer mu.Unlock()
		return len(received)
	}

	It("delivers status changes to the owner's email", func() {
		resolution := "Replaced unit"
		event := events.NewComplaintStatusChangedEvent("c-1", "u-1", "Broken projector", "in_progress", "resolved", &resolution)

		Expect(dispatcher.HandleStatusChanged(context.Background(), event)).To(Succeed())

		Eventually(receivedCount).Should(Equal(1))
		mu.Lock()
		defer mu.Unlock()
		Expect(received[0].UserEmail).To(Equal("ana@campus.edu"))
		Expect(received[0].Resolution).To(Equal("Replaced unit"))
	})

	It("skips owners without a profile", func() {
		event := events.NewComplaintStatusChangedEvent("c-2", "u-unknown", "Wifi", "pending", "in_progress", nil)

		Expect(dispatcher.HandleStatusChanged(context.Background(), event)).To(Succeed())

		Consistently(receivedCount, 200*time.Millisecond).Should(BeZero())
	})

	It("rejects requests that miss required fields", func() {
		Expect(dispatcher.Enqueue(Request{ComplaintID: "c-3"})).To(MatchError(ErrMissingFields))
	})

	It("rejects unrelated events", func() {
		err := dispatcher.HandleStatusChanged(context.Background(), events.BaseEvent{Type: "other"})
		Expect(err).To(HaveOccurred())
	})

	It("sends a single request synchronously", func() {
		req := Request{ComplaintID: "c-5", OldStatus: "pending", NewStatus: "in_progress", UserEmail: "ana@campus.edu", ComplaintTitle: "Leak"}

		Expect(dispatcher.Send(context.Background(), req)).To(Succeed())
		Expect(receivedCount()).To(Equal(1))
	})

	It("reports endpoint failures from Send", func() {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer failing.Close()
		d := NewDispatcher(Config{EndpointURL: failing.URL, Timeout: time.Second}, profiles, discardLogger())
		defer d.Shutdown()

		req := Request{ComplaintID: "c-6", NewStatus: "resolved", UserEmail: "ana@campus.edu", ComplaintTitle: "Leak"}
		Expect(d.Send(context.Background(), req)).To(MatchError(ContainSubstring("500")))
	})

	It("is subscribed through the event bus", func() {
		bus := events.NewEventBus(discardLogger())
		bus.Subscribe(events.EventTypeComplaintStatusChanged, dispatcher.HandleStatusChanged)

		event := events.NewComplaintStatusChangedEvent("c-4", "u-1", "Noise", "pending", "rejected", nil)
		Expect(bus.Publish(context.Background(), event)).To(Succeed())
		bus.Wait()

		Eventually(receivedCount).Should(Equal(1))
	})
})

var _ = Describe("Dispatcher queue", func() {
	It("drops requests once the queue is full", func() {
		block := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-block
			w.WriteHeader(http.StatusOK)
		}))
		dispatcher := NewDispatcher(Config{EndpointURL: server.URL, Timeout: 5 * time.Second, MaxWorkers: 1, QueueSize: 1}, profileLookup{}, discardLogger())
		defer func() {
			close(block)
			dispatcher.Shutdown()
			server.Close()
		}()

		req := Request{ComplaintID: "c", NewStatus: "resolved", UserEmail: "a@b.c", ComplaintTitle: "t"}
		var lastErr error
		for i := 0; i < 10 && lastErr == nil; i++ {
			lastErr = dispatcher.Enqueue(req)
		}
		Expect(errors.Is(lastErr, ErrQueueFull)).To(BeTrue())
	})
})
