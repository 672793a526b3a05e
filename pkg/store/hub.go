package store

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Watcher streams change events. Persistence and Hub implement it.
type Watcher interface {
	Watch(ctx context.Context) (<-chan Event, error)
}

// Hub shares a single Watch stream between consumers. The underlying watcher
// starts with the first consumer and stops once every consumer context is
// done. Each consumer gets its own channel; a lagging consumer drops events
// without holding up the others.
type Hub struct {
	src Watcher
	log *zap.Logger

	mu     sync.Mutex
	next   int
	stream *hubStream
}

type hubStream struct {
	cancel context.CancelFunc
	sinks  map[int]*eventSink
}

// NewHub fans out the events of src. A nil logger discards output.
func NewHub(src Watcher, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{src: src, log: log.Named("hub")}
}

// Watch registers a consumer until ctx is done. The returned channel is
// closed when ctx is done or the shared stream ends.
func (h *Hub) Watch(ctx context.Context) (<-chan Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.stream == nil {
		wctx, cancel := context.WithCancel(context.Background())
		events, err := h.src.Watch(wctx)
		if err != nil {
			cancel()
			return nil, err
		}
		h.stream = &hubStream{cancel: cancel, sinks: make(map[int]*eventSink)}
		go h.pump(h.stream, events)
		h.log.Debug("shared watch started")
	}

	stream, id := h.stream, h.next
	h.next++
	sink := &eventSink{ch: make(chan Event, 64)}
	stream.sinks[id] = sink
	go func() {
		<-ctx.Done()
		h.leave(stream, id)
	}()
	return sink.ch, nil
}

func (h *Hub) pump(stream *hubStream, events <-chan Event) {
	for ev := range events {
		h.mu.Lock()
		for _, sink := range stream.sinks {
			sink.send(ev)
		}
		h.mu.Unlock()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, sink := range stream.sinks {
		sink.close()
		delete(stream.sinks, id)
	}
	if h.stream == stream {
		h.stream = nil
	}
	stream.cancel()
}

func (h *Hub) leave(stream *hubStream, id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	sink, ok := stream.sinks[id]
	if !ok {
		return
	}
	sink.close()
	delete(stream.sinks, id)
	if len(stream.sinks) > 0 {
		return
	}
	if h.stream == stream {
		h.stream = nil
	}
	stream.cancel()
	h.log.Debug("shared watch stopped")
}
