package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/socialverse/pkg/logger"
	"github.com/d60-Lab/socialverse/pkg/metrics"
)

// bridgeFrame is what goes over the Redis channel.
type bridgeFrame struct {
	Origin  string          `json:"origin"`
	Payload json.RawMessage `json:"payload"`
}

// Bridge 通过 Redis pub/sub 在多个实例之间转发事件（异步、可丢弃）
type Bridge struct {
	rdb     *redis.Client
	channel string
	origin  string
	deliver func([]byte)
	ch      chan []byte
	workers int
}

// NewBridge builds a bridge; deliver receives frames published by other instances.
func NewBridge(rdb *redis.Client, channel string, workers, queueSize int, deliver func([]byte)) *Bridge {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Bridge{
		rdb:     rdb,
		channel: channel,
		origin:  uuid.New().String(),
		deliver: deliver,
		ch:      make(chan []byte, queueSize),
		workers: workers,
	}
}

// Start subscribes, starts the publisher workers and returns a stop function.
func (b *Bridge) Start(ctx context.Context) (func(context.Context) error, error) {
	sub := b.rdb.Subscribe(ctx, b.channel)
	// 等待订阅确认，保证 Start 返回后不会漏掉消息
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	stopCh := make(chan struct{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		b.subscribeLoop(sub.Channel(), stopCh)
	}()

	for i := 0; i < b.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case msg := <-b.ch:
					b.publish(msg)
				case <-stopCh:
					return
				}
			}
		}()
	}

	return func(ctx context.Context) error {
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
	drain:
		for len(b.ch) > 0 {
			select {
			case <-timeout:
				break drain
			case <-ctx.Done():
				break drain
			default:
				time.Sleep(20 * time.Millisecond)
			}
		}
		close(stopCh)
		err := sub.Close()
		wg.Wait()
		return err
	}, nil
}

func (b *Bridge) subscribeLoop(msgs <-chan *redis.Message, stop <-chan struct{}) {
	for {
		select {
		case m, ok := <-msgs:
			if !ok {
				return
			}
			var f bridgeFrame
			if err := json.Unmarshal([]byte(m.Payload), &f); err != nil {
				logger.Warn("relay bridge: bad frame", zap.Error(err))
				continue
			}
			if f.Origin == b.origin {
				continue
			}
			metrics.RelayEvents.WithLabelValues("bridge").Inc()
			if b.deliver != nil {
				b.deliver([]byte(f.Payload))
			}
		case <-stop:
			return
		}
	}
}

func (b *Bridge) publish(msg []byte) {
	payload, err := json.Marshal(bridgeFrame{Origin: b.origin, Payload: msg})
	if err != nil {
		logger.Warn("relay bridge: encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.rdb.Publish(ctx, b.channel, payload).Err(); err != nil {
		logger.Warn("relay bridge: publish failed", zap.Error(err))
	}
}

// Publish enqueues msg for other instances; drops it when the queue is full.
func (b *Bridge) Publish(msg []byte) {
	select {
	case b.ch <- msg:
	default:
		metrics.RelayDropped.WithLabelValues("bridge").Inc()
		logger.Warn("relay bridge queue full, drop event", zap.Int("queue", cap(b.ch)))
	}
}

// QueueLen 返回当前队列长度（采样值）。
func (b *Bridge) QueueLen() int { return len(b.ch) }
