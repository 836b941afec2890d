// Package feed listens for backend change signals on MQTT. A signal only says that
// something changed; the dashboard reacts by reloading the active view.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"go-firewatch/internal/config"
)

type Kind string

const (
	KindRecord     Kind = "record"
	KindPoint      Kind = "point"
	KindPrediction Kind = "prediction"
)

type Signal struct {
	Topic          string    `json:"-"`
	Kind           Kind      `json:"kind"`
	MonitorPointID int       `json:"monitor_point_id,omitempty"`
	At             time.Time `json:"at,omitempty"`
}

type Subscriber struct {
	client    mqtt.Client
	cfg       config.Config
	logger    *slog.Logger
	mu        sync.RWMutex
	connected bool

	stopCh   chan struct{}
	stopOnce sync.Once

	handler func(Signal)
}

// SetHandler must be called before Connect.
func (s *Subscriber) SetHandler(handler func(Signal)) {
	s.handler = handler
}

func NewSubscriber(cfg config.Config, logger *slog.Logger) *Subscriber {
	s := &Subscriber{
		cfg:    cfg,
		logger: logger.With("component", "feed"),
		stopCh: make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.MQTTBroker, cfg.MQTTPort))
	opts.SetClientID(cfg.MQTTClientID)
	opts.SetCleanSession(true)

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	// Resubscribe on every connect; clean sessions drop subscriptions.
	opts.SetOnConnectHandler(func(_ mqtt.Client) {
		s.setConnected(true)
		s.logger.Info("mqtt connected", "broker", cfg.MQTTBroker, "port", cfg.MQTTPort)
		if err := s.subscribe(); err != nil {
			s.logger.Warn("mqtt subscribe failed", "error", err)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		s.setConnected(false)
		s.logger.Warn("mqtt connection lost", "error", err)
	})

	s.client = mqtt.NewClient(opts)
	return s
}

// Connect waits for the first connection, honoring ctx and Disconnect.
func (s *Subscriber) Connect(ctx context.Context) error {
	select {
	case <-s.stopCh:
		return fmt.Errorf("subscriber stopped")
	default:
	}
	if s.IsConnected() {
		return nil
	}

	token := s.client.Connect()
	const poll = 200 * time.Millisecond
	for {
		if token.WaitTimeout(poll) {
			if err := token.Error(); err != nil {
				return fmt.Errorf("mqtt connect: %w", err)
			}
			return nil
		}

		select {
		case <-ctx.Done():
			s.client.Disconnect(0)
			return ctx.Err()
		case <-s.stopCh:
			s.client.Disconnect(0)
			return fmt.Errorf("subscriber stopped")
		default:
		}
	}
}

func (s *Subscriber) subscribe() error {
	topic := s.cfg.MQTTTopic
	token := s.client.Subscribe(topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleMessage(msg.Topic(), msg.Payload())
	})
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout for topic %s", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", topic, err)
	}
	s.logger.Info("subscribed to mqtt topic", "topic", topic)
	return nil
}

func (s *Subscriber) handleMessage(topic string, payload []byte) {
	sig, err := Parse(topic, payload)
	if err != nil {
		s.logger.Warn("ignoring feed message", "topic", topic, "error", err)
		return
	}
	s.logger.Debug("feed signal", "topic", topic, "kind", sig.Kind, "monitor_point_id", sig.MonitorPointID)
	if s.handler != nil {
		s.handler(sig)
	}
}

// Parse decodes one change signal. An empty payload is a bare record change.
func Parse(topic string, payload []byte) (Signal, error) {
	sig := Signal{Topic: topic, Kind: KindRecord}
	if len(payload) == 0 {
		return sig, nil
	}
	if err := json.Unmarshal(payload, &sig); err != nil {
		return Signal{}, fmt.Errorf("decode signal: %w", err)
	}
	sig.Topic = topic
	switch sig.Kind {
	case KindRecord, KindPoint, KindPrediction:
	case "":
		sig.Kind = KindRecord
	default:
		return Signal{}, fmt.Errorf("unknown signal kind %q", sig.Kind)
	}
	if sig.MonitorPointID < 0 {
		return Signal{}, fmt.Errorf("monitor_point_id must not be negative: %d", sig.MonitorPointID)
	}
	return sig, nil
}

func (s *Subscriber) IsConnected() bool {
	s.mu.RLock()
	connected := s.connected
	s.mu.RUnlock()
	return connected && s.client.IsConnected()
}

// Disconnect is idempotent.
func (s *Subscriber) Disconnect() {
	s.stopOnce.Do(func() { close(s.stopCh) })

	if s.client != nil && s.IsConnected() {
		token := s.client.Unsubscribe(s.cfg.MQTTTopic)
		token.WaitTimeout(2 * time.Second)
	}
	if s.client != nil {
		s.client.Disconnect(250)
	}
	s.setConnected(false)
	s.logger.Info("mqtt subscriber disconnected")
}

func (s *Subscriber) setConnected(v bool) {
	s.mu.Lock()
	s.connected = v
	s.mu.Unlock()
}
