package sink

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Topic is the MQTT topic for sensor activation events.
const Topic = "sensors/digital/events"

// TopicAcks is the MQTT topic for command acknowledgments and enumerations.
const TopicAcks = "sensors/digital/acks"

// triggerBufferSize bounds the number of activations held while the broker
// is unreachable.
const triggerBufferSize = 64

// TriggerPayload is the MQTT message for a sensor activation.
type TriggerPayload struct {
	Sensor TriggerInner `json:"sensor"`
}

// TriggerInner contains the activation details.
type TriggerInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	ID        int    `json:"id"`
}

// FormatTriggerPayload creates the JSON payload for an activation.
func FormatTriggerPayload(id int, ts time.Time) ([]byte, error) {
	payload := TriggerPayload{
		Sensor: TriggerInner{
			Timestamp: ts.UTC().Format(time.RFC3339),
			Event:     "TRIGGERED",
			ID:        id,
		},
	}
	return json.Marshal(payload)
}

// AckPayload is the MQTT message for a command acknowledgment.
type AckPayload struct {
	Ack AckInner `json:"ack"`
}

// AckInner contains the acknowledgment details.
type AckInner struct {
	Timestamp string `json:"timestamp"`
	Result    string `json:"result"` // "ok" or "fail"
}

// EntryPayload is the MQTT message for one enumerated sensor definition.
type EntryPayload struct {
	Definition EntryInner `json:"definition"`
}

// EntryInner contains the definition details.
type EntryInner struct {
	Timestamp string `json:"timestamp"`
	ID        int    `json:"id"`
	Pin       int    `json:"pin"`
	Pullup    bool   `json:"pullup"`
}

// MQTTSink publishes tokens to an MQTT broker. Activations are buffered
// while the broker is unreachable and replayed on the next delivery;
// acknowledgments are dropped when disconnected, a stale ack helps nobody.
type MQTTSink struct {
	client paho.Client
	buf    *ringBuffer
	now    func() time.Time
}

// NewMQTTSink creates a sink connected to the given broker.
func NewMQTTSink(broker string) (*MQTTSink, error) {
	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID("input-sensor").
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	client := paho.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return &MQTTSink{
		client: client,
		buf:    newRingBuffer(triggerBufferSize),
		now:    time.Now,
	}, nil
}

// Triggered publishes the activation, or buffers it while disconnected.
func (s *MQTTSink) Triggered(id int) error {
	payload, err := FormatTriggerPayload(id, s.now())
	if err != nil {
		return fmt.Errorf("format trigger payload: %w", err)
	}

	if !s.client.IsConnected() {
		s.buf.push(payload)
		return nil
	}

	if err := s.flushBuffered(); err != nil {
		return err
	}
	return s.publish(Topic, 1, payload)
}

// OK publishes a success acknowledgment.
func (s *MQTTSink) OK() error {
	return s.publishAck("ok")
}

// Fail publishes a failure acknowledgment.
func (s *MQTTSink) Fail() error {
	return s.publishAck("fail")
}

// Entry publishes one enumerated sensor definition.
func (s *MQTTSink) Entry(id, pin int, pullup bool) error {
	if !s.client.IsConnected() {
		return nil
	}

	payload, err := json.Marshal(EntryPayload{
		Definition: EntryInner{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			ID:        id,
			Pin:       pin,
			Pullup:    pullup,
		},
	})
	if err != nil {
		return fmt.Errorf("format entry payload: %w", err)
	}
	return s.publish(TopicAcks, 0, payload)
}

// Close flushes buffered activations if possible and disconnects.
func (s *MQTTSink) Close() error {
	if s.client.IsConnected() {
		if err := s.flushBuffered(); err != nil {
			return err
		}
	}
	s.client.Disconnect(1000) // 1 second timeout
	return nil
}

func (s *MQTTSink) publishAck(result string) error {
	if !s.client.IsConnected() {
		return nil
	}

	payload, err := json.Marshal(AckPayload{
		Ack: AckInner{
			Timestamp: s.now().UTC().Format(time.RFC3339),
			Result:    result,
		},
	})
	if err != nil {
		return fmt.Errorf("format ack payload: %w", err)
	}
	return s.publish(TopicAcks, 0, payload)
}

func (s *MQTTSink) flushBuffered() error {
	buffered := s.buf.drainAll()
	if len(buffered) > 0 {
		log.Printf("sink: replaying %d buffered activations", len(buffered))
	}
	for _, payload := range buffered {
		if err := s.publish(Topic, 1, payload); err != nil {
			return err
		}
	}
	return nil
}

func (s *MQTTSink) publish(topic string, qos byte, payload []byte) error {
	token := s.client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}
