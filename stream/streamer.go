package stream

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/eclipse/paho.mqtt.golang"
)

// Client is the part of mqtt.Client a Streamer uses.
type Client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

// FlingMessage is sent by a client to throw the picture along the strip.
type FlingMessage struct {
	Velocity float64 `json:"velocity"`
}

// Streamer that streams RGB data frames to an ledrx device and listens for
// fling gestures.
type Streamer struct {
	client      Client
	streamTopic string
	flingTopic  string
	qos         byte
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(config Config, client Client) *Streamer {
	s := new(Streamer)
	s.client = client
	s.streamTopic = config.Mqtt.Topics.Stream
	s.flingTopic = config.Mqtt.Topics.Fling
	s.qos = config.Mqtt.Qos
	return s
}

// Publish sends a frame as binary over MQTT to an ledrx device.
func (s *Streamer) Publish(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := s.client.Publish(s.streamTopic, s.qos, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish to %s: %w", s.streamTopic, err)
	}
	return nil
}

// Subscribe passes the velocity of every fling message to handler.
func (s *Streamer) Subscribe(handler func(velocity float64)) error {
	callback := func(client mqtt.Client, msg mqtt.Message) {
		var message FlingMessage
		if err := json.Unmarshal(msg.Payload(), &message); err != nil {
			log.Printf("Bad fling message on %s: %v", msg.Topic(), err)
			return
		}
		handler(message.Velocity)
	}

	token := s.client.Subscribe(s.flingTopic, s.qos, callback)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe to %s: %w", s.flingTopic, err)
	}
	return nil
}
