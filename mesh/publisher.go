package mesh

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Publisher publishes attempt results to MQTT
type Publisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
}

// NewPublisher creates a result publisher. The prefix comes from
// MQTT_PUBLISH_PREFIX, then prefix, then "headreg".
// If client is nil, publishing is disabled (for testing)
func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if env := os.Getenv("MQTT_PUBLISH_PREFIX"); env != "" {
		prefix = env
	}
	if prefix == "" {
		prefix = "headreg"
	}

	return &Publisher{
		client:        client,
		publishPrefix: prefix,
		qos:           1,    // results are produced rarely and must arrive
		retain:        true, // late subscribers get the latest attempt
	}
}

// PublishResult publishes a result to {prefix}/results/{id} and {prefix}/latest
func (p *Publisher) PublishResult(result *AttemptResult) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	topic := fmt.Sprintf("%s/results/%s", p.publishPrefix, result.ID)
	if err := p.publish(topic, payload); err != nil {
		return err
	}
	if err := p.publish(p.publishPrefix+"/latest", payload); err != nil {
		return err
	}

	log.Printf("Published result %s: %d/%d landmarks usable", result.ID, result.Usable, len(result.Agreement))
	return nil
}

// PublishError reports a failed attempt on {prefix}/errors
func (p *Publisher) PublishError(attemptID string, attemptErr error) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	message := map[string]interface{}{
		"id":        attemptID,
		"error":     attemptErr.Error(),
		"timestamp": time.Now().Unix(),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling error report: %w", err)
	}
	return p.publish(p.publishPrefix+"/errors", payload)
}

func (p *Publisher) publish(topic string, payload []byte) error {
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// SetQoS sets the Quality of Service level for publishing (0, 1, or 2)
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages should be retained by the broker
func (p *Publisher) SetRetain(retain bool) {
	p.retain = retain
}
