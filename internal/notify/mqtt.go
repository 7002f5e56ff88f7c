package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

const mqttDisconnectQuiesce = 250 // ms

// MQTTNotifier publishes each message to <prefix>/<topic>.
type MQTTNotifier struct {
	client mqtt.Client
	prefix string
	qos    byte
}

// DialMQTT connects to broker and returns a notifier using that connection.
func DialMQTT(ctx context.Context, broker, clientID, prefix string, qos byte) (*MQTTNotifier, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if err := wait(ctx, client.Connect()); err != nil {
		return nil, fmt.Errorf("connect mqtt %s: %w", broker, err)
	}

	return NewMQTTNotifier(client, prefix, qos), nil
}

func NewMQTTNotifier(client mqtt.Client, prefix string, qos byte) *MQTTNotifier {
	return &MQTTNotifier{client: client, prefix: strings.TrimSuffix(prefix, "/"), qos: qos}
}

func (n *MQTTNotifier) Name() string { return "mqtt" }

func (n *MQTTNotifier) Notify(ctx context.Context, msg Message) error {
	topic := msg.Topic
	if n.prefix != "" {
		topic = n.prefix + "/" + msg.Topic
	}

	return wait(ctx, n.client.Publish(topic, n.qos, false, []byte(msg.Payload)))
}

func (n *MQTTNotifier) Close() error {
	n.client.Disconnect(mqttDisconnectQuiesce)
	return nil
}

func wait(ctx context.Context, token mqtt.Token) error {
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return errors.Join(ctx.Err(), errors.New("mqtt operation did not complete"))
	}
}
