package mesh

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitMQTT_Disabled(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")

	client, err := InitMQTT(DefaultConfig(), nil)
	assert.NoError(t, err)
	assert.Nil(t, client)

	client, err = InitMQTT(nil, nil)
	assert.NoError(t, err)
	assert.Nil(t, client)
}

func TestInitMQTT_MissingRequestTopic(t *testing.T) {
	t.Setenv("MQTT_BROKER", "")
	cfg := DefaultConfig()
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.RequestTopic = ""

	client, err := InitMQTT(cfg, nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}

type receivedRequest struct {
	topic string
	raw   []byte
	req   *AttemptRequest
	err   error
}

func connectedMock(t *testing.T, cfg *Config) (*MockClient, *MQTTClient, *[]receivedRequest) {
	t.Helper()
	mock := NewMockClient()
	require.NoError(t, mock.Connect().Error())

	var received []receivedRequest
	c := newMQTTClientWithMock(mock, cfg, func(topic string, raw []byte, req *AttemptRequest, err error) {
		received = append(received, receivedRequest{topic: topic, raw: raw, req: req, err: err})
	})
	c.onConnect(mock)
	return mock, c, &received
}

func TestMQTTClient_RequestSubscription(t *testing.T) {
	cfg := DefaultConfig()
	mock, c, received := connectedMock(t, cfg)
	assert.True(t, c.IsConnected())

	req := AttemptRequest{ID: "0b8f6f52-7c43-4a8e-9f45-2d3c1b0a9e77", MRI: squarePayload(), Head: squarePayload()}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	require.True(t, mock.Deliver(cfg.MQTT.RequestTopic, payload))
	require.Len(t, *received, 1)

	got := (*received)[0]
	assert.NoError(t, got.err)
	assert.Equal(t, cfg.MQTT.RequestTopic, got.topic)
	assert.Equal(t, payload, got.raw)
	require.NotNil(t, got.req)
	assert.Equal(t, req.ID, got.req.ID)
	assert.Len(t, got.req.MRI.Vertices, 4)

	assert.False(t, mock.Deliver("some/other/topic", payload))
}

func TestMQTTClient_BadPayload(t *testing.T) {
	cfg := DefaultConfig()
	mock, _, received := connectedMock(t, cfg)

	require.True(t, mock.Deliver(cfg.MQTT.RequestTopic, []byte("not json")))
	require.Len(t, *received, 1)
	assert.Error(t, (*received)[0].err)
	assert.Nil(t, (*received)[0].req)
}

func TestMQTTClient_ConnectionLifecycle(t *testing.T) {
	mock, c, _ := connectedMock(t, DefaultConfig())

	c.onConnectionLost(mock, errors.New("broker went away"))
	assert.False(t, c.IsConnected())

	c.onConnect(mock)
	assert.True(t, c.IsConnected())

	c.Disconnect()
	assert.False(t, c.IsConnected())
	assert.False(t, mock.IsConnected())
	assert.Same(t, mock, c.GetClient())
}

func TestMQTTClient_SubscribeWhileDisconnected(t *testing.T) {
	cfg := DefaultConfig()
	mock := NewMockClient()
	c := newMQTTClientWithMock(mock, cfg, nil)

	// a failed subscription is logged, not fatal
	c.onConnect(mock)
	assert.False(t, mock.Deliver(cfg.MQTT.RequestTopic, []byte("{}")))
}
