package ingest

import (
	"context"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/groundsense/groundwatch/pkg/config"
	"github.com/groundsense/groundwatch/pkg/logger"
)

const messageBuffer = 4096

// Consumer is the inbound transport boundary: a long-lived MQTT
// subscriber that hands raw payloads to the pipeline through a
// buffered channel, one worker, message-driven.
type Consumer struct {
	cfg      config.MQTTConfig
	pipeline *Pipeline
	client   mqtt.Client
	msgCh    chan []byte
	wg       sync.WaitGroup
	log      *logger.Logger
}

// NewConsumer creates the MQTT consumer service.
func NewConsumer(cfg config.MQTTConfig, pipeline *Pipeline, log *logger.Logger) *Consumer {
	return &Consumer{
		cfg:      cfg,
		pipeline: pipeline,
		msgCh:    make(chan []byte, messageBuffer),
		log:      log,
	}
}

// Start connects to the broker, subscribes, and runs the worker until
// ctx is canceled. In-flight messages finish before the worker exits.
func (c *Consumer) Start(ctx context.Context) error {
	opts := mqtt.NewClientOptions().
		AddBroker(c.cfg.Broker).
		SetClientID(c.cfg.ClientID).
		SetCleanSession(false).
		SetOrderMatters(false).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second)

	if c.cfg.Username != "" {
		opts.SetUsername(c.cfg.Username)
		opts.SetPassword(c.cfg.Password)
	}

	opts.OnConnectionLost = func(_ mqtt.Client, err error) {
		c.log.Error().Err(err).Msg("MQTT connection lost")
	}

	opts.OnConnect = func(client mqtt.Client) {
		c.log.Info().Str("topic", c.cfg.Topic).Msg("MQTT connected, subscribing")

		if token := client.Subscribe(c.cfg.Topic, 1, c.onMessage); token.Wait() && token.Error() != nil {
			c.log.Error().Err(token.Error()).Str("topic", c.cfg.Topic).Msg("MQTT subscribe failed")
		}
	}

	c.client = mqtt.NewClient(opts)
	if tk := c.client.Connect(); tk.Wait() && tk.Error() != nil {
		return tk.Error()
	}

	c.wg.Add(1)

	go func() {
		defer c.wg.Done()
		c.run(ctx)
	}()

	return nil
}

func (c *Consumer) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())

	select {
	case c.msgCh <- payload:
	default:
		c.log.Warn().Str("topic", msg.Topic()).Msg("ingest buffer full, dropping message")
	}
}

func (c *Consumer) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case payload := <-c.msgCh:
			// decode/validation errors are already logged and must
			// not stop the loop
			_ = c.pipeline.ProcessMessage(ctx, payload)
		}
	}
}

// Stop disconnects from the broker and waits for the worker to finish
// its in-flight message.
func (c *Consumer) Stop(_ context.Context) error {
	if c.client != nil {
		c.client.Disconnect(250)
	}

	c.wg.Wait()

	return nil
}
