package mq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/apache/rocketmq-client-go/v2"
	c "github.com/apache/rocketmq-client-go/v2/consumer"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/apache/rocketmq-client-go/v2/producer"
	"github.com/apache/rocketmq-client-go/v2/rlog"
	"github.com/avast/retry-go/v4"
)

const (
	TopicKnowledgeBase = "topic_knowledge_base"
	TagETL             = "tag_etl"

	TopicActivity = "topic_activity"
	TagIndex      = "tag_index"
	TagUnindex    = "tag_unindex"

	ConsumeGroupKnowledgeBase = "cg_knowledge_base"
	ConsumeGroupActivity      = "cg_activity"

	sendMessageAttempts  = 3
	maxReconsumeTimes    = 5
	consumeGoroutineNums = 10
)

var ErrNotInitialized = errors.New("mq is not initialized")

var (
	nameServer []string

	producerInstance rocketmq.Producer

	// one push consumer per consume group
	consumers = make(map[string]rocketmq.PushConsumer)

	// message handlers keyed by topic and tag
	handlers   = make(map[string]MessageHandler)
	handlersMu sync.RWMutex
)

type MessageHandler func(context.Context, *primitive.MessageExt) error

type Message struct {
	Topic   string
	Tag     string
	Payload any
}

// Init creates the producer. Consumers are created by Register.
func Init(servers []string) error {
	// lower the RocketMQ client (rlog) log level
	rlog.SetLogLevel("warn")

	p, err := rocketmq.NewProducer(
		producer.WithNameServer(servers),
		producer.WithRetry(2),
	)
	if err != nil {
		return fmt.Errorf("failed to create producer: %w", err)
	}
	nameServer = servers
	producerInstance = p
	return nil
}

// Register subscribes group to topic for the tags of byTag and routes each message to the
// handler of its tag. A topic is subscribed once per group, so all of its tags are
// registered together.
func Register(group, topic string, byTag map[string]MessageHandler) error {
	if producerInstance == nil {
		return ErrNotInitialized
	}

	consumer, ok := consumers[group]
	if !ok {
		var err error
		consumer, err = rocketmq.NewPushConsumer(
			c.WithNameServer(nameServer),
			c.WithGroupName(group),
			c.WithConsumerModel(c.Clustering),
			c.WithConsumeFromWhere(c.ConsumeFromLastOffset),
			c.WithMaxReconsumeTimes(maxReconsumeTimes),
			c.WithConsumeGoroutineNums(consumeGoroutineNums),
		)
		if err != nil {
			return fmt.Errorf("failed to create consumer %s: %w", group, err)
		}
		consumers[group] = consumer
	}

	tags := make([]string, 0, len(byTag))
	handlersMu.Lock()
	for tag, handler := range byTag {
		handlers[handlerKey(topic, tag)] = handler
		tags = append(tags, tag)
	}
	handlersMu.Unlock()

	if err := consumer.Subscribe(topic, selectorFor(tags), consume); err != nil {
		return fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}
	return nil
}

func selectorFor(tags []string) c.MessageSelector {
	if len(tags) == 0 || slices.Contains(tags, "") {
		return c.MessageSelector{}
	}
	slices.Sort(tags)
	return c.MessageSelector{
		Type:       c.TAG,
		Expression: strings.Join(tags, " || "),
	}
}

// Run starts the producer and every registered consumer.
func Run() error {
	if producerInstance == nil {
		return ErrNotInitialized
	}
	if err := producerInstance.Start(); err != nil {
		return fmt.Errorf("failed to start producer: %w", err)
	}
	for group, consumer := range consumers {
		if err := consumer.Start(); err != nil {
			return fmt.Errorf("failed to start consumer %s: %w", group, err)
		}
	}
	return nil
}

func handlerKey(topic, tag string) string {
	return topic + "/" + tag
}

func handlerFor(msg *primitive.MessageExt) MessageHandler {
	handlersMu.RLock()
	defer handlersMu.RUnlock()
	if h, ok := handlers[handlerKey(msg.Topic, msg.GetTags())]; ok {
		return h
	}
	return handlers[handlerKey(msg.Topic, "")]
}

func consume(ctx context.Context, messages ...*primitive.MessageExt) (c.ConsumeResult, error) {
	for _, msg := range messages {
		h := handlerFor(msg)
		if h == nil {
			slog.Warn("No message handler found for topic", "topic", msg.Topic, "tag", msg.GetTags())
			continue
		}

		if err := h(ctx, msg); err != nil {
			slog.Error("Failed to process message",
				"topic", msg.Topic,
				"tag", msg.GetTags(),
				"msg_id", msg.MsgId,
				"err", err)
			return c.ConsumeRetryLater, err
		}
	}
	return c.ConsumeSuccess, nil
}

// SendMessage publishes message, retrying with backoff.
func SendMessage(ctx context.Context, message *Message) error {
	if producerInstance == nil {
		return ErrNotInitialized
	}

	payloadJSON, err := json.Marshal(message.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	msg := primitive.NewMessage(message.Topic, payloadJSON)
	if message.Tag != "" {
		msg = msg.WithTag(message.Tag)
	}

	err = retry.Do(
		func() error {
			_, err := producerInstance.SendSync(ctx, msg)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(sendMessageAttempts),
		retry.DelayType(retry.BackOffDelay),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying to send message",
				"attempt", n+1,
				"topic", msg.Topic,
				"err", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to send message to topic %s after retries: %w", msg.Topic, err)
	}
	return nil
}

// Shutdown stops the producer and every consumer.
func Shutdown() {
	if producerInstance != nil {
		producerInstance.Shutdown()
	}
	for _, consumer := range consumers {
		consumer.Shutdown()
	}
}
