package config

// NotifyConfig enables settlement notification channels.
type NotifyConfig struct {
	Log            bool
	WebhookURL     string
	WebhookTimeout Duration
	AMQPURL        string
	AMQPExchange   string
	WebSocket      bool
}

func loadNotify() NotifyConfig {
	return NotifyConfig{
		Log:            boolEnvOrDefault(envNotifyLog, true),
		WebhookURL:     envOrDefault(envWebhookURL, ""),
		WebhookTimeout: durationEnvOrDefault(envWebhookTimeout, defaultWebhookTimeout),
		AMQPURL:        envOrDefault(envAMQPURL, ""),
		AMQPExchange:   envOrDefault(envAMQPExchange, defaultAMQPExchange),
		WebSocket:      boolEnvOrDefault(envWebSocket, true),
	}
}
