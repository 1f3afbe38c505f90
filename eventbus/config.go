package eventbus

import (
	"os"
)

// GetBrokers returns Kafka bootstrap servers from env KAFKA_BOOTSTRAP_SERVERS.
// An empty value means the bus is unconfigured; callers fall back to a no-op
// notifier in that case.
func GetBrokers() string {
	return os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
}
