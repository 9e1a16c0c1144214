package mqtt

import "fmt"

// Topic prefixes for Point Relay's own topics.
//
// Ingest and forward topics are user-defined in config.yaml and live outside
// this prefix; only the relay's status surface is fixed here.
const (
	// TopicPrefixRelay is the base for all relay topics.
	TopicPrefixRelay = "pointrelay"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "pointrelay/system"
)

// Topics provides builders for Point Relay MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	statusTopic := topics.NodeStatus("relay-001")
//	// Returns: "pointrelay/node/relay-001/status"
type Topics struct{}

// SystemStatus returns the topic for relay online/offline status (LWT).
//
// Example: pointrelay/system/status
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// NodeStatus returns the topic for a node's write-status badge.
//
// The badge reflects the outcome of the most recent message: "written",
// "error", or "idle" once the reset delay elapses.
//
// Example: pointrelay/node/relay-001/status
func (Topics) NodeStatus(nodeID string) string {
	return fmt.Sprintf("%s/node/%s/status", TopicPrefixRelay, nodeID)
}
