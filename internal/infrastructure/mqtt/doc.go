// Package mqtt provides MQTT client connectivity for Point Relay.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) for offline detection
//   - Connection health monitoring
//
// # Architecture
//
// MQTT is both the relay's inbox and its outbox: ingest routes subscribe to
// user-defined topics, successfully written messages are forwarded to their
// route's forward topic, and the write-status badge is published retained so
// dashboards always see the latest outcome.
//
//	Publishers → MQTT Broker → Point Relay → Time-series store
//	                        ↖ forward + status badge
//
// # Security Considerations
//
//   - TLS is required for production deployments (cfg.Broker.TLS=true)
//   - Credentials are validated against broker ACL
//   - Anonymous access is only for local development
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Subscribe to an ingest route
//	err = client.Subscribe("sensors/#", 1,
//	    func(topic string, payload []byte) error {
//	        log.Printf("Received: %s = %s", topic, payload)
//	        return nil
//	    })
//
//	// Publish the status badge
//	topic := mqtt.Topics{}.NodeStatus("relay-001")
//	client.PublishRetained(topic, []byte(`{"status":"written"}`))
package mqtt
