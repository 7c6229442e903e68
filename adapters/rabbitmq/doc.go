/*
Package rabbitmq reports pubsub dispatch incidents to RabbitMQ.
Incidents are published as JSON to a topic exchange, routed by channel, through an
auto-reconnecting publisher, with optional header propagation via a pubsub.HeaderPropagator.
*/
package rabbitmq
