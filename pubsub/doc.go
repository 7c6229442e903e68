/*
Package pubsub provides an in-process channel registry with deferred, ordered dispatch
and a request/answer extension built on reverse channels.

Publish never runs subscribers inline. Each publish snapshots the channel's subscribers
and enqueues one batch onto the registry's FIFO queue, drained by a single goroutine.
Subscribers run on that dispatch goroutine, concurrently with the publishing caller,
so a batch may start before Publish returns. PublishSync is the exception and runs
on the caller's goroutine.

Request listens on the reverse channel (the channel name prefixed with the
inverter, "@" by default) and then publishes on the channel, so a responder that
answers at once is always heard. The listener is removed when the listening
timeout elapses or the registry is closed.
Answer publishes on that reverse channel, reaching every requester still listening.
*/
package pubsub
