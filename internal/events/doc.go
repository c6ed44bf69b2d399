// Package events provides a non-blocking publish/subscribe bus for
// procedure run events.
//
// The engine emits run observations through its Callbacks interface; the
// Bridge type adapts those callbacks onto a Bus so any number of consumers
// can follow a run through filtered subscriptions. Slow consumers never
// stall a run: events are dropped per subscriber when a buffer fills.
package events
