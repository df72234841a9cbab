// Package publish streams tick results to downstream consumers.
//
// The relay subscribes to the feed and emits one Kafka message per
// published tick. It is fire-and-forget: a broker outage is logged and
// never slows the coordinator or the feed.
package publish
