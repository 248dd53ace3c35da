package workers

import "encoding/json"

// Settings contains settings for a media worker.
type Settings struct {
	// ChannelBufferSize is the max number of in-flight NSQ messages.
	ChannelBufferSize int

	// NSQChannel is the NSQ channel the worker subscribes to.
	NSQChannel string

	// NSQTopic is the NSQ topic the worker subscribes to.
	NSQTopic string

	// NumberOfWorkers is the number of goroutines processing
	// messages concurrently. Transcoding is CPU-heavy, so this
	// should stay near the core count.
	NumberOfWorkers int
}

// ToJSON returns a JSON representation for logging at startup.
func (s *Settings) ToJSON() string {
	data, _ := json.Marshal(s)
	return string(data)
}
