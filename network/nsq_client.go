package network

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"
)

// NSQClient posts photo IDs to nsqd topics. The workers read from the
// other end through go-nsq consumers.
type NSQClient struct {
	URL string
}

// Formally define this so we can generate mocks for testing.
type NSQClientInterface interface {
	Enqueue(topic string, photoID int64) error
}

// NewNSQClient returns a client that publishes to the nsqd HTTP
// endpoint at url (usually ending in :4151). This client provides
// write access only; the workers do the reading.
func NewNSQClient(url string) *NSQClient {
	return &NSQClient{URL: url}
}

// Enqueue puts a photo ID into the named topic, e.g.
// constants.TopicReoptimize.
func (client *NSQClient) Enqueue(topic string, photoID int64) error {
	return client.enqueueString(topic, strconv.FormatInt(photoID, 10))
}

func (client *NSQClient) enqueueString(topic string, data string) error {
	url := fmt.Sprintf("%s/pub?topic=%s", client.URL, topic)
	resp, err := http.Post(url, "text/html", bytes.NewBuffer([]byte(data)))
	if err != nil {
		return fmt.Errorf("nsqd returned an error when queuing data: %v", err)
	}
	if resp == nil {
		return fmt.Errorf("no response from nsqd at '%s', is it running?", url)
	}

	// nsqd sends a simple OK. We have to read the response body,
	// or the connection will hang open forever.
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != 200 {
		bodyText := "[no response body]"
		if len(body) > 0 {
			bodyText = string(body)
		}
		return fmt.Errorf("nsqd returned status code %d when attempting to queue data, "+
			"response body: %s", resp.StatusCode, bodyText)
	}
	return nil
}
