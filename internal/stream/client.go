package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/Ruwbdy/Operation-portal-sub000/internal/models"
)

// BatchKind identifies which event source produced a batch.
type BatchKind string

const (
	BatchCIS BatchKind = "CIS"
	BatchCCN BatchKind = "CCN"
	BatchSDP BatchKind = "SDP"
)

// Batch is one demultiplexed wire message: a batch of records of a single
// kind. Exactly one of the record slices is populated, selected by Kind.
type Batch struct {
	Kind BatchKind
	CIS  []models.CISRecord
	CCN  []models.CCNRecord
	SDP  []models.SDPRecord
}

// Query scopes one stream to a subscriber and a date range. The MSISDN is
// expected already normalized and the dates already validated and ordered.
type Query struct {
	MSISDN string
	From   time.Time
	To     time.Time
}

// Client opens fulfilment event streams against the stream gateway.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a stream client for the given base URL. The HTTP
// client carries no timeout: the stream is long-lived by design and is
// ended by the server or by context cancellation.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
	}
}

// Stream opens one streaming connection for the query and sends every
// demultiplexed batch on out, in arrival order. It blocks until the stream
// ends and returns:
//
//   - nil when the connection ends cleanly,
//   - nil when ctx is cancelled (cancellation is silent, not a failure),
//   - the transport error otherwise.
//
// Messages with an unrecognized event tag are ignored. Messages whose
// payload fails to parse are logged and skipped; the stream continues.
// The out channel is not closed; the caller owns it.
func (c *Client) Stream(ctx context.Context, q Query, out chan<- Batch) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.streamURL(q), nil)
	if err != nil {
		return fmt.Errorf("failed to build stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to connect to event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream returned status %d", resp.StatusCode)
	}

	parser := &frameParser{}
	buf := make([]byte, 4096)

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			for _, f := range parser.Feed(buf[:n]) {
				batch, ok := decodeFrame(f)
				if !ok {
					continue
				}
				select {
				case out <- batch:
				case <-ctx.Done():
					return nil
				}
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("event stream read failed: %w", err)
		}
	}
}

// streamURL builds the stream endpoint URL for a query.
func (c *Client) streamURL(q Query) string {
	params := url.Values{}
	params.Set("msisdn", q.MSISDN)
	params.Set("startDate", q.From.Format("2006-01-02"))
	params.Set("endDate", q.To.Format("2006-01-02"))
	return c.baseURL + "/api/fulfilment/events?" + params.Encode()
}

// decodeFrame parses a frame's JSON payload into a typed batch. Unknown
// tags and unparseable payloads both yield ok=false; only the latter is
// logged, since unknown tags are a forward-compatibility case.
func decodeFrame(f frame) (Batch, bool) {
	switch BatchKind(f.Event) {
	case BatchCIS:
		var records []models.CISRecord
		if err := json.Unmarshal(f.Data, &records); err != nil {
			log.Printf("skipping malformed CIS batch: %v", err)
			return Batch{}, false
		}
		return Batch{Kind: BatchCIS, CIS: records}, true

	case BatchCCN:
		var records []models.CCNRecord
		if err := json.Unmarshal(f.Data, &records); err != nil {
			log.Printf("skipping malformed CCN batch: %v", err)
			return Batch{}, false
		}
		return Batch{Kind: BatchCCN, CCN: records}, true

	case BatchSDP:
		var records []models.SDPRecord
		if err := json.Unmarshal(f.Data, &records); err != nil {
			log.Printf("skipping malformed SDP batch: %v", err)
			return Batch{}, false
		}
		return Batch{Kind: BatchSDP, SDP: records}, true

	default:
		return Batch{}, false
	}
}
