// Package edge implements the origin-request URL rewrite run by the
// distribution at the edge: directory URLs ("/docs/") are mapped to
// their index document ("/docs/index.html").
//
// Lambda@Edge has no Go runtime, so the deployed function is the Python
// handler in InlineSource. This package holds the same contract in Go,
// for tests and for the rewrite command.
package edge

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultIndexDocument is appended to directory URLs when no other
// index document is configured.
const DefaultIndexDocument = "index.html"

// IndexVariable is the Fn::Sub variable in InlineSource that receives
// the index document at deploy time.
const IndexVariable = "IndexDocument"

// InlineSource is the deployable handler. It contains a single Fn::Sub
// placeholder, ${IndexDocument}.
//
//go:embed handler.py
var InlineSource string

// ErrNoRecords is returned for an event envelope without records.
var ErrNoRecords = errors.New("edge: event has no records")

// ErrNoURI is returned when the request carries no uri string.
var ErrNoURI = errors.New("edge: request has no uri")

// Event is the Lambda@Edge event envelope CloudFront sends.
type Event struct {
	Records []Record `json:"Records"`
}

// Record is one CloudFront event record.
type Record struct {
	CF CF `json:"cf"`
}

// CF carries the distribution config and the viewer or origin request.
type CF struct {
	Config  Config  `json:"config"`
	Request Request `json:"request"`
}

// Config identifies the distribution and event type of a record.
type Config struct {
	DistributionDomainName string `json:"distributionDomainName,omitempty"`
	DistributionID         string `json:"distributionId,omitempty"`
	EventType              string `json:"eventType,omitempty"`
	RequestID              string `json:"requestId,omitempty"`
}

// Request is the request object the handler receives and returns.
type Request struct {
	ClientIP    string              `json:"clientIp,omitempty"`
	Method      string              `json:"method,omitempty"`
	URI         string              `json:"uri"`
	QueryString string              `json:"querystring"`
	Headers     map[string][]Header `json:"headers,omitempty"`
	Origin      map[string]any      `json:"origin,omitempty"`
	Body        map[string]any      `json:"body,omitempty"`
}

// Header is a CloudFront header entry.
type Header struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Rewrite appends index to uri when it ends in "/" and returns uri
// unchanged otherwise. An empty index means DefaultIndexDocument.
func Rewrite(uri, index string) string {
	if index == "" {
		index = DefaultIndexDocument
	}
	if strings.HasSuffix(uri, "/") {
		return uri + index
	}
	return uri
}

// Handle rewrites the request of the first record, like the deployed
// handler does, and returns it.
func Handle(ev Event, index string) (Request, error) {
	if len(ev.Records) == 0 {
		return Request{}, ErrNoRecords
	}
	req := ev.Records[0].CF.Request
	req.URI = Rewrite(req.URI, index)
	return req, nil
}

// HandleJSON decodes an event envelope, rewrites the uri of the first
// record's request and encodes that request. Every other request field
// is passed through untouched, as the deployed handler does.
func HandleJSON(data []byte, index string) ([]byte, error) {
	var ev struct {
		Records []struct {
			CF struct {
				Request map[string]any `json:"request"`
			} `json:"cf"`
		} `json:"Records"`
	}
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decoding event: %w", err)
	}
	if len(ev.Records) == 0 {
		return nil, ErrNoRecords
	}

	req := ev.Records[0].CF.Request
	uri, ok := req["uri"].(string)
	if !ok {
		return nil, ErrNoURI
	}
	req["uri"] = Rewrite(uri, index)
	return json.MarshalIndent(req, "", "  ")
}
