// Package feed speaks the aisstream.io websocket protocol: the subscription
// request, the message envelope, and the two report variants the pipeline
// consumes.
package feed

import (
	"encoding/json"
	"errors"
	"fmt"
)

const (
	MessageTypePositionReport = "PositionReport"
	MessageTypeShipStaticData = "ShipStaticData"
)

var (
	ErrInvalidEnvelope    = errors.New("invalid message envelope")
	ErrInvalidReport      = errors.New("invalid report body")
	ErrUnknownMessageType = errors.New("unknown message type")
)

// Subscription is the request that opens (and keeps alive) a filtered stream.
// BoundingBoxes nests one box as [[[minLon, minLat, maxLon, maxLat]]].
type Subscription struct {
	APIKey             string        `json:"APIKey"`
	BoundingBoxes      [][][]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string      `json:"FilterMessageTypes"`
}

// NewSubscription builds a subscription for one bounding box and both report
// types, bbox ordered minLon, minLat, maxLon, maxLat.
func NewSubscription(apiKey string, bbox [4]float64) Subscription {
	return Subscription{
		APIKey:             apiKey,
		BoundingBoxes:      [][][]float64{{bbox[:]}},
		FilterMessageTypes: []string{MessageTypePositionReport, MessageTypeShipStaticData},
	}
}

type envelope struct {
	MessageType string          `json:"MessageType"`
	Message     json.RawMessage `json:"Message"`
}

// Report is the closed set of inbound message variants.
type Report interface {
	isReport()
}

// PositionReport carries one position fix. Pointer fields distinguish absent
// values from zero coordinates; validation of mandatory fields is the
// consumer's call.
type PositionReport struct {
	UserID    *int64   `json:"UserID"`
	Latitude  *float64 `json:"Latitude"`
	Longitude *float64 `json:"Longitude"`
	SOG       *float64 `json:"SOG"`
	COG       *float64 `json:"COG"`
	NavStatus string   `json:"NavigationalStatus"`
}

func (*PositionReport) isReport() {}

// StaticReport carries vessel static data.
type StaticReport struct {
	UserID      *int64 `json:"UserID"`
	Name        string `json:"Name"`
	CallSign    string `json:"CallSign"`
	IMONumber   int64  `json:"ImoNumber"`
	ShipType    int    `json:"Type"`
	Destination string `json:"Destination"`
}

func (*StaticReport) isReport() {}

// Decode parses a raw feed message into exactly one Report variant.
func Decode(raw []byte) (Report, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnvelope, err)
	}

	switch env.MessageType {
	case MessageTypePositionReport:
		var report PositionReport
		if err := json.Unmarshal(env.Message, &report); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
		return &report, nil
	case MessageTypeShipStaticData:
		var report StaticReport
		if err := json.Unmarshal(env.Message, &report); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
		}
		return &report, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMessageType, env.MessageType)
	}
}
