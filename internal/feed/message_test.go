package feed

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodePositionReport(t *testing.T) {
	raw := []byte(`{
		"MessageType": "PositionReport",
		"Message": {
			"UserID": 563012345,
			"Latitude": 10.43,
			"Longitude": 45.01,
			"SOG": 0.3,
			"COG": 182.5,
			"NavigationalStatus": "Moored"
		}
	}`)

	report, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	position, ok := report.(*PositionReport)
	if !ok {
		t.Fatalf("Decode() = %T, want *PositionReport", report)
	}
	if position.UserID == nil || *position.UserID != 563012345 {
		t.Errorf("UserID = %v, want 563012345", position.UserID)
	}
	if position.Latitude == nil || *position.Latitude != 10.43 {
		t.Errorf("Latitude = %v, want 10.43", position.Latitude)
	}
	if position.SOG == nil || *position.SOG != 0.3 {
		t.Errorf("SOG = %v, want 0.3", position.SOG)
	}
	if position.NavStatus != "Moored" {
		t.Errorf("NavStatus = %q, want %q", position.NavStatus, "Moored")
	}
}

func TestDecodePositionReportMissingFields(t *testing.T) {
	raw := []byte(`{"MessageType": "PositionReport", "Message": {"Latitude": 10.43}}`)

	report, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	position := report.(*PositionReport)
	if position.UserID != nil {
		t.Errorf("UserID = %v, want nil", position.UserID)
	}
	if position.Longitude != nil {
		t.Errorf("Longitude = %v, want nil", position.Longitude)
	}
	if position.SOG != nil {
		t.Errorf("SOG = %v, want nil", position.SOG)
	}
}

func TestDecodeStaticReport(t *testing.T) {
	raw := []byte(`{
		"MessageType": "ShipStaticData",
		"Message": {
			"UserID": 563012345,
			"Name": "EVER GIVEN",
			"CallSign": "H3RC",
			"ImoNumber": 9811000,
			"Type": 71,
			"Destination": "BERBERA"
		}
	}`)

	report, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode() unexpected error: %v", err)
	}

	static, ok := report.(*StaticReport)
	if !ok {
		t.Fatalf("Decode() = %T, want *StaticReport", report)
	}
	if static.Name != "EVER GIVEN" {
		t.Errorf("Name = %q, want %q", static.Name, "EVER GIVEN")
	}
	if static.IMONumber != 9811000 {
		t.Errorf("IMONumber = %v, want 9811000", static.IMONumber)
	}
	if static.Destination != "BERBERA" {
		t.Errorf("Destination = %q, want %q", static.Destination, "BERBERA")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "not json", raw: "garbage", wantErr: ErrInvalidEnvelope},
		{name: "unknown type", raw: `{"MessageType": "AidsToNavigationReport", "Message": {}}`, wantErr: ErrUnknownMessageType},
		{name: "empty type", raw: `{"Message": {}}`, wantErr: ErrUnknownMessageType},
		{name: "bad position body", raw: `{"MessageType": "PositionReport", "Message": {"Latitude": "north"}}`, wantErr: ErrInvalidReport},
		{name: "bad static body", raw: `{"MessageType": "ShipStaticData", "Message": [1,2]}`, wantErr: ErrInvalidReport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.raw))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Decode() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewSubscriptionShape(t *testing.T) {
	sub := NewSubscription("key", [4]float64{44.95, 10.35, 45.10, 10.50})

	data, err := json.Marshal(sub)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}

	var decoded struct {
		APIKey             string        `json:"APIKey"`
		BoundingBoxes      [][][]float64 `json:"BoundingBoxes"`
		FilterMessageTypes []string      `json:"FilterMessageTypes"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() unexpected error: %v", err)
	}

	if decoded.APIKey != "key" {
		t.Errorf("APIKey = %q, want %q", decoded.APIKey, "key")
	}
	if len(decoded.BoundingBoxes) != 1 || len(decoded.BoundingBoxes[0]) != 1 {
		t.Fatalf("BoundingBoxes = %v, want one nested box", decoded.BoundingBoxes)
	}
	box := decoded.BoundingBoxes[0][0]
	want := []float64{44.95, 10.35, 45.10, 10.50}
	for i := range want {
		if box[i] != want[i] {
			t.Errorf("BoundingBoxes[0][0][%d] = %v, want %v", i, box[i], want[i])
		}
	}
	if len(decoded.FilterMessageTypes) != 2 {
		t.Errorf("FilterMessageTypes = %v, want both report types", decoded.FilterMessageTypes)
	}
}
