// internal/service/gps/provider.go
package gps

import (
	"crypto/subtle"
	"encoding/json"
	"math"
	"strconv"
	"time"

	"fleetops-service/internal/domain/gps"
	xerrors "fleetops-service/internal/pkg/errors"
)

// Provider adapts one upstream device format to the canonical reading
// shape. New device vendors implement these two operations; the pipeline
// never inspects payload shape itself.
type Provider interface {
	ParseLocationUpdate(payload gps.RawPayload) (*gps.Reading, error)
	ValidateAPIKey(key string) bool
}

// GenericProvider handles the loosely specified JSON most tracker gateways
// post: field names vary (deviceId/device_id, latitude/lat,
// longitude/lng/lon) and numbers arrive as strings or numbers.
type GenericProvider struct {
	apiKey string
}

func NewGenericProvider(apiKey string) *GenericProvider {
	return &GenericProvider{apiKey: apiKey}
}

func (p *GenericProvider) ValidateAPIKey(key string) bool {
	return validateKey(p.apiKey, key)
}

func (p *GenericProvider) ParseLocationUpdate(payload gps.RawPayload) (*gps.Reading, error) {
	deviceID := firstString(payload, "deviceId", "device_id", "device")
	if deviceID == "" {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "missing device identifier")
	}

	lat, ok := firstNumber(payload, "latitude", "lat")
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "latitude is not a finite number")
	}
	lon, ok := firstNumber(payload, "longitude", "lng", "lon")
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "longitude is not a finite number")
	}

	r := &gps.Reading{
		DeviceID:  deviceID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: parseTimestamp(payload, "timestamp", "ts"),
	}
	if speed, ok := firstNumber(payload, "speed"); ok {
		r.Speed = &speed
	}
	return r, nil
}

// OsmAndProvider handles the OsmAnd phone-tracker protocol field set:
// id, lat, lon, speed, timestamp (unix seconds). All values arrive as
// strings when the gateway forwards query parameters.
type OsmAndProvider struct {
	apiKey string
}

func NewOsmAndProvider(apiKey string) *OsmAndProvider {
	return &OsmAndProvider{apiKey: apiKey}
}

func (p *OsmAndProvider) ValidateAPIKey(key string) bool {
	return validateKey(p.apiKey, key)
}

func (p *OsmAndProvider) ParseLocationUpdate(payload gps.RawPayload) (*gps.Reading, error) {
	deviceID := firstString(payload, "id")
	if deviceID == "" {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "missing device identifier")
	}

	lat, ok := firstNumber(payload, "lat")
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "lat is not a finite number")
	}
	lon, ok := firstNumber(payload, "lon")
	if !ok {
		return nil, xerrors.Wrap(xerrors.ErrMalformed, "lon is not a finite number")
	}

	r := &gps.Reading{
		DeviceID:  deviceID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: parseTimestamp(payload, "timestamp"),
	}
	if speed, ok := firstNumber(payload, "speed"); ok {
		r.Speed = &speed
	}
	return r, nil
}

func validateKey(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

func firstString(payload gps.RawPayload, keys ...string) string {
	for _, k := range keys {
		if v, ok := payload[k]; ok {
			switch s := v.(type) {
			case string:
				if s != "" {
					return s
				}
			case float64:
				return strconv.FormatFloat(s, 'f', -1, 64)
			case json.Number:
				return s.String()
			}
		}
	}
	return ""
}

func firstNumber(payload gps.RawPayload, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := payload[k]
		if !ok {
			continue
		}
		return toFinite(v)
	}
	return 0, false
}

func toFinite(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// parseTimestamp accepts RFC3339 strings or unix seconds (string or
// number); absent or unparsable timestamps default to ingestion time.
func parseTimestamp(payload gps.RawPayload, keys ...string) time.Time {
	for _, k := range keys {
		v, ok := payload[k]
		if !ok {
			continue
		}
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				return t
			}
		}
		if f, ok := toFinite(v); ok && f > 0 {
			return time.Unix(int64(f), 0)
		}
	}
	return time.Now()
}
