package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNoObservations indicates a product file that decoded fine but carries no
// observation data.
var ErrNoObservations = errors.New("no observation data")

// Value is an optional numeric field. The feed is loosely typed: the same
// field may arrive as a JSON number, a numeric string, null, or a sentinel
// like "-". Anything that does not parse as a number is missing, which is a
// normal state rather than an error.
type Value struct {
	val     float64
	present bool
}

// Number returns a present Value.
func Number(v float64) Value {
	return Value{val: v, present: true}
}

// Missing returns an absent Value.
func Missing() Value {
	return Value{}
}

// Float64 returns the numeric value and whether it is present.
func (v Value) Float64() (float64, bool) {
	return v.val, v.present
}

// Present reports whether the value carries a number.
func (v Value) Present() bool {
	return v.present
}

// UnmarshalJSON accepts numbers, numeric strings, and null. Unparseable
// input leaves the value missing; it never returns an error, because a
// malformed field must degrade to "not reported", not poison the record.
func (v *Value) UnmarshalJSON(data []byte) error {
	*v = Value{}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*v = Number(f)
		}
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
	}
	return nil
}

// Token preserves a field's text whether the feed encoded it as a JSON string
// or a number. Wind direction arrives as "SSW" from most products and as bare
// degrees from a few.
type Token string

func (t *Token) UnmarshalJSON(data []byte) error {
	*t = ""

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Token(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*t = Token(n.String())
	}
	return nil
}

// Observation is one point-in-time station reading.
type Observation struct {
	StationName   string `json:"name"`
	LocalDateTime string `json:"local_date_time"`

	Lat Value `json:"lat"`
	Lon Value `json:"lon"`

	AirTempC     Value `json:"air_temp"`
	PressureHPa  Value `json:"press"`
	RainTraceMM  Value `json:"rain_trace"`
	RelHumidity  Value `json:"rel_hum"`
	WindSpeedKt  Value `json:"wind_spd_kt"`
	WindGustKt   Value `json:"gust_kt"`
	WindDir      Token `json:"wind_dir"`
}

// ObservationFile is one decoded station product.
type ObservationFile struct {
	StationName  string
	Observations []Observation
}

// Latest returns the most recent reading: the first entry of the newest-first
// sequence the feed supplies.
func (f ObservationFile) Latest() (Observation, bool) {
	if len(f.Observations) == 0 {
		return Observation{}, false
	}
	return f.Observations[0], true
}

// bomProduct mirrors the BOM JSON product envelope. A handful of products
// also carry the station name at the top level.
type bomProduct struct {
	Name         string `json:"name"`
	Observations struct {
		Header productHeader `json:"header"`
		Data   []Observation `json:"data"`
	} `json:"observations"`
}

// productHeader extracts the station name from the product header, which the
// feed encodes as either a single object or a list of objects. Like Value and
// Token it never errors: a header in an unexpected shape costs the name, not
// the observations behind it.
type productHeader struct {
	Name string
}

type headerFields struct {
	Name        string `json:"name"`
	StationName string `json:"station_name"`
}

func (f headerFields) name() string {
	if n := strings.TrimSpace(f.Name); n != "" {
		return n
	}
	return strings.TrimSpace(f.StationName)
}

func (h *productHeader) UnmarshalJSON(data []byte) error {
	*h = productHeader{}

	var obj headerFields
	if err := json.Unmarshal(data, &obj); err == nil {
		h.Name = obj.name()
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil
	}
	for _, raw := range list {
		var entry headerFields
		if err := json.Unmarshal(raw, &entry); err != nil {
			continue
		}
		if n := entry.name(); n != "" {
			h.Name = n
			return nil
		}
	}
	return nil
}

// ParseObservationFile decodes one BOM station product. The station name is
// taken from the product header when present, then the product's top-level
// name, then the first data row. A product without any data rows is
// ErrNoObservations.
func ParseObservationFile(data []byte) (ObservationFile, error) {
	var product bomProduct
	if err := json.Unmarshal(data, &product); err != nil {
		return ObservationFile{}, fmt.Errorf("parse observation file: %w", err)
	}

	obs := product.Observations.Data
	if len(obs) == 0 {
		return ObservationFile{}, ErrNoObservations
	}

	name := product.Observations.Header.Name
	if name == "" {
		name = strings.TrimSpace(product.Name)
	}
	if name == "" {
		name = strings.TrimSpace(obs[0].StationName)
	}

	return ObservationFile{StationName: name, Observations: obs}, nil
}

// SourceFile is one archive member handed over by the retrieval adapter.
type SourceFile struct {
	Name string
	Data []byte
}
