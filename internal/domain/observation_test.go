package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProduct = `{
  "observations": {
    "header": [{"refresh_message": "Issued at 9:01 am CST", "ID": "IDS60910", "name": "Adelaide (West Terrace / ngayirdapira)"}],
    "data": [
      {"name": "Adelaide", "local_date_time": "26/09:00am", "lat": -34.9285, "lon": 138.6007,
       "air_temp": 18.5, "press": 1013.2, "rain_trace": "0.0", "rel_hum": 55,
       "wind_spd_kt": 10, "gust_kt": 15, "wind_dir": "SW"},
      {"name": "Adelaide", "local_date_time": "26/08:30am", "lat": -34.9285, "lon": 138.6007,
       "air_temp": 17.9, "press": 1013.6, "rain_trace": "0.0", "rel_hum": 58,
       "wind_spd_kt": 8, "gust_kt": 12, "wind_dir": "SSW"}
    ]
  }
}`

func TestParseObservationFile(t *testing.T) {
	t.Run("full product", func(t *testing.T) {
		file, err := ParseObservationFile([]byte(sampleProduct))

		require.NoError(t, err)
		assert.Equal(t, "Adelaide (West Terrace / ngayirdapira)", file.StationName)
		require.Len(t, file.Observations, 2)

		latest, ok := file.Latest()
		require.True(t, ok)
		assert.Equal(t, "26/09:00am", latest.LocalDateTime)

		temp, ok := latest.AirTempC.Float64()
		require.True(t, ok)
		assert.Equal(t, 18.5, temp)

		rain, ok := latest.RainTraceMM.Float64()
		require.True(t, ok)
		assert.Equal(t, 0.0, rain)

		assert.Equal(t, Token("SW"), latest.WindDir)
	})

	t.Run("header as single object", func(t *testing.T) {
		data := []byte(`{"observations":{"header":{"ID":"IDS60910","name":"Adelaide (West Terrace / ngayirdapira)"},"data":[{"lat":-34.9285,"lon":138.6007}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Adelaide (West Terrace / ngayirdapira)", file.StationName)
		require.Len(t, file.Observations, 1)
	})

	t.Run("header station_name variant", func(t *testing.T) {
		data := []byte(`{"observations":{"header":{"station_name":"Parafield"},"data":[{"lat":-34.8}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Parafield", file.StationName)
	})

	t.Run("header in unexpected shape keeps the data", func(t *testing.T) {
		data := []byte(`{"observations":{"header":42,"data":[{"name":"Ceduna","lat":-32.1}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Ceduna", file.StationName)
	})

	t.Run("header list skips nameless entries", func(t *testing.T) {
		data := []byte(`{"observations":{"header":[{"refresh_message":"Issued"},{"name":"Oodnadatta"}],"data":[{"lat":-27.5}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Oodnadatta", file.StationName)
	})

	t.Run("station name falls back to top level", func(t *testing.T) {
		data := []byte(`{"name":"Woomera","observations":{"data":[{"lat":-31.1,"lon":136.8}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Woomera", file.StationName)
	})

	t.Run("station name falls back to first data row", func(t *testing.T) {
		data := []byte(`{"observations":{"data":[{"name":"Parafield","lat":-34.8,"lon":138.6}]}}`)

		file, err := ParseObservationFile(data)

		require.NoError(t, err)
		assert.Equal(t, "Parafield", file.StationName)
	})

	t.Run("empty data sequence", func(t *testing.T) {
		data := []byte(`{"observations":{"header":[{"name":"Ghost"}],"data":[]}}`)

		_, err := ParseObservationFile(data)

		assert.ErrorIs(t, err, ErrNoObservations)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ParseObservationFile([]byte("{not json"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse observation file")
	})

	t.Run("latest on empty file", func(t *testing.T) {
		_, ok := ObservationFile{}.Latest()
		assert.False(t, ok)
	})
}

func TestValueUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected float64
		present  bool
	}{
		{"number", `18.5`, 18.5, true},
		{"negative number", `-34.9285`, -34.9285, true},
		{"numeric string", `"1013.2"`, 1013.2, true},
		{"padded numeric string", `" 7 "`, 7, true},
		{"null", `null`, 0, false},
		{"dash sentinel", `"-"`, 0, false},
		{"empty string", `""`, 0, false},
		{"word", `"Calm"`, 0, false},
		{"object", `{"v":1}`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, json.Unmarshal([]byte(tt.json), &v))

			f, ok := v.Float64()
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.Equal(t, tt.expected, f)
			}
		})
	}
}

func TestTokenUnmarshal(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		expected Token
	}{
		{"cardinal string", `"SSW"`, "SSW"},
		{"padded string", `" NE "`, "NE"},
		{"bare degrees", `225`, "225"},
		{"fractional degrees", `222.5`, "222.5"},
		{"null", `null`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tok Token
			require.NoError(t, json.Unmarshal([]byte(tt.json), &tok))
			assert.Equal(t, tt.expected, tok)
		})
	}
}
