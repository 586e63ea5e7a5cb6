package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Field widths are fixed by the APRS weather report format and never vary
// with content.
const (
	widthWindDir  = 3
	widthWindGust = 3
	widthSpeed    = 3
	widthTemp     = 3
	widthRain     = 3
	widthHumidity = 2
	widthPressure = 5
)

// missingFill is the placeholder character for an unreported field.
const missingFill = "."

// ErrNoPosition indicates an observation whose latitude or longitude is
// absent or non-numeric; such a report cannot be encoded.
var ErrNoPosition = errors.New("position is missing or not numeric")

// Weather holds the converted field set a report carries. All values are
// already in wire units (degrees, mph, °F, hundredths of inches, percent,
// tenths of hPa).
type Weather struct {
	WindDirectionDeg  Value
	WindSpeedMPH      Value
	WindGustMPH       Value
	TemperatureF      Value
	RainHundredthsIn  Value
	HumidityPct       Value
	PressureTenthsHPa Value
}

// EncodeReport assembles the canonical fixed-width report string. Encoding is
// deterministic: identical input always yields the identical byte sequence.
// Fractional fields round half-to-even before zero-padding.
func EncodeReport(lat, lon Value, wx Weather, comment string) (string, error) {
	latToken, err := latitudeToken(lat)
	if err != nil {
		return "", err
	}
	lonToken, err := longitudeToken(lon)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("!%s/%s_%s/%sg%st%sP%sh%sb%s%s",
		latToken, lonToken,
		fixedWidth(wx.WindDirectionDeg, widthWindDir),
		fixedWidth(wx.WindSpeedMPH, widthSpeed),
		fixedWidth(wx.WindGustMPH, widthWindGust),
		fixedWidth(wx.TemperatureF, widthTemp),
		fixedWidth(wx.RainHundredthsIn, widthRain),
		fixedWidth(wx.HumidityPct, widthHumidity),
		fixedWidth(wx.PressureTenthsHPa, widthPressure),
		comment,
	), nil
}

// fixedWidth renders a value zero-padded to exactly width characters, or a
// placeholder run of the same width when the value is missing.
func fixedWidth(v Value, width int) string {
	f, ok := v.Float64()
	if !ok {
		return strings.Repeat(missingFill, width)
	}
	return fmt.Sprintf("%0*.0f", width, f)
}

// latitudeToken renders DDMM.mm plus hemisphere letter, e.g. 3455.71S.
func latitudeToken(lat Value) (string, error) {
	f, ok := lat.Float64()
	if !ok {
		return "", ErrNoPosition
	}
	deg := int(math.Abs(f))
	minutes := (math.Abs(f) - float64(deg)) * 60
	hemi := "S"
	if f > 0 {
		hemi = "N"
	}
	return fmt.Sprintf("%02d%05.2f%s", deg, minutes, hemi), nil
}

// longitudeToken renders DDDMM.mm plus hemisphere letter, e.g. 13836.04E.
func longitudeToken(lon Value) (string, error) {
	f, ok := lon.Float64()
	if !ok {
		return "", ErrNoPosition
	}
	deg := int(math.Abs(f))
	minutes := (math.Abs(f) - float64(deg)) * 60
	hemi := "E"
	if f < 0 {
		hemi = "W"
	}
	return fmt.Sprintf("%03d%05.2f%s", deg, minutes, hemi), nil
}
