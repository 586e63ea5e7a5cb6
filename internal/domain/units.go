package domain

import (
	"math"
	"strconv"
)

const (
	mmToHundredthsInch = 3.93700787
	knotsToMPH         = 1.15077945
)

// compassDegrees is the 16-point compass rose as the APRS convention rounds
// it. CALM reports as 0, the same as due north; receivers disambiguate via
// the zero wind speed.
var compassDegrees = map[Token]float64{
	"N": 0, "NNE": 22, "NE": 45, "ENE": 67,
	"E": 90, "ESE": 112, "SE": 135, "SSE": 157,
	"S": 180, "SSW": 202, "SW": 225, "WSW": 247,
	"W": 270, "WNW": 292, "NW": 315, "NNW": 337,
	"CALM": 0,
}

// CelsiusToFahrenheit converts air temperature.
func CelsiusToFahrenheit(c Value) Value {
	f, ok := c.Float64()
	if !ok {
		return Missing()
	}
	return Number(f*9/5 + 32)
}

// HectopascalsToTenths converts station pressure to the whole tenths of hPa
// the wire format carries.
func HectopascalsToTenths(p Value) Value {
	f, ok := p.Float64()
	if !ok {
		return Missing()
	}
	return Number(math.Round(f * 10))
}

// MillimetresToHundredthsInch converts rainfall.
func MillimetresToHundredthsInch(mm Value) Value {
	f, ok := mm.Float64()
	if !ok {
		return Missing()
	}
	return Number(f * mmToHundredthsInch)
}

// KnotsToMilesPerHour converts wind speed and gust.
func KnotsToMilesPerHour(kt Value) Value {
	f, ok := kt.Float64()
	if !ok {
		return Missing()
	}
	return Number(f * knotsToMPH)
}

// WindDirectionDegrees resolves a wind direction token to degrees: compass
// lookup first, then a direct numeric parse, else missing.
func WindDirectionDegrees(dir Token) Value {
	if deg, ok := compassDegrees[dir]; ok {
		return Number(deg)
	}
	if f, err := strconv.ParseFloat(string(dir), 64); err == nil {
		return Number(f)
	}
	return Missing()
}
