package pipeline

import (
	"github.com/auswx/bomwx/internal/domain"
)

// buildReport converts one observation into the wire payload. Conversions
// degrade per field; only a missing position refuses the whole report.
func buildReport(obs domain.Observation, comment string) (string, error) {
	wx := domain.Weather{
		WindDirectionDeg:  domain.WindDirectionDegrees(obs.WindDir),
		WindSpeedMPH:      domain.KnotsToMilesPerHour(obs.WindSpeedKt),
		WindGustMPH:       domain.KnotsToMilesPerHour(obs.WindGustKt),
		TemperatureF:      domain.CelsiusToFahrenheit(obs.AirTempC),
		RainHundredthsIn:  domain.MillimetresToHundredthsInch(obs.RainTraceMM),
		HumidityPct:       obs.RelHumidity,
		PressureTenthsHPa: domain.HectopascalsToTenths(obs.PressureHPa),
	}
	return domain.EncodeReport(obs.Lat, obs.Lon, wx, comment)
}

// commentFor prefers the station's human-readable name, falling back to a
// generic label that still identifies the source file.
func commentFor(stationName, sourceFile string) string {
	if stationName != "" {
		return stationName
	}
	return "BOMWX " + sourceFile
}
