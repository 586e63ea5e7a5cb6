// Package domain models Bureau of Meteorology (BOM) observation data and its
// conversion into APRS weather reports for the CWOP network.
//
// # Data Source
//
// Observations come from the BOM 72-hour observation products, published as
// gzipped tar archives on ftp.bom.gov.au (for example
// /anon/gen/fwo/IDS60910.tgz for South Australia). Each archive member is a
// JSON product for one station:
//
//	{"observations": {"header": [{"name": "Adelaide (West Terrace)", ...}],
//	                  "data":   [{...latest...}, {...older...}, ...]}}
//
// The data sequence is newest-first per the feed's convention; the first entry
// is taken as the current reading. That ordering is documented upstream but
// not verified here.
//
// # Feed Conventions
//
// Fields are loosely typed: the same field may arrive as a JSON number, a
// numeric string, null, or a sentinel such as "-" for "not reported".
// [Value] absorbs all of these; anything that does not parse as a number is
// simply missing. Missing is a normal state, never an error.
//
// Wind direction is either a 16-point compass token ("N" ... "NNW", plus
// "CALM") or bare degrees. Compass lookup is tried first, then a numeric
// parse. Rainfall (rain_trace) is millimetres since 9am local, reported as a
// string.
//
// # Wire Format
//
// An APRS weather report is a single fixed-width line:
//
//	!DDMM.mmH/DDDMM.mmH_ddd/sssgggtttPrrrhhbppppp<comment>
//
//	ddd   wind direction, degrees            (3)
//	sss   wind speed, mph                    (3)
//	ggg   gust, mph                          (3)
//	ttt   temperature, °F                    (3)
//	rrr   rain since reference, 1/100 inch   (3)
//	hh    relative humidity, percent         (2)
//	ppppp barometric pressure, tenths of hPa (5)
//
// Each field is zero-padded to its width; a missing field renders as a run of
// '.' of exactly the same width, so the line's shape never varies. Fractional
// values round half-to-even before padding. Latitude is DDMM.mm plus N/S,
// longitude DDDMM.mm plus E/W. A report without a numeric position cannot be
// encoded at all.
package domain
