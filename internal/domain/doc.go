// Package domain models seismic event records read from a flat text feed.
//
// # Feed Format
//
// The feed is plain text. The first line is a column header and is ignored.
// Every following non-blank line holds exactly eight whitespace-separated
// fields:
//
//	id  date      time        lat    long    depth  m    ml
//	1   20230101  120000.000  64.10  -21.90  5.0    3.2  3.0
//
// Field conventions:
//
//	id     integer identifier assigned by the source network.
//	date   YYYYMMDD, exactly eight digits.
//	time   HHMMSS.mmm, six digits, a literal dot, three millisecond digits.
//	lat    latitude in decimal degrees.
//	long   longitude in decimal degrees.
//	depth  depth as reported, no unit conversion.
//	m      magnitude.
//	ml     local magnitude, reported independently of m.
//
// # Time Zone
//
// The feed carries no offset. Date and time are combined in a caller-supplied
// [time.Location], which defaults to the process-local zone. Out-of-range
// calendar fields normalize the way [time.Date] does.
//
// # Selection Unit
//
// Time windows are expressed in float epoch seconds with a millisecond
// fraction, see [EpochSeconds]. A record is inside [min, max] when its epoch
// seconds satisfy min <= t <= max.
package domain
