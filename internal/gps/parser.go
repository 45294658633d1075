// Package gps decodes an incremental NMEA 0183 byte stream into position
// fixes. The parser is fed one byte at a time so the serial stream can be
// drained continuously without buffering whole sentences upstream.
package gps

import (
	"fmt"
	"strconv"
	"strings"
)

const maxSentenceLen = 82 // NMEA 0183 limit including "$" and CRLF

// Fix is the accumulated GPS state. When Valid is false every other field is
// stale or zero and must not be used.
type Fix struct {
	Latitude   float64
	Longitude  float64
	Altitude   float64 // metres above mean sea level
	SpeedKmh   float64
	HDOP       float64
	Satellites int
	TimeUTC    string // "YYYY/M/D,H:M:S"
	Valid      bool
}

// Parser accumulates NMEA sentences byte by byte. A fix becomes valid once
// both an active RMC and a positive-quality GGA sentence have been decoded.
type Parser struct {
	buf []byte

	lat, lon   float64
	altitude   float64
	speedKmh   float64
	hdop       float64
	satellites int

	day, month, year     int
	hour, minute, second int

	rmcActive bool
	ggaFix    bool
	hasDate   bool
}

// NewParser returns an empty parser; Fix().Valid is false until a full fix
// has been decoded.
func NewParser() *Parser {
	return &Parser{buf: make([]byte, 0, maxSentenceLen)}
}

// Feed consumes one byte of the NMEA stream. Garbage between sentences is
// discarded without losing sync.
func (p *Parser) Feed(b byte) {
	switch b {
	case '$':
		p.buf = p.buf[:0]
		p.buf = append(p.buf, b)
	case '\r', '\n':
		if len(p.buf) > 0 {
			p.parseSentence(string(p.buf))
			p.buf = p.buf[:0]
		}
	default:
		if len(p.buf) == 0 {
			return // wait for start of sentence
		}
		if len(p.buf) >= maxSentenceLen {
			p.buf = p.buf[:0]
			return
		}
		p.buf = append(p.buf, b)
	}
}

// Fix returns the current accumulated fix.
func (p *Parser) Fix() Fix {
	valid := p.rmcActive && p.ggaFix && p.hasDate
	if !valid {
		return Fix{}
	}
	return Fix{
		Latitude:   p.lat,
		Longitude:  p.lon,
		Altitude:   p.altitude,
		SpeedKmh:   p.speedKmh,
		HDOP:       p.hdop,
		Satellites: p.satellites,
		TimeUTC: fmt.Sprintf("%d/%d/%d,%d:%d:%d",
			p.year, p.month, p.day, p.hour, p.minute, p.second),
		Valid: true,
	}
}

func (p *Parser) parseSentence(s string) {
	body, ok := verifyChecksum(s)
	if !ok {
		return
	}
	fields := strings.Split(body, ",")
	if len(fields) == 0 || len(fields[0]) < 5 {
		return
	}
	// Talker ID (GP, GN, GL, ...) varies by receiver; dispatch on type only.
	switch fields[0][len(fields[0])-3:] {
	case "RMC":
		p.parseRMC(fields)
	case "GGA":
		p.parseGGA(fields)
	}
}

// parseRMC handles the Recommended Minimum sentence:
// $GPRMC,time,status,lat,N/S,lon,E/W,speedKnots,course,date,...
func (p *Parser) parseRMC(f []string) {
	if len(f) < 10 {
		return
	}
	if f[2] != "A" {
		p.rmcActive = false
		return
	}
	lat, err := parseCoordinate(f[3], f[4])
	if err != nil {
		return
	}
	lon, err := parseCoordinate(f[5], f[6])
	if err != nil {
		return
	}
	p.lat, p.lon = lat, lon

	if knots, err := strconv.ParseFloat(f[7], 64); err == nil {
		p.speedKmh = knots * 1.852
	}
	if h, m, s, ok := parseClock(f[1]); ok {
		p.hour, p.minute, p.second = h, m, s
	}
	if len(f[9]) == 6 {
		day, err1 := strconv.Atoi(f[9][0:2])
		month, err2 := strconv.Atoi(f[9][2:4])
		year, err3 := strconv.Atoi(f[9][4:6])
		if err1 == nil && err2 == nil && err3 == nil {
			p.day, p.month, p.year = day, month, 2000+year
			p.hasDate = true
		}
	}
	p.rmcActive = true
}

// parseGGA handles the fix data sentence:
// $GPGGA,time,lat,N/S,lon,E/W,quality,numSats,hdop,altitude,M,...
func (p *Parser) parseGGA(f []string) {
	if len(f) < 10 {
		return
	}
	quality, err := strconv.Atoi(f[6])
	if err != nil || quality == 0 {
		p.ggaFix = false
		return
	}
	if n, err := strconv.Atoi(f[7]); err == nil {
		p.satellites = n
	}
	if v, err := strconv.ParseFloat(f[8], 64); err == nil {
		p.hdop = v
	}
	if v, err := strconv.ParseFloat(f[9], 64); err == nil {
		p.altitude = v
	}
	p.ggaFix = true
}

// verifyChecksum strips "$...*hh" framing and checks the XOR checksum.
// Sentences without a checksum are rejected.
func verifyChecksum(s string) (string, bool) {
	if len(s) < 4 || s[0] != '$' {
		return "", false
	}
	star := strings.LastIndexByte(s, '*')
	if star < 0 || star+3 != len(s) {
		return "", false
	}
	want, err := strconv.ParseUint(s[star+1:], 16, 8)
	if err != nil {
		return "", false
	}
	var sum byte
	for i := 1; i < star; i++ {
		sum ^= s[i]
	}
	if sum != byte(want) {
		return "", false
	}
	return s[1:star], true
}

// parseCoordinate converts "ddmm.mmmm"/"dddmm.mmmm" plus hemisphere into
// decimal degrees.
func parseCoordinate(value, hemisphere string) (float64, error) {
	dot := strings.IndexByte(value, '.')
	if dot < 3 {
		return 0, fmt.Errorf("malformed coordinate %q", value)
	}
	degrees, err := strconv.ParseFloat(value[:dot-2], 64)
	if err != nil {
		return 0, err
	}
	minutes, err := strconv.ParseFloat(value[dot-2:], 64)
	if err != nil {
		return 0, err
	}
	out := degrees + minutes/60
	switch hemisphere {
	case "N", "E":
	case "S", "W":
		out = -out
	default:
		return 0, fmt.Errorf("unknown hemisphere %q", hemisphere)
	}
	return out, nil
}

func parseClock(s string) (hour, minute, second int, ok bool) {
	if len(s) < 6 {
		return 0, 0, 0, false
	}
	h, err1 := strconv.Atoi(s[0:2])
	m, err2 := strconv.Atoi(s[2:4])
	sec, err3 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return h, m, sec, true
}
