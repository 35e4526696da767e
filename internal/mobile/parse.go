package mobile

import "strings"

// TypeQR is assumed when a payload carries no symbology prefix.
const TypeQR = "qr"

var symbologies = map[string]bool{
	"qr":         true,
	"aztec":      true,
	"datamatrix": true,
	"pdf417":     true,
	"ean13":      true,
	"ean8":       true,
	"code128":    true,
	"code39":     true,
	"upc_a":      true,
	"upc_e":      true,
}

// ParseLine turns one line of scanner output into a ScanEvent. "ean13:42"
// carries its symbology; anything else, URLs included, is QR data. Blank
// lines yield false.
func ParseLine(line string) (ScanEvent, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return ScanEvent{}, false
	}
	if i := strings.IndexByte(line, ':'); i > 0 {
		typ := strings.ToLower(line[:i])
		if symbologies[typ] {
			return ScanEvent{Type: typ, Data: strings.TrimSpace(line[i+1:])}, true
		}
	}
	return ScanEvent{Type: TypeQR, Data: line}, true
}
