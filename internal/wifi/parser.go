package wifi

import (
	"bufio"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrNoConnection is returned by ParseCurrentConnection when the platform
// output describes no active association. This is an expected absence
// (radio off, nothing in range), distinct from a parse failure.
var ErrNoConnection = errors.New("no active wireless connection")

// attrField identifies a canonical attribute populated from a labelled line.
type attrField int

const (
	fieldUnknown attrField = iota
	fieldBSSID
	fieldSignal
	fieldChannel
	fieldAuthentication
	fieldEncryption
	fieldPhyType
	fieldNetworkType
	fieldInterfaceName
	fieldMACAddress
	fieldState
	fieldReceiveRate
	fieldTransmitRate
)

// attrSynonym maps a label substring to a canonical field. Labels cover
// the English and Spanish console locales plus the mangled forms that
// appear when the console codepage mis-decodes accented characters
// ("Señal" arriving as "Se±al" or "SeÃ±al").
type attrSynonym struct {
	substr string
	field  attrField
}

// Synonyms are checked in order; more specific labels come first so that
// e.g. "bssid" wins before any broader match could.
var attrSynonyms = []attrSynonym{
	{"bssid", fieldBSSID},
	{"physical address", fieldMACAddress},
	{"direccion fisica", fieldMACAddress},
	{"dirección física", fieldMACAddress},
	{"direcciã³n fã­sica", fieldMACAddress},
	{"receive rate", fieldReceiveRate},
	{"velocidad de recepcion", fieldReceiveRate},
	{"velocidad de recepción", fieldReceiveRate},
	{"velocidad de recepciã³n", fieldReceiveRate},
	{"transmit rate", fieldTransmitRate},
	{"velocidad de transmision", fieldTransmitRate},
	{"velocidad de transmisión", fieldTransmitRate},
	{"velocidad de transmisiã³n", fieldTransmitRate},
	{"signal", fieldSignal},
	{"señal", fieldSignal},
	{"senal", fieldSignal},
	{"seã±al", fieldSignal},
	{"se±al", fieldSignal},
	{"channel", fieldChannel},
	{"canal", fieldChannel},
	{"authentication", fieldAuthentication},
	{"autenticacion", fieldAuthentication},
	{"autenticación", fieldAuthentication},
	{"autenticaciã³n", fieldAuthentication},
	{"encryption", fieldEncryption},
	{"cifrado", fieldEncryption},
	{"radio type", fieldPhyType},
	{"tipo de radio", fieldPhyType},
	{"network type", fieldNetworkType},
	{"tipo de red", fieldNetworkType},
	{"state", fieldState},
	{"estado", fieldState},
	{"name", fieldInterfaceName},
	{"nombre", fieldInterfaceName},
}

// ssidHeaderRe matches the network name header that starts a new record:
// the SSID label, optionally followed by a numeric index ("SSID 3").
// The label itself is identical across the supported locales.
var ssidHeaderRe = regexp.MustCompile(`^ssid(\s+\d+)?$`)

// firstIntRe extracts the first integer from an attribute value, which
// copes with decorations like "73%" or "130 (Mbps)".
var firstIntRe = regexp.MustCompile(`-?\d+`)

// openAuthMarkers identify authentication values describing an open
// network, in either locale.
var openAuthMarkers = []string{"open", "abierta", "abierto"}

// Parser turns raw platform command output into structured records.
// Unmatched or malformed lines are skipped, never fatal.
type Parser struct {
	model  *SignalModel
	logger *zap.Logger
	now    func() time.Time
}

// NewParser creates a Parser that uses model to derive RF metrics.
func NewParser(model *SignalModel, logger *zap.Logger) *Parser {
	return &Parser{
		model:  model,
		logger: logger,
		now:    time.Now,
	}
}

// splitAttrLine splits a colon-delimited attribute line into a lowercased
// key and a trimmed value. Only the portion before the first colon is
// case-folded; the value keeps its original form. Returns ok=false for
// lines without a colon.
func splitAttrLine(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.ToLower(strings.TrimSpace(line[:idx]))
	value = strings.TrimSpace(line[idx+1:])
	return key, value, true
}

// matchField resolves a lowercased label to its canonical field via the
// synonym table. Unrecognised labels map to fieldUnknown.
func matchField(key string) attrField {
	for _, syn := range attrSynonyms {
		if strings.Contains(key, syn.substr) {
			return syn.field
		}
	}
	return fieldUnknown
}

// parseFirstInt extracts the leading integer from a value, returning 0
// when none is present.
func parseFirstInt(value string) int {
	m := firstIntRe.FindString(value)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}

// isOpenAuth reports whether an authentication value describes an open
// network in any supported locale.
func isOpenAuth(auth string) bool {
	lower := strings.ToLower(auth)
	for _, marker := range openAuthMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ParseNetworkListing parses the output of the network listing command
// into access point records. monitored, when non-empty, is an SSID
// allow-list: records for other networks are dropped. Records are merged
// by SSID+BSSID identity; the later sighting wins, and first-seen order
// is preserved so identical input always yields identical output.
func (p *Parser) ParseNetworkListing(text string, monitored map[string]struct{}) []AccessPointRecord {
	out := make([]AccessPointRecord, 0, 16)
	index := make(map[string]int)

	var current *AccessPointRecord

	flush := func() {
		if current == nil {
			return
		}
		rec := *current
		current = nil

		if rec.SSID == "" || strings.HasPrefix(rec.SSID, HiddenSSIDPrefix) {
			return
		}
		if len(monitored) > 0 {
			if _, ok := monitored[rec.SSID]; !ok {
				return
			}
		}
		if rec.BSSID == "" {
			// Without a BSSID, multiple access points sharing this SSID
			// cannot be told apart. Keep the record anyway.
			rec.BSSID = UnknownBSSID
			p.logger.Warn("network listed without BSSID",
				zap.String("ssid", rec.SSID),
			)
		}

		p.model.Annotate(&rec)

		if i, seen := index[rec.Key()]; seen {
			out[i] = rec
			return
		}
		index[rec.Key()] = len(out)
		out = append(out, rec)
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		key, value, ok := splitAttrLine(line)
		if !ok {
			continue
		}

		if ssidHeaderRe.MatchString(key) {
			flush()
			ssid := value
			if ssid == "" {
				ssid = HiddenSSIDPrefix
			}
			current = &AccessPointRecord{
				SSID:      ssid,
				Timestamp: p.now(),
			}
			continue
		}

		if current == nil {
			continue
		}

		switch matchField(key) {
		case fieldBSSID:
			if current.BSSID != "" {
				// Additional BSSID under the same SSID block: a sibling
				// access point. Flush the current one and carry over the
				// network-level attributes.
				sibling := AccessPointRecord{
					SSID:           current.SSID,
					Authentication: current.Authentication,
					Encryption:     current.Encryption,
					NetworkType:    current.NetworkType,
					IsOpen:         current.IsOpen,
					Timestamp:      p.now(),
				}
				flush()
				current = &sibling
			}
			current.BSSID = strings.ToLower(value)
		case fieldSignal:
			current.SignalPercentage = parseFirstInt(value)
		case fieldChannel:
			current.Channel = parseFirstInt(value)
			current.Band = BandForChannel(current.Channel)
		case fieldAuthentication:
			current.Authentication = value
			current.IsOpen = isOpenAuth(value)
		case fieldEncryption:
			current.Encryption = value
		case fieldPhyType:
			current.PhyType = value
		case fieldNetworkType:
			current.NetworkType = value
		}
	}
	flush()

	return out
}

// ParseCurrentConnection parses the wireless interface listing into a
// snapshot of the active association. Returns ErrNoConnection when the
// output is empty, too short, or carries no SSID, which is the normal
// shape when the radio is idle.
func (p *Parser) ParseCurrentConnection(text string) (*ConnectionInfo, error) {
	if len(strings.TrimSpace(text)) < 10 {
		return nil, ErrNoConnection
	}

	info := &ConnectionInfo{Timestamp: p.now()}

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		key, value, ok := splitAttrLine(line)
		if !ok {
			continue
		}

		if ssidHeaderRe.MatchString(key) {
			info.SSID = value
			continue
		}

		switch matchField(key) {
		case fieldBSSID:
			info.BSSID = strings.ToLower(value)
		case fieldInterfaceName:
			if info.InterfaceName == "" {
				info.InterfaceName = value
			}
		case fieldMACAddress:
			info.MACAddress = strings.ToLower(value)
		case fieldState:
			info.ConnectionState = value
		case fieldSignal:
			info.SignalPercentage = parseFirstInt(value)
		case fieldChannel:
			info.Channel = parseFirstInt(value)
			info.Band = BandForChannel(info.Channel)
		case fieldAuthentication:
			info.Authentication = value
		case fieldReceiveRate:
			info.ReceiveRate = value
		case fieldTransmitRate:
			info.TransmitRate = value
		}
	}

	if info.SSID == "" {
		return nil, ErrNoConnection
	}

	if info.SignalPercentage > 0 {
		info.Band = BandForChannel(info.Channel)
		dbm := p.model.PercentToDBm(info.SignalPercentage)
		info.SignalDBm = &dbm
	}

	return info, nil
}
