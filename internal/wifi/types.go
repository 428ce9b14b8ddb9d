// Package wifi implements the wireless survey core: parsing platform
// command output into access point records, signal quality modeling, the
// scan inventory, and the connection controller.
package wifi

import "time"

// Band identifies the radio frequency band an access point operates on.
type Band string

const (
	Band24GHz Band = "2.4GHz"
	Band5GHz  Band = "5GHz"
)

// BandForChannel derives the band from a channel number. Channels 1-14
// are 2.4 GHz; everything above is treated as 5 GHz.
func BandForChannel(channel int) Band {
	if channel > 0 && channel <= 14 {
		return Band24GHz
	}
	return Band5GHz
}

// Quality is a qualitative link classification derived from SNR.
type Quality string

const (
	QualityPoor      Quality = "Poor"
	QualityFair      Quality = "Fair"
	QualityGood      Quality = "Good"
	QualityVeryGood  Quality = "Very Good"
	QualityExcellent Quality = "Excellent"
)

// UnknownBSSID is the sentinel used when the platform output carried no
// BSSID for a network. Multiple same-SSID access points cannot be told
// apart in that case; the record is kept anyway.
const UnknownBSSID = "unknown"

// HiddenSSIDPrefix names networks that broadcast an empty SSID.
const HiddenSSIDPrefix = "<hidden>"

// AccessPointRecord is one observed network at a point in time.
// Derived RF fields (SignalDBm, NoiseDBm, SNRdB, SignalQuality) are
// populated by the signal model after parsing; they stay nil/zero when
// no signal percentage was reported.
type AccessPointRecord struct {
	SSID             string    `json:"ssid"`
	BSSID            string    `json:"bssid"`
	SignalPercentage int       `json:"signal_percentage"`
	SignalDBm        *float64  `json:"signal_dbm,omitempty"`
	NoiseDBm         *float64  `json:"noise_dbm,omitempty"`
	SNRdB            *float64  `json:"snr_db,omitempty"`
	SignalQuality    Quality   `json:"signal_quality,omitempty"`
	Channel          int       `json:"channel"`
	Band             Band      `json:"band"`
	Authentication   string    `json:"authentication,omitempty"`
	Encryption       string    `json:"encryption,omitempty"`
	PhyType          string    `json:"phy_type,omitempty"`
	NetworkType      string    `json:"network_type,omitempty"`
	IsOpen           bool      `json:"is_open"`
	IsSaved          bool      `json:"is_saved"`
	Timestamp        time.Time `json:"timestamp"`
}

// Key returns the identity of this record within one scan pass.
// Two sightings with equal keys are merged, never duplicated.
func (r *AccessPointRecord) Key() string {
	return r.SSID + "_" + r.BSSID
}

// Connectable reports whether a connection attempt is worth making:
// either the network is open or a saved profile exists for it.
func (r *AccessPointRecord) Connectable() bool {
	return r.IsOpen || r.IsSaved
}

// ConnectionInfo is a snapshot of the currently associated network.
// Immutable once returned by the parser.
type ConnectionInfo struct {
	InterfaceName    string    `json:"interface_name"`
	MACAddress       string    `json:"mac_address"`
	ConnectionState  string    `json:"connection_state"`
	SSID             string    `json:"ssid"`
	BSSID            string    `json:"bssid"`
	SignalPercentage int       `json:"signal_percentage"`
	SignalDBm        *float64  `json:"signal_dbm,omitempty"`
	Channel          int       `json:"channel"`
	Band             Band      `json:"band"`
	Authentication   string    `json:"authentication,omitempty"`
	ReceiveRate      string    `json:"receive_rate,omitempty"`
	TransmitRate     string    `json:"transmit_rate,omitempty"`
	Timestamp        time.Time `json:"timestamp"`
}
