package platform

// Canonical netsh invocations used by the survey core. Centralised here so
// the wifi package never spells command names inline and fakes can match
// on the same argument lists.

// NetshCommand is the Windows wireless configuration binary.
const NetshCommand = "netsh"

// ShowInterfacesArgs lists wireless interfaces and the current association.
func ShowInterfacesArgs() []string {
	return []string{"wlan", "show", "interfaces"}
}

// ShowNetworksArgs lists visible networks with per-BSSID detail.
func ShowNetworksArgs() []string {
	return []string{"wlan", "show", "networks", "mode=bssid"}
}

// ShowProfilesArgs lists locally saved wireless profiles.
func ShowProfilesArgs() []string {
	return []string{"wlan", "show", "profiles"}
}

// ConnectArgs associates with a network by profile or SSID name.
func ConnectArgs(name string) []string {
	return []string{"wlan", "connect", "name=" + name}
}

// DisconnectArgs drops the current association.
func DisconnectArgs() []string {
	return []string{"wlan", "disconnect"}
}
