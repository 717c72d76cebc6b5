package session

import "strings"

// SniffDevice derives a coarse device descriptor from a User-Agent header.
// The classification is best-effort bookkeeping, never a security signal.
func SniffDevice(userAgent string) DeviceInfo {
	info := DeviceInfo{UserAgent: userAgent, Type: DeviceUnknown}
	if userAgent == "" {
		return info
	}
	ua := strings.ToLower(userAgent)

	switch {
	case strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet"):
		info.Type = DeviceTablet
	case strings.Contains(ua, "android") && !strings.Contains(ua, "mobile"):
		// Android without the Mobile token is the tablet form factor.
		info.Type = DeviceTablet
	case strings.Contains(ua, "mobi") || strings.Contains(ua, "iphone"):
		info.Type = DeviceMobile
	case strings.Contains(ua, "windows") || strings.Contains(ua, "macintosh") ||
		strings.Contains(ua, "x11") || strings.Contains(ua, "linux") ||
		strings.Contains(ua, "cros"):
		info.Type = DeviceDesktop
	}

	switch {
	case strings.Contains(ua, "windows"):
		info.OS = "Windows"
	case strings.Contains(ua, "iphone") || strings.Contains(ua, "ipad"):
		info.OS = "iOS"
	case strings.Contains(ua, "macintosh"):
		info.OS = "macOS"
	case strings.Contains(ua, "android"):
		info.OS = "Android"
	case strings.Contains(ua, "cros"):
		info.OS = "ChromeOS"
	case strings.Contains(ua, "linux"):
		info.OS = "Linux"
	}

	switch {
	case strings.Contains(ua, "edg/") || strings.Contains(ua, "edge"):
		info.Browser = "Edge"
	case strings.Contains(ua, "opr/") || strings.Contains(ua, "opera"):
		info.Browser = "Opera"
	case strings.Contains(ua, "firefox"):
		info.Browser = "Firefox"
	case strings.Contains(ua, "chrome"):
		info.Browser = "Chrome"
	case strings.Contains(ua, "safari"):
		info.Browser = "Safari"
	}

	return info
}
