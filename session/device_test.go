package session

import "testing"

func TestSniffDevice(t *testing.T) {
	cases := []struct {
		name string
		ua   string
		typ  DeviceType
		os   string
	}{
		{
			name: "iphone",
			ua:   "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			typ:  DeviceMobile,
			os:   "iOS",
		},
		{
			name: "android phone",
			ua:   "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Mobile Safari/537.36",
			typ:  DeviceMobile,
			os:   "Android",
		},
		{
			name: "android tablet",
			ua:   "Mozilla/5.0 (Linux; Android 13; SM-X710) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			typ:  DeviceTablet,
			os:   "Android",
		},
		{
			name: "ipad",
			ua:   "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			typ:  DeviceTablet,
			os:   "iOS",
		},
		{
			name: "windows desktop",
			ua:   "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
			typ:  DeviceDesktop,
			os:   "Windows",
		},
		{
			name: "empty",
			ua:   "",
			typ:  DeviceUnknown,
			os:   "",
		},
		{
			name: "curl",
			ua:   "curl/8.4.0",
			typ:  DeviceUnknown,
			os:   "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SniffDevice(tc.ua)
			if got.Type != tc.typ {
				t.Fatalf("type = %s, want %s", got.Type, tc.typ)
			}
			if got.OS != tc.os {
				t.Fatalf("os = %q, want %q", got.OS, tc.os)
			}
			if got.UserAgent != tc.ua {
				t.Fatal("user agent not preserved")
			}
		})
	}
}

func TestSniffDeviceBrowser(t *testing.T) {
	got := SniffDevice("Mozilla/5.0 (Windows NT 10.0) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36 Edg/120.0")
	if got.Browser != "Edge" {
		t.Fatalf("browser = %q, want Edge", got.Browser)
	}
	got = SniffDevice("Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0")
	if got.Browser != "Firefox" {
		t.Fatalf("browser = %q, want Firefox", got.Browser)
	}
}
