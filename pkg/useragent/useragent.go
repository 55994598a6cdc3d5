package useragent

import (
	"errors"
	"regexp"
	"strings"
)

// Device type classification returned by UserAgent.DeviceType.
const (
	DeviceTypeMobile  = "mobile"
	DeviceTypeDesktop = "desktop"
	DeviceTypeTablet  = "tablet"
	DeviceTypeBot     = "bot"
	DeviceTypeTV      = "tv"
	DeviceTypeConsole = "console"
	DeviceTypeUnknown = "unknown"
)

var (
	// ErrEmptyUserAgent is returned when the User-Agent string is empty.
	ErrEmptyUserAgent = errors.New("useragent: empty user agent string")
	// ErrUnknownDevice is returned when no device type could be classified.
	ErrUnknownDevice = errors.New("useragent: unknown device type")
	// ErrMalformedUserAgent names a string that doesn't resemble a
	// recognizable User-Agent format at all. Parse never returns it; it
	// reports such strings as ErrUnknownDevice.
	ErrMalformedUserAgent = errors.New("useragent: malformed user agent string")
)

// UserAgent holds the fields extracted from a User-Agent string.
type UserAgent struct {
	raw         string
	deviceType  string
	os          string
	browserName string
	browserVer  string
	deviceModel string
}

// New builds a UserAgent directly from its fields, bypassing parsing.
// Used to construct a fallback value when Parse fails.
func New(raw, deviceType, os, browserName, browserVer, deviceModel string) UserAgent {
	return UserAgent{
		raw:         raw,
		deviceType:  deviceType,
		os:          os,
		browserName: browserName,
		browserVer:  browserVer,
		deviceModel: deviceModel,
	}
}

func (u UserAgent) Raw() string         { return u.raw }
func (u UserAgent) DeviceType() string  { return u.deviceType }
func (u UserAgent) OS() string          { return u.os }
func (u UserAgent) BrowserName() string { return u.browserName }
func (u UserAgent) BrowserVer() string  { return u.browserVer }
func (u UserAgent) DeviceModel() string { return u.deviceModel }

// IsMobile reports whether the device was classified as mobile or tablet.
func (u UserAgent) IsMobile() bool {
	return u.deviceType == DeviceTypeMobile || u.deviceType == DeviceTypeTablet
}

// IsBot reports whether the User-Agent identifies an automated client.
func (u UserAgent) IsBot() bool {
	return u.deviceType == DeviceTypeBot
}

// GetShortIdentifier returns a compact "name/type" summary, preferring the
// matched bot name when IsBot is true and the browser name otherwise.
func (u UserAgent) GetShortIdentifier() string {
	if u.IsBot() && u.browserName != "" {
		return u.browserName
	}
	if u.browserName != "" {
		return u.browserName + "/" + u.deviceType
	}
	return u.deviceType
}

// knownBots maps a case-insensitive substring match against the raw
// User-Agent to the bot's canonical short name. Checked before any
// device/browser heuristics so crawlers never get misclassified as
// desktop browsers.
var knownBots = []struct {
	match string
	name  string
}{
	{"googlebot", "Googlebot"},
	{"bingbot", "Bingbot"},
	{"slurp", "Yahoo! Slurp"},
	{"duckduckbot", "DuckDuckBot"},
	{"baiduspider", "Baiduspider"},
	{"yandexbot", "YandexBot"},
	{"facebookexternalhit", "Facebook"},
	{"twitterbot", "Twitterbot"},
	{"linkedinbot", "LinkedInBot"},
	{"whatsapp", "WhatsApp"},
	{"telegrambot", "TelegramBot"},
	{"slackbot", "Slackbot"},
	{"discordbot", "Discordbot"},
	{"applebot", "Applebot"},
	{"ahrefsbot", "AhrefsBot"},
	{"semrushbot", "SemrushBot"},
	{"mj12bot", "MJ12bot"},
	{"curl", "curl"},
	{"wget", "Wget"},
	{"python-requests", "python-requests"},
	{"go-http-client", "Go-http-client"},
	{"headlesschrome", "HeadlessChrome"},
	{"phantomjs", "PhantomJS"},
	{"bot", "bot"},
	{"crawler", "crawler"},
	{"spider", "spider"},
}

var browserVerPattern = map[string]*regexp.Regexp{
	"Chrome":  regexp.MustCompile(`Chrome/([\d.]+)`),
	"Firefox": regexp.MustCompile(`Firefox/([\d.]+)`),
	"Safari":  regexp.MustCompile(`Version/([\d.]+)`),
	"Edge":    regexp.MustCompile(`Edg(?:e|A|iOS)?/([\d.]+)`),
	"Opera":   regexp.MustCompile(`OPR/([\d.]+)`),
}

// Parse extracts device, OS, and browser information from a User-Agent
// string. An empty string returns ErrEmptyUserAgent along with a usable
// zero-value UserAgent; a string that doesn't resemble any recognizable
// client returns ErrUnknownDevice along with a best-effort UserAgent
// classified as DeviceTypeUnknown.
func Parse(ua string) (UserAgent, error) {
	if strings.TrimSpace(ua) == "" {
		return UserAgent{raw: ua, deviceType: DeviceTypeUnknown}, ErrEmptyUserAgent
	}

	lower := strings.ToLower(ua)

	if name, ok := matchBot(lower); ok {
		return UserAgent{
			raw:         ua,
			deviceType:  DeviceTypeBot,
			browserName: name,
		}, nil
	}

	os := detectOS(ua, lower)
	deviceType := detectDeviceType(lower, os)
	model := detectDeviceModel(ua, lower)
	browserName, browserVer := detectBrowser(ua, lower)

	result := UserAgent{
		raw:         ua,
		deviceType:  deviceType,
		os:          os,
		browserName: browserName,
		browserVer:  browserVer,
		deviceModel: model,
	}

	if deviceType == DeviceTypeUnknown {
		return result, ErrUnknownDevice
	}
	return result, nil
}

func matchBot(lower string) (string, bool) {
	for _, b := range knownBots {
		if strings.Contains(lower, b.match) {
			return b.name, true
		}
	}
	return "", false
}

func detectOS(raw, lower string) string {
	switch {
	case strings.Contains(lower, "iphone"), strings.Contains(lower, "ipad"), strings.Contains(lower, "ipod"):
		return "ios"
	case strings.Contains(lower, "android"):
		return "android"
	case strings.Contains(lower, "windows"):
		return "windows"
	case strings.Contains(lower, "mac os x"), strings.Contains(lower, "macintosh"):
		return "macos"
	case strings.Contains(lower, "cros"):
		return "chromeos"
	case strings.Contains(lower, "linux"):
		return "linux"
	default:
		return ""
	}
}

func detectDeviceType(lower, os string) string {
	switch {
	case strings.Contains(lower, "ipad"), strings.Contains(lower, "tablet"),
		(strings.Contains(lower, "android") && !strings.Contains(lower, "mobile")):
		return DeviceTypeTablet
	case strings.Contains(lower, "mobile"), strings.Contains(lower, "iphone"), strings.Contains(lower, "ipod"):
		return DeviceTypeMobile
	case strings.Contains(lower, "smart-tv"), strings.Contains(lower, "smarttv"), strings.Contains(lower, "googletv"), strings.Contains(lower, "appletv"):
		return DeviceTypeTV
	case strings.Contains(lower, "playstation"), strings.Contains(lower, "xbox"), strings.Contains(lower, "nintendo"):
		return DeviceTypeConsole
	case os == "windows", os == "macos", os == "linux", os == "chromeos":
		return DeviceTypeDesktop
	default:
		return DeviceTypeUnknown
	}
}

func detectDeviceModel(raw, lower string) string {
	switch {
	case strings.Contains(lower, "iphone"):
		return "iphone"
	case strings.Contains(lower, "ipad"):
		return "ipad"
	case strings.Contains(lower, "ipod"):
		return "ipod"
	default:
		return ""
	}
}

func detectBrowser(raw, lower string) (name, version string) {
	switch {
	case strings.Contains(lower, "edg/"), strings.Contains(lower, "edga/"), strings.Contains(lower, "edgios/"):
		name = "Edge"
	case strings.Contains(lower, "opr/"), strings.Contains(lower, "opera"):
		name = "Opera"
	case strings.Contains(lower, "chrome") && !strings.Contains(lower, "chromium"):
		name = "Chrome"
	case strings.Contains(lower, "firefox"):
		name = "Firefox"
	case strings.Contains(lower, "safari") && !strings.Contains(lower, "chrome"):
		name = "Safari"
	default:
		return "", ""
	}

	if pattern, ok := browserVerPattern[name]; ok {
		if m := pattern.FindStringSubmatch(raw); len(m) == 2 {
			version = m[1]
		}
	}
	return name, version
}
