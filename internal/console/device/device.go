// Package device derives display hints for session rows from raw User-Agent
// strings. It is intentionally not a full parser: the console only needs an
// icon class and a "Browser on OS" label.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// Class selects the icon shown next to a session row.
type Class string

const (
	ClassDesktop Class = "desktop"
	ClassMobile  Class = "mobile"
	ClassTablet  Class = "tablet"
)

// UnknownLabel is shown when no User-Agent was recorded for a session.
const UnknownLabel = "Unknown device"

// Classify picks the icon class by keyword. Mobile keywords are checked
// before tablet ones; first match wins.
func Classify(userAgentString string) Class {
	if userAgentString == "" {
		return ClassDesktop
	}

	ua := strings.ToLower(userAgentString)
	// "ipad" would also match "mobile" in some agents, so tablet keywords are
	// checked only after the mobile pass misses, matching the console's
	// historical priority order.
	switch {
	case strings.Contains(ua, "mobile"),
		strings.Contains(ua, "android"),
		strings.Contains(ua, "iphone"):
		if strings.Contains(ua, "ipad") || strings.Contains(ua, "tablet") {
			return ClassTablet
		}
		return ClassMobile
	case strings.Contains(ua, "tablet"), strings.Contains(ua, "ipad"):
		return ClassTablet
	default:
		return ClassDesktop
	}
}

// Label extracts a human-readable device name in "Browser on OS" form,
// such as "Chrome on macOS" or "Safari on iOS".
func Label(userAgentString string) string {
	if userAgentString == "" {
		return UnknownLabel
	}

	ua := useragent.New(userAgentString)

	browser, _ := ua.Browser()
	if browser == "" {
		browser = fallbackBrowser(userAgentString)
	}

	os := normalizeOS(ua.OSInfo().Name)
	if os == "" {
		os = fallbackOS(userAgentString)
	}

	if os == "" {
		return browser
	}
	return browser + " on " + os
}

// fallbackBrowser is the substring pass used when the parser comes up empty.
// First match wins, in this exact order.
func fallbackBrowser(raw string) string {
	for _, candidate := range []string{"Chrome", "Firefox", "Safari", "Edge"} {
		if strings.Contains(raw, candidate) {
			return candidate
		}
	}
	return "Unknown browser"
}

func fallbackOS(raw string) string {
	switch {
	case strings.Contains(raw, "Windows"):
		return "Windows"
	case strings.Contains(raw, "Mac"):
		return "macOS"
	case strings.Contains(raw, "Linux"):
		return "Linux"
	case strings.Contains(raw, "Android"):
		return "Android"
	case strings.Contains(raw, "iOS"), strings.Contains(raw, "iPhone"), strings.Contains(raw, "iPad"):
		return "iOS"
	default:
		return ""
	}
}

// normalizeOS maps parser OS names onto the labels the console displays.
func normalizeOS(name string) string {
	switch {
	case name == "":
		return ""
	case strings.Contains(name, "Mac OS X"), strings.Contains(name, "macOS"):
		return "macOS"
	case strings.Contains(name, "Windows"):
		return "Windows"
	case strings.Contains(name, "Android"):
		return "Android"
	case strings.Contains(name, "iPhone"), strings.Contains(name, "iPad"), strings.Contains(name, "iOS"), strings.Contains(name, "CPU OS"):
		return "iOS"
	case strings.Contains(name, "Linux"):
		return "Linux"
	default:
		return name
	}
}
