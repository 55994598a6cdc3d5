package whitelist

import "regexp"

// monitoringToolSignatures lists User-Agent substrings of uptime/APM
// monitoring probes that should bypass detection when
// settings.Whitelist.EnableMonitoringToolsBypass is set, even without an
// explicit whitelist entry for the caller's IP.
var monitoringToolSignatures = []string{
	"pingdom", "uptimerobot", "statuscake", "site24x7", "datadog",
	"newrelic", "new relic", "nagios", "zabbix", "prtg", "grafana",
	"appdynamics", "dynatrace", "catchpoint", "freshping", "better uptime",
	"betteruptime", "healthcheck", "monitis",
}

func compileMonitoringPattern() *regexp.Regexp {
	pattern := ""
	for i, sig := range monitoringToolSignatures {
		if i > 0 {
			pattern += "|"
		}
		pattern += regexp.QuoteMeta(sig)
	}
	return regexp.MustCompile("(?i)(" + pattern + ")")
}
