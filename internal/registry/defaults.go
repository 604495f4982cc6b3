package registry

// DefaultSpecs is the built-in rule set covering the error, warning, and info
// tiers. The error groups cover both macOS subsystems and Linux/Proxmox
// cluster daemons; the info tier feeds the backup and service correlators.
var DefaultSpecs = []TierSpec{
	{
		Name:  "error",
		Match: `(error|failure|failed|fatal|crit)`,
		Suppress: []string{
			`No error`,
			`Successfully|success`,
			`error reports when automatic reporting is enabled`,
			`GET /features`,
			`GET /settings`,
			`com\.apple\.wifi\..*error.*successfully`,
			`INFO:.*backup job`,
			`INFO:.*starting`,
			`INFO: .*`,
		},
		Groups: []GroupSpec{
			{Name: "coredata", Pattern: `CoreData.*error`},
			{Name: "cloudkit", Pattern: `CloudKitDaemon.*error`},
			{Name: "kernel", Pattern: `kernel\[\d+\].*error`},
			{Name: "wifi", Pattern: `(airportd|WiFiManager).*error`},
			{Name: "system", Pattern: `(runningboardd|containermanagerd|softwareupdated).*error`},
			{Name: "cluster", Pattern: `(corosync|totem|cpg_|cluster).*failed`},
			{Name: "ha", Pattern: `(ha_manager_lock|ha_agent.*lock).*failed`},
			{Name: "storage", Pattern: `(storage|backup|restore).*failed`},
			{Name: "network", Pattern: `(network|connection|socket).*failed`},
			{Name: "permission", Pattern: `.*permission denied|not permitted`},
		},
	},
	{
		Name:  "warning",
		Match: `(warning|warn)`,
		Suppress: []string{
			`GET /settings`,
			`GET /features`,
			`/desktop_extensions`,
			`BackendAPI`,
			`".*":\s*{.*}`,
		},
		Groups: []GroupSpec{
			{Name: "cluster", Pattern: `cluster.*warning`},
			{Name: "network", Pattern: `network.*warning`},
			{Name: "resource", Pattern: `resource.*warning`},
		},
	},
	{
		Name:  "info",
		Match: `INFO:`,
		Groups: []GroupSpec{
			{Name: "backup", Pattern: `INFO:.*backup`},
			{Name: "service", Pattern: `INFO:.*service`},
			{Name: "cluster", Pattern: `INFO:.*(cluster|node)`},
		},
	},
}

var defaultRegistry = mustCompile(DefaultSpecs)

// Default returns the registry built from DefaultSpecs.
func Default() *Registry {
	return defaultRegistry
}

func mustCompile(specs []TierSpec) *Registry {
	r, err := Compile(specs)
	if err != nil {
		panic(err)
	}
	return r
}
