package errors

import "sort"

// Template defines a registered diagnostic.
type Template struct {
	Category Category
	Severity Severity
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://vrouter.dev/docs/diagnostics/"

// registry maps codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Route table (R001-R009)
	// ============================================

	"R001": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Route path must start with a slash",
		Detail:   "A top-level route path without a leading slash never matches a resolved location. The route is kept so the rest of the table still works.",
		DocURL:   docBase + "R001",
	},
	"R002": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Duplicate route path",
		Detail:   "A route with this path is already registered. The first registration wins; later ones are ignored.",
		DocURL:   docBase + "R002",
	},
	"R003": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Duplicate named route",
		Detail:   "Another route already uses this name. Navigation by name resolves to the first registration.",
		DocURL:   docBase + "R003",
	},
	"R004": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Alias equals route path",
		Detail:   "An alias identical to the route's own path has no effect and is skipped.",
		DocURL:   docBase + "R004",
	},
	"R005": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Named route has a default child",
		Detail:   "Navigating to this route by name will not render its default child. Name the child route and navigate to it instead.",
		DocURL:   docBase + "R005",
	},
	"R006": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Duplicate param keys in route",
		Detail:   "The same parameter name is captured more than once. Only the last capture survives in the matched params.",
		DocURL:   docBase + "R006",
	},
	"R007": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Invalid route pattern",
		Detail:   "The route path could not be compiled into a matcher. The route is registered but never matches.",
		DocURL:   docBase + "R007",
	},
	"R008": {
		Category: CategoryConfig,
		Severity: SeverityWarning,
		Message:  "Route has no component",
		Detail:   "A route without a component, components, redirect or children renders nothing when matched.",
		DocURL:   docBase + "R008",
	},

	// ============================================
	// Params and matching (R010-R019)
	// ============================================

	"R010": {
		Category: CategoryParams,
		Severity: SeverityWarning,
		Message:  "Missing param for route",
		Detail:   "The params could not be substituted into the route path. The location resolves to no route.",
		DocURL:   docBase + "R010",
	},
	"R011": {
		Category: CategoryRedirect,
		Severity: SeverityWarning,
		Message:  "Invalid redirect target",
		Detail:   "A redirect must resolve to a location with a name or a path.",
		DocURL:   docBase + "R011",
	},
	"R012": {
		Category: CategoryRedirect,
		Severity: SeverityWarning,
		Message:  "Redirect to unknown named route",
		Detail:   "The redirect names a route that is not registered.",
		DocURL:   docBase + "R012",
	},
	"R013": {
		Category: CategoryParams,
		Severity: SeverityWarning,
		Message:  "Route with name does not exist",
		Detail:   "No route is registered under this name. The location resolves to no route.",
		DocURL:   docBase + "R013",
	},
	"R014": {
		Category: CategoryParams,
		Severity: SeverityWarning,
		Message:  "Query parse failed",
		Detail:   "The query parser rejected the query string, for example a malformed percent escape. An empty query is used instead.",
		DocURL:   docBase + "R014",
	},

	// ============================================
	// Route sources (R020-R029)
	// ============================================

	"R020": {
		Category: CategorySource,
		Severity: SeverityError,
		Message:  "Cannot load route file",
		Detail:   "The route configuration could not be read or decoded.",
		DocURL:   docBase + "R020",
	},
	"R021": {
		Category: CategorySource,
		Severity: SeverityError,
		Message:  "Unknown component",
		Detail:   "The route file references a component name that is not in the component registry.",
		DocURL:   docBase + "R021",
	},
	"R022": {
		Category: CategorySource,
		Severity: SeverityError,
		Message:  "Unsupported route file format",
		Detail:   "Route files must be .json, .yaml, .yml, .toml or .hcl.",
		DocURL:   docBase + "R022",
	},

	// ============================================
	// Remote history (R030-R039)
	// ============================================

	"R030": {
		Category: CategoryProtocol,
		Severity: SeverityWarning,
		Message:  "Invalid history frame",
		Detail:   "A frame from the remote history peer could not be decoded or carried an unsafe URL. The frame is dropped.",
		DocURL:   docBase + "R030",
	},

	// ============================================
	// CLI (R040-R049)
	// ============================================

	"R040": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "No route file",
		Detail:   "Pass --routes or set routes in vrouter.json.",
		DocURL:   docBase + "R040",
	},
	"R041": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "No vrouter.json found",
		Detail:   "The command looked for vrouter.json in the working directory and its parents.",
		DocURL:   docBase + "R041",
	},
	"R042": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "Cannot read configuration",
		Detail:   "vrouter.json or an environment file could not be read or decoded.",
		DocURL:   docBase + "R042",
	},
	"R043": {
		Category: CategoryCLI,
		Severity: SeverityError,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is outside its allowed range.",
		DocURL:   docBase + "R043",
	},
}

// GetAllCodes returns all registered codes in order.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a template to the registry.
func Register(code string, template Template) {
	registry[code] = template
}
