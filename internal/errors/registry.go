package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config errors (E100-E199)

	"E101": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "The reactive.json configuration file does not exist in the project directory or any parent directory.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Configuration file invalid",
		Detail:   "The reactive.json file could not be read or parsed.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "Configuration value out of range",
		Detail:   "A configuration value is outside its allowed range.",
	},

	// Store errors (E200-E299)

	"E201": {
		Category: CategoryStore,
		Message:  "Trace not found",
		Detail:   "No trace with the given ID exists in the archive store.",
	},
	"E202": {
		Category: CategoryStore,
		Message:  "Trace store unavailable",
		Detail:   "The archive store directory could not be created or opened.",
	},

	// Bench errors (E300-E399)

	"E301": {
		Category: CategoryBench,
		Message:  "Unknown benchmark profile",
		Detail:   "The requested benchmark profile is not one of the built-in workload shapes.",
	},

	// Serve errors (E400-E499)

	"E401": {
		Category: CategoryServe,
		Message:  "Inspector failed to start",
		Detail:   "The inspector HTTP server could not bind its address.",
	},
}
