package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Config errors (E100-E119)

	"E100": {
		Category: CategoryConfig,
		Message:  "Config file not found",
		Detail:   "No jml.json was found in the current directory or any parent directory.",
	},
	"E101": {
		Category: CategoryConfig,
		Message:  "Invalid config file",
		Detail:   "jml.json could not be parsed as JSON.",
	},
	"E102": {
		Category: CategoryConfig,
		Message:  "Invalid port",
		Detail:   "The server port must be between 1 and 65535.",
	},
	"E103": {
		Category: CategoryConfig,
		Message:  "No page source",
		Detail:   "Set pages.dir for a directory of page files or pages.bucket for an S3 bucket.",
	},
	"E104": {
		Category: CategoryConfig,
		Message:  "Invalid watch interval",
		Detail:   "dev.interval must be a positive duration such as \"500ms\".",
	},

	// Page errors (E120-E139)

	"E120": {
		Category: CategoryPage,
		Message:  "Page not found",
		Detail:   "No page file exists under this name with a .jml, .dom.json or .jml.hcl extension.",
	},
	"E121": {
		Category: CategoryPage,
		Message:  "Invalid page JSON",
		Detail:   "The page description is not valid JSON.",
	},
	"E122": {
		Category: CategoryPage,
		Message:  "Invalid page HCL",
		Detail:   "The page description could not be parsed or evaluated as HCL.",
	},
	"E123": {
		Category: CategoryPage,
		Message:  "Unsupported page format",
		Detail:   "Page files must end in .jml, .dom.json or .jml.hcl.",
	},
	"E124": {
		Category: CategoryPage,
		Message:  "Page store unavailable",
		Detail:   "The page directory or bucket could not be read.",
	},

	// Build errors (E140-E159)

	"E140": {
		Category: CategoryBuild,
		Message:  "Cannot write build output",
		Detail:   "The output directory could not be created or written.",
	},
	"E141": {
		Category: CategoryBuild,
		Message:  "Page construction failed",
		Detail:   "Applying the page model panicked or failed. The page was not written.",
	},

	// Dev errors (E160-E179)

	"E160": {
		Category: CategoryDev,
		Message:  "Watcher failed",
		Detail:   "The page directory could not be scanned for changes.",
	},
	"E161": {
		Category: CategoryDev,
		Message:  "Port already in use",
		Detail:   "Another process is listening on the configured port.",
	},

	// CLI errors (E180-E199)

	"E180": {
		Category: CategoryCLI,
		Message:  "Invalid arguments",
		Detail:   "The command was called with missing or extra arguments.",
	},
	"E181": {
		Category: CategoryCLI,
		Message:  "Unknown template",
		Detail:   "No site template exists with this name.",
	},
	"E182": {
		Category: CategoryCLI,
		Message:  "Directory already holds a site",
		Detail:   "jml init will not overwrite an existing jml.json.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
