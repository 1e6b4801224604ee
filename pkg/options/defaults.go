package options

const (
	// DefaultPath names the database file used when no path is configured,
	// matching the command shell's own default (§6).
	DefaultPath = "./test.db"

	// DefaultBufferValues holds values as UTF-8 strings by default.
	DefaultBufferValues = false

	// DefaultInMemoryValues caches decoded values in the index by default,
	// trading memory for avoiding a positioned read per Get.
	DefaultInMemoryValues = true
)

// Holds the default configuration settings for a store instance.
var defaultOptions = Options{
	Path:           DefaultPath,
	BufferValues:   DefaultBufferValues,
	InMemoryValues: DefaultInMemoryValues,
}

// NewDefaultOptions returns the default configuration settings.
func NewDefaultOptions() Options {
	return defaultOptions
}
