package config

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `json:"listen,omitempty" koanf:"listen" toml:"listen,omitempty"`

	// ReadTimeout bounds reading a request, including its headers.
	ReadTimeout Duration `json:"read_timeout,omitempty" koanf:"read_timeout" toml:"read_timeout,omitempty"`

	// Interval is the pause between workload rounds while serving.
	Interval Duration `json:"interval,omitempty" koanf:"interval" toml:"interval,omitempty"`
}

// WorkloadConfig configures the built-in demo workload.
type WorkloadConfig struct {
	// Iterations is the number of rounds per run.
	Iterations int `json:"iterations,omitempty" koanf:"iterations" toml:"iterations,omitempty" jsonschema:"minimum=1"`

	// Concurrency is the number of rounds running at once. 1 runs sequentially.
	Concurrency int `json:"concurrency,omitempty" koanf:"concurrency" toml:"concurrency,omitempty" jsonschema:"minimum=1"`

	// Depth is the argument of the recursive workloads.
	Depth int `json:"depth,omitempty" koanf:"depth" toml:"depth,omitempty" jsonschema:"minimum=0"`

	// Sleep is how long the nested workload sleeps in each call.
	Sleep Duration `json:"sleep,omitempty" koanf:"sleep" toml:"sleep,omitempty"`
}

// IsParallel returns whether rounds run concurrently.
func (w *WorkloadConfig) IsParallel() bool {
	return w != nil && w.Concurrency > 1
}

// WatchConfig configures the live view.
type WatchConfig struct {
	// Refresh is how often the view is redrawn.
	Refresh Duration `json:"refresh,omitempty" koanf:"refresh" toml:"refresh,omitempty"`
}
