// Package config provides configuration management for the xdrsync CLI.
package config

import "github.com/ridgeline-sec/xdrsync/internal/version"

const (
	// DefaultTimeout is the per-request timeout in seconds.
	DefaultTimeout = 60
)

// Version returns the current xdrsync CLI version from the centralized version package
var Version = version.XdrsyncVersion

// Global holds the global CLI configuration
var Global struct {
	ConfigFile string // Path to tenant configuration file (JSON or YAML)
	LogLevel   string // Log level for CLI operations
	LogFile    string // Log file path for scheduled runs (stdout/stderr when empty)
	Timeout    int    // Request timeout in seconds
	Verbose    bool   // Show verbose output
	Output     string // Output format: table, json
	ReportsDir string // Directory for run artifacts and error CSVs
}

// Upload holds configuration shared by the upload and validate commands
var Upload struct {
	Mode       string // Wire format: csv, json
	BatchSize  int    // Rows per commit request
	Tenants    string // Comma-separated tenant names (empty selects all)
	MaxWorkers int    // Concurrent tenant pipelines
}

// Auth holds the auth command configuration
var Auth struct {
	Tenants    string // Comma-separated tenant names to probe
	MaxWorkers int    // Concurrent authentication probes
}

// File holds configuration shared by the file preparation commands
var File struct {
	Output    string // Output path (defaults to <name>-<op>.csv)
	InPlace   bool   // Overwrite the input file
	NoBackup  bool   // Skip the .bak backup when editing in place
	OnlyEmpty bool   // Only touch rows where the field is empty
	Force     bool   // Overwrite conflicting types on low confidence (classify)
	DryRun    bool   // Preview without writing

	// Per-type override flags. The bare flag applies the command default
	// to that type only; the -value flag sets an explicit value for it.
	HashDefault     bool
	HashValue       string
	IPDefault       bool
	IPValue         string
	DomainDefault   bool
	DomainValue     string
	PathDefault     bool
	PathValue       string
	FilenameDefault bool
	FilenameValue   string
}
