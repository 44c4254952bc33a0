package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the path to the canonical decoder defaults file.
const DefaultConfigPath = "config/decoder.defaults.json"

// Activation policy names accepted by the activation key.
const (
	ActivationFirst      = "first"
	ActivationReferenced = "referenced"
)

const (
	defaultUDPPort        = 7000
	defaultMaxPayloadSize = 64 << 20
	maxNodeSizeLog2       = 21
)

// DecoderConfig is the JSON configuration of the decoder CLI. Unset fields
// fall back to the defaults returned by the Get* accessors.
type DecoderConfig struct {
	// Octree decode depth; non-zero selects the scalable decoder.
	MinGeomNodeSizeLog2 *uint32 `json:"min_geom_node_size_log2,omitempty"`
	Activation          *string `json:"activation,omitempty"`
	AbortOnError        *bool   `json:"abort_on_error,omitempty"`

	// Output
	StorePoints *bool   `json:"store_points,omitempty"`
	PlotDir     *string `json:"plot_dir,omitempty"`

	// Input
	UDPPort        *int `json:"udp_port,omitempty"` // pcap replay only
	MaxPayloadSize *int `json:"max_payload_size,omitempty"`
}

// EmptyDecoderConfig returns a DecoderConfig with all fields unset.
func EmptyDecoderConfig() *DecoderConfig {
	return &DecoderConfig{}
}

// LoadDecoderConfig loads a DecoderConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadDecoderConfig(path string) (*DecoderConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyDecoderConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory
// or one of its parents. Panics if the file cannot be loaded, intended for
// test setup.
func MustLoadDefaultConfig() *DecoderConfig {
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,       // from internal/config/
		"../../../" + DefaultConfigPath,    // from internal/pcc/*/
		"../../../../" + DefaultConfigPath, // deeper packages
	}
	for _, path := range candidates {
		if cfg, err := LoadDecoderConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid.
func (c *DecoderConfig) Validate() error {
	if c.MinGeomNodeSizeLog2 != nil && *c.MinGeomNodeSizeLog2 > maxNodeSizeLog2 {
		return fmt.Errorf("min_geom_node_size_log2 must be at most %d, got %d", maxNodeSizeLog2, *c.MinGeomNodeSizeLog2)
	}

	if c.Activation != nil {
		switch *c.Activation {
		case "", ActivationFirst, ActivationReferenced:
		default:
			return fmt.Errorf("activation must be %q or %q, got %q", ActivationFirst, ActivationReferenced, *c.Activation)
		}
	}

	if c.UDPPort != nil && (*c.UDPPort < 1 || *c.UDPPort > 65535) {
		return fmt.Errorf("udp_port must be between 1 and 65535, got %d", *c.UDPPort)
	}

	if c.MaxPayloadSize != nil && *c.MaxPayloadSize <= 0 {
		return fmt.Errorf("max_payload_size must be positive, got %d", *c.MaxPayloadSize)
	}

	return nil
}

// GetMinGeomNodeSizeLog2 returns the min_geom_node_size_log2 value or the default.
func (c *DecoderConfig) GetMinGeomNodeSizeLog2() uint32 {
	if c.MinGeomNodeSizeLog2 == nil {
		return 0
	}
	return *c.MinGeomNodeSizeLog2
}

// GetActivation returns the activation policy name or the default.
func (c *DecoderConfig) GetActivation() string {
	if c.Activation == nil || *c.Activation == "" {
		return ActivationFirst
	}
	return *c.Activation
}

// GetAbortOnError returns the abort_on_error value or the default.
func (c *DecoderConfig) GetAbortOnError() bool {
	if c.AbortOnError == nil {
		return false
	}
	return *c.AbortOnError
}

// GetStorePoints returns the store_points value or the default.
func (c *DecoderConfig) GetStorePoints() bool {
	if c.StorePoints == nil {
		return false
	}
	return *c.StorePoints
}

// GetPlotDir returns the plot_dir value; empty disables plotting.
func (c *DecoderConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return ""
	}
	return *c.PlotDir
}

// GetUDPPort returns the udp_port value or the default.
func (c *DecoderConfig) GetUDPPort() int {
	if c.UDPPort == nil {
		return defaultUDPPort
	}
	return *c.UDPPort
}

// GetMaxPayloadSize returns the max_payload_size value or the default.
func (c *DecoderConfig) GetMaxPayloadSize() int {
	if c.MaxPayloadSize == nil {
		return defaultMaxPayloadSize
	}
	return *c.MaxPayloadSize
}
