// Package config handles glbtool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/artglb/internal/imageprep"
	"github.com/Faultbox/artglb/internal/logger"
	"github.com/Faultbox/artglb/pkg/glb"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all glbtool settings.
type Config struct {
	Encoder EncoderConfig `yaml:"encoder"`
	Image   ImageConfig   `yaml:"image"`
	Batch   BatchConfig   `yaml:"batch"`
	Logging LoggingConfig `yaml:"logging"`

	// Source is the file the settings were read from, empty for defaults.
	Source string `yaml:"-"`
}

// EncoderConfig holds the fixed values written into every asset descriptor.
type EncoderConfig struct {
	Generator   string  `yaml:"generator"`
	NodeName    string  `yaml:"node_name"`
	Metallic    float32 `yaml:"metallic"`
	Roughness   float32 `yaml:"roughness"`
	DoubleSided bool    `yaml:"double_sided"`
}

// ImageConfig holds texture preparation settings.
type ImageConfig struct {
	MaxEdge int    `yaml:"max_edge"`
	Quality int    `yaml:"quality"`
	Filter  string `yaml:"filter"`
}

// BatchConfig holds batch driver settings.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	doc := glb.DefaultDocumentOptions()
	img := imageprep.DefaultOptions()

	return &Config{
		Encoder: EncoderConfig{
			Generator:   doc.Generator,
			NodeName:    doc.NodeName,
			Metallic:    doc.MetallicFactor,
			Roughness:   doc.RoughnessFactor,
			DoubleSided: doc.DoubleSided,
		},
		Image: ImageConfig{
			MaxEdge: img.MaxEdge,
			Quality: img.Quality,
			Filter:  string(img.Filter),
		},
		Batch: BatchConfig{
			Workers: 4,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Encoder.Generator == "" {
		return fmt.Errorf("%w: encoder.generator is empty", ErrInvalidConfig)
	}
	if c.Encoder.Metallic < 0 || c.Encoder.Metallic > 1 {
		return fmt.Errorf("%w: encoder.metallic %v outside [0,1]", ErrInvalidConfig, c.Encoder.Metallic)
	}
	if c.Encoder.Roughness < 0 || c.Encoder.Roughness > 1 {
		return fmt.Errorf("%w: encoder.roughness %v outside [0,1]", ErrInvalidConfig, c.Encoder.Roughness)
	}
	if err := c.ImageOptions().Validate(); err != nil {
		return fmt.Errorf("%w: image: %v", ErrInvalidConfig, err)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch.workers must be at least 1", ErrInvalidConfig)
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: logging: %v", ErrInvalidConfig, err)
	}
	return nil
}

// DocumentOptions returns the encoder section as descriptor options.
func (c *Config) DocumentOptions() glb.DocumentOptions {
	return glb.DocumentOptions{
		Generator:       c.Encoder.Generator,
		NodeName:        c.Encoder.NodeName,
		MetallicFactor:  c.Encoder.Metallic,
		RoughnessFactor: c.Encoder.Roughness,
		DoubleSided:     c.Encoder.DoubleSided,
	}
}

// ImageOptions returns the image section as preparer options.
func (c *Config) ImageOptions() imageprep.Options {
	return imageprep.Options{
		MaxEdge: c.Image.MaxEdge,
		Quality: c.Image.Quality,
		Filter:  imageprep.Filter(c.Image.Filter),
	}
}
