// Package config is this runtime's analogue of the teacher's cmn.Config /
// cmn.GCO "global config owner": an atomically-swappable
// configuration value loaded from an optional YAML file with environment
// overrides, instead of a package-level mutable struct.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package config

import (
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"

	"github.com/dcl-project/dcl/nlog"
)

const (
	// DefaultControlPort is the default message-queue listen port (spec.md §6.3).
	DefaultControlPort = 25025
	// DataPortOffset is added to the control port to derive the data-stream port.
	DataPortOffset = 100

	DefaultResponseBufferSize = 64
	DefaultMaxSequenceLen     = 64 * 1024 * 1024  // 64 MiB, spec.md §4.1
	DefaultMaxBodySize        = 16 * 1024 * 1024  // 16 MiB, spec.md §6.1 floor
	MaxBodySizeFloor          = 16 * 1024 * 1024
)

type Config struct {
	ControlPort        int
	DataPort           int
	ResponseBufferSize int
	MaxSequenceLen      uint32
	MaxBodySize         uint32
	LogLevel            nlog.Level
	LogPath             string
}

func Default(isComputeNode bool) *Config {
	return &Config{
		ControlPort:        DefaultControlPort,
		DataPort:           DefaultControlPort + DataPortOffset,
		ResponseBufferSize: DefaultResponseBufferSize,
		MaxSequenceLen:     DefaultMaxSequenceLen,
		MaxBodySize:        DefaultMaxBodySize,
		LogLevel:           nlog.LevelInfo,
		LogPath:            nlog.DefaultLogPath(isComputeNode),
	}
}

// Load reads a YAML file (if path is non-empty and exists) over the default
// config, then applies the DCL_LOG_LEVEL environment override from spec.md
// §6.4. Unset/absent file is not an error: the defaults still apply.
func Load(path string, isComputeNode bool) (*Config, error) {
	cfg := Default(isComputeNode)
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}
	if lvl := os.Getenv("DCL_LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = nlog.ParseLevel(lvl)
	}
	if cfg.MaxBodySize < MaxBodySizeFloor {
		cfg.MaxBodySize = MaxBodySizeFloor
	}
	return cfg, nil
}

// Owner is the atomically-swappable holder, mirroring the teacher's GCO
// (global config owner) pattern without relying on a package-level global:
// callers construct one Owner and share the pointer.
type Owner struct {
	v atomic.Value // *Config
}

func NewOwner(cfg *Config) *Owner {
	o := &Owner{}
	o.v.Store(cfg)
	return o
}

func (o *Owner) Get() *Config { return o.v.Load().(*Config) }

func (o *Owner) Put(cfg *Config) { o.v.Store(cfg) }
