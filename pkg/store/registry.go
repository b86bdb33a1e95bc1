// Copyright 2025 KrakLabs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package store

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// Domain bounds the legal numeric range of a signal's value (§8: "every
// signal's value lies within its declared domain").
type Domain struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within d, inclusive.
func (d Domain) Contains(v float64) bool { return v >= d.Min && v <= d.Max }

// Clamp restricts v to d.
func (d Domain) Clamp(v float64) float64 {
	if v < d.Min {
		return d.Min
	}
	if v > d.Max {
		return d.Max
	}
	return v
}

// Polarity records whether a higher value is better, worse, or neutral,
// so that composites and finder predicates can orient comparisons without
// hardcoding direction per signal name (§4.6).
type Polarity string

const (
	PolarityHigherIsBetter Polarity = "higher_is_better"
	PolarityLowerIsBetter  Polarity = "lower_is_better"
	PolarityNeutral        Polarity = "neutral"
)

// SignalDecl is one entry in the static signal registry: the declared
// shape a producing IR stage must honor and every consumer may assume.
type SignalDecl struct {
	Name        string    `yaml:"name"`
	Scope       Kind      `yaml:"scope"`
	ValueKind   ValueKind `yaml:"-"`
	Type        string    `yaml:"type"` // "int" | "float" | "bool" | "enum"
	Domain      Domain    `yaml:"-"`
	DomainMin   float64   `yaml:"domain_min"`
	DomainMax   float64   `yaml:"domain_max"`
	Polarity    Polarity  `yaml:"polarity"`
	ProducedBy  string    `yaml:"produced_by"` // IR stage name, e.g. "IR2", "IR5s"
	Requires    []string  `yaml:"requires"`    // other signal names this one is derived from
	Dimension   string    `yaml:"dimension"`   // SIZE/SHAPE/NAMING/REFERENCE/INFORMATION/CHANGE/AUTHORSHIP/INTENT
	Description string    `yaml:"description"`
}

type yamlRegistry struct {
	Signals []SignalDecl `yaml:"signals"`
}

//go:embed signals.yaml
var embeddedSignalCatalog []byte

// Registry is the static, read-only catalog of every signal the pipeline
// can produce. It is immutable after load (§4.6: "the registry is loaded
// once at startup and never mutated").
type Registry struct {
	decls map[string]SignalDecl
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
	defaultRegistryErr  error
)

// DefaultRegistry returns the process-wide signal registry, parsing the
// embedded catalog exactly once.
func DefaultRegistry() (*Registry, error) {
	defaultRegistryOnce.Do(func() {
		defaultRegistry, defaultRegistryErr = LoadRegistry(embeddedSignalCatalog)
	})
	return defaultRegistry, defaultRegistryErr
}

// LoadRegistry parses a YAML signal catalog. Exported so tests and
// alternate deployments can load a trimmed or extended catalog.
func LoadRegistry(data []byte) (*Registry, error) {
	var raw yamlRegistry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("store: parsing signal registry: %w", err)
	}
	decls := make(map[string]SignalDecl, len(raw.Signals))
	for _, d := range raw.Signals {
		if d.Name == "" {
			return nil, fmt.Errorf("store: signal registry entry missing name")
		}
		switch d.Type {
		case "int":
			d.ValueKind = KindInt
		case "float":
			d.ValueKind = KindFloat
		case "bool":
			d.ValueKind = KindBool
		case "enum":
			d.ValueKind = KindEnum
		default:
			return nil, fmt.Errorf("store: signal %q has unknown type %q", d.Name, d.Type)
		}
		d.Domain = Domain{Min: d.DomainMin, Max: d.DomainMax}
		if d.Polarity == "" {
			d.Polarity = PolarityNeutral
		}
		if _, dup := decls[d.Name]; dup {
			return nil, fmt.Errorf("store: duplicate signal declaration %q", d.Name)
		}
		decls[d.Name] = d
	}
	return &Registry{decls: decls}, nil
}

// Lookup returns the declaration for name, or ok=false if unregistered.
func (r *Registry) Lookup(name string) (SignalDecl, bool) {
	d, ok := r.decls[name]
	return d, ok
}

// Validate checks that v matches decl's kind and, for numeric kinds, lies
// within decl's domain. Returns the (possibly clamped) value and a bool
// reporting whether clamping was necessary, matching §7's
// InvariantViolation handling: log and clamp, never propagate a NaN or an
// out-of-domain value downstream.
func (r *Registry) Validate(decl SignalDecl, v Value) (Value, bool) {
	if v.Kind != decl.ValueKind {
		return v, false
	}
	if decl.ValueKind != KindInt && decl.ValueKind != KindFloat {
		return v, false
	}
	f, _ := v.Float()
	if f != f { // NaN
		return FloatValue(decl.Domain.Min), true
	}
	clamped := decl.Domain.Clamp(f)
	if clamped == f {
		return v, false
	}
	if decl.ValueKind == KindInt {
		return IntValue(int(clamped)), true
	}
	return FloatValue(clamped), true
}

// Names returns every registered signal name, scoped to kind.
func (r *Registry) Names(scope Kind) []string {
	var out []string
	for name, d := range r.decls {
		if d.Scope == scope {
			out = append(out, name)
		}
	}
	return out
}
