// Package catalog holds the read-only suggested routines offered on the
// dashboard, keyed by skin type.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed suggestions.yaml
var builtin []byte

type Step struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type Suggestion struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Steps       []Step `yaml:"steps" json:"steps"`
}

type file struct {
	Default   string                  `yaml:"default"`
	SkinTypes map[string][]Suggestion `yaml:"skin_types"`
}

type Catalog struct {
	fallback string
	bySkin   map[string][]Suggestion
}

// Load parses the built-in catalog.
func Load() (*Catalog, error) {
	return Parse(builtin)
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse suggestions: %w", err)
	}
	if len(f.SkinTypes) == 0 {
		return nil, fmt.Errorf("suggestions: no skin types defined")
	}
	c := &Catalog{fallback: strings.ToLower(f.Default), bySkin: make(map[string][]Suggestion, len(f.SkinTypes))}
	for k, v := range f.SkinTypes {
		c.bySkin[strings.ToLower(k)] = v
	}
	if _, ok := c.bySkin[c.fallback]; !ok {
		return nil, fmt.Errorf("suggestions: default skin type %q not defined", f.Default)
	}
	return c, nil
}

// For returns the suggestions for skinType, or the default skin type's
// suggestions when it is empty or unknown.
func (c *Catalog) For(skinType string) []Suggestion {
	if s, ok := c.bySkin[strings.ToLower(strings.TrimSpace(skinType))]; ok {
		return s
	}
	return c.bySkin[c.fallback]
}

// Find looks a suggestion up by name across all skin types.
func (c *Catalog) Find(name string) (Suggestion, bool) {
	for _, list := range c.bySkin {
		for _, s := range list {
			if strings.EqualFold(s.Name, name) {
				return s, true
			}
		}
	}
	return Suggestion{}, false
}
