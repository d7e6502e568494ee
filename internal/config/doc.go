// Package config provides configuration structures and utilities for nriscan.
// It defines the crawl options populated from CLI flags and the loadable
// site profile (selectors, evasion overrides, challenge signatures) that
// captures everything about the target site determined empirically.
package config
