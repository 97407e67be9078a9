package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
)

// FeatureFlags manages feature toggles. Deployments at different
// faculties run different subsets of the surfaces, so every optional
// surface sits behind a flag with an environment override.
type FeatureFlags struct {
	mu sync.RWMutex

	features map[string]*Feature
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool
}

// Predefined feature flag names.
const (
	// === Authentication ===
	FeatureAuthGoogle   = "auth.google"   // Google credential login
	FeatureAuthRegister = "auth.register" // self-service registration

	// === Imports ===
	FeatureImportStudents    = "import.students"    // student roster upload
	FeatureImportSecretaries = "import.secretaries" // secretary roster upload

	// === Cadre ===
	FeatureCadreEdit       = "cadre.edit"       // staff record edits
	FeatureCadreRepopulate = "cadre.repopulate" // upstream roster rebuild
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features: make(map[string]*Feature),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	defaults := []Feature{
		{FeatureAuthGoogle, "Google credential login", true},
		{FeatureAuthRegister, "Self-service registration", true},
		{FeatureImportStudents, "Student roster upload", true},
		{FeatureImportSecretaries, "Secretary roster upload", true},
		{FeatureCadreEdit, "Staff record edits", true},
		{FeatureCadreRepopulate, "Upstream roster rebuild", false},
	}

	for i := range defaults {
		f := defaults[i]
		ff.features[f.Name] = &f
	}
}

// loadFromEnvironment applies EXAMDESK_FEATURE_* overrides.
// "auth.google" is overridden by EXAMDESK_FEATURE_AUTH_GOOGLE.
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		key := "EXAMDESK_FEATURE_" + strings.ToUpper(strings.ReplaceAll(name, ".", "_"))
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		if enabled, err := strconv.ParseBool(val); err == nil {
			feature.Enabled = enabled
		}
	}
}

// IsEnabled reports whether a feature is on. Unknown names are off.
func (ff *FeatureFlags) IsEnabled(name string) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	f, ok := ff.features[name]
	return ok && f.Enabled
}

// Set flips a feature at runtime; tests and the CLI use it.
func (ff *FeatureFlags) Set(name string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if f, ok := ff.features[name]; ok {
		f.Enabled = enabled
		return
	}
	ff.features[name] = &Feature{Name: name, Enabled: enabled}
}

// All returns a name -> enabled snapshot, for the diagnostics output.
func (ff *FeatureFlags) All() map[string]bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	out := make(map[string]bool, len(ff.features))
	for name, f := range ff.features {
		out[name] = f.Enabled
	}
	return out
}
