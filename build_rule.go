package stitch

// Rule is the kind specific part of a target. What a target can do is
// decided by which of the capability interfaces below its rule implements.
type Rule interface {
	// Type returns the name of the rule kind, like "jar".
	Type() string
}

// RuleProducer is a rule that generates build rules for phases. The
// returned map is keyed by phase, with "default" naming the default rule.
type RuleProducer interface {
	RuleMap(t *Target) map[string]string
}

// SourceProducer is a rule that generates intermediate source directories
// for other targets to compile.
type SourceProducer interface {
	IntermediatePaths(t *Target, lang string) ([]string, error)
}

// ClassPathProducer is a rule that adds extra elements into the classpath
// of its dependents.
type ClassPathProducer interface {
	ClassPathElements(t *Target) ([]string, error)
}

// OutputProducer is a rule that generates artifacts. Directories end with
// a "/"; files do not.
type OutputProducer interface {
	OutputPaths(t *Target) ([]string, error)
}

// Standaloner is a rule whose artifact bundles its own transitive
// dependencies.
type Standaloner interface {
	Standalone() bool
}

// BundleExempter is a rule that can be excluded from being bundled into
// standalone artifacts.
type BundleExempter interface {
	StandaloneExempt() bool
}

// Versioner is a rule that carries a version string.
type Versioner interface {
	Version(t *Target) (string, error)
}

// PreambleProducer is a rule that declares properties before any rule is
// emitted.
type PreambleProducer interface {
	Preamble(t *Target) (map[string]string, error)
}
