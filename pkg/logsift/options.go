package logsift

// options collects the configuration New assembles a Sifter from.
type options struct {
	ignoreText string
	ignoreFile string
	scopeText  string
	scopeFile  string
	format     string
	preHooks   []func(Record) (Record, *Route)
	postHooks  []func(Decision) Decision
}

// Option configures a Sifter.
type Option func(*options)

// WithIgnoreRules supplies ignore rules as text in the .logcatignore
// grammar (one directive per line, # comments, first match wins).
func WithIgnoreRules(text string) Option {
	return func(o *options) { o.ignoreText = text }
}

// WithIgnoreFile loads ignore rules from a file. A missing file is an
// error here; the CLI's lenient fallback is a CLI concern.
func WithIgnoreFile(path string) Option {
	return func(o *options) { o.ignoreFile = path }
}

// WithScope supplies the scope as text, either a flat tag list or the
// sectioned TOML form.
func WithScope(text string) Option {
	return func(o *options) { o.scopeText = text }
}

// WithScopeFile loads the scope from a file.
func WithScopeFile(path string) Option {
	return func(o *options) { o.scopeFile = path }
}

// WithFormat pins the logcat format ("threadtime", "brief", ...) instead
// of auto-detecting per line.
func WithFormat(name string) Option {
	return func(o *options) { o.format = name }
}

// WithPreHook appends a pre-classification hook. Hooks run in registration
// order; returning a non-nil route forces it and skips both the remaining
// pre-hooks and the classifier.
func WithPreHook(h func(Record) (Record, *Route)) Option {
	return func(o *options) { o.preHooks = append(o.preHooks, h) }
}

// WithPostHook appends a post-classification hook. Hooks run in
// registration order and may rewrite the route or veto emission.
func WithPostHook(h func(Decision) Decision) Option {
	return func(o *options) { o.postHooks = append(o.postHooks, h) }
}
