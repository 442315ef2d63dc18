// Package respecttest binds respect sessions to Go tests.
//
// New derives the test Identity from the calling _test.go file and
// t.Name(), loads the nearest .respect.json or .respect.yaml, and returns
// Resources whose methods fail the test instead of returning errors.
//
// Accept mode is enabled by the -respect.accept flag or by the environment
// variable named in the config (RESPECT_ACCEPT by default):
//
//	go test ./... -respect.accept
//	RESPECT_ACCEPT=1 go test ./...
package respecttest

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/afero"

	"github.com/AndreyAkinshin/respect/internal/config"
	"github.com/AndreyAkinshin/respect/internal/output"
	"github.com/AndreyAkinshin/respect/pkg/respect"
)

// AcceptFlag is the name of the command-line flag enabling accept mode.
const AcceptFlag = "respect.accept"

var acceptFlag = flag.Bool(AcceptFlag, false, "write actual values as new respect baselines instead of failing")

// Resources is a respect Session bound to a test. Its Load, Save and Expect
// methods report errors through t.Fatalf; the error-returning forms stay
// reachable through the embedded Session.
type Resources struct {
	*respect.Session

	t         testing.TB
	acceptEnv string
}

// Option configures New.
type Option func(*options)

type options struct {
	fs      afero.Fs
	baseDir string
	accept  *bool
	digits  *int
	codec   respect.Codec
	out     *output.Writer
}

// WithFS uses fsys for resources and config lookup instead of the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(o *options) { o.fs = fsys }
}

// WithBaseDir overrides the resources directory from the config.
func WithBaseDir(dir string) Option {
	return func(o *options) { o.baseDir = dir }
}

// WithAccept forces accept mode on or off, ignoring flag and environment.
func WithAccept(accept bool) Option {
	return func(o *options) { o.accept = &accept }
}

// WithDigits sets the default rounding precision.
func WithDigits(n int) Option {
	return func(o *options) { o.digits = &n }
}

// WithCodec sets the codec for structured resources.
func WithCodec(c respect.Codec) Option {
	return func(o *options) { o.codec = c }
}

// WithOutput sends accept-mode notices to w in addition to t.Logf.
func WithOutput(w *output.Writer) Option {
	return func(o *options) { o.out = w }
}

// New creates the Resources for t. It must be called from a _test.go file,
// whose directory anchors the resources directory and whose name becomes
// the identity's module.
func New(t testing.TB, opts ...Option) *Resources {
	t.Helper()

	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.fs == nil {
		o.fs = afero.NewOsFs()
	}
	if o.out == nil {
		o.out = output.New()
	}

	file, err := callerTestFile()
	if err != nil {
		t.Fatalf("respect: %v", err)
		return nil
	}
	testDir := filepath.Dir(file)
	module := strings.TrimSuffix(filepath.Base(file), ".go")

	cfg, cfgPath, warnings, err := config.LoadFrom(o.fs, testDir)
	if err != nil {
		t.Fatalf("respect: %v", err)
		return nil
	}
	for _, w := range warnings {
		t.Logf("respect: %s: %s", cfgPath, w)
	}

	codec := o.codec
	if codec == nil {
		if codec, err = respect.CodecByName(cfg.Codec); err != nil {
			t.Fatalf("respect: %s: %v", cfgPath, err)
			return nil
		}
	}
	pathMaker, err := respect.PathMakerByName(cfg.PathMaker)
	if err != nil {
		t.Fatalf("respect: %s: %v", cfgPath, err)
		return nil
	}
	listMaker, err := respect.PathMakerByName(cfg.ListMaker)
	if err != nil {
		t.Fatalf("respect: %s: %v", cfgPath, err)
		return nil
	}

	baseDir := o.baseDir
	if baseDir == "" {
		baseDir = cfg.ResolveResourcesDir(testDir)
	}

	accept := *acceptFlag || cfg.AcceptFromEnv()
	if o.accept != nil {
		accept = *o.accept
	}

	digits := cfg.NDigits
	if o.digits != nil {
		digits = o.digits
	}

	s := respect.New(respect.IdentityFromName(module, t.Name()), respect.Config{
		BaseDir:     baseDir,
		Accept:      accept,
		NDigits:     digits,
		Codec:       codec,
		WriteActual: *cfg.WriteActual,
		FS:          o.fs,
		Log:         &testLogger{t: t, out: o.out},
	})
	s.PathMaker = pathMaker
	s.ListMaker = listMaker

	return &Resources{Session: s, t: t, acceptEnv: cfg.AcceptEnv}
}

// callerTestFile returns the first _test.go file on the call stack.
func callerTestFile() (string, error) {
	for skip := 1; ; skip++ {
		_, file, _, ok := runtime.Caller(skip)
		if !ok {
			return "", errors.New("respecttest.New must be called from a _test.go file")
		}
		if !strings.HasSuffix(file, "_test.go") {
			continue
		}
		if filepath.IsAbs(file) {
			return file, nil
		}
		// -trimpath leaves module-relative paths; go test runs in the package directory.
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		return filepath.Join(wd, filepath.Base(file)), nil
	}
}

// testLogger reports accept-mode writes in the test log and on the console,
// so that they show up even without -v.
type testLogger struct {
	t   testing.TB
	out *output.Writer
}

func (l *testLogger) Logf(format string, args ...any) {
	l.t.Helper()
	l.t.Logf(format, args...)
	l.out.Logf(format, args...)
}

func (r *Resources) fail(err error) {
	r.t.Helper()
	if errors.Is(err, respect.ErrMismatch) {
		r.t.Fatalf("%v\nrun go test with -%s (or %s=1) to accept the actual value", err, AcceptFlag, r.acceptEnv)
		return
	}
	r.t.Fatalf("%v", err)
}

// ExpectText compares actual with the text resource.
func (r *Resources) ExpectText(actual string, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.ExpectText(actual, opts...); err != nil {
		r.fail(err)
	}
}

// ExpectJSON compares actual with the structured resource.
func (r *Resources) ExpectJSON(actual any, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.ExpectJSON(actual, opts...); err != nil {
		r.fail(err)
	}
}

// ExpectModel compares a typed model with the structured resource.
func (r *Resources) ExpectModel(model any, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.ExpectModel(model, opts...); err != nil {
		r.fail(err)
	}
}

// LoadText reads the text resource.
func (r *Resources) LoadText(opts ...respect.Option) string {
	r.t.Helper()
	text, err := r.Session.LoadText(opts...)
	if err != nil {
		r.fail(err)
	}
	return text
}

// SaveText writes the text resource.
func (r *Resources) SaveText(text string, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.SaveText(text, opts...); err != nil {
		r.fail(err)
	}
}

// LoadJSON decodes the structured resource.
func (r *Resources) LoadJSON(opts ...respect.Option) any {
	r.t.Helper()
	v, err := r.Session.LoadJSON(opts...)
	if err != nil {
		r.fail(err)
	}
	return v
}

// SaveJSON encodes v into the structured resource.
func (r *Resources) SaveJSON(v any, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.SaveJSON(v, opts...); err != nil {
		r.fail(err)
	}
}

// LoadModel decodes and validates the structured resource into v.
func (r *Resources) LoadModel(v any, opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.LoadModel(v, opts...); err != nil {
		r.fail(err)
	}
}

// Delete removes a resource; a missing file is fine.
func (r *Resources) Delete(opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.Delete(opts...); err != nil {
		r.fail(err)
	}
}

// DeleteJSON removes a structured resource; a missing file is fine.
func (r *Resources) DeleteJSON(opts ...respect.Option) {
	r.t.Helper()
	if err := r.Session.DeleteJSON(opts...); err != nil {
		r.fail(err)
	}
}

// List lists resources in the session's list directory.
func (r *Resources) List(lo respect.ListOptions, opts ...respect.Option) []string {
	r.t.Helper()
	names, err := r.Session.List(lo, opts...)
	if err != nil {
		r.fail(err)
	}
	return names
}

// Load is LoadAs for Resources.
func Load[T any](r *Resources, opts ...respect.Option) T {
	r.t.Helper()
	v, err := respect.LoadAs[T](r.Session, opts...)
	if err != nil {
		r.fail(err)
	}
	return v
}
