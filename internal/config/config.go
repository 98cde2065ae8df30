package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// Config is a decoded run configuration.
type Config struct {
	Wiring     string   `json:"wiring,omitempty"`
	Entry      string   `json:"entry"`
	Target     string   `json:"target"`
	Presses    int      `json:"presses"`
	Witnesses  []string `json:"witnesses"`
	MaxSteps   int      `json:"max_steps"`
	MaxPresses int      `json:"max_presses"`
}

// ErrorCode categorizes configuration errors.
type ErrorCode string

const (
	// ErrCodeRead indicates the configuration file could not be read.
	ErrCodeRead ErrorCode = "READ_FAILED"

	// ErrCodeSyntax indicates the file is not valid CUE.
	ErrCodeSyntax ErrorCode = "CUE_SYNTAX"

	// ErrCodeInvalid indicates the file does not satisfy #Config.
	ErrCodeInvalid ErrorCode = "INVALID_CONFIG"
)

// Error is returned by Load.
type Error struct {
	Code    ErrorCode
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Default returns the configuration an empty file decodes to.
func Default() Config {
	cfg, err := decode(cuecontext.New(), []byte("{}"), "default.cue")
	if err != nil {
		panic(fmt.Sprintf("embedded config schema: %v", err))
	}
	return cfg
}

// Load reads and decodes the CUE file at path. A relative wiring path is
// resolved against the directory of the configuration file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, &Error{Code: ErrCodeRead, Path: path, Message: err.Error(), Err: err}
	}

	cfg, err := Parse(data, path)
	if err != nil {
		return Config{}, err
	}

	if cfg.Wiring != "" && !filepath.IsAbs(cfg.Wiring) {
		cfg.Wiring = filepath.Join(filepath.Dir(path), cfg.Wiring)
	}
	return cfg, nil
}

// Parse decodes CUE source. filename is used in error positions only.
func Parse(data []byte, filename string) (Config, error) {
	cfg, err := decode(cuecontext.New(), data, filename)
	if err != nil {
		var ce *Error
		if errors.As(err, &ce) {
			ce.Path = filename
		}
		return Config{}, err
	}
	return cfg, nil
}

func decode(ctx *cue.Context, data []byte, filename string) (Config, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compile schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Config"))

	value := ctx.CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return Config{}, &Error{Code: ErrCodeSyntax, Message: details(err), Err: err}
	}

	unified := def.Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Message: details(err), Err: err}
	}

	var cfg Config
	if err := unified.Decode(&cfg); err != nil {
		return Config{}, &Error{Code: ErrCodeInvalid, Message: details(err), Err: err}
	}
	if cfg.Witnesses == nil {
		cfg.Witnesses = []string{}
	}
	return cfg, nil
}

// details flattens a CUE error list into one line per error.
func details(err error) string {
	return cueerrors.Details(err, nil)
}

// IsInvalid reports whether err is an INVALID_CONFIG error.
func IsInvalid(err error) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Code == ErrCodeInvalid
}
