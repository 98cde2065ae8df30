package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/pulsenet/internal/compiler"
	"github.com/roach88/pulsenet/internal/config"
	"github.com/roach88/pulsenet/internal/engine"
	"github.com/roach88/pulsenet/internal/ir"
	"github.com/roach88/pulsenet/internal/network"
	"github.com/roach88/pulsenet/internal/store"
)

// ErrCodeGeneric is reported for errors that carry no code of their own.
const ErrCodeGeneric = "COMMAND_ERROR"

// ErrCodeNoWiring is reported when neither an argument nor --config names a
// wiring file.
const ErrCodeNoWiring = "NO_WIRING"

// ErrCodeNoDatabase is reported when --db names a run log that does not
// exist for a command that only reads it.
const ErrCodeNoDatabase = "NO_DATABASE"

// ErrCodeRunNotFound is reported when --run names no recorded run.
const ErrCodeRunNotFound = "RUN_NOT_FOUND"

// LoadResult is a compiled wiring together with the effective run
// configuration.
type LoadResult struct {
	Path       string
	Decls      []ir.Declaration
	Network    *network.Network
	WiringHash string
	Config     config.Config
}

// LoadError is returned by LoadWiring.
type LoadError struct {
	Code    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error { return e.Err }

// loadConfig returns the --config file if set, else the defaults.
func loadConfig(opts *RootOptions) (config.Config, error) {
	if opts.Config == "" {
		return config.Default(), nil
	}
	return config.Load(opts.Config)
}

// LoadWiring resolves the wiring path (argument first, then the config's
// wiring field), compiles it and builds the network.
func LoadWiring(opts *RootOptions, args []string) (*LoadResult, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	path := cfg.Wiring
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		return nil, &LoadError{Code: ErrCodeNoWiring, Message: "no wiring file given and --config sets none"}
	}

	decls, err := compiler.CompileFile(path)
	if err != nil {
		return nil, err
	}
	net, err := network.New(decls)
	if err != nil {
		return nil, err
	}
	hash, err := ir.WiringHash(decls)
	if err != nil {
		return nil, err
	}

	return &LoadResult{
		Path:       path,
		Decls:      decls,
		Network:    net,
		WiringHash: hash,
		Config:     cfg,
	}, nil
}

// engineOptions turns the effective configuration into engine options.
func engineOptions(cfg config.Config) []engine.Option {
	opts := []engine.Option{
		engine.WithEntry(cfg.Entry),
		engine.WithMaxSteps(cfg.MaxSteps),
		engine.WithMaxPresses(cfg.MaxPresses),
	}
	if len(cfg.Witnesses) > 0 {
		opts = append(opts, engine.WithWitnesses(cfg.Witnesses...))
	}
	return opts
}

// overrideInt replaces *dst with v when the named flag was set.
func overrideInt(cmd *cobra.Command, flag string, dst *int, v int) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// overrideString replaces *dst with v when the named flag was set.
func overrideString(cmd *cobra.Command, flag string, dst *string, v string) {
	if cmd.Flags().Changed(flag) {
		*dst = v
	}
}

// errorCode extracts the string code of a typed error.
func errorCode(err error) string {
	var (
		loadErr    *LoadError
		compileErr *compiler.CompileError
		dupErr     *network.DuplicateModuleError
		topoErr    *network.TopologyError
		runtimeErr *engine.RuntimeError
		stepsErr   *engine.StepsExceededError
		configErr  *config.Error
	)
	switch {
	case errors.As(err, &loadErr):
		return loadErr.Code
	case errors.As(err, &compileErr):
		return string(compileErr.Code)
	case errors.As(err, &dupErr):
		return string(compiler.ErrCodeDuplicateModule)
	case errors.As(err, &topoErr):
		return string(topoErr.Code)
	case errors.As(err, &runtimeErr):
		return string(runtimeErr.Code)
	case errors.As(err, &stepsErr):
		return string(stepsErr.Code())
	case errors.As(err, &configErr):
		return string(configErr.Code)
	case errors.Is(err, store.ErrNoDatabase):
		return ErrCodeNoDatabase
	case errors.Is(err, store.ErrRunNotFound):
		return ErrCodeRunNotFound
	}
	return ErrCodeGeneric
}

// errorDetails returns the structured context of a typed error, if any.
func errorDetails(err error) interface{} {
	var (
		compileErr *compiler.CompileError
		runtimeErr *engine.RuntimeError
		stepsErr   *engine.StepsExceededError
	)
	switch {
	case errors.As(err, &compileErr) && compileErr.Line > 0:
		return map[string]interface{}{"line": compileErr.Line, "text": compileErr.Text}
	case errors.As(err, &runtimeErr) && len(runtimeErr.Details) > 0:
		return runtimeErr.Details
	case errors.As(err, &stepsErr):
		return map[string]int{"press": stepsErr.Press, "steps": stepsErr.Steps, "limit": stepsErr.Limit}
	}
	return nil
}

// outputCommandError reports err and returns it as a command error (exit 2).
func outputCommandError(formatter *OutputFormatter, err error) error {
	code := errorCode(err)
	_ = formatter.Error(code, err.Error(), errorDetails(err))
	return WrapExitError(ExitCommandError, code, err)
}

// recordRun writes run and its pulses to the database at dbPath in one
// transaction under an id from ids, and returns the id.
func recordRun(ctx context.Context, ids store.IDGenerator, dbPath string, run store.Run, pulses []ir.Pulse) (string, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", err
	}
	defer st.Close()

	run.ID = ids.Generate()
	if _, err := st.RecordRun(ctx, run, pulses); err != nil {
		return "", err
	}
	return run.ID, nil
}
