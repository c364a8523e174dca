// Package driver implements the Build Driver from spec §4.7: three
// errgroup-barriered phases (parse, analyze, generate) plus the
// Main.main gate between phases 1 and 3, dispatching one task per file
// per phase.
//
// Grounded on the teacher's cmd/jack_compiler/main.go pipeline (walk
// inputs -> parse every TU into a jack.Program -> typecheck -> lower ->
// codegen -> write one .vm per input), restructured around the spec's
// explicit phase barriers using golang.org/x/sync/errgroup instead of the
// teacher's straight-line sequential loop.
package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jackc-project/jackc/pkg/analyzer"
	"github.com/jackc-project/jackc/pkg/ast"
	"github.com/jackc-project/jackc/pkg/codegen"
	"github.com/jackc-project/jackc/pkg/diag"
	"github.com/jackc-project/jackc/pkg/parser"
	"github.com/jackc-project/jackc/pkg/registry"
	"github.com/jackc-project/jackc/pkg/symboltable"
	"github.com/jackc-project/jackc/pkg/token"
	"github.com/jackc-project/jackc/pkg/types"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// unit is one file's state as it moves through the three phases.
type unit struct {
	file  string
	class *ast.Class
	st    *symboltable.SymbolTable
}

// Driver owns the registries shared across every file in one compilation
// (spec §4.4: "single cross-file store... the parse phase writes and
// every later phase only reads").
type Driver struct {
	Reg     *registry.Registry
	Treg    *types.Registry
	Log     *logrus.Logger
	Program *ast.Program
}

// New returns a Driver with fresh registries. If useStdlib is true, the
// bundled standard library ABI (spec §4.8) is preloaded before any file
// is parsed.
func New(useStdlib bool) (*Driver, error) {
	d := &Driver{
		Reg:     registry.New(),
		Treg:    types.New(),
		Log:     logrus.StandardLogger(),
		Program: ast.NewProgram(),
	}
	if useStdlib {
		if err := LoadStdlib(d.Reg, d.Treg); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Compile runs the full pipeline over files, writing one .vm file per
// input alongside it (spec §6). Any task error fails the build; per spec
// §7's propagation policy, the parse phase's errors are all collected
// before the build fails, while the analyze/generate phases abort on the
// first error.
func (d *Driver) Compile(ctx context.Context, files []string) error {
	units := make([]*unit, len(files))

	if err := d.parsePhase(ctx, files, units); err != nil {
		return err
	}
	// Registering into Program happens after the parse phase's barrier, in
	// discovery order, so later phases see a reproducible class ordering
	// regardless of which goroutine finished parsing first.
	unitByClass := make(map[string]*unit, len(units))
	for _, u := range units {
		d.Program.Set(u.class.Name, u.class)
		unitByClass[u.class.Name] = u
	}
	d.Log.WithField("phase", "parse").Info("parse phase complete")

	if err := d.Reg.CheckMainEntry(); err != nil {
		return fmt.Errorf("main entry check: %w", err)
	}
	d.Log.WithField("phase", "main-entry").Info("Main.main verified")

	if err := d.analyzePhase(ctx, units); err != nil {
		return err
	}
	d.Log.WithField("phase", "analyze").Info("analyze phase complete")

	if err := d.generatePhase(ctx, unitByClass); err != nil {
		return err
	}
	d.Log.WithField("phase", "generate").Info("generate phase complete")

	return nil
}

func (d *Driver) parsePhase(ctx context.Context, files []string, units []*unit) error {
	g, _ := errgroup.WithContext(ctx)
	errs := make([]error, len(files))
	for i, file := range files {
		i, file := i, file
		task := func() error {
			log := d.Log.WithField("phase", "parse").WithField("file", file)

			src, err := os.ReadFile(file)
			if err != nil {
				return diag.New(diag.IOError, token.Position{File: file}, "cannot read %s: %v", file, err)
			}

			p, err := parser.New(file, src, d.Treg, d.Reg)
			if err != nil {
				return err
			}
			class, err := p.ParseClass()
			if err != nil {
				return err
			}

			units[i] = &unit{file: file, class: class}
			log.Debug("parsed")
			return nil
		}
		g.Go(func() error {
			errs[i] = task()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

func (d *Driver) analyzePhase(ctx context.Context, units []*unit) error {
	g, _ := errgroup.WithContext(ctx)
	for _, u := range units {
		u := u
		g.Go(func() error {
			log := d.Log.WithField("phase", "analyze").WithField("file", u.file)

			a := analyzer.New(d.Reg, d.Treg)
			st, err := a.AnalyzeClass(u.class)
			if err != nil {
				return err
			}
			u.st = st
			log.Debug("analyzed")
			return nil
		})
	}
	return g.Wait()
}

// generatePhase walks d.Program in its reproducible insertion order,
// dispatching one generate task per class -- the consumer side of the
// Program this same Compile call built at the end of the parse phase.
func (d *Driver) generatePhase(ctx context.Context, unitByClass map[string]*unit) error {
	g, _ := errgroup.WithContext(ctx)
	gen := codegen.New(d.Reg)
	for pair := d.Program.Oldest(); pair != nil; pair = pair.Next() {
		u := unitByClass[pair.Key]
		g.Go(func() error {
			log := d.Log.WithField("phase", "generate").WithField("file", u.file)

			outPath := strings.TrimSuffix(u.file, filepath.Ext(u.file)) + ".vm"
			out, err := os.Create(outPath)
			if err != nil {
				return diag.New(diag.IOError, token.Position{File: u.file}, "cannot create %s: %v", outPath, err)
			}
			defer out.Close()

			if err := gen.GenerateClass(out, u.class, u.st); err != nil {
				return err
			}
			log.Debug("generated")
			return nil
		})
	}
	return g.Wait()
}
