package main

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/0xSMW/aster/internal/ast"
	"github.com/0xSMW/aster/internal/cache"
	"github.com/0xSMW/aster/internal/codegen"
	"github.com/0xSMW/aster/internal/diag"
	"github.com/0xSMW/aster/internal/lexer"
	"github.com/0xSMW/aster/internal/module"
	"github.com/0xSMW/aster/internal/parser"
	"github.com/0xSMW/aster/internal/sema"
	"github.com/0xSMW/aster/internal/types"
)

var buildCmd = &cobra.Command{
	Use:   "build <entry.as>",
	Short: "Compile an aster entry module to textual SSA.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, _ := cmd.Flags().GetString("out")
		runBuild(args[0], out)
	},
}

func init() {
	buildCmd.Flags().StringP("out", "o", "out.ll", "output path for the emitted textual SSA")
	rootCmd.AddCommand(buildCmd)
}

// envToggles mirrors spec.md §6's environment-variable surface: each is
// "off" when empty or "0", "on" for any other value, and unknown vars are
// ignored (there is nothing to parse for those — os.Getenv on a name this
// build never reads is simply never called).
type envToggles struct {
	oLevel         int
	debug          bool
	native         bool
	fastMath       bool
	linkObjPaths   []string
	linkAccelerate bool
	dumpAST        bool
	dumpHIR        bool
}

func loadEnvToggles() envToggles {
	t := envToggles{
		debug:          envOn(os.Getenv("DEBUG")),
		native:         envOn(os.Getenv("NATIVE")),
		fastMath:       envOn(os.Getenv("FAST_MATH")),
		linkAccelerate: envOn(os.Getenv("LINK_ACCELERATE")),
		dumpAST:        envOn(os.Getenv("DUMP_AST")),
		dumpHIR:        envOn(os.Getenv("DUMP_HIR")),
	}
	if lvl, err := strconv.Atoi(os.Getenv("OLEVEL")); err == nil {
		t.oLevel = lvl
	}
	if objs := os.Getenv("LINK_OBJ"); objs != "" {
		t.linkObjPaths = strings.Split(objs, string(os.PathListSeparator))
	}
	return t
}

func envOn(v string) bool {
	return v != "" && v != "0"
}

// runBuild drives the full pipeline (spec.md §4): resolve -> load -> lex
// -> tag -> parse -> resolve names -> generate -> analyze noalloc ->
// cache store, exiting 1 on any fatal diagnostic (spec.md §6's exit-code
// rule).
func runBuild(entryPath string, outPath string) {
	toggles := loadEnvToggles()
	if toggles.debug {
		log.SetLevel(log.DebugLevel)
	}

	workspaceRoot, err := module.FindWorkspaceRoot(filepath.Dir(entryPath))
	if err != nil {
		fatalf("locating workspace root: %v", err)
	}
	log.WithField("root", workspaceRoot).Debug("resolved workspace root")

	resolver, err := module.NewResolver(workspaceRoot)
	if err != nil {
		fatalf("loading lockfile: %v", err)
	}

	loader := module.NewLoader(resolver)
	unit, err := loader.Load(entryPath)
	if err != nil {
		fatalf("loading modules: %v", err)
	}
	log.WithField("modules", len(unit.Modules)).Debug("assembled compilation unit")

	flags := cache.FlagSet{
		OLevel:         toggles.oLevel,
		Debug:          toggles.debug,
		Native:         toggles.native,
		FastMath:       toggles.fastMath,
		LinkAccelerate: toggles.linkAccelerate,
		Features:       packFeatures(unit.Features),
		LinkObjHashes:  hashLinkObjects(toggles.linkObjPaths),
	}

	buildCache := cache.FromEnv(os.Getenv)
	compilerHash, err := hashSelf()
	if err != nil {
		fatalf("hashing compiler binary: %v", err)
	}
	key := cache.Key(unit.Hash, compilerHash, flags)
	if hit, err := buildCache.Load(key, outPath, outPath); err != nil {
		log.WithError(err).Warn("reading cache entry failed; compiling without it")
	} else if hit {
		fmt.Printf("%s %s (cache hit)\n", green("✓"), outPath)
		return
	}

	src := string(unit.Bytes)
	tokens := lexAll(src)
	module.TagTokens(tokens, unit.Modules)

	in := types.NewInterner()
	moduleDotted := map[int]string{}
	dottedToID := map[string]int{}
	importsByModule := map[int][]string{}
	var spans []diag.ModuleSpan
	for _, m := range unit.Modules {
		moduleDotted[m.ID] = m.Dotted
		dottedToID[m.Dotted] = m.ID
		importsByModule[m.ID] = m.Imports
		if m.Kind != module.KindNamespace {
			spans = append(spans, diag.ModuleSpan{RelPath: m.RelPath, StartOffset: m.StartOffset})
		}
	}
	const entryModule = 0
	pos := diag.NewPositionResolver(src, spans)

	p := parser.New(src, tokens, in, moduleDotted, entryModule, pos)
	prog := p.Parse()
	if p.Diagnostics().HadError() {
		printReports(p.Diagnostics().Reports())
		os.Exit(1)
	}
	if toggles.dumpAST {
		fmt.Fprintf(os.Stderr, "%s %d consts, %d structs, %d funcs\n", cyan("ast:"), len(prog.Consts), len(prog.Structs), len(prog.Funcs))
	}

	resolverSema := sema.NewResolver(prog, dottedToID, importsByModule)
	gen := codegen.New(src, tokens, in, resolverSema, moduleDotted, entryModule, pos)
	ir := gen.Generate(prog)
	if gen.HadError() {
		printReports(gen.Diagnostics().Reports())
		os.Exit(1)
	}

	funcsByID := map[int]*ast.Func{}
	for _, f := range prog.Funcs {
		funcsByID[f.ID] = f
	}
	if reports := sema.AnalyzeNoalloc(funcsByID); len(reports) > 0 {
		printReports(reports)
		os.Exit(1)
	}

	if toggles.dumpHIR {
		fmt.Fprintln(os.Stderr, ir)
	}

	if err := os.WriteFile(outPath, []byte(ir), 0o644); err != nil {
		fatalf("writing output: %v", err)
	}
	buildCache.Store(key, outPath, outPath)
	fmt.Printf("%s %s\n", green("✓"), outPath)
}

func lexAll(src string) []lexer.Token {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == lexer.EOF {
			break
		}
	}
	return toks
}

func packFeatures(fs module.FeatureSet) uint8 {
	var b uint8
	if fs.TLS {
		b |= 1 << 0
	}
	if fs.Metal {
		b |= 1 << 1
	}
	return b
}

func hashLinkObjects(paths []string) map[string][32]byte {
	if len(paths) == 0 {
		return nil
	}
	out := make(map[string][32]byte, len(paths))
	for _, p := range paths {
		content, err := os.ReadFile(p)
		if err != nil {
			log.WithField("path", p).WithError(err).Warn("skipping unreadable link object")
			continue
		}
		out[p] = sha256.Sum256(content)
	}
	return out
}

func hashSelf() ([32]byte, error) {
	var zero [32]byte
	self, err := os.Executable()
	if err != nil {
		return zero, err
	}
	content, err := os.ReadFile(self)
	if err != nil {
		return zero, err
	}
	return sha256.Sum256(content), nil
}

func printReports(reports []*diag.Report) {
	for _, r := range reports {
		if r.Span != nil {
			fmt.Fprintf(os.Stderr, "%s %s:%d:%d: %s: %s\n", red("error:"), r.Span.File, r.Span.Line, r.Span.Col, r.Code, r.Message)
		} else {
			fmt.Fprintf(os.Stderr, "%s %s: %s\n", red("error:"), r.Code, r.Message)
		}
	}
}
