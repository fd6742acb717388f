package memory_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"os/exec"
	"regexp"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

const memoryPackagePath = "github.com/persistgo/immer/memory"

type packageImporter map[string]*types.Package

func (i packageImporter) Import(path string) (*types.Package, error) {
	pkg, ok := i[path]
	if !ok {
		return nil, errors.Newf("package %s was not loaded", path)
	}
	return pkg, nil
}

func loadPolicyPackages(t *testing.T) packageImporter {
	t.Helper()

	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command is required to load package type information")
	}

	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedTypes | packages.NeedImports | packages.NeedDeps |
			packages.NeedSyntax | packages.NeedTypesInfo,
	}
	roots, err := packages.Load(cfg, memoryPackagePath)
	require.NoError(t, err)
	require.Zero(t, packages.PrintErrors(roots))

	importer := packageImporter{}
	packages.Visit(roots, nil, func(pkg *packages.Package) {
		importer[pkg.PkgPath] = pkg.Types
	})
	return importer
}

// typeCheck checks a file importing the memory packages and returns the type errors it reports
func typeCheck(t *testing.T, importer packageImporter, body string) []types.Error {
	t.Helper()

	source := `package snippet

import (
	"github.com/persistgo/immer/memory"
	"github.com/persistgo/immer/memory/heap"
	"github.com/persistgo/immer/memory/refcount"
)

var (
	_ memory.MemoryPolicy
	_ heap.Heap
	_ refcount.Policy
)

type notAHeap struct{}

type allocateOnly struct{}

func (allocateOnly) Allocate(size int) ([]byte, error) { return nil, nil }

type notARefcount struct{}

type incrementOnly struct{}

func (incrementOnly) Inc(c *refcount.Count) {}

type statefulHeapPolicy struct{ blockSize int }

func (statefulHeapPolicy) Optimized(size int) heap.Heap { return heap.Malloc{} }

type statefulHint struct{ value bool }

func (h statefulHint) Bool() bool { return h.value }

` + body

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "snippet.go", source, 0)
	require.NoError(t, err)

	var typeErrors []types.Error
	config := types.Config{
		Importer: importer,
		Error: func(err error) {
			var typeErr types.Error
			if errors.As(err, &typeErr) {
				typeErrors = append(typeErrors, typeErr)
			}
		},
	}
	_, _ = config.Check("snippet", fset, []*ast.File{file}, nil)
	return typeErrors
}

var unsatisfied = regexp.MustCompile(`does not (satisfy|implement)`)

func TestConformingStrategiesTypeCheck(t *testing.T) {
	importer := loadPolicyPackages(t)

	typeErrors := typeCheck(t, importer, `
var (
	_ memory.Policy[heap.Plain[heap.Malloc], refcount.Atomic]
	_ memory.Policy[heap.FreeList[heap.DebugSize[heap.Malloc]], refcount.None]
	_ memory.PolicyWith[heap.FreeList[heap.Malloc], refcount.Unsafe, memory.True]
	_ memory.MemoryPolicy = memory.Default
)
`)
	require.Empty(t, typeErrors)
}

func TestNonConformingStrategiesAreRejected(t *testing.T) {
	importer := loadPolicyPackages(t)

	testCases := map[string]string{
		"missing heap policy":    `var _ memory.Policy[notAHeap, refcount.Atomic]`,
		"base heap as policy":    `var _ memory.Policy[heap.Malloc, refcount.Atomic]`,
		"partial base heap":      `var _ memory.Policy[heap.Plain[allocateOnly], refcount.Atomic]`,
		"partial free list heap": `var _ memory.Policy[heap.FreeList[allocateOnly], refcount.Atomic]`,
		"missing refcount":       `var _ memory.Policy[heap.Plain[heap.Malloc], notARefcount]`,
		"partial refcount":       `var _ memory.Policy[heap.Plain[heap.Malloc], incrementOnly]`,
		"heap in refcount slot":  `var _ memory.Policy[heap.Plain[heap.Malloc], heap.Plain[heap.Malloc]]`,
		"explicit missing heap":  `var _ memory.PolicyWith[notAHeap, refcount.Atomic, memory.True]`,
		"explicit bad refcount":  `var _ memory.PolicyWith[heap.Plain[heap.Malloc], notARefcount, memory.False]`,
		"plain bool as hint":     `var _ memory.PolicyWith[heap.Plain[heap.Malloc], refcount.Atomic, bool]`,
		"pointer hint":           `var _ memory.PolicyWith[heap.Plain[heap.Malloc], refcount.Atomic, *memory.True]`,
		"pointer refcount":       `var _ memory.Policy[heap.Plain[heap.Malloc], *refcount.Atomic]`,
		"pointer heap policy":    `var _ memory.Policy[*heap.FreeList[heap.Malloc], refcount.Atomic]`,
		"pointer base heap":      `var _ memory.Policy[heap.Plain[*heap.FreeListHeap], refcount.Atomic]`,
		"stateful heap policy":   `var _ memory.Policy[statefulHeapPolicy, refcount.Atomic]`,
		"stateful explicit hint": `var _ memory.PolicyWith[heap.Plain[heap.Malloc], refcount.None, statefulHint]`,
	}

	for name, declaration := range testCases {
		t.Run(name, func(t *testing.T) {
			typeErrors := typeCheck(t, importer, declaration)
			require.NotEmpty(t, typeErrors)
			require.Regexp(t, unsatisfied, typeErrors[0].Msg)
		})
	}
}
