package architecture_test

import (
	"bufio"
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

type violation struct {
	file string
	imp  string
	rule string
}

// scanImports walks internal/ and reports every import that check rejects.
func scanImports(t *testing.T, check func(modulePath, rel, imp string) (string, bool)) []violation {
	t.Helper()

	start, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	root, err := findModuleRoot(start)
	if err != nil {
		t.Fatalf("find module root: %v", err)
	}
	modulePath, err := readModulePath(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read module path: %v", err)
	}

	internalDir := filepath.Join(root, "internal")
	fset := token.NewFileSet()
	var violations []violation

	walkErr := filepath.WalkDir(internalDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			switch d.Name() {
			case ".git", "vendor", "node_modules", ".gocache":
				return filepath.SkipDir
			default:
				return nil
			}
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			if spec == nil || spec.Path == nil {
				continue
			}
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil {
				continue
			}
			if rule, bad := check(modulePath, rel, imp); bad {
				violations = append(violations, violation{file: rel, imp: imp, rule: rule})
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	return violations
}

func report(t *testing.T, header string, violations []violation) {
	t.Helper()
	if len(violations) == 0 {
		return
	}
	var b strings.Builder
	b.WriteString(header + ":\n")
	for _, v := range violations {
		fmt.Fprintf(&b, "- %s imports %q (disallowed: %q)\n", v.file, v.imp, v.rule)
	}
	t.Fatal(b.String())
}

func TestImportBoundaries(t *testing.T) {
	violations := scanImports(t, func(modulePath, rel, imp string) (string, bool) {
		for _, bad := range disallowedImports(modulePath, layerFor(rel)) {
			if imp == strings.TrimSuffix(bad, "/") || strings.HasPrefix(imp, bad) {
				return bad, true
			}
		}
		return "", false
	})
	report(t, "import boundary violations", violations)
}

// The calculators must stay free of storage and transport so they can be
// exercised without a database or an HTTP server.
func TestCalculatorsStayPure(t *testing.T) {
	banned := []string{"gorm.io/", "github.com/gin-gonic/", "net/http"}
	violations := scanImports(t, func(_ string, rel, imp string) (string, bool) {
		if !strings.HasPrefix(rel, "internal/nutrition/") && !strings.HasPrefix(rel, "internal/training/") {
			return "", false
		}
		for _, bad := range banned {
			if strings.HasPrefix(imp, bad) {
				return bad, true
			}
		}
		return "", false
	})
	report(t, "calculator packages import storage or transport", violations)
}

func layerFor(rel string) string {
	switch {
	case strings.HasPrefix(rel, "internal/platform/"):
		return "platform"
	case strings.HasPrefix(rel, "internal/domain/"):
		return "domain"
	case strings.HasPrefix(rel, "internal/nutrition/"), strings.HasPrefix(rel, "internal/training/"):
		return "calculators"
	case strings.HasPrefix(rel, "internal/data/"):
		return "data"
	case strings.HasPrefix(rel, "internal/services/"):
		return "services"
	default:
		return ""
	}
}

func disallowedImports(modulePath string, layer string) []string {
	http := modulePath + "/internal/http/"
	app := modulePath + "/internal/app/"
	services := modulePath + "/internal/services/"
	data := modulePath + "/internal/data/"
	switch layer {
	case "platform":
		return []string{http, app, services, data, modulePath + "/internal/domain/"}
	case "domain":
		return []string{http, app, services, data, modulePath + "/internal/platform/"}
	case "calculators":
		return []string{http, app, services, data}
	case "data":
		return []string{http, app, services}
	case "services":
		return []string{http, app}
	default:
		return nil
	}
}

func findModuleRoot(start string) (string, error) {
	dir := start
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("go.mod not found from %s", start)
		}
		dir = parent
	}
}

func readModulePath(goModPath string) (string, error) {
	f, err := os.Open(goModPath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if !strings.HasPrefix(line, "module ") {
			continue
		}
		mp := strings.TrimSpace(strings.TrimPrefix(line, "module "))
		if mp == "" {
			return "", fmt.Errorf("empty module path in %s", goModPath)
		}
		return mp, nil
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("module path not found in %s", goModPath)
}
